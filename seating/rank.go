package seating

import (
	"slices"

	"gic-cinemas/model"
)

// RowCenter is the column that anchors centrality scoring. For even rows it
// is the left of the two middle seats.
func RowCenter(seatsPerRow int) int {
	if seatsPerRow%2 == 0 {
		return seatsPerRow / 2
	}
	return (seatsPerRow + 1) / 2
}

// centerDistance returns twice the distance of column from the row's middle so
// the half-seat reference point of even rows stays an integer.
func centerDistance(column int, seatsPerRow int) int {
	center := RowCenter(seatsPerRow)
	if seatsPerRow%2 == 0 {
		if column == center || column == center+1 {
			return 0
		}
		return abs(2*column - (seatsPerRow + 1))
	}
	return 2 * abs(column-center)
}

// RankByCentrality orders seats of a single row most central first, breaking
// ties by the higher column. A positive limit truncates the result. Mixing
// rows is allowed but the order is only meaningful within one row.
func RankByCentrality(seats []model.Seat, seatsPerRow int, limit int) []model.Seat {
	if len(seats) == 0 {
		return nil
	}
	ranked := slices.Clone(seats)
	slices.SortStableFunc(ranked, func(a, b model.Seat) int {
		da, db := centerDistance(a.Column, seatsPerRow), centerDistance(b.Column, seatsPerRow)
		if da != db {
			return da - db
		}
		if a.Column != b.Column {
			return b.Column - a.Column
		}
		return int(a.Row) - int(b.Row)
	})
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
