package seating

import (
	"gic-cinemas/model"
)

// ContiguousPolicy prefers to keep the group in one unbroken block. The first
// row (from the screen back) that has a free block of the requested size wins
// and the most central block in that row is used. Without any such block it
// falls back to the most central seats of each row in turn.
type ContiguousPolicy struct{}

func (ContiguousPolicy) Name() string { return PolicyAdvanced }

func (ContiguousPolicy) Assign(grid Grid, bookings []model.Booking, tickets int) []model.Seat {
	if tickets <= 0 {
		return nil
	}
	occupied := OccupiedSeats(bookings)
	for _, letter := range grid.RowLetters() {
		if block := bestBlock(grid.FreeSeats(letter, occupied), grid.SeatsPerRow, tickets); block != nil {
			return block
		}
	}

	assigned := make([]model.Seat, 0, tickets)
	for _, letter := range grid.RowLetters() {
		need := tickets - len(assigned)
		if need <= 0 {
			break
		}
		assigned = append(assigned, RankByCentrality(grid.FreeSeats(letter, occupied), grid.SeatsPerRow, need)...)
	}
	return assigned
}

// ContiguousBlocks splits free seats of one row, given left to right, into
// runs of adjacent columns.
func ContiguousBlocks(free []model.Seat) [][]model.Seat {
	var blocks [][]model.Seat
	var block []model.Seat
	for _, seat := range free {
		if len(block) > 0 && seat.Column != block[len(block)-1].Column+1 {
			blocks = append(blocks, block)
			block = nil
		}
		block = append(block, seat)
	}
	if len(block) > 0 {
		blocks = append(blocks, block)
	}
	return blocks
}

// bestBlock picks the window of size seats whose summed distance to the row
// center is smallest; ties go to the window further right.
func bestBlock(free []model.Seat, seatsPerRow int, size int) []model.Seat {
	center := RowCenter(seatsPerRow)
	var best []model.Seat
	bestScore := -1
	for _, block := range ContiguousBlocks(free) {
		for start := 0; start+size <= len(block); start++ {
			window := block[start : start+size]
			score := 0
			for _, seat := range window {
				score += abs(seat.Column - center)
			}
			if best == nil || score < bestScore || (score == bestScore && window[0].Column > best[0].Column) {
				best = window
				bestScore = score
			}
		}
	}
	if best == nil {
		return nil
	}
	return append([]model.Seat(nil), best...)
}
