package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gic-cinemas/model"
)

const screenLabel = "S C R E E N"

const (
	glyphFree     = "."
	glyphReserved = "o"
	glyphBooked   = "#"
)

// RenderSeatMap draws the theatre as plain text: the screen banner, one line
// per row from the back row down to A, and the column numbers.
func RenderSeatMap(theatre model.Theatre) string {
	return renderSeatMap(theatre, nil)
}

// renderSeatMap lays out the map and lets paint decorate each seat glyph.
// paint must not change the visible width of the glyph.
func renderSeatMap(theatre model.Theatre, paint func(seat model.Seat, glyph string) string) string {
	rows := theatre.Rows
	seatsPerRow := theatre.SeatsPerRow
	if rows <= 0 || seatsPerRow <= 0 {
		return "No seat map data."
	}
	glyphs := seatGlyphs(theatre)

	width := seatMapWidth(seatsPerRow)
	sep := " "
	if seatsPerRow > 10 {
		sep = "  "
	}

	lines := make([]string, 0, rows+3)
	lines = append(lines, centerText(screenLabel, width))
	lines = append(lines, strings.Repeat("-", width))
	for r := rows - 1; r >= 0; r-- {
		letter := byte('A' + r)
		cells := make([]string, seatsPerRow)
		for c := range cells {
			seat := model.Seat{Row: letter, Column: c + 1}
			glyph := glyphs[seat]
			if glyph == "" {
				glyph = glyphFree
			}
			if paint != nil {
				glyph = paint(seat, glyph)
			}
			cells[c] = glyph
		}
		lines = append(lines, string(letter)+" "+strings.Join(cells, sep))
	}

	var footer strings.Builder
	footer.WriteString("  ")
	for n := 1; n <= seatsPerRow; n++ {
		footer.WriteString(strconv.Itoa(n))
		if n < 10 && seatsPerRow > 10 {
			footer.WriteString("  ")
		} else {
			footer.WriteString(" ")
		}
	}
	lines = append(lines, strings.TrimRight(footer.String(), " "))
	return strings.Join(lines, "\n")
}

// seatGlyphs marks every booked or reserved seat. Later bookings win when two
// bookings claim the same seat.
func seatGlyphs(theatre model.Theatre) map[model.Seat]string {
	glyphs := make(map[model.Seat]string)
	for _, booking := range theatre.Bookings {
		glyph := glyphReserved
		if booking.Status == model.StatusBooked {
			glyph = glyphBooked
		}
		for _, seat := range booking.Seats {
			if seat.RowIndex() >= theatre.Rows || seat.Column < 1 || seat.Column > theatre.SeatsPerRow {
				continue
			}
			glyphs[seat] = glyph
		}
	}
	return glyphs
}

func seatMapWidth(seatsPerRow int) int {
	if seatsPerRow > 10 {
		return seatsPerRow*3 + 1
	}
	return seatsPerRow*2 + 2
}

// centerText pads text to width, putting the odd space on the right unless
// width itself is odd.
func centerText(text string, width int) string {
	margin := width - len(text)
	if margin <= 0 {
		return text
	}
	left := margin/2 + (margin & width & 1)
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", margin-left)
}

var (
	seatStyleFree      = lipgloss.NewStyle().Faint(true)
	seatStyleReserved  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	seatStyleBooked    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	seatStyleHighlight = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	screenStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
)

// styledSeatMap is RenderSeatMap with coloured glyphs. Seats of the booking
// named by highlight stand out from the rest.
func styledSeatMap(theatre model.Theatre, highlight string) string {
	marked := make(map[model.Seat]bool)
	if booking, ok := theatre.Booking(highlight); ok {
		for _, seat := range booking.Seats {
			marked[seat] = true
		}
	}
	plain := renderSeatMap(theatre, func(seat model.Seat, glyph string) string {
		switch {
		case marked[seat]:
			return seatStyleHighlight.Render(glyph)
		case glyph == glyphBooked:
			return seatStyleBooked.Render(glyph)
		case glyph == glyphReserved:
			return seatStyleReserved.Render(glyph)
		default:
			return seatStyleFree.Render(glyph)
		}
	})
	head, rest, ok := strings.Cut(plain, "\n")
	if !ok {
		return plain
	}
	return screenStyle.Render(head) + "\n" + rest
}

func seatLegend() string {
	return hint("Legend: " + glyphFree + " free • " + glyphReserved + " reserved • " + glyphBooked + " booked")
}
