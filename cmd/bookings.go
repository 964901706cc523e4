package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"gic-cinemas/model"
	"gic-cinemas/service"
)

func newBookingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bookings",
		Short: "List the bookings of the saved movie",
		Long:  `Print every booking of the saved movie with its status and seats.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			theatre, ok, err := e.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No movie defined yet. Run gic to create one.")
				return nil
			}
			renderBookings(cmd.OutOrStdout(), theatre)
			return nil
		},
	}
}

func renderBookings(out io.Writer, theatre model.Theatre) {
	fmt.Fprintf(out, "%s (%d seats available)\n", theatre.Title, service.AvailableSeats(theatre))
	if len(theatre.Bookings) == 0 {
		fmt.Fprintln(out, "There are currently no bookings.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Booking ID", "Status", "Seats", "Positions"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, WidthMax: 60},
	})
	t.Style().Options.SeparateRows = true
	for _, booking := range theatre.Bookings {
		t.AppendRow(table.Row{
			booking.ID,
			booking.Status.String(),
			len(booking.Seats),
			strings.Join(model.SeatLabels(booking.Seats), ", "),
		})
	}
	t.AppendFooter(table.Row{"", "Total", totalSeats(theatre.Bookings), ""})
	t.Render()
}

func totalSeats(bookings []model.Booking) int {
	n := 0
	for _, booking := range bookings {
		n += len(booking.Seats)
	}
	return n
}
