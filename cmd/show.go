package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"gic-cinemas/model"
	"gic-cinemas/service"
	"gic-cinemas/tui"
)

func newShowCmd() *cobra.Command {
	var pick bool
	cmd := &cobra.Command{
		Use:   "show [booking-id]",
		Short: "Print the seat map",
		Long:  `Print the seat map of the saved movie. With a booking ID its seats are shown as "o".`,
		Args:  cobra.MaximumNArgs(1),
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

			id := ""
			if len(args) == 1 {
				id = args[0]
			} else if pick {
				if id, err = promptSelectBooking(theatre.Bookings); err != nil {
					return err
				}
			}
			return showSeatMap(cmd.OutOrStdout(), service.NewBooker(nil, e.log), theatre, id)
		},
	}
	cmd.Flags().BoolVarP(&pick, "pick", "p", false, "choose the booking to highlight from a list")
	return cmd
}

// showSeatMap prints the map, highlighting booking id when given. Looking a
// booking up never changes the saved ledger.
func showSeatMap(out io.Writer, booker *service.Booker, theatre model.Theatre, id string) error {
	display := theatre
	if id != "" {
		var err error
		if display, _, err = booker.View(theatre, id); err != nil {
			if errors.Is(err, service.ErrBookingNotFound) {
				return fmt.Errorf("booking ID '%s' not found", id)
			}
			return err
		}
		fmt.Fprintf(out, "Booking ID: %s\n", id)
	}
	fmt.Fprintf(out, "Selected seats:\n\n%s\n", tui.RenderSeatMap(display))
	return nil
}

func promptSelectBooking(bookings []model.Booking) (string, error) {
	if len(bookings) == 0 {
		return "", errors.New("there are currently no bookings")
	}
	ids := make([]string, len(bookings))
	for i, booking := range bookings {
		ids[i] = booking.ID
	}
	selectBooking := promptui.Select{
		Label: "Select Booking",
		Items: ids,
		Size:  10,
	}
	_, id, err := selectBooking.Run()
	if err != nil {
		return "", err
	}
	return id, nil
}
