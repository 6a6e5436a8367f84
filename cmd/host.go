package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"venuespace-cli/model"
	"venuespace-cli/service"
)

func newHostCmd() *cobra.Command {
	var section string
	c := &cobra.Command{
		Use:   "host",
		Short: "Show the host dashboard",
		Long:  `Show revenue, bookings and venue figures for the signed-in host.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			if user, ok := a.session.CurrentUser(); ok && user.Role != model.RoleHost {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s is signed in as a guest; showing the demo host dashboard.\n", user.Email)
			}

			dash, err := a.client.GetDashboard(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			renderStats(out, dash.Stats)
			switch section {
			case "venues":
				renderHostVenues(out, dash.Venues)
			case "bookings":
				renderHostBookings(out, dash.Bookings)
			case "transactions":
				renderTransactions(out, dash.Transactions)
			case "all", "":
				renderHostVenues(out, dash.Venues)
				renderHostBookings(out, dash.Bookings)
				renderTransactions(out, dash.Transactions)
			default:
				return fmt.Errorf("%w: unknown section %q (want venues, bookings, transactions or all)", errUsage, section)
			}
			return nil
		},
	}
	c.Flags().StringVar(&section, "show", "all", "venues, bookings, transactions or all")
	return c
}

func renderStats(out io.Writer, st service.DashboardStats) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Revenue", "Bookings", "Active venues", "Drafts", "Rating", "Pending", "Ongoing", "Completed", "Refunded"})
	t.AppendRow(table.Row{
		service.FormatMillions(st.TotalRevenue), st.TotalBookings, st.ActiveVenues, st.DraftVenues,
		fmt.Sprintf("%.1f", st.AverageRating), st.Pending, st.Ongoing, st.Completed, st.Refunded,
	})
	t.Render()
}

func renderHostVenues(out io.Writer, venues []model.HostVenueSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("Venues")
	t.AppendHeader(table.Row{"#", "Venue", "Location", "Capacity", "Price", "Rating", "Bookings", "Revenue", "Status"})
	for _, v := range venues {
		t.AppendRow(table.Row{v.Id, v.Name, v.Location, v.Capacity, service.FormatRupiah(v.Price), fmt.Sprintf("%.1f", v.Rating), v.TotalBookings, service.FormatRupiah(v.Revenue), v.Status})
	}
	t.Render()
}

func renderHostBookings(out io.Writer, bookings []model.BookingListing) {
	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("Bookings")
	t.AppendHeader(table.Row{"Venue", "Booking", "Guest", "Date", "Time", "Guests", "Amount", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true, WidthMax: 24},
	})
	t.Style().Options.SeparateRows = true
	for _, b := range bookings {
		t.AppendRow(table.Row{b.VenueName, b.Id, b.CustomerName, b.Date, b.Time, b.Attendees, service.FormatRupiah(b.Amount), b.Status}, rowConfigAutoMerge)
	}
	t.Render()
}

func renderTransactions(out io.Writer, txs []model.TransactionRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("Transactions")
	t.AppendHeader(table.Row{"Transaction", "Booking", "Amount", "Commission", "Net", "Date", "Status"})
	var net int64
	for _, tx := range txs {
		net += tx.NetAmount
		t.AppendRow(table.Row{tx.Id, tx.BookingId, service.FormatRupiah(tx.Amount), service.FormatRupiah(tx.Commission), service.FormatRupiah(tx.NetAmount), tx.Date, tx.Status})
	}
	t.AppendFooter(table.Row{"", "", "", "Net", service.FormatRupiah(net), "", ""})
	t.Render()
}
