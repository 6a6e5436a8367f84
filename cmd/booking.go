package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"venuespace-cli/booking"
	"venuespace-cli/model"
	"venuespace-cli/service"
)

type simulateOptions struct {
	venueID   int
	hours     int
	attendees int
	name      string
	pay       bool
	decline   bool
	timeout   time.Duration
}

func newSimulateCmd() *cobra.Command {
	var opts simulateOptions
	c := &cobra.Command{
		Use:   "simulate",
		Short: "Run a booking through its lifecycle without the TUI",
		Long: `Submit a booking for a venue and print each status change until it
completes, expires, is declined or the timeout passes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if opts.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, opts.timeout)
				defer cancel()
			}
			if !cmd.Flags().Changed("name") {
				if user, ok := a.session.CurrentUser(); ok {
					opts.name = user.Name
				}
			}
			return a.simulate(ctx, cmd.OutOrStdout(), opts)
		},
	}
	c.Flags().IntVar(&opts.venueID, "venue", 1, "venue id")
	c.Flags().IntVar(&opts.hours, "hours", 2, "booking duration in hours")
	c.Flags().IntVar(&opts.attendees, "attendees", 10, "number of attendees")
	c.Flags().StringVar(&opts.name, "name", "Demo Guest", "guest name on the booking")
	c.Flags().BoolVar(&opts.pay, "pay", false, "pay as soon as payment is requested")
	c.Flags().BoolVar(&opts.decline, "decline", false, "have the host decline the request")
	c.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Minute, "give up after this long (0 waits forever)")
	return c
}

func (a *app) buildSubmission(ctx context.Context, opts simulateOptions, now time.Time) (model.Submission, error) {
	venue, err := a.client.GetVenue(ctx, opts.venueID)
	if err != nil {
		return model.Submission{}, err
	}
	duration, ok := venue.Duration(opts.hours)
	if !ok {
		return model.Submission{}, fmt.Errorf("%w: %s cannot be booked for %d hours", errUsage, venue.Name, opts.hours)
	}
	if len(venue.AvailableTimes) == 0 {
		return model.Submission{}, fmt.Errorf("%s has no available times", venue.Name)
	}

	sel := model.Selection{
		Venue:    venue,
		Date:     service.TruncateDate(now),
		Time:     venue.AvailableTimes[0],
		Duration: duration,
	}
	form := booking.NewForm(sel, a.client.HostQuestions(), a.client.AddOns())
	for _, q := range form.Questions {
		if q.Required && len(q.Options) > 0 {
			form.SetAnswer(q.Id, q.Options[0])
		}
	}
	form.Draft.Name = opts.name
	form.Draft.Attendees = opts.attendees
	if types := a.client.EventTypes(); len(types) > 0 {
		form.Draft.EventType = types[0]
	}

	for form.Step < booking.LastStep {
		form.Next()
	}

	email := ""
	if user, ok := a.session.CurrentUser(); ok {
		email = user.Email
	}
	return form.Submit(now, email)
}

func (a *app) simulate(ctx context.Context, out io.Writer, opts simulateOptions) error {
	sub, err := a.buildSubmission(ctx, opts, time.Now())
	if err != nil {
		return err
	}

	gw := a.cfg.Gateways(a.log)
	if opts.decline {
		gw.Host = &booking.SimulatedHost{Delay: a.cfg.Windows.HostResponse, Decline: true}
	}
	runnerOpts := booking.Options{
		Windows:  a.cfg.BookingWindows(),
		Gateways: gw,
		Log:      a.log,
	}
	if a.audit != nil {
		runnerOpts.Audit = a.audit
	}
	r := booking.NewRunner(sub, runnerOpts)
	defer func() {
		r.Stop()
		flushCtx, cancel := context.WithTimeout(context.Background(), booking.NotifyTimeout)
		defer cancel()
		if err := r.Flush(flushCtx); err != nil {
			a.log.WithError(err).Warn("notifications still pending at exit")
		}
	}()

	fmt.Fprintf(out, "Booking %s: %s, %s %s, %s, total %s\n",
		sub.BookingId, sub.Selection.Venue.Name, service.FormatLongDate(sub.Selection.Date),
		sub.Selection.Time, sub.Selection.Duration.Label, service.FormatRupiah(sub.Quote.Total))
	r.Start()
	return watch(ctx, out, r, opts.pay)
}

// watch prints status changes and notices until the booking settles.
func watch(ctx context.Context, out io.Writer, r *booking.Runner, pay bool) error {
	var last booking.Status
	var lastNotice string
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("booking still %s when the timeout passed", last)
			}
			fmt.Fprintf(out, "Stopped while %s.\n", last)
			return nil

		case rec, ok := <-r.Updates():
			if !ok {
				return nil
			}
			if rec.Status != last {
				fmt.Fprintln(out, formatRecord(rec))
			}
			if rec.Notice != "" && rec.Notice != lastNotice {
				fmt.Fprintln(out, "  ! "+rec.Notice)
			}
			lastNotice = rec.Notice

			if pay && rec.Status == booking.StatusPaymentRequired && last != booking.StatusPaymentRequired {
				if err := r.Pay(ctx); err != nil {
					fmt.Fprintf(out, "  ! payment failed: %v\n", err)
				}
			}
			last = rec.Status

			if rec.Status.Terminal() {
				if receipt := r.Receipt(); receipt != "" {
					fmt.Fprintf(out, "Receipt %s\n", receipt)
				}
				return nil
			}
		}
	}
}

func formatRecord(rec booking.Record) string {
	line := fmt.Sprintf("%s  %-17s %3d%%  %s", time.Now().Format(time.TimeOnly), rec.Status, rec.Status.Progress(), rec.Status.Label())
	switch rec.Status {
	case booking.StatusPending:
		line += "  (" + service.FormatCountdown(rec.ConfirmationLeft) + " left)"
	case booking.StatusPaymentRequired:
		line += "  (" + service.FormatCountdown(rec.PaymentLeft) + " to pay)"
	}
	return line
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [BOOKING_ID]",
		Short: "Show recorded booking status changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.audit == nil {
				return errors.New("the audit log is disabled in the config")
			}

			bookingID := ""
			if len(args) == 1 {
				bookingID = strings.ToUpper(strings.TrimSpace(args[0]))
			}
			entries, err := a.audit.List(cmd.Context(), bookingID)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No status changes recorded yet.")
				return nil
			}

			rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Booking", "Time", "From", "To", "Event"}, rowConfigAutoMerge)
			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: 1, AutoMerge: true},
			})
			t.Style().Options.SeparateRows = true
			for _, e := range entries {
				from := string(e.From)
				if from == "" {
					from = "-"
				}
				t.AppendRow(table.Row{e.BookingID, e.At.Local().Format(time.DateTime), from, e.To, e.Event}, rowConfigAutoMerge)
			}
			t.Render()
			return nil
		},
	}
}
