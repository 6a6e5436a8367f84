package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"venuespace-cli/booking"
	"venuespace-cli/model"
	"venuespace-cli/service"
)

type statusState struct {
	runner   *booking.Runner
	sub      model.Submission
	record   booking.Record
	progress progress.Model
	paying   bool
	err      error
}

// recordMsg carries the runner it came from so records from a runner that
// was replaced or stopped are dropped.
type recordMsg struct {
	runner *booking.Runner
	record booking.Record
	closed bool
}

type payMsg struct {
	runner *booking.Runner
	err    error
}

func waitForRecord(r *booking.Runner) tea.Cmd {
	return func() tea.Msg {
		rec, ok := <-r.Updates()
		return recordMsg{runner: r, record: rec, closed: !ok}
	}
}

func payCmd(r *booking.Runner) tea.Cmd {
	return func() tea.Msg {
		return payMsg{runner: r, err: r.Pay(context.Background())}
	}
}

func (m appModel) startStatus(sub model.Submission) (tea.Model, tea.Cmd) {
	r := booking.NewRunner(sub, booking.Options{
		Windows:   m.deps.Windows,
		Scheduler: m.deps.Scheduler,
		Gateways:  m.deps.Gateways,
		Audit:     m.deps.Audit,
		Log:       m.deps.Log,
		Now:       m.deps.Now,
	})
	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40
	m.status = statusState{runner: r, sub: sub, progress: p}
	r.Start()
	m.status.record = r.Snapshot()
	return m, waitForRecord(r)
}

func (m *appModel) stopRunner() {
	if m.status.runner != nil {
		m.status.runner.Stop()
		m.status.runner = nil
	}
}

func (m appModel) handleRecord(msg recordMsg) (tea.Model, tea.Cmd) {
	if msg.runner == nil || msg.runner != m.status.runner || msg.closed {
		return m, nil
	}
	m.status.record = msg.record
	return m, waitForRecord(msg.runner)
}

func (m appModel) handlePay(msg payMsg) (tea.Model, tea.Cmd) {
	if msg.runner != m.status.runner {
		return m, nil
	}
	m.status.paying = false
	if msg.err != nil && !errors.Is(msg.err, booking.ErrStale) {
		m.status.err = msg.err
	}
	return m, nil
}

func (m appModel) handleStatusKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	s := &m.status
	if s.runner == nil {
		return m, nil, true
	}
	s.err = nil
	switch msg.String() {
	case "q":
		m.stopRunner()
		return m, tea.Quit, true
	case "r":
		s.err = s.runner.Resubmit()
	case "c":
		s.err = s.runner.Cancel()
	case "p":
		if s.record.Status != booking.StatusPaymentRequired || s.paying {
			return m, nil, true
		}
		s.paying = true
		return m, payCmd(s.runner), true
	case "enter":
		if s.record.Status.Terminal() {
			return m, navigateCmd("/catalog", nil), true
		}
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m appModel) statusView() string {
	s := m.status
	rec := s.record
	sel := s.sub.Selection

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Booking %s\n", accentStyle.Render(s.sub.BookingId)))
	b.WriteString(hint(fmt.Sprintf("%s • %s • %s • %s", sel.Venue.Name, service.FormatLongDate(sel.Date), sel.Time, sel.Duration.Label)) + "\n\n")

	b.WriteString(chipStyle.Render(rec.Status.Label()) + "\n")
	b.WriteString(s.progress.ViewAs(float64(rec.Status.Progress())/100) + "\n\n")

	switch rec.Status {
	case booking.StatusPending:
		b.WriteString("Waiting for the host to confirm. Time left: " + accentStyle.Render(service.FormatCountdown(rec.ConfirmationLeft)) + "\n")
		b.WriteString(hint("r resubmit • c cancel request"))
	case booking.StatusConfirmed:
		b.WriteString("The host accepted your request. Preparing payment...")
	case booking.StatusPaymentRequired:
		b.WriteString(fmt.Sprintf("Pay %s within %s\n",
			accentStyle.Render(service.FormatRupiah(s.sub.Quote.Total)),
			accentStyle.Render(service.FormatCountdown(rec.PaymentLeft))))
		if s.paying {
			b.WriteString(hint("Processing payment..."))
		} else {
			b.WriteString(hint("p pay now • r resubmit"))
		}
	case booking.StatusCompleted:
		b.WriteString("Booking complete. See you there!\n")
		if s.runner != nil {
			if receipt := s.runner.Receipt(); receipt != "" {
				b.WriteString(hint("Receipt "+receipt) + "\n")
			}
		}
		b.WriteString(hint("enter back to catalog • r book again"))
	case booking.StatusExpired:
		b.WriteString("The request ran out of time.\n")
		b.WriteString(hint("r resubmit • enter back to catalog"))
	case booking.StatusCancelled:
		b.WriteString("The request was cancelled.\n")
		b.WriteString(hint("r resubmit • enter back to catalog"))
	}

	if rec.Notice != "" {
		b.WriteString("\n\n" + errorStyle.Render(rec.Notice))
	}
	if s.err != nil {
		b.WriteString("\n\n" + errorStyle.Render(s.err.Error()))
	}

	if len(rec.History) > 0 {
		b.WriteString("\n\n" + hint("History") + "\n")
		for _, c := range rec.History {
			from := string(c.From)
			if from == "" {
				from = "new"
			}
			b.WriteString(hint(fmt.Sprintf("%s  %s → %s (%s)", c.At.Format("15:04:05"), from, c.To, c.Event)) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
