package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jedib0t/go-pretty/v6/table"

	"venuespace-cli/model"
	"venuespace-cli/service"
	"venuespace-cli/store"
)

var hostTabs = []string{"Venues", "Bookings", "Transactions"}

type hostState struct {
	dashboard service.Dashboard
	loaded    bool
	tab       int
	period    service.DashboardPeriod
}

func (m appModel) handleHostKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if !m.host.loaded {
		return m, nil, true
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit, true
	case "tab", "right", "l":
		m.host.tab = (m.host.tab + 1) % len(hostTabs)
	case "shift+tab", "left", "h":
		m.host.tab = (m.host.tab + len(hostTabs) - 1) % len(hostTabs)
	case "p":
		m.host.period = service.Cycle(service.DashboardPeriods, m.host.period)
		if m.host.period == "" {
			m.host.period = service.DashboardPeriods[0]
		}
	case "n":
		return m, navigateCmd("/form-host", nil), true
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m appModel) hostView() string {
	if !m.host.loaded {
		return m.loadingView("Loading dashboard")
	}
	h := m.host
	period := h.period
	if period == "" {
		period = service.DashboardPeriods[0]
	}
	st := h.dashboard.Stats

	stats := []string{
		chipStyle.Render("Revenue " + service.FormatMillions(st.TotalRevenue)),
		chipStyle.Render(fmt.Sprintf("Bookings %d", st.TotalBookings)),
		chipStyle.Render(fmt.Sprintf("Active venues %d", st.ActiveVenues)),
		chipStyle.Render(fmt.Sprintf("Rating %.1f", st.AverageRating)),
	}
	counts := hint(fmt.Sprintf("pending %d • ongoing %d • completed %d • refunded %d • drafts %d • period %s",
		st.Pending, st.Ongoing, st.Completed, st.Refunded, st.DraftVenues, period))

	tabs := make([]string, len(hostTabs))
	for i, t := range hostTabs {
		if i == h.tab {
			tabs[i] = accentStyle.Render("[" + t + "]")
		} else {
			tabs[i] = hint(" " + t + " ")
		}
	}

	var body string
	switch h.tab {
	case 0:
		body = VenueTable(h.dashboard.Venues)
	case 1:
		body = BookingTable(h.dashboard.Bookings)
	default:
		body = TransactionTable(h.dashboard.Transactions)
	}
	return strings.Join(stats, " ") + "\n" + counts + "\n\n" + strings.Join(tabs, " ") + "\n\n" + body
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	return t
}

// VenueTable renders the host's venues.
func VenueTable(venues []model.HostVenueSummary) string {
	t := newTable()
	t.AppendHeader(table.Row{"#", "Venue", "Location", "Capacity", "Price", "Rating", "Bookings", "Revenue", "Status"})
	for _, v := range venues {
		t.AppendRow(table.Row{v.Id, v.Name, v.Location, v.Capacity, service.FormatRupiah(v.Price), fmt.Sprintf("%.1f", v.Rating), v.TotalBookings, service.FormatRupiah(v.Revenue), v.Status})
	}
	return t.Render()
}

func BookingTable(bookings []model.BookingListing) string {
	t := newTable()
	t.AppendHeader(table.Row{"Booking", "Venue", "Guest", "Date", "Time", "Guests", "Amount", "Status"})
	for _, b := range bookings {
		t.AppendRow(table.Row{b.Id, b.VenueName, b.CustomerName, b.Date, b.Time, b.Attendees, service.FormatRupiah(b.Amount), b.Status})
	}
	return t.Render()
}

func TransactionTable(txs []model.TransactionRecord) string {
	t := newTable()
	t.AppendHeader(table.Row{"Transaction", "Booking", "Amount", "Commission", "Net", "Date", "Status"})
	for _, tx := range txs {
		t.AppendRow(table.Row{tx.Id, tx.BookingId, service.FormatRupiah(tx.Amount), service.FormatRupiah(tx.Commission), service.FormatRupiah(tx.NetAmount), tx.Date, tx.Status})
	}
	return t.Render()
}

const (
	hostFieldName = iota
	hostFieldCity
	hostFieldCapacity
	hostFieldPrice
	hostFieldCount
)

type hostFormState struct {
	inputs [hostFieldCount]textinput.Model
	focus  int
	err    error
}

func newHostFormState() hostFormState {
	var f hostFormState
	placeholders := [hostFieldCount]string{"Venue name", "City", "Capacity, e.g. 20-50 orang", "Price per hour"}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 80
		f.inputs[i] = in
	}
	f.inputs[hostFieldName].Focus()
	return f
}

func (f *hostFormState) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (f *hostFormState) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + hostFieldCount) % hostFieldCount
	f.inputs[f.focus].Focus()
}

func (f *hostFormState) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f hostFormState) form() service.HostVenueForm {
	return service.HostVenueForm{
		Name:     f.inputs[hostFieldName].Value(),
		City:     f.inputs[hostFieldCity].Value(),
		Capacity: f.inputs[hostFieldCapacity].Value(),
		Price:    parsePrice(f.inputs[hostFieldPrice].Value()),
	}
}

// parsePrice accepts "1500000", "1.500.000" or "Rp 1.500.000". Anything
// else yields 0.
func parsePrice(raw string) int64 {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Rp"))
	raw = strings.NewReplacer(".", "", ",", "", " ", "").Replace(raw)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (m appModel) handleHostFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	f := &m.hostForm
	f.err = nil
	switch msg.String() {
	case "tab", "down":
		f.move(1)
	case "shift+tab", "up":
		f.move(-1)
	case "enter":
		if f.focus < hostFieldCount-1 {
			f.move(1)
			return m, nil, true
		}
		return m.saveHostVenue()
	case "ctrl+s":
		return m.saveHostVenue()
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m appModel) saveHostVenue() (tea.Model, tea.Cmd, bool) {
	venue, err := m.deps.Client.AddHostVenue(context.Background(), m.hostForm.form())
	if err != nil {
		m.hostForm.err = err
		return m, nil, true
	}
	if err := store.SaveHostVenues(m.deps.Client.RegisteredVenues()); err != nil {
		m.deps.Log.WithError(err).Warn("could not persist host venues")
	}
	m.deps.Log.WithField("venue", venue.Name).Info("host venue listed")
	return m, navigateCmd("/host-dashboard", nil), true
}

func (m appModel) hostFormView() string {
	f := m.hostForm
	labels := [hostFieldCount]string{"Name", "City", "Capacity", "Price"}
	rows := make([]string, 0, hostFieldCount+2)
	for i, in := range f.inputs {
		rows = append(rows, cursorLine(i == f.focus, fmt.Sprintf("%-9s %s", labels[i], in.View())))
	}
	rows = append(rows, "", hint("New venues start as drafts on your dashboard."))
	if f.err != nil {
		rows = append(rows, "", errorStyle.Render(f.err.Error()))
	}
	return strings.Join(rows, "\n")
}
