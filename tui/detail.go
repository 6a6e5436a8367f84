package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"venuespace-cli/model"
	"venuespace-cli/service"
)

const (
	pickDate = iota
	pickTime
	pickDuration
	pickCount
)

// detailState holds the venue detail pickers. An index of -1 means nothing
// is picked yet.
type detailState struct {
	venue   model.Venue
	loading bool

	dates       []time.Time
	dateIdx     int
	timeIdx     int
	durationIdx int
	focus       int
	image       int
	notice      string
}

func newDetailState(v model.Venue, now time.Time) detailState {
	return detailState{
		venue:       v,
		dates:       service.BookableDates(now),
		dateIdx:     -1,
		timeIdx:     -1,
		durationIdx: -1,
	}
}

func (d detailState) canContinue() bool {
	return d.dateIdx >= 0 && d.timeIdx >= 0 && d.durationIdx >= 0
}

func (d detailState) selection() (model.Selection, bool) {
	if !d.canContinue() {
		return model.Selection{}, false
	}
	sel := model.Selection{
		Venue:    d.venue,
		Date:     d.dates[d.dateIdx],
		Time:     d.venue.AvailableTimes[d.timeIdx],
		Duration: d.venue.Durations[d.durationIdx],
	}
	return sel, sel.Complete()
}

func (d detailState) optionCount(field int) int {
	switch field {
	case pickDate:
		return len(d.dates)
	case pickTime:
		return len(d.venue.AvailableTimes)
	case pickDuration:
		return len(d.venue.Durations)
	}
	return 0
}

func (d *detailState) index(field int) *int {
	switch field {
	case pickDate:
		return &d.dateIdx
	case pickTime:
		return &d.timeIdx
	default:
		return &d.durationIdx
	}
}

// step moves the focused picker by delta, starting from the first option
// when nothing is picked.
func (d *detailState) step(delta int) {
	n := d.optionCount(d.focus)
	if n == 0 {
		return
	}
	idx := d.index(d.focus)
	if *idx < 0 {
		*idx = 0
		return
	}
	*idx = (*idx + delta + n) % n
}

func (m appModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.detail.loading {
		return m, nil, true
	}
	d := &m.detail
	d.notice = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit, true
	case "tab", "down", "j":
		d.focus = (d.focus + 1) % pickCount
	case "shift+tab", "up", "k":
		d.focus = (d.focus + pickCount - 1) % pickCount
	case "right", "l", " ":
		d.step(1)
	case "left", "h":
		d.step(-1)
	case "]":
		if n := len(d.venue.Images); n > 0 {
			d.image = (d.image + 1) % n
		}
	case "[":
		if n := len(d.venue.Images); n > 0 {
			d.image = (d.image + n - 1) % n
		}
	case "enter":
		sel, ok := d.selection()
		if !ok {
			d.notice = "Pick a date, a start time and a duration first."
			return m, nil, true
		}
		return m, navigateCmd("/booking", sel), true
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m appModel) detailView() string {
	d := m.detail
	if d.loading {
		return m.loadingView("Loading venue")
	}
	v := d.venue

	var b strings.Builder
	b.WriteString(accentStyle.Render(v.Name) + "\n")
	b.WriteString(hint(fmt.Sprintf("%s • ★ %.1f (%d reviews) • %s • %s", v.Location, v.Rating, v.Reviews, v.Capacity, v.Type)) + "\n\n")
	if n := len(v.Images); n > 0 {
		b.WriteString(fmt.Sprintf("Photo %d/%d  %s\n\n", d.image+1, n, hint(v.Images[d.image])))
	}
	b.WriteString(v.Description + "\n\n")
	if len(v.Facilities) > 0 {
		b.WriteString("Facilities: " + strings.Join(v.Facilities, ", ") + "\n")
	}
	for _, r := range v.Rules {
		b.WriteString(hint("• "+r) + "\n")
	}
	b.WriteString(fmt.Sprintf("\nHost: %s (%s) • responds %s\n", v.Host.Name, v.Host.Email, v.Host.ResponseTime))
	if v.RefundPolicy != "" {
		b.WriteString(hint("Refunds: "+v.RefundPolicy) + "\n")
	}

	b.WriteString("\n" + titleStyle.Render(v.Price+" / jam") + "\n")
	dates := make([]string, len(d.dates))
	for i, t := range d.dates {
		dates[i] = t.Format("Mon 02 Jan")
	}
	durations := make([]string, len(v.Durations))
	for i, o := range v.Durations {
		durations[i] = o.Label
	}
	b.WriteString(pickerRow("Date", dates, d.dateIdx, d.focus == pickDate) + "\n")
	b.WriteString(pickerRow("Time", v.AvailableTimes, d.timeIdx, d.focus == pickTime) + "\n")
	b.WriteString(pickerRow("Duration", durations, d.durationIdx, d.focus == pickDuration) + "\n\n")

	if d.durationIdx >= 0 {
		total := service.DurationTotal(v.PriceNum, v.Durations[d.durationIdx].PriceMultiplier)
		b.WriteString("Total: " + accentStyle.Render(service.FormatRupiah(total)) + "\n")
	}
	button := lipgloss.NewStyle().Faint(true).Render("[ Book now ]")
	if d.canContinue() {
		button = chipStyle.Render("Book now")
	}
	b.WriteString(button)
	if d.notice != "" {
		b.WriteString("\n" + errorStyle.Render(d.notice))
	}
	return b.String()
}

func pickerRow(label string, options []string, selected int, focused bool) string {
	cursor := "  "
	if focused {
		cursor = accentStyle.Render("> ")
	}
	cells := make([]string, len(options))
	for i, o := range options {
		if i == selected {
			cells[i] = chipStyle.Render(o)
		} else {
			cells[i] = hint(o)
		}
	}
	return fmt.Sprintf("%s%-9s %s", cursor, label, strings.Join(cells, " "))
}
