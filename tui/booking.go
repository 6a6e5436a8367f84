package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"venuespace-cli/booking"
	"venuespace-cli/model"
	"venuespace-cli/service"
)

const (
	fieldName = iota
	fieldEventType
	fieldAttendees
	fieldDescription
	fieldCount
)

type answerRow struct {
	question model.HostQuestion
	option   string
}

type bookingState struct {
	form       *booking.Form
	eventTypes []string
	rows       []answerRow

	cursor    int
	eventType int

	name        textinput.Model
	attendees   textinput.Model
	description textarea.Model
	requests    textarea.Model

	err error
}

func newBookingState(form *booking.Form, eventTypes []string) bookingState {
	b := bookingState{
		form:       form,
		eventTypes: eventTypes,
		eventType:  -1,
	}
	for _, q := range form.Questions {
		for _, opt := range q.Options {
			b.rows = append(b.rows, answerRow{question: q, option: opt})
		}
	}

	b.name = textinput.New()
	b.name.Placeholder = "Full name"
	b.name.CharLimit = 80

	b.attendees = textinput.New()
	b.attendees.Placeholder = "Number of attendees"
	b.attendees.CharLimit = 5
	b.attendees.Validate = func(s string) error {
		if s == "" {
			return nil
		}
		if _, err := strconv.Atoi(s); err != nil {
			return fmt.Errorf("attendees must be a number")
		}
		return nil
	}

	b.description = textarea.New()
	b.description.Placeholder = "Tell the host about your event"
	b.description.SetHeight(3)

	b.requests = textarea.New()
	b.requests.Placeholder = "Anything else the host should prepare?"
	b.requests.SetHeight(3)
	return b
}

// rowCount is the number of cursor positions on the current step.
func (b bookingState) rowCount() int {
	switch b.form.Step {
	case 1:
		return len(b.rows)
	case 2:
		return len(b.form.Catalog) + 1
	default:
		return fieldCount
	}
}

func (b bookingState) onRequests() bool {
	return b.form.Step == 2 && b.cursor == len(b.form.Catalog)
}

func (b *bookingState) move(delta int) {
	n := b.rowCount()
	if n == 0 {
		return
	}
	b.cursor = (b.cursor + delta + n) % n
	b.applyFocus()
}

func (b *bookingState) setStep(step int) {
	b.sync()
	switch {
	case step > b.form.Step:
		b.form.Next()
	case step < b.form.Step:
		b.form.Prev()
	}
	b.cursor = 0
	b.err = nil
	b.applyFocus()
}

func (b *bookingState) applyFocus() {
	b.name.Blur()
	b.attendees.Blur()
	b.description.Blur()
	b.requests.Blur()
	switch {
	case b.onRequests():
		b.requests.Focus()
	case b.form.Step == 3 && b.cursor == fieldName:
		b.name.Focus()
	case b.form.Step == 3 && b.cursor == fieldAttendees:
		b.attendees.Focus()
	case b.form.Step == 3 && b.cursor == fieldDescription:
		b.description.Focus()
	}
}

// sync copies the text inputs into the draft.
func (b *bookingState) sync() {
	d := &b.form.Draft
	d.Name = strings.TrimSpace(b.name.Value())
	d.Attendees, _ = strconv.Atoi(strings.TrimSpace(b.attendees.Value()))
	d.EventDescription = strings.TrimSpace(b.description.Value())
	d.SpecialRequests = strings.TrimSpace(b.requests.Value())
	d.EventType = ""
	if b.eventType >= 0 && b.eventType < len(b.eventTypes) {
		d.EventType = b.eventTypes[b.eventType]
	}
}

func (b *bookingState) pick() {
	switch b.form.Step {
	case 1:
		if b.cursor >= len(b.rows) {
			return
		}
		row := b.rows[b.cursor]
		if row.question.Kind == model.QuestionMulti {
			b.form.ToggleAnswer(row.question.Id, row.option)
		} else {
			b.form.SetAnswer(row.question.Id, row.option)
		}
	case 2:
		if b.cursor < len(b.form.Catalog) {
			b.form.ToggleAddOn(b.form.Catalog[b.cursor].Id)
		}
	}
}

func (b *bookingState) cycleEventType(delta int) {
	n := len(b.eventTypes)
	if n == 0 {
		return
	}
	if b.eventType < 0 {
		b.eventType = 0
		return
	}
	b.eventType = (b.eventType + delta + n) % n
}

func (b *bookingState) updateInputs(msg tea.Msg) tea.Cmd {
	if b.form == nil {
		return nil
	}
	var cmd tea.Cmd
	switch {
	case b.onRequests():
		b.requests, cmd = b.requests.Update(msg)
	case b.form.Step != 3:
	case b.cursor == fieldName:
		b.name, cmd = b.name.Update(msg)
	case b.cursor == fieldAttendees:
		b.attendees, cmd = b.attendees.Update(msg)
	case b.cursor == fieldDescription:
		b.description, cmd = b.description.Update(msg)
	}
	return cmd
}

func (m appModel) handleBookingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	b := &m.form
	if b.form == nil {
		return m, nil, true
	}
	b.err = nil

	switch msg.String() {
	case "ctrl+n":
		b.setStep(b.form.Step + 1)
		return m, nil, true
	case "ctrl+b":
		b.setStep(b.form.Step - 1)
		return m, nil, true
	case "ctrl+s":
		if b.form.Step != booking.LastStep {
			return m, nil, true
		}
		return m.submitBooking()
	case "tab":
		b.move(1)
		return m, nil, true
	case "shift+tab":
		b.move(-1)
		return m, nil, true
	}

	typing := b.onRequests() || (b.form.Step == 3 && b.cursor != fieldEventType)
	if typing {
		// up/down still move between fields unless the textarea is focused
		if !b.onRequests() && b.cursor != fieldDescription {
			switch msg.String() {
			case "up":
				b.move(-1)
				return m, nil, true
			case "down", "enter":
				b.move(1)
				return m, nil, true
			}
		}
		return m, nil, false
	}

	switch msg.String() {
	case "up", "k":
		b.move(-1)
	case "down", "j":
		b.move(1)
	case " ", "enter", "x":
		b.pick()
	case "left", "h":
		if b.form.Step == 3 {
			b.cycleEventType(-1)
		}
	case "right", "l":
		if b.form.Step == 3 {
			b.cycleEventType(1)
		}
	case "q":
		return m, nil, true
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m appModel) submitBooking() (tea.Model, tea.Cmd, bool) {
	b := &m.form
	b.sync()
	email := ""
	if user, ok := m.currentUser(); ok {
		email = user.Email
	}
	sub, err := b.form.Submit(m.deps.Now(), email)
	if err != nil {
		b.err = err
		return m, nil, true
	}
	m.deps.Log.WithField("booking", sub.BookingId).
		WithField("venue", sub.Selection.Venue.Name).
		Info("booking submitted")
	return m, navigateCmd("/booking-status", sub), true
}

func (m appModel) bookingView() string {
	b := m.form
	if b.form == nil {
		return ""
	}
	sel := b.form.Selection

	var s strings.Builder
	s.WriteString(accentStyle.Render(sel.Venue.Name) + "\n")
	s.WriteString(hint(fmt.Sprintf("%s • %s • %s", service.FormatLongDate(sel.Date), sel.Time, sel.Duration.Label)) + "\n\n")

	steps := make([]string, 0, booking.LastStep)
	for i := booking.FirstStep; i <= booking.LastStep; i++ {
		label := fmt.Sprintf("%d. %s", i, booking.StepTitles[i])
		if i == b.form.Step {
			steps = append(steps, chipStyle.Render(label))
		} else {
			steps = append(steps, hint(label))
		}
	}
	s.WriteString(strings.Join(steps, "  ") + "\n\n")

	switch b.form.Step {
	case 1:
		s.WriteString(b.questionsView())
	case 2:
		s.WriteString(b.addOnsView())
	default:
		s.WriteString(b.detailsView())
	}

	q := b.form.Quote()
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Venue %s", service.FormatRupiah(q.Subtotal)))
	if q.AddOns > 0 {
		s.WriteString(fmt.Sprintf(" + add-ons %s", service.FormatRupiah(q.AddOns)))
	}
	s.WriteString("  Total " + accentStyle.Render(service.FormatRupiah(q.Total)))
	if b.form.Step == booking.LastStep {
		s.WriteString("\n" + hint("Press ctrl+s to send the request to the host."))
	}
	if b.err != nil {
		s.WriteString("\n\n" + errorStyle.Render(b.err.Error()))
	}
	return s.String()
}

func (b bookingState) questionsView() string {
	var s strings.Builder
	last := ""
	for i, row := range b.rows {
		if row.question.Id != last {
			if last != "" {
				s.WriteString("\n")
			}
			title := row.question.Question
			if row.question.Required {
				title += " *"
			}
			s.WriteString(title + "\n")
			last = row.question.Id
		}
		mark := "( )"
		if row.question.Kind == model.QuestionMulti {
			mark = "[ ]"
		}
		if b.form.Picked(row.question.Id, row.option) {
			mark = strings.Replace(mark, " ", "x", 1)
		}
		s.WriteString(cursorLine(i == b.cursor, mark+" "+row.option) + "\n")
	}
	return strings.TrimRight(s.String(), "\n")
}

func (b bookingState) addOnsView() string {
	var s strings.Builder
	s.WriteString("Add-ons\n")
	for i, a := range b.form.Catalog {
		mark := "[ ]"
		if b.form.HasAddOn(a.Id) {
			mark = "[x]"
		}
		s.WriteString(cursorLine(i == b.cursor, fmt.Sprintf("%s %s  %s", mark, a.Name, hint("+"+service.FormatRupiah(a.Price)))) + "\n")
	}
	s.WriteString("\nSpecial requests\n")
	s.WriteString(b.requests.View())
	return s.String()
}

func (b bookingState) detailsView() string {
	eventType := hint("← choose →")
	if b.eventType >= 0 && b.eventType < len(b.eventTypes) {
		eventType = "‹ " + b.eventTypes[b.eventType] + " ›"
	}
	rows := []string{
		cursorLine(b.cursor == fieldName, "Name        "+b.name.View()),
		cursorLine(b.cursor == fieldEventType, "Event type  "+eventType),
		cursorLine(b.cursor == fieldAttendees, "Attendees   "+b.attendees.View()),
		cursorLine(b.cursor == fieldDescription, "Description"),
		b.description.View(),
	}
	return strings.Join(rows, "\n")
}

func cursorLine(active bool, text string) string {
	if active {
		return accentStyle.Render("> ") + text
	}
	return "  " + text
}
