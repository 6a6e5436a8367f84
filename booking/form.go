package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"venuespace-cli/model"
	"venuespace-cli/service"
)

const (
	FirstStep = 1
	LastStep  = 3

	// MultiSeparator joins the options picked for a multi-choice question.
	MultiSeparator = ","
)

var StepTitles = map[int]string{
	1: "Host questions",
	2: "Add-ons & requests",
	3: "Your details",
}

// Form is the three-step booking form for one selection.
type Form struct {
	Step      int
	Selection model.Selection
	Questions []model.HostQuestion
	Catalog   []model.AddOn
	Draft     model.BookingDraft
}

func NewForm(sel model.Selection, questions []model.HostQuestion, catalog []model.AddOn) *Form {
	return &Form{
		Step:      FirstStep,
		Selection: sel,
		Questions: questions,
		Catalog:   catalog,
		Draft: model.BookingDraft{
			HostAnswers: make(map[string]string),
		},
	}
}

func (f *Form) Next() {
	if f.Step < LastStep {
		f.Step++
	}
}

func (f *Form) Prev() {
	if f.Step > FirstStep {
		f.Step--
	}
}

func (f *Form) Answer(questionID string) string {
	return f.Draft.HostAnswers[questionID]
}

// SetAnswer records the option picked for a single-choice question.
func (f *Form) SetAnswer(questionID, answer string) {
	if f.Draft.HostAnswers == nil {
		f.Draft.HostAnswers = make(map[string]string)
	}
	f.Draft.HostAnswers[questionID] = answer
}

// ToggleAnswer adds option to, or removes it from, a multi-choice answer.
func (f *Form) ToggleAnswer(questionID, option string) {
	f.SetAnswer(questionID, ToggleEncoded(f.Answer(questionID), option))
}

// Picked reports whether option is part of the answer to questionID.
func (f *Form) Picked(questionID, option string) bool {
	for _, p := range SplitEncoded(f.Answer(questionID)) {
		if p == option {
			return true
		}
	}
	return false
}

func (f *Form) ToggleAddOn(id string) {
	for i, existing := range f.Draft.AddOns {
		if existing == id {
			f.Draft.AddOns = append(f.Draft.AddOns[:i:i], f.Draft.AddOns[i+1:]...)
			return
		}
	}
	f.Draft.AddOns = append(f.Draft.AddOns, id)
}

func (f *Form) HasAddOn(id string) bool {
	for _, existing := range f.Draft.AddOns {
		if existing == id {
			return true
		}
	}
	return false
}

func (f *Form) Quote() model.Quote {
	return service.Quote(f.Selection.Venue, f.Selection.Duration.Hours, f.Draft.AddOns, f.Catalog)
}

// Validate returns the first problem found: contact details first, then
// required host questions in the order they are listed.
func (f *Form) Validate() error {
	if err := service.ValidateStruct(f.Draft); err != nil {
		return err
	}
	for _, q := range f.Questions {
		if q.Required && strings.TrimSpace(f.Answer(q.Id)) == "" {
			return &service.ValidationError{Field: q.Id, Message: "please answer: " + q.Question}
		}
	}
	return nil
}

// Submit validates the form and builds the submission handed to the status
// screen. It is only allowed from the last step.
func (f *Form) Submit(now time.Time, contactEmail string) (model.Submission, error) {
	if f.Step != LastStep {
		return model.Submission{}, &service.ValidationError{
			Field:   "step",
			Message: fmt.Sprintf("finish step %d of %d before submitting", f.Step, LastStep),
		}
	}
	if err := f.Validate(); err != nil {
		return model.Submission{}, err
	}

	answers := make(map[string]string, len(f.Draft.HostAnswers))
	for k, v := range f.Draft.HostAnswers {
		answers[k] = v
	}
	draft := f.Draft
	draft.HostAnswers = answers
	draft.AddOns = append([]string(nil), f.Draft.AddOns...)

	return model.Submission{
		BookingId:    NewBookingID(),
		Selection:    f.Selection,
		Draft:        draft,
		Quote:        f.Quote(),
		SubmittedAt:  now,
		ContactEmail: contactEmail,
	}, nil
}

// NewBookingID returns an id like BK3F9A0C.
func NewBookingID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BK" + strings.ToUpper(id[:6])
}

// ToggleEncoded flips option in a comma-joined answer, keeping the order in
// which options were first picked.
func ToggleEncoded(encoded, option string) string {
	parts := SplitEncoded(encoded)
	for i, p := range parts {
		if p == option {
			return strings.Join(append(parts[:i:i], parts[i+1:]...), MultiSeparator)
		}
	}
	return strings.Join(append(parts, option), MultiSeparator)
}

func SplitEncoded(encoded string) []string {
	if encoded == "" {
		return nil
	}
	return strings.Split(encoded, MultiSeparator)
}
