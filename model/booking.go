package model

import "time"

type QuestionKind string

const (
	QuestionSingle QuestionKind = "radio"
	QuestionMulti  QuestionKind = "checkbox"
)

type HostQuestion struct {
	Id       string       `json:"id"`
	Question string       `json:"question"`
	Kind     QuestionKind `json:"type"`
	Options  []string     `json:"options"`
	Required bool         `json:"required"`
}

type AddOn struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Selection is what the venue detail screen hands to the booking form.
type Selection struct {
	Venue    Venue          `json:"venue"`
	Date     time.Time      `json:"date"`
	Time     string         `json:"time"`
	Duration DurationOption `json:"duration"`
}

// Complete reports whether date, time and duration were all picked.
func (s Selection) Complete() bool {
	return s.Venue.Id != 0 && !s.Date.IsZero() && s.Time != "" && s.Duration.Hours > 0
}

type BookingDraft struct {
	HostAnswers      map[string]string `json:"hostAnswers"`
	AddOns           []string          `json:"additionalItems"`
	SpecialRequests  string            `json:"specialRequests"`
	Name             string            `json:"name" validate:"required"`
	EventType        string            `json:"eventType" validate:"required"`
	Attendees        int               `json:"attendees" validate:"required,gt=0"`
	EventDescription string            `json:"eventDescription"`
}

type Quote struct {
	Base       int64   `json:"base"`
	Multiplier float64 `json:"multiplier"`
	Subtotal   int64   `json:"subtotal"`
	AddOns     int64   `json:"addOns"`
	Total      int64   `json:"total"`
}

// Submission is the payload the booking form hands to the status screen.
type Submission struct {
	BookingId   string       `json:"bookingId"`
	Selection   Selection    `json:"selection"`
	Draft       BookingDraft `json:"draft"`
	Quote       Quote        `json:"quote"`
	SubmittedAt time.Time    `json:"submittedAt"`

	// ContactEmail is the signed-in guest's address, empty for anonymous
	// bookings.
	ContactEmail string `json:"contactEmail,omitempty"`
}
