// Package booking holds the multi-step booking form and the booking-status
// lifecycle.
//
// The lifecycle is split in three layers. Transition is a pure table from
// (status, event) to status. Machine owns one booking's record, applies
// events, and answers with Commands (arm or disarm a timer, ask the host to
// review, notify). Runner executes those commands against a Scheduler and the
// external gateways. Every state entry bumps an epoch; timer fires and
// gateway results tagged with an older epoch are dropped with ErrStale, so a
// timer left over from a previous state can never move the booking.
package booking

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending         Status = "pending"
	StatusConfirmed       Status = "confirmed"
	StatusPaymentRequired Status = "payment_required"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
	StatusExpired         Status = "expired"
)

var Statuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPaymentRequired,
	StatusCompleted,
	StatusCancelled,
	StatusExpired,
}

func ParseStatus(s string) (Status, error) {
	for _, status := range Statuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown status: %s", s)
}

// Terminal reports whether no timer can move the booking out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusExpired
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Awaiting host confirmation"
	case StatusConfirmed:
		return "Confirmed by host"
	case StatusPaymentRequired:
		return "Payment required"
	case StatusCompleted:
		return "Booking complete"
	case StatusCancelled:
		return "Cancelled"
	case StatusExpired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// Progress is the percentage shown on the booking → confirm → pay → done bar.
func (s Status) Progress() int {
	switch s {
	case StatusPending:
		return 25
	case StatusConfirmed:
		return 50
	case StatusPaymentRequired:
		return 75
	case StatusCompleted:
		return 100
	default:
		return 0
	}
}

type Event string

const (
	EventSubmit              Event = "submit"
	EventHostConfirmed       Event = "host_confirmed"
	EventHostDeclined        Event = "host_declined"
	EventConfirmationElapsed Event = "confirmation_elapsed"
	EventHandoffElapsed      Event = "handoff_elapsed"
	EventPaymentElapsed      Event = "payment_elapsed"
	EventPaid                Event = "paid"
	EventCancel              Event = "cancel"
	EventResubmit            Event = "resubmit"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrStale             = errors.New("stale epoch")
)

var transitions = map[Status]map[Event]Status{
	StatusPending: {
		EventHostConfirmed:       StatusConfirmed,
		EventHostDeclined:        StatusCancelled,
		EventConfirmationElapsed: StatusExpired,
		EventCancel:              StatusCancelled,
		EventResubmit:            StatusPending,
	},
	StatusConfirmed: {
		EventHandoffElapsed: StatusPaymentRequired,
		EventResubmit:       StatusPending,
	},
	StatusPaymentRequired: {
		EventPaymentElapsed: StatusCancelled,
		EventPaid:           StatusCompleted,
		EventResubmit:       StatusPending,
	},
	StatusCompleted: {EventResubmit: StatusPending},
	StatusCancelled: {EventResubmit: StatusPending},
	StatusExpired:   {EventResubmit: StatusPending},
}

// Transition returns the status reached by applying e in from.
func Transition(from Status, e Event) (Status, error) {
	next, ok := transitions[from][e]
	if !ok {
		return from, fmt.Errorf("%w: %s while %s", ErrInvalidTransition, e, from)
	}
	return next, nil
}

type Timer string

const (
	TimerConfirmation Timer = "confirmation"
	TimerHandoff      Timer = "handoff"
	TimerPayment      Timer = "payment"
)

var timerOrder = []Timer{TimerConfirmation, TimerHandoff, TimerPayment}

// Windows configures how long each lifecycle phase lasts.
type Windows struct {
	Confirmation time.Duration
	Handoff      time.Duration
	Payment      time.Duration
	Tick         time.Duration
}

// NominalWindows are the production durations.
var NominalWindows = Windows{
	Confirmation: 6 * time.Hour,
	Handoff:      2 * time.Second,
	Payment:      24 * time.Hour,
	Tick:         time.Second,
}

func (w Windows) normalized() Windows {
	if w.Tick <= 0 {
		w.Tick = time.Second
	}
	return w
}
