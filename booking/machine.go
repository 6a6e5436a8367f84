package booking

import "time"

type CommandKind int

const (
	CommandArm CommandKind = iota
	CommandDisarm
	CommandReview
	CommandNotify
)

// Command is a side effect the machine asks its driver to perform.
type Command struct {
	Kind   CommandKind
	Timer  Timer
	After  time.Duration
	Repeat bool
	Epoch  uint64
	Status Status
}

type Change struct {
	From  Status    `json:"from"`
	To    Status    `json:"to"`
	Event Event     `json:"event"`
	At    time.Time `json:"at"`
}

// Record is a point-in-time view of one booking's lifecycle.
type Record struct {
	Status           Status
	ConfirmationLeft time.Duration
	PaymentLeft      time.Duration
	Epoch            uint64
	History          []Change
	Notice           string
}

// Machine applies lifecycle events to a single booking. It is not safe for
// concurrent use; Runner serializes access.
type Machine struct {
	windows Windows
	now     func() time.Time

	status      Status
	confirmLeft time.Duration
	paymentLeft time.Duration
	epoch       uint64
	armed       map[Timer]bool
	history     []Change
}

func NewMachine(w Windows, now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{
		windows: w.normalized(),
		now:     now,
		armed:   make(map[Timer]bool),
	}
}

// Start enters pending for the first time.
func (m *Machine) Start() []Command {
	return m.move(StatusPending, EventSubmit)
}

func (m *Machine) Status() Status {
	return m.status
}

func (m *Machine) Epoch() uint64 {
	return m.epoch
}

// Armed reports whether t is running for the state entered at epoch.
func (m *Machine) Armed(t Timer, epoch uint64) bool {
	return epoch == m.epoch && m.armed[t]
}

// Apply moves the machine with a user or gateway event.
func (m *Machine) Apply(e Event) ([]Command, error) {
	next, err := Transition(m.status, e)
	if err != nil {
		return nil, err
	}
	return m.move(next, e), nil
}

// ApplyAt applies e only while the machine is still in the state entered at
// epoch.
func (m *Machine) ApplyAt(epoch uint64, e Event) ([]Command, error) {
	if epoch != m.epoch {
		return nil, ErrStale
	}
	return m.Apply(e)
}

// Fire handles a timer armed at epoch. Countdown timers lose one tick; the
// tick that reaches zero disarms the timer and applies the elapsed event in
// the same call.
func (m *Machine) Fire(t Timer, epoch uint64) ([]Command, error) {
	if !m.Armed(t, epoch) {
		return nil, ErrStale
	}
	switch t {
	case TimerConfirmation:
		m.confirmLeft -= m.windows.Tick
		if m.confirmLeft > 0 {
			return nil, nil
		}
		m.confirmLeft = 0
		return m.Apply(EventConfirmationElapsed)
	case TimerPayment:
		m.paymentLeft -= m.windows.Tick
		if m.paymentLeft > 0 {
			return nil, nil
		}
		m.paymentLeft = 0
		return m.Apply(EventPaymentElapsed)
	case TimerHandoff:
		return m.Apply(EventHandoffElapsed)
	default:
		return nil, ErrStale
	}
}

func (m *Machine) Snapshot() Record {
	history := make([]Change, len(m.history))
	copy(history, m.history)
	return Record{
		Status:           m.status,
		ConfirmationLeft: m.confirmLeft,
		PaymentLeft:      m.paymentLeft,
		Epoch:            m.epoch,
		History:          history,
	}
}

func (m *Machine) move(next Status, e Event) []Command {
	var cmds []Command
	for _, t := range timerOrder {
		if m.armed[t] {
			delete(m.armed, t)
			cmds = append(cmds, Command{Kind: CommandDisarm, Timer: t, Epoch: m.epoch})
		}
	}

	prev := m.status
	m.status = next
	m.epoch++
	m.history = append(m.history, Change{From: prev, To: next, Event: e, At: m.now()})

	return append(cmds, m.enter(next)...)
}

func (m *Machine) enter(s Status) []Command {
	var cmds []Command
	switch s {
	case StatusPending:
		m.confirmLeft = m.windows.Confirmation
		cmds = append(cmds,
			m.arm(TimerConfirmation, m.windows.Tick, true),
			Command{Kind: CommandReview, Epoch: m.epoch},
		)
	case StatusConfirmed:
		cmds = append(cmds, m.arm(TimerHandoff, m.windows.Handoff, false))
	case StatusPaymentRequired:
		m.paymentLeft = m.windows.Payment
		cmds = append(cmds, m.arm(TimerPayment, m.windows.Tick, true))
	}
	return append(cmds, Command{Kind: CommandNotify, Status: s, Epoch: m.epoch})
}

func (m *Machine) arm(t Timer, after time.Duration, repeat bool) Command {
	m.armed[t] = true
	return Command{Kind: CommandArm, Timer: t, After: after, Repeat: repeat, Epoch: m.epoch}
}
