package booking

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWindows = Windows{
	Confirmation: 3 * time.Second,
	Handoff:      2 * time.Second,
	Payment:      4 * time.Second,
	Tick:         time.Second,
}

func fixedNow() time.Time {
	return time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
}

func kinds(cmds []Command) []CommandKind {
	out := make([]CommandKind, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.Kind)
	}
	return out
}

func armedTimers(m *Machine) []Timer {
	var out []Timer
	for _, t := range timerOrder {
		if m.armed[t] {
			out = append(out, t)
		}
	}
	return out
}

func TestTransition_Table(t *testing.T) {
	events := []Event{
		EventHostConfirmed, EventHostDeclined, EventConfirmationElapsed, EventHandoffElapsed,
		EventPaymentElapsed, EventPaid, EventCancel, EventResubmit,
	}
	want := map[Status]map[Event]Status{
		StatusPending: {
			EventHostConfirmed:       StatusConfirmed,
			EventHostDeclined:        StatusCancelled,
			EventConfirmationElapsed: StatusExpired,
			EventCancel:              StatusCancelled,
			EventResubmit:            StatusPending,
		},
		StatusConfirmed:       {EventHandoffElapsed: StatusPaymentRequired, EventResubmit: StatusPending},
		StatusPaymentRequired: {EventPaymentElapsed: StatusCancelled, EventPaid: StatusCompleted, EventResubmit: StatusPending},
		StatusCompleted:       {EventResubmit: StatusPending},
		StatusCancelled:       {EventResubmit: StatusPending},
		StatusExpired:         {EventResubmit: StatusPending},
	}

	for _, from := range Statuses {
		for _, e := range events {
			got, err := Transition(from, e)
			if next, ok := want[from][e]; ok {
				require.NoError(t, err, "%s on %s", e, from)
				assert.Equal(t, next, got, "%s on %s", e, from)
				continue
			}
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s on %s", e, from)
			assert.Equal(t, from, got)
		}
	}
}

func TestStatus_ParseAndTerminal(t *testing.T) {
	s, err := ParseStatus("payment_required")
	require.NoError(t, err)
	assert.Equal(t, StatusPaymentRequired, s)

	_, err = ParseStatus("refunded")
	assert.Error(t, err)

	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusExpired.Terminal())
	assert.Equal(t, 75, StatusPaymentRequired.Progress())
	assert.Equal(t, 0, StatusCancelled.Progress())
}

func TestMachine_StartArmsConfirmationAndRequestsReview(t *testing.T) {
	m := NewMachine(testWindows, fixedNow)
	cmds := m.Start()

	assert.Equal(t, []CommandKind{CommandArm, CommandReview, CommandNotify}, kinds(cmds))
	assert.Equal(t, TimerConfirmation, cmds[0].Timer)
	assert.Equal(t, time.Second, cmds[0].After)
	assert.True(t, cmds[0].Repeat)

	rec := m.Snapshot()
	assert.Equal(t, StatusPending, rec.Status)
	assert.Equal(t, 3*time.Second, rec.ConfirmationLeft)
	assert.Equal(t, uint64(1), rec.Epoch)
	require.Len(t, rec.History, 1)
	assert.Equal(t, EventSubmit, rec.History[0].Event)
	assert.Equal(t, fixedNow(), rec.History[0].At)
}

func TestMachine_ConfirmationCountdownExpires(t *testing.T) {
	m := NewMachine(testWindows, fixedNow)
	m.Start()
	epoch := m.Epoch()

	for i := 0; i < 2; i++ {
		cmds, err := m.Fire(TimerConfirmation, epoch)
		require.NoError(t, err)
		assert.Empty(t, cmds)
	}
	assert.Equal(t, time.Second, m.Snapshot().ConfirmationLeft)

	cmds, err := m.Fire(TimerConfirmation, epoch)
	require.NoError(t, err)
	assert.Equal(t, []CommandKind{CommandDisarm, CommandNotify}, kinds(cmds))
	assert.Equal(t, TimerConfirmation, cmds[0].Timer)

	rec := m.Snapshot()
	assert.Equal(t, StatusExpired, rec.Status)
	assert.Equal(t, time.Duration(0), rec.ConfirmationLeft)
	assert.Empty(t, armedTimers(m))
}

func TestMachine_CountdownClampsAtZero(t *testing.T) {
	w := testWindows
	w.Confirmation = 1500 * time.Millisecond
	m := NewMachine(w, fixedNow)
	m.Start()

	_, err := m.Fire(TimerConfirmation, m.Epoch())
	require.NoError(t, err)
	_, err = m.Fire(TimerConfirmation, m.Epoch())
	require.NoError(t, err)

	assert.Equal(t, StatusExpired, m.Status())
	assert.Equal(t, time.Duration(0), m.Snapshot().ConfirmationLeft)
}

func TestMachine_StaleTimerIsIgnored(t *testing.T) {
	m := NewMachine(testWindows, fixedNow)
	m.Start()
	pendingEpoch := m.Epoch()

	_, err := m.Apply(EventHostConfirmed)
	require.NoError(t, err)

	cmds, err := m.Fire(TimerConfirmation, pendingEpoch)
	assert.ErrorIs(t, err, ErrStale)
	assert.Nil(t, cmds)
	assert.Equal(t, StatusConfirmed, m.Status())

	_, err = m.ApplyAt(pendingEpoch, EventHostDeclined)
	assert.ErrorIs(t, err, ErrStale)
	assert.Equal(t, StatusConfirmed, m.Status())
}

func TestMachine_HappyPath(t *testing.T) {
	m := NewMachine(testWindows, fixedNow)
	m.Start()

	cmds, err := m.Apply(EventHostConfirmed)
	require.NoError(t, err)
	assert.Equal(t, []CommandKind{CommandDisarm, CommandArm, CommandNotify}, kinds(cmds))
	assert.Equal(t, TimerHandoff, cmds[1].Timer)
	assert.Equal(t, 2*time.Second, cmds[1].After)
	assert.False(t, cmds[1].Repeat)

	cmds, err = m.Fire(TimerHandoff, m.Epoch())
	require.NoError(t, err)
	assert.Equal(t, []CommandKind{CommandDisarm, CommandArm, CommandNotify}, kinds(cmds))
	assert.Equal(t, StatusPaymentRequired, m.Status())
	assert.Equal(t, 4*time.Second, m.Snapshot().PaymentLeft)

	_, err = m.Fire(TimerPayment, m.Epoch())
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, m.Snapshot().PaymentLeft)

	_, err = m.Apply(EventPaid)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, m.Status())
	assert.Empty(t, armedTimers(m))

	statuses := make([]Status, 0)
	for _, c := range m.Snapshot().History {
		statuses = append(statuses, c.To)
	}
	assert.Equal(t, []Status{StatusPending, StatusConfirmed, StatusPaymentRequired, StatusCompleted}, statuses)
}

func TestMachine_PaymentWindowElapsesToCancelled(t *testing.T) {
	m := NewMachine(testWindows, fixedNow)
	m.Start()
	_, _ = m.Apply(EventHostConfirmed)
	_, _ = m.Fire(TimerHandoff, m.Epoch())

	epoch := m.Epoch()
	for i := 0; i < 4; i++ {
		_, err := m.Fire(TimerPayment, epoch)
		require.NoError(t, err)
	}
	assert.Equal(t, StatusCancelled, m.Status())
	assert.Equal(t, time.Duration(0), m.Snapshot().PaymentLeft)
}

func TestMachine_ResubmitDisarmsBeforeArming(t *testing.T) {
	m := NewMachine(testWindows, fixedNow)
	m.Start()
	_, _ = m.Apply(EventHostConfirmed)
	_, _ = m.Fire(TimerHandoff, m.Epoch())
	_, _ = m.Fire(TimerPayment, m.Epoch())

	cmds, err := m.Apply(EventResubmit)
	require.NoError(t, err)
	assert.Equal(t, []CommandKind{CommandDisarm, CommandArm, CommandReview, CommandNotify}, kinds(cmds))
	assert.Equal(t, TimerPayment, cmds[0].Timer)
	assert.Equal(t, TimerConfirmation, cmds[1].Timer)
	assert.Equal(t, testWindows.Confirmation, m.Snapshot().ConfirmationLeft)
}

func TestMachine_PaymentCountdownResetsOnReentry(t *testing.T) {
	m := NewMachine(testWindows, fixedNow)
	m.Start()
	_, _ = m.Apply(EventHostConfirmed)
	_, _ = m.Fire(TimerHandoff, m.Epoch())
	_, _ = m.Fire(TimerPayment, m.Epoch())
	_, _ = m.Fire(TimerPayment, m.Epoch())
	require.Equal(t, 2*time.Second, m.Snapshot().PaymentLeft)

	_, _ = m.Apply(EventResubmit)
	_, _ = m.Apply(EventHostConfirmed)
	_, _ = m.Fire(TimerHandoff, m.Epoch())

	assert.Equal(t, testWindows.Payment, m.Snapshot().PaymentLeft)
}

func TestMachine_CancelOnlyWhilePending(t *testing.T) {
	m := NewMachine(testWindows, fixedNow)
	m.Start()
	_, _ = m.Apply(EventHostConfirmed)

	_, err := m.Apply(EventCancel)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusConfirmed, m.Status())
}

func TestMachine_AtMostOneTimerMatchingStatus(t *testing.T) {
	want := map[Status][]Timer{
		StatusPending:         {TimerConfirmation},
		StatusConfirmed:       {TimerHandoff},
		StatusPaymentRequired: {TimerPayment},
	}
	events := []Event{EventHostConfirmed, EventHostDeclined, EventCancel, EventResubmit, EventPaid}

	rng := rand.New(rand.NewSource(7))
	m := NewMachine(testWindows, fixedNow)
	m.Start()
	lastEpoch := m.Epoch()

	for i := 0; i < 2000; i++ {
		if rng.Intn(2) == 0 {
			_, _ = m.Apply(events[rng.Intn(len(events))])
		} else {
			timer := timerOrder[rng.Intn(len(timerOrder))]
			epoch := m.Epoch()
			if rng.Intn(4) == 0 {
				epoch--
			}
			_, err := m.Fire(timer, epoch)
			if err != nil && !errors.Is(err, ErrStale) {
				t.Fatalf("unexpected fire error: %v", err)
			}
		}

		assert.Equal(t, want[m.Status()], armedTimers(m), "step %d in %s", i, m.Status())
		assert.GreaterOrEqual(t, m.Epoch(), lastEpoch)
		lastEpoch = m.Epoch()

		rec := m.Snapshot()
		assert.GreaterOrEqual(t, rec.ConfirmationLeft, time.Duration(0))
		assert.LessOrEqual(t, rec.ConfirmationLeft, testWindows.Confirmation)
		assert.GreaterOrEqual(t, rec.PaymentLeft, time.Duration(0))
		assert.LessOrEqual(t, rec.PaymentLeft, testWindows.Payment)
	}
}

func TestWindows_DefaultTick(t *testing.T) {
	w := Windows{Confirmation: time.Minute}.normalized()
	assert.Equal(t, time.Second, w.Tick)
}
