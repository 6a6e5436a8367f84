package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"venuespace-cli/model"
)

// Stopper cancels a scheduled callback.
type Stopper interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// NotifyTimeout bounds a single status notification.
const NotifyTimeout = 30 * time.Second

// ClockScheduler schedules on the wall clock.
var ClockScheduler Scheduler = clockScheduler{}

// AuditSink persists every status change.
type AuditSink interface {
	RecordTransition(ctx context.Context, bookingID string, change Change) error
}

type Gateways struct {
	Host     Host
	Payments Payments
	Notifier Notifier
}

type Options struct {
	Windows   Windows
	Scheduler Scheduler
	Gateways  Gateways
	Audit     AuditSink
	Log       *logrus.Logger
	Now       func() time.Time
}

// Runner drives one booking's Machine: it owns the timers, calls the
// gateways, and publishes a Record after every change.
type Runner struct {
	mu      sync.Mutex
	machine *Machine
	sched   Scheduler
	gw      Gateways
	audit   AuditSink
	log     *logrus.Entry
	sub     model.Submission

	ctx    context.Context
	cancel context.CancelFunc

	timers       map[Timer]Stopper
	reviewEpoch  uint64
	reviewCancel context.CancelFunc
	notice       string
	receipt      string

	updates   chan Record
	notifying sync.WaitGroup
	started   bool
	stopped   bool
}

func NewRunner(sub model.Submission, opts Options) *Runner {
	sched := opts.Scheduler
	if sched == nil {
		sched = ClockScheduler
	}
	log := opts.Log
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel)
	}
	gw := opts.Gateways
	if gw.Host == nil {
		gw.Host = NewSimulatedHost(10 * time.Second)
	}
	if gw.Payments == nil {
		gw.Payments = SimulatedPayments{}
	}
	if gw.Notifier == nil {
		gw.Notifier = LogNotifier{Log: log}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		machine: NewMachine(opts.Windows, opts.Now),
		sched:   sched,
		gw:      gw,
		audit:   opts.Audit,
		log:     log.WithField("booking", sub.BookingId),
		sub:     sub,
		ctx:     ctx,
		cancel:  cancel,
		timers:  make(map[Timer]Stopper),
		updates: make(chan Record, 16),
	}
}

func (r *Runner) Submission() model.Submission {
	return r.sub
}

// Updates delivers a Record after every change. The channel is closed by
// Stop. Slow readers only miss intermediate records, never the latest one.
func (r *Runner) Updates() <-chan Record {
	return r.updates
}

// Start enters pending. Calling it twice is a no-op.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.stopped {
		return
	}
	r.started = true
	r.execute(r.machine.Start())
	r.publish()
}

func (r *Runner) Snapshot() Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// Receipt is the payment reference once the booking completed.
func (r *Runner) Receipt() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.receipt
}

// Resubmit sends the same booking back to the host from any state.
func (r *Runner) Resubmit() error {
	return r.apply(EventResubmit)
}

// Cancel withdraws a pending request.
func (r *Runner) Cancel() error {
	return r.apply(EventCancel)
}

// Pay charges the guest and completes the booking. The charge is only
// applied if the payment window that was open when Pay was called is still
// open when the charge returns.
func (r *Runner) Pay(ctx context.Context) error {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return ErrStale
	}
	status := r.machine.Status()
	if status != StatusPaymentRequired {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, EventPaid, status)
	}
	epoch := r.machine.Epoch()
	r.mu.Unlock()

	receipt, err := r.gw.Payments.Charge(ctx, r.sub)
	if err != nil {
		r.mu.Lock()
		r.notice = "Payment failed: " + err.Error()
		r.publish()
		r.mu.Unlock()
		return fmt.Errorf("charge %s: %w", r.sub.BookingId, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return ErrStale
	}
	cmds, err := r.machine.ApplyAt(epoch, EventPaid)
	if err != nil {
		r.log.WithField("receipt", receipt).Warn("payment captured after the window closed")
		return err
	}
	r.receipt = receipt
	r.notice = ""
	r.execute(cmds)
	r.publish()
	return nil
}

// Stop cancels every timer and in-flight host or payment call and closes
// Updates. Notifications already queued are still sent; see Flush.
// The runner cannot be used afterwards.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	for t, s := range r.timers {
		s.Stop()
		delete(r.timers, t)
	}
	if r.reviewCancel != nil {
		r.reviewCancel()
		r.reviewCancel = nil
	}
	r.cancel()
	close(r.updates)
}

func (r *Runner) apply(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return ErrStale
	}
	cmds, err := r.machine.Apply(e)
	if err != nil {
		return err
	}
	r.notice = ""
	r.execute(cmds)
	r.publish()
	return nil
}

func (r *Runner) execute(cmds []Command) {
	if r.reviewCancel != nil && r.reviewEpoch != r.machine.Epoch() {
		r.reviewCancel()
		r.reviewCancel = nil
	}

	for _, cmd := range cmds {
		switch cmd.Kind {
		case CommandDisarm:
			if s, ok := r.timers[cmd.Timer]; ok {
				s.Stop()
				delete(r.timers, cmd.Timer)
			}
		case CommandArm:
			r.schedule(cmd.Timer, cmd.After, cmd.Repeat, cmd.Epoch)
		case CommandReview:
			r.startReview(cmd.Epoch)
		case CommandNotify:
			r.recordChange()
			status := cmd.Status
			r.notifying.Go(func() { r.notify(status) })
		}
	}
}

func (r *Runner) schedule(t Timer, after time.Duration, repeat bool, epoch uint64) {
	if s, ok := r.timers[t]; ok {
		s.Stop()
	}
	r.timers[t] = r.sched.AfterFunc(after, func() {
		r.fire(t, after, repeat, epoch)
	})
}

func (r *Runner) fire(t Timer, after time.Duration, repeat bool, epoch uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	cmds, err := r.machine.Fire(t, epoch)
	if errors.Is(err, ErrStale) {
		return
	}
	if err != nil {
		r.log.WithError(err).WithField("timer", string(t)).Error("timer fire failed")
		return
	}
	r.execute(cmds)
	if repeat && r.machine.Armed(t, epoch) {
		r.schedule(t, after, repeat, epoch)
	}
	r.publish()
}

func (r *Runner) startReview(epoch uint64) {
	if r.reviewCancel != nil {
		r.reviewCancel()
	}
	ctx, cancel := context.WithCancel(r.ctx)
	r.reviewEpoch = epoch
	r.reviewCancel = cancel

	go func() {
		approved, err := r.gw.Host.Review(ctx, r.sub)

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.stopped || ctx.Err() != nil {
			return
		}
		if err != nil {
			r.log.WithError(err).Warn("host review failed")
			r.notice = "Host review failed: " + err.Error()
			r.publish()
			return
		}
		event := EventHostConfirmed
		if !approved {
			event = EventHostDeclined
		}
		cmds, err := r.machine.ApplyAt(epoch, event)
		if err != nil {
			r.log.WithError(err).WithField("event", string(event)).Debug("dropping host review result")
			return
		}
		r.execute(cmds)
		r.publish()
	}()
}

func (r *Runner) recordChange() {
	history := r.machine.history
	if len(history) == 0 {
		return
	}
	change := history[len(history)-1]
	r.log.WithFields(logrus.Fields{
		"from":  string(change.From),
		"to":    string(change.To),
		"event": string(change.Event),
	}).Info("booking status changed")

	if r.audit == nil {
		return
	}
	if err := r.audit.RecordTransition(r.ctx, r.sub.BookingId, change); err != nil {
		r.log.WithError(err).Error("audit write failed")
	}
}

// notify outlives Stop so the final status still reaches the guest.
func (r *Runner) notify(status Status) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.ctx), NotifyTimeout)
	defer cancel()
	if err := r.gw.Notifier.Notify(ctx, r.sub, status); err != nil {
		r.log.WithError(err).WithField("status", string(status)).Warn("notification failed")
	}
}

// Flush waits for notifications still being sent, or until ctx is done.
func (r *Runner) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.notifying.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) snapshot() Record {
	rec := r.machine.Snapshot()
	rec.Notice = r.notice
	return rec
}

// publish must be called with mu held.
func (r *Runner) publish() {
	if r.stopped {
		return
	}
	rec := r.snapshot()
	select {
	case r.updates <- rec:
		return
	default:
	}
	select {
	case <-r.updates:
	default:
	}
	select {
	case r.updates <- rec:
	default:
	}
}
