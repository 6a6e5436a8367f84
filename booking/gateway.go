package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"

	"venuespace-cli/model"
	"venuespace-cli/service"
)

// Host reviews a pending submission. true means the host accepted it.
type Host interface {
	Review(ctx context.Context, sub model.Submission) (bool, error)
}

// Payments charges the guest once the host has confirmed.
type Payments interface {
	Charge(ctx context.Context, sub model.Submission) (string, error)
}

// Notifier tells the guest the booking entered a new status.
type Notifier interface {
	Notify(ctx context.Context, sub model.Submission, status Status) error
}

const (
	defaultReviewAttempts = 3
	defaultRetryBase      = 200 * time.Millisecond
	defaultRetryCap       = 1200 * time.Millisecond
)

// SimulatedHost accepts (or declines) every submission after Delay.
type SimulatedHost struct {
	Delay   time.Duration
	Decline bool
}

func NewSimulatedHost(delay time.Duration) *SimulatedHost {
	return &SimulatedHost{Delay: delay}
}

func (h *SimulatedHost) Review(ctx context.Context, _ model.Submission) (bool, error) {
	timer := time.NewTimer(h.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-timer.C:
		return !h.Decline, nil
	}
}

// RetryingHost retries transient review failures with capped exponential
// backoff.
type RetryingHost struct {
	Next      Host
	Attempts  int
	RetryBase time.Duration
	RetryCap  time.Duration
}

func (h *RetryingHost) Review(ctx context.Context, sub model.Submission) (bool, error) {
	attempts := h.Attempts
	if attempts <= 0 {
		attempts = defaultReviewAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		ok, err := h.Next.Review(ctx, sub)
		if err == nil {
			return ok, nil
		}
		if !shouldRetry(err) {
			return false, err
		}
		lastErr = err
		if attempt < attempts {
			if waitErr := h.waitRetry(ctx, attempt); waitErr != nil {
				return false, waitErr
			}
		}
	}
	return false, fmt.Errorf("host review failed after %d attempts: %w", attempts, lastErr)
}

func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (h *RetryingHost) waitRetry(ctx context.Context, attempt int) error {
	timer := time.NewTimer(h.retryDelay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (h *RetryingHost) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := h.RetryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	limit := h.RetryCap
	if limit <= 0 {
		limit = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= limit/2 {
			return limit
		}
		delay *= 2
	}
	if delay > limit {
		return limit
	}
	return delay
}

// SimulatedPayments approves every charge and hands back a receipt number.
type SimulatedPayments struct {
	Delay time.Duration
}

func (p SimulatedPayments) Charge(ctx context.Context, sub model.Submission) (string, error) {
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if sub.Quote.Total <= 0 {
		return "", fmt.Errorf("charge %s: nothing to pay", sub.BookingId)
	}
	return "PAY-" + strings.ToUpper(uuid.NewString()[:8]), nil
}

// BreakerPayments stops calling the payment provider after repeated failures
// until the breaker half-opens again.
type BreakerPayments struct {
	next Payments
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerPayments(next Payments, log *logrus.Logger) *BreakerPayments {
	settings := gobreaker.Settings{
		Name:        "payments",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if log != nil {
				log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).Warn("circuit breaker state changed")
			}
		},
	}
	return &BreakerPayments{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *BreakerPayments) Charge(ctx context.Context, sub model.Submission) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Charge(ctx, sub)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// LogNotifier writes notifications to the application log.
type LogNotifier struct {
	Log *logrus.Logger
}

func (n LogNotifier) Notify(_ context.Context, sub model.Submission, status Status) error {
	if n.Log == nil {
		return nil
	}
	n.Log.WithFields(logrus.Fields{
		"booking": sub.BookingId,
		"venue":   sub.Selection.Venue.Name,
		"status":  string(status),
	}).Info(notificationSubject(sub, status))
	return nil
}

// Mailer is the part of gomail.Dialer used to deliver messages.
type Mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailNotifier emails the guest on every status change.
type MailNotifier struct {
	Mailer Mailer
	From   string
	Log    *logrus.Logger
}

func NewMailNotifier(host string, port int, username, password, from string, log *logrus.Logger) *MailNotifier {
	return &MailNotifier{
		Mailer: gomail.NewDialer(host, port, username, password),
		From:   from,
		Log:    log,
	}
}

func (n *MailNotifier) Notify(ctx context.Context, sub model.Submission, status Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sub.ContactEmail == "" {
		if n.Log != nil {
			n.Log.WithField("booking", sub.BookingId).Debug("no contact email, skipping mail")
		}
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.From)
	m.SetHeader("To", sub.ContactEmail)
	m.SetHeader("Subject", notificationSubject(sub, status))
	m.SetBody("text/plain", notificationBody(sub, status))

	if err := n.Mailer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail for %s: %w", sub.BookingId, err)
	}
	return nil
}

func notificationSubject(sub model.Submission, status Status) string {
	return fmt.Sprintf("[%s] %s: %s", sub.BookingId, sub.Selection.Venue.Name, status.Label())
}

func notificationBody(sub model.Submission, status Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", sub.Draft.Name)
	switch status {
	case StatusPending:
		b.WriteString("Your booking request was sent to the host and is waiting for confirmation.\n")
	case StatusConfirmed:
		b.WriteString("The host confirmed your booking. Payment opens shortly.\n")
	case StatusPaymentRequired:
		b.WriteString("Please complete your payment before the window closes.\n")
	case StatusCompleted:
		b.WriteString("Payment received. Your booking is complete.\n")
	case StatusCancelled:
		b.WriteString("Your booking was cancelled.\n")
	case StatusExpired:
		b.WriteString("The host did not respond in time and the request expired.\n")
	}
	fmt.Fprintf(&b, "\nVenue: %s\nDate: %s %s\nDuration: %s\nTotal: %s\n",
		sub.Selection.Venue.Name,
		service.FormatLongDate(sub.Selection.Date),
		sub.Selection.Time,
		sub.Selection.Duration.Label,
		service.FormatRupiah(sub.Quote.Total),
	)
	return b.String()
}
