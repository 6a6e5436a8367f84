package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"venuespace-cli/model"
)

type flakyHost struct {
	failures int
	calls    int
}

func (h *flakyHost) Review(context.Context, model.Submission) (bool, error) {
	h.calls++
	if h.calls <= h.failures {
		return false, errors.New("host unreachable")
	}
	return true, nil
}

func TestRetryingHost_RetriesTransientFailures(t *testing.T) {
	next := &flakyHost{failures: 2}
	host := &RetryingHost{Next: next, Attempts: 3, RetryBase: time.Millisecond, RetryCap: 2 * time.Millisecond}

	ok, err := host.Review(context.Background(), model.Submission{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, next.calls)
}

func TestRetryingHost_GivesUp(t *testing.T) {
	next := &flakyHost{failures: 5}
	host := &RetryingHost{Next: next, Attempts: 2, RetryBase: time.Millisecond, RetryCap: time.Millisecond}

	_, err := host.Review(context.Background(), model.Submission{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, 2, next.calls)
}

func TestRetryingHost_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	host := &RetryingHost{Next: NewSimulatedHost(time.Hour)}

	_, err := host.Review(ctx, model.Submission{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryingHost_RetryDelayIsCapped(t *testing.T) {
	h := &RetryingHost{}
	assert.Equal(t, 200*time.Millisecond, h.retryDelay(0))
	assert.Equal(t, 200*time.Millisecond, h.retryDelay(1))
	assert.Equal(t, 400*time.Millisecond, h.retryDelay(2))
	assert.Equal(t, 800*time.Millisecond, h.retryDelay(3))
	assert.Equal(t, 1200*time.Millisecond, h.retryDelay(4))
	assert.Equal(t, 1200*time.Millisecond, h.retryDelay(9))
}

func TestSimulatedHost_Decline(t *testing.T) {
	ok, err := (&SimulatedHost{Decline: true}).Review(context.Background(), model.Submission{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSimulatedPayments_Receipt(t *testing.T) {
	receipt, err := SimulatedPayments{}.Charge(context.Background(), model.Submission{Quote: model.Quote{Total: 10}})
	require.NoError(t, err)
	assert.Regexp(t, `^PAY-[0-9A-F]{8}$`, receipt)

	_, err = SimulatedPayments{}.Charge(context.Background(), model.Submission{})
	assert.Error(t, err)
}

type countingPayments struct {
	calls int
}

func (p *countingPayments) Charge(context.Context, model.Submission) (string, error) {
	p.calls++
	return "", errors.New("gateway timeout")
}

func TestBreakerPayments_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &countingPayments{}
	payments := NewBreakerPayments(next, nil)

	for i := 0; i < 3; i++ {
		_, err := payments.Charge(context.Background(), model.Submission{})
		assert.EqualError(t, err, "gateway timeout")
	}

	_, err := payments.Charge(context.Background(), model.Submission{})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, next.calls)
}

type captureMailer struct {
	sent []*gomail.Message
}

func (m *captureMailer) DialAndSend(msgs ...*gomail.Message) error {
	m.sent = append(m.sent, msgs...)
	return nil
}

func TestMailNotifier(t *testing.T) {
	mailer := &captureMailer{}
	n := &MailNotifier{Mailer: mailer, From: "noreply@venuespace.id"}
	sub := model.Submission{
		BookingId:    "BK12AB34",
		ContactEmail: "sari@example.com",
		Selection:    model.Selection{Venue: model.Venue{Name: "Garden Space"}},
	}

	require.NoError(t, n.Notify(context.Background(), sub, StatusConfirmed))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"sari@example.com"}, mailer.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"[BK12AB34] Garden Space: Confirmed by host"}, mailer.sent[0].GetHeader("Subject"))

	sub.ContactEmail = ""
	require.NoError(t, n.Notify(context.Background(), sub, StatusCompleted))
	assert.Len(t, mailer.sent, 1)
}

func TestNotificationBody(t *testing.T) {
	sub := model.Submission{
		Draft: model.BookingDraft{Name: "Sari"},
		Selection: model.Selection{
			Venue:    model.Venue{Name: "Garden Space"},
			Date:     time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
			Time:     "10:00",
			Duration: model.DurationOption{Hours: 4, Label: "4 jam"},
		},
		Quote: model.Quote{Total: 1440000},
	}
	body := notificationBody(sub, StatusPaymentRequired)
	assert.Contains(t, body, "Hi Sari")
	assert.Contains(t, body, "complete your payment")
	assert.Contains(t, body, "Rp 1.440.000")
}
