package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"airbook/internal/bookings"
	"airbook/internal/flights"
	"airbook/internal/session"
	"airbook/internal/users"
	"airbook/pkg/logger"
	"airbook/pkg/retry"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmail struct {
	mu       sync.Mutex
	failures int
	calls    int
	sent     []*EmailNotification
}

func (r *recordingEmail) SendNotification(_ context.Context, n *EmailNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failures > 0 {
		r.failures--
		return errors.New("421 service not available")
	}
	r.sent = append(r.sent, n)
	return nil
}

func testBooking() (*bookings.Booking, *flights.Flight, *session.Session) {
	dep := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	flight := &flights.Flight{
		ID:               uuid.New(),
		FlightNumber:     "AB101",
		DepartureAirport: "Lusaka International Airport (LUN)",
		ArrivalAirport:   "Ndola International Airport (NLA)",
		DepartureTime:    dep,
	}
	booking := &bookings.Booking{
		ID:            uuid.New(),
		FlightID:      flight.ID,
		Seats:         []string{"1A", "1B"},
		TotalPrice:    2400,
		PaymentStatus: bookings.PaymentPaid,
		BookingRef:    "AB-20250610-QXKZTR",
	}
	sess := &session.Session{UserID: uuid.NewString(), Username: "alice", Email: "alice@example.com"}
	return booking, flight, sess
}

func TestRenderContent_BookingConfirmed(t *testing.T) {
	booking, flight, sess := testBooking()
	direct := &recordingEmail{}
	p := NewDirectProducer(direct, logger.Discard())
	require.NoError(t, NewPublisher(p, logger.Discard()).BookingConfirmed(context.Background(), booking, flight, sess))
	require.NoError(t, p.Close())
	require.Len(t, direct.sent, 1)

	n := direct.sent[0]
	assert.Equal(t, "Your Flight Booking Confirmation", n.Subject)
	assert.Equal(t, NotificationStatusSent, n.Status)

	htmlBody, textBody, err := renderContent(n)
	require.NoError(t, err)
	assert.Contains(t, textBody, "Dear alice,")
	assert.Contains(t, textBody, "Seats Reserved: 1A, 1B")
	assert.Contains(t, textBody, "Booking Reference: AB-20250610-QXKZTR")
	assert.Contains(t, textBody, "Total Price: 2400.00")
	assert.Contains(t, htmlBody, "<td>AB101</td>")
}

func TestRenderContent_EscapesHTML(t *testing.T) {
	n := NewNotificationBuilder().
		WithType(NotificationTypeAccountApproved).
		WithRecipient(uuid.New(), "x@example.com", "<script>").
		Build()

	htmlBody, textBody, err := renderContent(n)
	require.NoError(t, err)
	assert.NotContains(t, htmlBody, "<script>")
	assert.Contains(t, textBody, "Dear <script>,")

	n.Type = "UNKNOWN"
	_, _, err = renderContent(n)
	assert.Error(t, err)
}

func TestKafkaProducer_PublishesBookingConfirmation(t *testing.T) {
	booking, flight, sess := testBooking()
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var n EmailNotification
		if err := json.Unmarshal(value, &n); err != nil {
			return err
		}
		if n.Type != NotificationTypeBookingConfirmed || n.RecipientEmail != "alice@example.com" {
			return fmt.Errorf("unexpected notification %s to %s", n.Type, n.RecipientEmail)
		}
		if n.BookingID == nil || *n.BookingID != booking.ID {
			return errors.New("booking id missing")
		}
		return nil
	})
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	producer := newKafkaNotificationProducer(mockProducer, "airbook-notifications", logger.Discard())
	publisher := NewPublisher(producer, logger.Discard())

	require.NoError(t, publisher.BookingConfirmed(context.Background(), booking, flight, sess))
	err := publisher.AccountApproved(context.Background(), &users.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	require.NoError(t, producer.Close())
}

func TestPublisher_SkipsRecipientsWithoutEmail(t *testing.T) {
	booking, flight, sess := testBooking()
	sess.Email = ""
	direct := &recordingEmail{}
	p := NewDirectProducer(direct, logger.Discard())
	publisher := NewPublisher(p, logger.Discard())

	require.NoError(t, publisher.BookingConfirmed(context.Background(), booking, flight, sess))
	require.NoError(t, publisher.AccountApproved(context.Background(), &users.User{ID: uuid.New()}))
	require.NoError(t, p.Close())
	assert.Zero(t, direct.calls)
}

func TestMessageHandler(t *testing.T) {
	fast := retry.Config{MaxAttempts: 3, InitialInterval: time.Millisecond}
	encode := func(t *testing.T, n *EmailNotification) *sarama.ConsumerMessage {
		raw, err := n.ToJSON()
		require.NoError(t, err)
		return &sarama.ConsumerMessage{Value: raw}
	}
	approved := func() *EmailNotification {
		return NewNotificationBuilder().
			WithType(NotificationTypeAccountApproved).
			WithRecipient(uuid.New(), "carol@example.com", "carol").
			Build()
	}

	t.Run("retries transient failures", func(t *testing.T) {
		email := &recordingEmail{failures: 2}
		h := newMessageHandler(email, fast, logger.Discard())
		require.NoError(t, h.handle(context.Background(), encode(t, approved())))
		assert.Equal(t, 3, email.calls)
		require.Len(t, email.sent, 1)
		assert.Equal(t, "carol@example.com", email.sent[0].RecipientEmail)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		email := &recordingEmail{failures: 5}
		h := newMessageHandler(email, fast, logger.Discard())
		err := h.handle(context.Background(), encode(t, approved()))
		assert.ErrorIs(t, err, retry.ErrExhausted)
		assert.Equal(t, 3, email.calls)
	})

	t.Run("skips expired", func(t *testing.T) {
		email := &recordingEmail{}
		h := newMessageHandler(email, fast, logger.Discard())
		n := approved()
		n.ExpiresAt = func() *time.Time { ts := time.Now().Add(-time.Minute); return &ts }()
		require.NoError(t, h.handle(context.Background(), encode(t, n)))
		assert.Zero(t, email.calls)
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		h := newMessageHandler(&recordingEmail{}, fast, logger.Discard())
		assert.Error(t, h.handle(context.Background(), &sarama.ConsumerMessage{Value: []byte("{")}))
	})
}

func TestSMTPEmailService_BuildMessage(t *testing.T) {
	_, err := NewSMTPEmailService(&SMTPConfig{Host: "smtp.example.com", Port: 587}, logger.Discard())
	require.Error(t, err)

	svc, err := NewSMTPEmailService(&SMTPConfig{
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "mailer",
		FromEmail: "noreply@airbook.local",
		FromName:  "AirBooking",
	}, logger.Discard())
	require.NoError(t, err)

	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	msg := string(svc.buildMessage("alice@example.com", "Hello", "<p>hi</p>", "hi", now))

	headerEnd := strings.Index(msg, "\r\n\r\n")
	require.Positive(t, headerEnd)
	headers := msg[:headerEnd]
	assert.True(t, strings.HasPrefix(headers, "From: AirBooking <noreply@airbook.local>\r\n"))
	assert.Contains(t, headers, "Subject: Hello\r\n")
	assert.Contains(t, headers, "multipart/alternative; boundary=airbook_")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8\r\n\r\nhi\r\n")
	assert.True(t, strings.HasSuffix(msg, "--\r\n"))
}
