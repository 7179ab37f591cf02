package notifications

import (
	"context"
	"fmt"
	"strings"

	"airbook/internal/bookings"
	"airbook/internal/flights"
	"airbook/internal/session"
	"airbook/internal/shared/config"
	"airbook/internal/users"
	"airbook/pkg/logger"

	"github.com/google/uuid"
)

// Publisher turns domain events into email notifications. It implements
// bookings.Notifier and users.Notifier.
type Publisher struct {
	producer NotificationProducer
	log      *logger.Logger
}

func NewPublisher(producer NotificationProducer, log *logger.Logger) *Publisher {
	return &Publisher{producer: producer, log: logger.OrDefault(log)}
}

func (p *Publisher) BookingConfirmed(ctx context.Context, booking *bookings.Booking, flight *flights.Flight, recipient *session.Session) error {
	if recipient == nil || recipient.Email == "" {
		p.log.DebugContext(ctx, "Booking Notification Skipped", "booking_id", booking.ID.String(), "reason", "no recipient email")
		return nil
	}
	userID, err := uuid.Parse(recipient.UserID)
	if err != nil {
		return fmt.Errorf("invalid recipient id %q: %w", recipient.UserID, err)
	}

	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingConfirmed).
		WithRecipient(userID, recipient.Email, recipient.Username).
		WithSubject(subjectFor(NotificationTypeBookingConfirmed)).
		WithBookingContext(booking.ID, flight.ID).
		WithTemplateData(map[string]interface{}{
			"booking_ref":       booking.BookingRef,
			"flight_number":     flight.FlightNumber,
			"departure_airport": flight.DepartureAirport,
			"arrival_airport":   flight.ArrivalAirport,
			"departure_time":    flight.DepartureTime.UTC().Format("2006-01-02 15:04 MST"),
			"seats":             strings.Join(booking.Seats, ", "),
			"total_price":       fmt.Sprintf("%.2f", booking.TotalPrice),
			"payment_status":    string(booking.PaymentStatus),
		}).
		Build()

	return p.producer.PublishNotification(ctx, notification)
}

func (p *Publisher) AccountApproved(ctx context.Context, user *users.User) error {
	if user.Email == "" {
		return nil
	}
	notification := NewNotificationBuilder().
		WithType(NotificationTypeAccountApproved).
		WithRecipient(user.ID, user.Email, user.Username).
		WithSubject(subjectFor(NotificationTypeAccountApproved)).
		Build()

	return p.producer.PublishNotification(ctx, notification)
}

// Service owns the notification pipeline: a Kafka producer and consumer
// group when Kafka is enabled, direct background delivery otherwise.
type Service struct {
	publisher *Publisher
	producer  NotificationProducer
	consumer  *KafkaNotificationConsumer
	workers   int
	cancel    context.CancelFunc
	log       *logger.Logger
}

func NewService(cfg *config.Config, log *logger.Logger) (*Service, error) {
	log = logger.OrDefault(log)

	var email EmailService
	if cfg.Email.SMTPConfigured() {
		smtpService, err := NewSMTPEmailService(&SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		}, log)
		if err != nil {
			return nil, err
		}
		email = smtpService
	} else {
		log.Warn("SMTP not configured, notifications will only be logged")
		email = NewLogEmailService(log)
	}

	s := &Service{log: log, workers: cfg.Kafka.NumConsumerWorkers}
	if !cfg.Kafka.Enabled {
		s.producer = NewDirectProducer(email, log)
		s.publisher = NewPublisher(s.producer, log)
		return s, nil
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.Topic = cfg.Kafka.NotificationTopic
	producer, err := NewKafkaNotificationProducer(producerConfig, log)
	if err != nil {
		return nil, err
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Kafka.Brokers
	consumerConfig.Topics = []string{cfg.Kafka.NotificationTopic}
	consumerConfig.GroupID = cfg.Kafka.ConsumerGroupID
	consumer, err := NewKafkaNotificationConsumer(consumerConfig, email, log)
	if err != nil {
		_ = producer.Close()
		return nil, err
	}

	s.producer = producer
	s.consumer = consumer
	s.publisher = NewPublisher(producer, log)
	return s, nil
}

func (s *Service) Publisher() *Publisher {
	return s.publisher
}

func (s *Service) Start(ctx context.Context) {
	if s.consumer == nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.consumer.Start(ctx, s.workers)
}

func (s *Service) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	var firstErr error
	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			firstErr = err
		}
	}
	if err := s.producer.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
