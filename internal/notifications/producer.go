package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"airbook/pkg/logger"

	"github.com/IBM/sarama"
)

// NotificationProducer hands notifications off for delivery.
type NotificationProducer interface {
	PublishNotification(ctx context.Context, notification *EmailNotification) error
	Close() error
}

type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "airbook-notifications",
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000, // 1MB
	}
}

func (c *KafkaProducerConfig) saramaConfig() *sarama.Config {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	sc.Producer.RequiredAcks = c.RequiredAcks
	sc.Producer.Compression = c.CompressionType
	sc.Producer.Retry.Max = c.RetryMax
	sc.Producer.Timeout = c.Timeout
	sc.Producer.Idempotent = c.IdempotentWrites
	sc.Producer.MaxMessageBytes = c.MaxMessageBytes
	if c.IdempotentWrites {
		sc.Net.MaxOpenRequests = 1
	}
	// Use hash partitioner for consistent routing based on recipient
	sc.Producer.Partitioner = sarama.NewHashPartitioner
	return sc
}

type KafkaNotificationProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

func NewKafkaNotificationProducer(config *KafkaProducerConfig, log *logger.Logger) (*KafkaNotificationProducer, error) {
	producer, err := sarama.NewSyncProducer(config.Brokers, config.saramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return newKafkaNotificationProducer(producer, config.Topic, log), nil
}

func newKafkaNotificationProducer(producer sarama.SyncProducer, topic string, log *logger.Logger) *KafkaNotificationProducer {
	return &KafkaNotificationProducer{
		producer: producer,
		topic:    topic,
		log:      logger.OrDefault(log),
	}
}

func (knp *KafkaNotificationProducer) PublishNotification(ctx context.Context, notification *EmailNotification) error {
	notification.Status = NotificationStatusQueued
	notification.UpdatedAt = time.Now()

	messageBytes, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     knp.topic,
		Key:       sarama.StringEncoder(notification.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   createHeaders(notification),
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := knp.producer.SendMessage(message)
	if err != nil {
		notification.MarkFailed(err)
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	knp.log.DebugContext(ctx, "Notification Published",
		"topic", knp.topic,
		"partition", partition,
		"offset", offset,
		"type", string(notification.Type),
		"recipient", notification.RecipientEmail,
	)
	return nil
}

func createHeaders(notification *EmailNotification) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		{Key: []byte("notification_type"), Value: []byte(notification.Type)},
		{Key: []byte("priority"), Value: []byte(notification.Priority)},
		{Key: []byte("recipient_id"), Value: []byte(notification.RecipientID.String())},
		{Key: []byte("producer"), Value: []byte("airbook-notifications")},
		{Key: []byte("created_at"), Value: []byte(notification.CreatedAt.Format(time.RFC3339))},
	}
	if notification.BookingID != nil {
		headers = append(headers, sarama.RecordHeader{Key: []byte("booking_id"), Value: []byte(notification.BookingID.String())})
	}
	if notification.FlightID != nil {
		headers = append(headers, sarama.RecordHeader{Key: []byte("flight_id"), Value: []byte(notification.FlightID.String())})
	}
	return headers
}

func (knp *KafkaNotificationProducer) Close() error {
	if knp.producer == nil {
		return nil
	}
	if err := knp.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// DirectProducer delivers notifications without a queue, in the background,
// through an EmailService. Close waits for deliveries in flight.
type DirectProducer struct {
	email   EmailService
	timeout time.Duration
	log     *logger.Logger
	wg      sync.WaitGroup
}

func NewDirectProducer(email EmailService, log *logger.Logger) *DirectProducer {
	return &DirectProducer{email: email, timeout: 30 * time.Second, log: logger.OrDefault(log)}
}

func (p *DirectProducer) PublishNotification(ctx context.Context, notification *EmailNotification) error {
	notification.Status = NotificationStatusQueued
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()

		notification.Status = NotificationStatusSending
		if err := p.email.SendNotification(sendCtx, notification); err != nil {
			notification.MarkFailed(err)
			p.log.ErrorContext(sendCtx, "Notification Delivery Failed",
				"notification_id", notification.ID.String(),
				"type", string(notification.Type),
				"error", err.Error(),
			)
			return
		}
		notification.MarkSent()
	}()
	return nil
}

func (p *DirectProducer) Close() error {
	p.wg.Wait()
	return nil
}
