package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"airbook/pkg/logger"
	"airbook/pkg/retry"

	"github.com/IBM/sarama"
)

type ConsumerConfig struct {
	Brokers           []string
	GroupID           string
	Topics            []string
	SessionTimeout    time.Duration
	HeartbeatInterval time.Duration
	MaxProcessingTime time.Duration
	OffsetOldest      bool
	Retry             retry.Config
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:           []string{"localhost:9092"},
		GroupID:           "airbook-notification-workers",
		Topics:            []string{"airbook-notifications"},
		SessionTimeout:    30 * time.Second,
		HeartbeatInterval: 3 * time.Second,
		MaxProcessingTime: 5 * time.Minute,
		Retry: retry.Config{
			MaxAttempts:     4,
			InitialInterval: time.Second,
			MaxInterval:     8 * time.Second,
			Multiplier:      2,
		},
	}
}

// KafkaNotificationConsumer reads the notification topic as a consumer
// group and sends each message through an EmailService.
type KafkaNotificationConsumer struct {
	group   sarama.ConsumerGroup
	config  *ConsumerConfig
	handler *messageHandler
	log     *logger.Logger
	wg      sync.WaitGroup
}

func NewKafkaNotificationConsumer(config *ConsumerConfig, email EmailService, log *logger.Logger) (*KafkaNotificationConsumer, error) {
	sc := sarama.NewConfig()
	sc.Consumer.Group.Session.Timeout = config.SessionTimeout
	sc.Consumer.Group.Heartbeat.Interval = config.HeartbeatInterval
	sc.Consumer.MaxProcessingTime = config.MaxProcessingTime
	sc.Consumer.Return.Errors = true
	sc.Consumer.Offsets.AutoCommit.Enable = true
	sc.Consumer.Offsets.AutoCommit.Interval = time.Second
	if config.OffsetOldest {
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	log = logger.OrDefault(log)
	return &KafkaNotificationConsumer{
		group:   group,
		config:  config,
		handler: newMessageHandler(email, config.Retry, log),
		log:     log,
	}, nil
}

// Start runs numWorkers consume loops until ctx is cancelled.
func (knc *KafkaNotificationConsumer) Start(ctx context.Context, numWorkers int) {
	knc.wg.Add(1)
	go func() {
		defer knc.wg.Done()
		for err := range knc.group.Errors() {
			knc.log.Error("Consumer Group Error", "error", err.Error())
		}
	}()

	for i := 0; i < numWorkers; i++ {
		knc.wg.Add(1)
		go func(workerID int) {
			defer knc.wg.Done()
			knc.runWorker(ctx, workerID)
		}(i)
	}
	knc.log.Info("Notification Consumers Started", "workers", numWorkers, "topics", knc.config.Topics)
}

func (knc *KafkaNotificationConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &consumerGroupHandler{messages: knc.handler, workerID: workerID, log: knc.log}
	for {
		if err := knc.group.Consume(ctx, knc.config.Topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			knc.log.Warn("Consume Failed", "worker", workerID, "error", err.Error())
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// Stop closes the group and waits for the workers to return. The context
// passed to Start should be cancelled first.
func (knc *KafkaNotificationConsumer) Stop() error {
	err := knc.group.Close()
	knc.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type consumerGroupHandler struct {
	messages *messageHandler
	workerID int
	log      *logger.Logger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.messages.handle(session.Context(), message); err != nil {
				h.log.Error("Notification Dropped",
					"worker", h.workerID,
					"partition", message.Partition,
					"offset", message.Offset,
					"error", err.Error(),
				)
			}
			// failed messages are logged and skipped
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

type messageHandler struct {
	email   EmailService
	retrier *retry.Retrier
	log     *logger.Logger
	now     func() time.Time
}

func newMessageHandler(email EmailService, cfg retry.Config, log *logger.Logger) *messageHandler {
	return &messageHandler{
		email:   email,
		retrier: retry.New(cfg),
		log:     logger.OrDefault(log),
		now:     time.Now,
	}
}

func (h *messageHandler) handle(ctx context.Context, message *sarama.ConsumerMessage) error {
	var notification EmailNotification
	if err := json.Unmarshal(message.Value, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}
	if notification.IsExpired(h.now()) {
		h.log.DebugContext(ctx, "Notification Expired", "notification_id", notification.ID.String())
		return nil
	}

	notification.Status = NotificationStatusSending
	retrier := h.retrier.WithOnRetry(func(attempt int, err error, wait time.Duration) {
		h.log.WarnContext(ctx, "Retrying Notification",
			"notification_id", notification.ID.String(),
			"attempt", attempt,
			"wait_ms", wait.Milliseconds(),
			"error", err.Error(),
		)
	})
	err := retrier.Do(ctx, func(ctx context.Context, _ int) error {
		return h.email.SendNotification(ctx, &notification)
	})
	if err != nil {
		notification.MarkFailed(err)
		return err
	}

	notification.MarkSent()
	return nil
}
