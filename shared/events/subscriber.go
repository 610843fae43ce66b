package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Handler func(ctx context.Context, event Event) error

// ErrMalformed marks a message that can never be handled. Handlers wrap it
// to have the message acknowledged and dropped instead of retried.
var ErrMalformed = errors.New("malformed stream message")

// Subscriber consumes one stream as a member of a consumer group. Messages
// whose handler fails stay pending and are retried once they have been idle
// for ClaimIdle, by this or any other consumer of the group.
type Subscriber struct {
	client        *redis.Client
	group         string
	consumer      string
	stream        string
	handler       Handler
	batchSize     int64
	blockDuration time.Duration
	claimIdle     time.Duration
	logger        *slog.Logger
}

type SubscriberConfig struct {
	Group         string
	Consumer      string
	Stream        string
	Handler       Handler
	BatchSize     int64
	BlockDuration time.Duration
	ClaimIdle     time.Duration
	Logger        *slog.Logger
}

func NewSubscriber(client *redis.Client, config SubscriberConfig) *Subscriber {
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}
	if config.BlockDuration == 0 {
		config.BlockDuration = 5 * time.Second
	}
	if config.ClaimIdle == 0 {
		config.ClaimIdle = time.Minute
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Subscriber{
		client:        client,
		group:         config.Group,
		consumer:      config.Consumer,
		stream:        config.Stream,
		handler:       config.Handler,
		batchSize:     config.BatchSize,
		blockDuration: config.BlockDuration,
		claimIdle:     config.ClaimIdle,
		logger:        config.Logger.With("stream", config.Stream, "group", config.Group),
	}
}

// Start consumes the stream until ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	s.logger.Info("subscriber started", "consumer", s.consumer)

	var lastClaim time.Time
	for ctx.Err() == nil {
		if time.Since(lastClaim) >= s.claimIdle {
			if err := s.claimStale(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("failed to claim pending messages", "error", err)
			}
			lastClaim = time.Now()
		}

		if err := s.readNew(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			s.logger.Error("error reading messages", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}

	s.logger.Info("subscriber stopping")
	return nil
}

func (s *Subscriber) readNew(ctx context.Context) error {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  []string{s.stream, ">"},
		Count:    s.batchSize,
		Block:    s.blockDuration,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read from stream: %w", err)
	}

	for _, stream := range streams {
		s.handleBatch(ctx, stream.Messages)
	}
	return nil
}

// claimStale takes over pending messages idle for at least claimIdle.
func (s *Subscriber) claimStale(ctx context.Context) error {
	start := "0-0"
	for {
		messages, next, err := s.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   s.stream,
			Group:    s.group,
			Consumer: s.consumer,
			MinIdle:  s.claimIdle,
			Start:    start,
			Count:    s.batchSize,
		}).Result()
		if err != nil {
			return fmt.Errorf("failed to claim messages: %w", err)
		}
		if len(messages) > 0 {
			s.logger.Info("retrying pending messages", "count", len(messages))
			s.handleBatch(ctx, messages)
		}
		if next == "0-0" || len(messages) == 0 {
			return nil
		}
		start = next
	}
}

func (s *Subscriber) handleBatch(ctx context.Context, messages []redis.XMessage) {
	for _, message := range messages {
		err := s.processMessage(ctx, message)
		switch {
		case errors.Is(err, ErrMalformed):
			// never deliverable; acknowledge so it leaves the pending list
			s.logger.Error("dropping message", "id", message.ID, "error", err)
		case err != nil:
			s.logger.Error("failed to process message", "id", message.ID, "error", err)
			continue
		}

		if err := s.client.XAck(ctx, s.stream, s.group, message.ID).Err(); err != nil {
			s.logger.Error("failed to ack message", "id", message.ID, "error", err)
		}
	}
}

func (s *Subscriber) processMessage(ctx context.Context, message redis.XMessage) error {
	eventData, ok := message.Values["event"].(string)
	if !ok {
		return fmt.Errorf("%w: no event field", ErrMalformed)
	}

	var event Event
	if err := json.Unmarshal([]byte(eventData), &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return s.handler(ctx, event)
}
