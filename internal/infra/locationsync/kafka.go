package locationsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// ChangeEvent is published by the location admin whenever a location changes.
type ChangeEvent struct {
	ID int64  `json:"id"`
	Op string `json:"op"`
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaTrigger rebuilds the index when a location change notification arrives.
// A rebuild starts only after its triggering message was fetched, so it reflects
// every change whose broker timestamp is not after that message's. Such
// notifications are only committed. Broker timestamps are never compared with
// the local clock.
type KafkaTrigger struct {
	reader    messageReader
	refresher Refresher
	logger    *slog.Logger
	// appliedUpTo is the broker timestamp of the message behind the last
	// successful rebuild.
	appliedUpTo time.Time
}

// NewKafkaTrigger creates a consumer-group reader for topic.
func NewKafkaTrigger(brokers []string, topic, groupID string, refresher Refresher, logger *slog.Logger) *KafkaTrigger {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})
	return newKafkaTrigger(r, refresher, logger)
}

func newKafkaTrigger(r messageReader, refresher Refresher, logger *slog.Logger) *KafkaTrigger {
	return &KafkaTrigger{
		reader:    r,
		refresher: refresher,
		logger:    logger.With("component", "locationsync.kafka"),
	}
}

// Run consumes until ctx is done or the reader fails, then closes the reader.
func (k *KafkaTrigger) Run(ctx context.Context) error {
	defer func() {
		if err := k.reader.Close(); err != nil {
			k.logger.Warn("close location change reader failed", "error", err)
		}
	}()
	for {
		msg, err := k.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch location change: %w", err)
		}
		k.handle(ctx, msg)
		if err := k.reader.CommitMessages(ctx, msg); err != nil && !errors.Is(err, context.Canceled) {
			k.logger.Warn("commit location change failed", "offset", msg.Offset, "error", err)
		}
	}
}

func (k *KafkaTrigger) handle(ctx context.Context, msg kafkago.Message) {
	event, err := decodeChange(msg)
	if err != nil {
		k.logger.Warn("ignoring malformed location change", "offset", msg.Offset, "error", err)
		return
	}
	if !msg.Time.IsZero() && !msg.Time.After(k.appliedUpTo) {
		k.logger.Debug("location change already applied", "id", event.ID, "op", event.Op, "offset", msg.Offset)
		return
	}
	if err := k.refresher.Refresh(ctx, "kafka"); err != nil {
		k.logger.Warn("location refresh after change failed", "id", event.ID, "error", err)
		return
	}
	if msg.Time.After(k.appliedUpTo) {
		k.appliedUpTo = msg.Time
	}
}

func decodeChange(msg kafkago.Message) (ChangeEvent, error) {
	var event ChangeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return ChangeEvent{}, fmt.Errorf("decode location change: %w", err)
	}
	if event.ID <= 0 {
		return ChangeEvent{}, errors.New("location change without id")
	}
	return event, nil
}
