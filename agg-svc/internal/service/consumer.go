package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tableside/agg-svc/internal/domain"
	"tableside/stats"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const fetchRetryDelay = time.Second

// Consumer folds order events into the daily aggregates. Each order
// milestone is applied at most once, so redelivered messages are harmless.
type Consumer struct {
	Reader   MessageReader
	Store    StoreInterface
	Location *time.Location
	Log      *zap.Logger

	now func() time.Time
}

func NewConsumer(reader MessageReader, store StoreInterface, loc *time.Location, log *zap.Logger) *Consumer {
	if loc == nil {
		loc = time.UTC
	}
	return &Consumer{
		Reader:   reader,
		Store:    store,
		Location: loc,
		Log:      log,
		now:      time.Now,
	}
}

// Start consumes until ctx is cancelled. Offsets are committed after each
// message is handled.
func (c *Consumer) Start(ctx context.Context) error {
	c.Log.Info("agg_consumer_started")
	for {
		message, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Log.Warn("order_event_fetch_failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		c.handle(ctx, message)
		if err := c.Reader.CommitMessages(ctx, message); err != nil && ctx.Err() == nil {
			c.Log.Warn("order_event_commit_failed", zap.Int64("offset", message.Offset), zap.Error(err))
		}
	}
}

func (c *Consumer) handle(ctx context.Context, message kafka.Message) {
	var event domain.OrderEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		c.Log.Warn("order_event_malformed",
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
			zap.Error(err))
		return
	}
	if err := c.Process(ctx, event); err != nil {
		c.Log.Error("order_event_apply_failed",
			zap.String("order_id", event.OrderID),
			zap.String("type", event.Type),
			zap.Error(err))
	}
}

// Process applies one event to the aggregates.
func (c *Consumer) Process(ctx context.Context, event domain.OrderEvent) error {
	milestone := event.Milestone()
	if milestone == "" {
		return nil
	}

	fresh, err := c.Store.Claim(ctx, event.OrderID, milestone)
	if err != nil {
		return err
	}
	if !fresh {
		c.Log.Debug("order_event_duplicate", zap.String("order_id", event.OrderID), zap.String("milestone", milestone))
		return nil
	}

	at := event.Timestamp
	if at.IsZero() {
		at = c.now()
	}
	day := stats.Day(at, c.Location)

	switch milestone {
	case domain.MilestonePlaced:
		err = c.Store.RecordPlaced(ctx, day)
	case domain.MilestoneServed:
		err = c.Store.RecordServed(ctx, day, event.Total, event.DishCounts())
	case domain.MilestoneCancelled:
		err = c.Store.RecordCancelled(ctx, day)
	}
	if err != nil {
		if releaseErr := c.Store.Release(ctx, event.OrderID, milestone); releaseErr != nil {
			c.Log.Warn("order_event_release_failed", zap.String("order_id", event.OrderID), zap.Error(releaseErr))
		}
		return fmt.Errorf("apply %s of %s: %w", milestone, event.OrderID, err)
	}

	c.Log.Info("order_event_aggregated",
		zap.String("code", event.Code),
		zap.String("milestone", milestone),
		zap.String("day", day))
	return nil
}
