package service

import (
	"context"

	"tableside/agg-svc/internal/domain"
	"tableside/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

type StoreInterface interface {
	Claim(ctx context.Context, orderID, milestone string) (bool, error)
	Release(ctx context.Context, orderID, milestone string) error
	RecordPlaced(ctx context.Context, day string) error
	RecordServed(ctx context.Context, day string, revenue decimal.Decimal, dishes []domain.DishCount) error
	RecordCancelled(ctx context.Context, day string) error
}

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	Process(ctx context.Context, event domain.OrderEvent) error
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
