// Package mocks holds testify mocks for the agg-svc interfaces.
package mocks

import (
	"context"

	"tableside/agg-svc/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type StoreInterface struct {
	mock.Mock
}

func NewStoreInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *StoreInterface) Claim(ctx context.Context, orderID, milestone string) (bool, error) {
	ret := _m.Called(ctx, orderID, milestone)
	return ret.Bool(0), ret.Error(1)
}

func (_m *StoreInterface) Release(ctx context.Context, orderID, milestone string) error {
	return _m.Called(ctx, orderID, milestone).Error(0)
}

func (_m *StoreInterface) RecordPlaced(ctx context.Context, day string) error {
	return _m.Called(ctx, day).Error(0)
}

func (_m *StoreInterface) RecordServed(ctx context.Context, day string, revenue decimal.Decimal, dishes []domain.DishCount) error {
	return _m.Called(ctx, day, revenue, dishes).Error(0)
}

func (_m *StoreInterface) RecordCancelled(ctx context.Context, day string) error {
	return _m.Called(ctx, day).Error(0)
}

// MessageReader replays queued messages, calls Drained once they are all
// handed out and then blocks until ctx ends.
type MessageReader struct {
	Messages  []kafka.Message
	Committed []kafka.Message
	FetchErrs []error
	Drained   func()
}

func (r *MessageReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.FetchErrs) > 0 {
		err := r.FetchErrs[0]
		r.FetchErrs = r.FetchErrs[1:]
		return kafka.Message{}, err
	}
	if len(r.Messages) == 0 {
		if r.Drained != nil {
			r.Drained()
			r.Drained = nil
		}
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.Messages[0]
	r.Messages = r.Messages[1:]
	return msg, nil
}

func (r *MessageReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.Committed = append(r.Committed, msgs...)
	return nil
}
