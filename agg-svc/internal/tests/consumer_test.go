package tests

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"tableside/agg-svc/internal/domain"
	"tableside/agg-svc/internal/mocks"
	"tableside/agg-svc/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var servedAt = time.Date(2026, 3, 14, 21, 15, 0, 0, time.UTC)

func servedEvent() domain.OrderEvent {
	return domain.OrderEvent{
		Type:      domain.EventOrderStatusChanged,
		OrderID:   "o-1",
		Code:      "K7Z",
		Status:    domain.StatusServed,
		Total:     decimal.RequireFromString("30.97"),
		Timestamp: servedAt,
		Items: []domain.EventItem{
			{DishID: "app-1", DishName: "Crispy Spring Rolls", Quantity: 2},
			{DishID: "app-2", DishName: "Buffalo Wings", Quantity: 1},
		},
	}
}

func TestConsumer_Process(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		event          domain.OrderEvent
		setupMockStore func(*mocks.StoreInterface)
		expectedError  bool
	}{
		{
			name:  "placed",
			event: domain.OrderEvent{Type: domain.EventOrderPlaced, OrderID: "o-1", Timestamp: servedAt},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Claim", ctx, "o-1", domain.MilestonePlaced).Return(true, nil).Once()
				mockStore.On("RecordPlaced", ctx, "2026-03-14").Return(nil).Once()
			},
		},
		{
			name:  "served",
			event: servedEvent(),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Claim", ctx, "o-1", domain.MilestoneServed).Return(true, nil).Once()
				mockStore.On("RecordServed", ctx, "2026-03-14",
					mock.MatchedBy(func(d decimal.Decimal) bool { return d.StringFixed(2) == "30.97" }),
					[]domain.DishCount{
						{DishID: "app-1", Name: "Crispy Spring Rolls", Quantity: 2},
						{DishID: "app-2", Name: "Buffalo Wings", Quantity: 1},
					}).Return(nil).Once()
			},
		},
		{
			name:  "cancelled",
			event: domain.OrderEvent{Type: domain.EventOrderStatusChanged, OrderID: "o-2", Status: domain.StatusCancelled, Timestamp: servedAt},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Claim", ctx, "o-2", domain.MilestoneCancelled).Return(true, nil).Once()
				mockStore.On("RecordCancelled", ctx, "2026-03-14").Return(nil).Once()
			},
		},
		{
			name:  "redelivered",
			event: servedEvent(),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Claim", ctx, "o-1", domain.MilestoneServed).Return(false, nil).Once()
			},
		},
		{
			name:           "kitchen progress is ignored",
			event:          domain.OrderEvent{Type: domain.EventOrderStatusChanged, OrderID: "o-1", Status: "ready"},
			setupMockStore: func(*mocks.StoreInterface) {},
		},
		{
			name:  "claim error",
			event: servedEvent(),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Claim", ctx, "o-1", domain.MilestoneServed).Return(false, errors.New("redis down")).Once()
			},
			expectedError: true,
		},
		{
			name:  "record error releases the claim",
			event: domain.OrderEvent{Type: domain.EventOrderPlaced, OrderID: "o-3", Timestamp: servedAt},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Claim", ctx, "o-3", domain.MilestonePlaced).Return(true, nil).Once()
				mockStore.On("RecordPlaced", ctx, "2026-03-14").Return(errors.New("redis down")).Once()
				mockStore.On("Release", ctx, "o-3", domain.MilestonePlaced).Return(nil).Once()
			},
			expectedError: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStoreInterface(t)
			testCase.setupMockStore(mockStore)

			consumer := service.NewConsumer(nil, mockStore, time.UTC, zap.NewNop())
			err := consumer.Process(ctx, testCase.event)
			if testCase.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConsumer_ProcessBucketsByLocation(t *testing.T) {
	ctx := context.Background()
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	mockStore := mocks.NewStoreInterface(t)
	mockStore.On("Claim", ctx, "o-1", domain.MilestonePlaced).Return(true, nil).Once()
	mockStore.On("RecordPlaced", ctx, "2026-03-15").Return(nil).Once()

	consumer := service.NewConsumer(nil, mockStore, tokyo, zap.NewNop())
	require.NoError(t, consumer.Process(ctx, domain.OrderEvent{Type: domain.EventOrderPlaced, OrderID: "o-1", Timestamp: servedAt}))
}

func TestConsumer_StartCommitsEveryMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payload, err := json.Marshal(servedEvent())
	require.NoError(t, err)

	reader := &mocks.MessageReader{
		FetchErrs: []error{errors.New("broker restarting")},
		Messages: []kafka.Message{
			{Offset: 1, Value: []byte("{not json")},
			{Offset: 2, Value: payload},
		},
	}

	mockStore := mocks.NewStoreInterface(t)
	mockStore.On("Claim", mock.Anything, "o-1", domain.MilestoneServed).Return(true, nil).Once()
	mockStore.On("RecordServed", mock.Anything, "2026-03-14", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil).Once()

	core, logs := observer.New(zapcore.WarnLevel)
	consumer := service.NewConsumer(reader, mockStore, time.UTC, zap.New(core))

	err = consumer.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, reader.Committed, 2)
	assert.Equal(t, 1, logs.FilterMessage("order_event_fetch_failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("order_event_malformed").Len())
}
