package tests

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"overcooked-pos/agg-svc/internal/domain"
	"overcooked-pos/agg-svc/internal/mocks"
	"overcooked-pos/agg-svc/internal/service"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func orderPlaced() domain.LedgerEvent {
	return domain.LedgerEvent{
		Type:        domain.EventOrderPlaced,
		OrderID:     1,
		CustomerID:  2,
		TotalAmount: decimal.RequireFromString("22.25"),
		Items: []domain.EventItem{
			{MenuItemID: 3, Name: "Soup", Quantity: 2},
			{MenuItemID: 4, Name: "Bread", Quantity: 1},
		},
		Timestamp: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func newTestConsumer(reader service.MessageReader, store service.StoreInterface) *service.Consumer {
	consumer := service.NewConsumer(reader, store)
	consumer.NewBackOff = func() backoff.BackOff {
		return backoff.NewConstantBackOff(time.Millisecond)
	}
	return consumer
}

func TestConsumer_Handle(t *testing.T) {
	tests := []struct {
		name           string
		inputEvent     domain.LedgerEvent
		setupMockStore func(*mocks.StoreInterface)
		wantErr        bool
	}{
		{
			name:       "order placed",
			inputEvent: orderPlaced(),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Invalidate", mock.Anything).Return(int64(4), nil).Once()
			},
		},
		{
			name: "payment processed",
			inputEvent: domain.LedgerEvent{
				Type:    domain.EventPaymentProcessed,
				OrderID: 1,
				Amount:  decimal.RequireFromString("22.25"),
			},
			setupMockStore: func(mockStore *mocks.StoreInterface) {},
		},
		{
			name:       "invalidate error",
			inputEvent: orderPlaced(),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Invalidate", mock.Anything).Return(int64(0), errors.New("redis down"))
			},
			wantErr: true,
		},
		{
			name:           "unknown type",
			inputEvent:     domain.LedgerEvent{Type: "refund_issued", OrderID: 1},
			setupMockStore: func(mockStore *mocks.StoreInterface) {},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStoreInterface(t)
			testCase.setupMockStore(mockStore)

			consumer := newTestConsumer(nil, mockStore)
			err := consumer.Handle(context.Background(), testCase.inputEvent)

			if testCase.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type queueReader struct {
	messages  []kafka.Message
	committed []int64
	fetchErrs []error
	fetches   int
}

func (r *queueReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.fetches++
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		return kafka.Message{}, err
	}
	if len(r.messages) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *queueReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func TestConsumer_StartCommitsEveryHandledMessage(t *testing.T) {
	payload, err := json.Marshal(orderPlaced())
	require.NoError(t, err)

	reader := &queueReader{messages: []kafka.Message{
		{Offset: 0, Value: payload},
		{Offset: 1, Value: []byte("{not json")},
		{Offset: 2, Value: []byte(`{"type":"something_else","order_id":9}`)},
	}}

	mockStore := mocks.NewStoreInterface(t)
	mockStore.On("Invalidate", mock.Anything).Return(int64(1), nil).Once()

	consumer := newTestConsumer(reader, mockStore)
	require.NoError(t, consumer.Start(context.Background()))

	assert.Equal(t, []int64{0, 1, 2}, reader.committed)
}

func TestConsumer_FailedEventIsRetriedBeforeCommit(t *testing.T) {
	payload, err := json.Marshal(orderPlaced())
	require.NoError(t, err)
	reader := &queueReader{messages: []kafka.Message{{Offset: 42, Value: payload}}}

	mockStore := mocks.NewStoreInterface(t)
	mockStore.On("Invalidate", mock.Anything).Return(int64(0), errors.New("redis down")).Twice()
	mockStore.On("Invalidate", mock.Anything).Return(int64(7), nil).Once()

	consumer := newTestConsumer(reader, mockStore)
	require.NoError(t, consumer.Start(context.Background()))

	assert.Equal(t, []int64{42}, reader.committed)
	mockStore.AssertNumberOfCalls(t, "Invalidate", 3)
}

func TestConsumer_FailedEventIsNeverCommitted(t *testing.T) {
	payload, err := json.Marshal(orderPlaced())
	require.NoError(t, err)
	reader := &queueReader{messages: []kafka.Message{
		{Offset: 42, Value: payload},
		{Offset: 43, Value: payload},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	attempts := 0
	mockStore := mocks.NewStoreInterface(t)
	mockStore.On("Invalidate", mock.Anything).Return(int64(0), errors.New("redis down")).Run(func(mock.Arguments) {
		attempts++
		if attempts == 3 {
			cancel()
		}
	})

	consumer := newTestConsumer(reader, mockStore)
	require.NoError(t, consumer.Start(ctx))

	assert.Empty(t, reader.committed)
	assert.Equal(t, 1, reader.fetches)
	assert.Equal(t, 3, attempts)
}

func TestConsumer_FetchErrorsBackOff(t *testing.T) {
	broken := errors.New("broker unavailable")
	reader := &queueReader{fetchErrs: []error{broken, broken, broken}}

	consumer := service.NewConsumer(reader, mocks.NewStoreInterface(t))
	consumer.NewBackOff = func() backoff.BackOff {
		return backoff.NewConstantBackOff(10 * time.Millisecond)
	}

	start := time.Now()
	require.NoError(t, consumer.Start(context.Background()))

	assert.Equal(t, 4, reader.fetches)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestConsumer_FetchErrorsStopWhenBackOffGivesUp(t *testing.T) {
	broken := errors.New("broker unavailable")
	reader := &queueReader{fetchErrs: []error{broken, broken, broken}}

	consumer := service.NewConsumer(reader, mocks.NewStoreInterface(t))
	consumer.NewBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 1)
	}

	assert.ErrorIs(t, consumer.Start(context.Background()), broken)
	assert.Equal(t, 2, reader.fetches)
}

func TestConsumer_StartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := &blockingReader{}
	consumer := newTestConsumer(reader, mocks.NewStoreInterface(t))

	assert.NoError(t, consumer.Start(ctx))
}

type blockingReader struct{}

func (blockingReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (blockingReader) CommitMessages(context.Context, ...kafka.Message) error { return nil }

func TestLedgerEvent_AffectsReports(t *testing.T) {
	assert.True(t, orderPlaced().AffectsReports())
	assert.False(t, domain.LedgerEvent{Type: domain.EventPaymentProcessed}.AffectsReports())
	assert.False(t, domain.LedgerEvent{Type: "refund_issued"}.AffectsReports())
}
