package mocks

import (
	context "context"

	domain "overcooked-pos/ledger-svc/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

type EventPublisher struct {
	mock.Mock
}

func (_m *EventPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

func NewEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type PaymentMarker struct {
	mock.Mock
}

func (_m *PaymentMarker) IsPaid(ctx context.Context, orderID int64) (bool, error) {
	ret := _m.Called(ctx, orderID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *PaymentMarker) MarkPaid(ctx context.Context, orderID int64) error {
	ret := _m.Called(ctx, orderID)
	return ret.Error(0)
}

func NewPaymentMarker(t interface {
	mock.TestingT
	Cleanup(func())
}) *PaymentMarker {
	m := &PaymentMarker{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type MenuCache struct {
	mock.Mock
}

func (_m *MenuCache) GetMenu(ctx context.Context) ([]domain.MenuItem, bool, error) {
	ret := _m.Called(ctx)
	var r0 []domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.MenuItem)
	}
	return r0, ret.Bool(1), ret.Error(2)
}

func (_m *MenuCache) SetMenu(ctx context.Context, items []domain.MenuItem) error {
	ret := _m.Called(ctx, items)
	return ret.Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func (_m *QRGenerator) Generate(orderID int64) ([]byte, error) {
	ret := _m.Called(orderID)
	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}
