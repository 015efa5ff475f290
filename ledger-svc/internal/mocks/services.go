package mocks

import (
	context "context"

	domain "overcooked-pos/ledger-svc/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

type OrderServiceInterface struct {
	mock.Mock
}

func (_m *OrderServiceInterface) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (*domain.Order, error) {
	ret := _m.Called(ctx, req)
	var r0 *domain.Order
	if rf, ok := ret.Get(0).(func(context.Context, domain.PlaceOrderRequest) *domain.Order); ok {
		r0 = rf(ctx, req)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderServiceInterface) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	ret := _m.Called(ctx, orderID)
	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func NewOrderServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderServiceInterface {
	m := &OrderServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type PaymentServiceInterface struct {
	mock.Mock
}

func (_m *PaymentServiceInterface) ProcessPayment(ctx context.Context, req domain.ProcessPaymentRequest) (*domain.PaymentConfirmation, error) {
	ret := _m.Called(ctx, req)
	var r0 *domain.PaymentConfirmation
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.PaymentConfirmation)
	}
	return r0, ret.Error(1)
}

func NewPaymentServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *PaymentServiceInterface {
	m := &PaymentServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type CustomerServiceInterface struct {
	mock.Mock
}

func (_m *CustomerServiceInterface) Register(ctx context.Context, customer *domain.Customer) error {
	ret := _m.Called(ctx, customer)
	return ret.Error(0)
}

type MenuServiceInterface struct {
	mock.Mock
}

func (_m *MenuServiceInterface) List(ctx context.Context) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx)
	var r0 []domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.MenuItem)
	}
	return r0, ret.Error(1)
}

type AccountServiceInterface struct {
	mock.Mock
}

func (_m *AccountServiceInterface) Get(ctx context.Context, accountID int64) (*domain.BankAccount, error) {
	ret := _m.Called(ctx, accountID)
	var r0 *domain.BankAccount
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.BankAccount)
	}
	return r0, ret.Error(1)
}

type ReceiptServiceInterface struct {
	mock.Mock
}

func (_m *ReceiptServiceInterface) QRCode(ctx context.Context, orderID int64) ([]byte, error) {
	ret := _m.Called(ctx, orderID)
	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}
