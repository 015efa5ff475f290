package mocks

import (
	context "context"

	domain "overcooked-pos/analytics-svc/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

type AnalyticsInterface struct {
	mock.Mock
}

func (_m *AnalyticsInterface) DailyRevenue(ctx context.Context) ([]domain.DailyRevenue, error) {
	ret := _m.Called(ctx)
	var r0 []domain.DailyRevenue
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.DailyRevenue)
	}
	return r0, ret.Error(1)
}

func (_m *AnalyticsInterface) TopMenuItems(ctx context.Context, limit int) ([]domain.TopMenuItem, error) {
	ret := _m.Called(ctx, limit)
	var r0 []domain.TopMenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.TopMenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *AnalyticsInterface) TopCustomers(ctx context.Context, limit int) ([]domain.TopCustomer, error) {
	ret := _m.Called(ctx, limit)
	var r0 []domain.TopCustomer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.TopCustomer)
	}
	return r0, ret.Error(1)
}

func NewAnalyticsInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *AnalyticsInterface {
	m := &AnalyticsInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
