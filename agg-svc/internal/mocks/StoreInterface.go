package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

type StoreInterface struct {
	mock.Mock
}

func (_m *StoreInterface) Invalidate(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	var r0 int64
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(int64)
	}
	return r0, ret.Error(1)
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
