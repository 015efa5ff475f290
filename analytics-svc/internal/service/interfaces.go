package service

import (
	"context"

	"overcooked-pos/analytics-svc/internal/domain"
)

type AnalyticsInterface interface {
	DailyRevenue(ctx context.Context) ([]domain.DailyRevenue, error)
	TopMenuItems(ctx context.Context, limit int) ([]domain.TopMenuItem, error)
	TopCustomers(ctx context.Context, limit int) ([]domain.TopCustomer, error)
}

var _ AnalyticsInterface = (*AnalyticsService)(nil)
