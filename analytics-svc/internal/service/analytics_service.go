package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"overcooked-pos/analytics-svc/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// generationKey is advanced by agg-svc whenever a ledger event changes what
// the reports would show.
const generationKey = "report:generation"

const (
	DefaultLimit    = 5
	DefaultCacheTTL = time.Minute
)

// AnalyticsService answers the reporting queries. Postgres is the source of
// every result; Redis only keeps recent results for reuse until the cache
// generation moves or the entry expires. The ledger is never written.
type AnalyticsService struct {
	db  *sqlx.DB
	rdb *redis.Client
	ttl time.Duration
}

func NewAnalyticsService(db *sqlx.DB, rdb *redis.Client, ttl time.Duration) *AnalyticsService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &AnalyticsService{
		db:  db,
		rdb: rdb,
		ttl: ttl,
	}
}

func (s *AnalyticsService) DailyRevenue(ctx context.Context) ([]domain.DailyRevenue, error) {
	return readThrough(ctx, s, "daily_revenue", func(ctx context.Context) ([]domain.DailyRevenue, error) {
		report := []domain.DailyRevenue{}
		err := s.db.SelectContext(ctx, &report, `
			SELECT TO_CHAR(DATE(order_date), 'YYYY-MM-DD') AS order_date,
			       COALESCE(SUM(total_amount), 0) AS daily_revenue
			FROM orders
			GROUP BY DATE(order_date)
			ORDER BY DATE(order_date) DESC`)
		return report, err
	})
}

func (s *AnalyticsService) TopMenuItems(ctx context.Context, limit int) ([]domain.TopMenuItem, error) {
	limit = clampLimit(limit)
	return readThrough(ctx, s, fmt.Sprintf("top_items:%d", limit), func(ctx context.Context) ([]domain.TopMenuItem, error) {
		report := []domain.TopMenuItem{}
		err := s.db.SelectContext(ctx, &report, `
			SELECT mi.name, SUM(oi.quantity) AS total_quantity_sold
			FROM order_item oi
			JOIN menu_item mi ON oi.menu_item_id = mi.menu_item_id
			GROUP BY mi.name
			ORDER BY total_quantity_sold DESC
			LIMIT $1`, limit)
		return report, err
	})
}

func (s *AnalyticsService) TopCustomers(ctx context.Context, limit int) ([]domain.TopCustomer, error) {
	limit = clampLimit(limit)
	return readThrough(ctx, s, fmt.Sprintf("top_customers:%d", limit), func(ctx context.Context) ([]domain.TopCustomer, error) {
		report := []domain.TopCustomer{}
		err := s.db.SelectContext(ctx, &report, `
			SELECT c.first_name || ' ' || c.last_name AS customer_name,
			       SUM(o.total_amount) AS total_spent
			FROM orders o
			JOIN customer c ON o.customer_id = c.customer_id
			GROUP BY c.customer_id, customer_name
			ORDER BY total_spent DESC
			LIMIT $1`, limit)
		return report, err
	})
}

// cacheKey names the entry for report under the current generation.
func (s *AnalyticsService) cacheKey(ctx context.Context, report string) (string, error) {
	gen, err := s.rdb.Get(ctx, generationKey).Int64()
	if err == redis.Nil {
		gen, err = 0, nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("report:cache:%d:%s", gen, report), nil
}

// readThrough serves report from the cache when possible and otherwise loads
// it from Postgres. Cache failures only cost a query.
func readThrough[T any](ctx context.Context, s *AnalyticsService, report string, load func(context.Context) ([]T, error)) ([]T, error) {
	logger := log.WithField("report", report)

	key, err := s.cacheKey(ctx, report)
	if err != nil {
		logger.WithError(err).Warn("report cache unavailable")
		return load(ctx)
	}

	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rows []T
		if err := json.Unmarshal(raw, &rows); err == nil {
			return rows, nil
		}
		logger.Warn("discarding corrupt cached report")
	case err != redis.Nil:
		logger.WithError(err).Warn("report cache read failed")
	}

	rows, err := load(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(rows)
	if err == nil {
		err = s.rdb.Set(ctx, key, payload, s.ttl).Err()
	}
	if err != nil {
		logger.WithError(err).Warn("report cache write failed")
	}
	return rows, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > 100:
		return 100
	default:
		return limit
	}
}
