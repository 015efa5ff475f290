package storage

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"overcooked-pos/ledger-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const menuCacheKey = "menu:all"

type RedisCache struct {
	Client    *redis.Client
	MenuTTL   time.Duration
	MarkerTTL time.Duration
}

func NewRedisCache(client *redis.Client, menuTTL, markerTTL time.Duration) *RedisCache {
	return &RedisCache{Client: client, MenuTTL: menuTTL, MarkerTTL: markerTTL}
}

func (c *RedisCache) GetMenu(ctx context.Context) ([]domain.MenuItem, bool, error) {
	raw, err := c.Client.Get(ctx, menuCacheKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var items []domain.MenuItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func (c *RedisCache) SetMenu(ctx context.Context, items []domain.MenuItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, menuCacheKey, payload, c.MenuTTL).Err()
}

func (c *RedisCache) PaidMarkerKey(orderID int64) string {
	return "order:paid:" + strconv.FormatInt(orderID, 10)
}

// IsPaid only reports markers written after a committed payment; a missing
// marker says nothing about the order.
func (c *RedisCache) IsPaid(ctx context.Context, orderID int64) (bool, error) {
	res, err := c.Client.Exists(ctx, c.PaidMarkerKey(orderID)).Result()
	if err != nil {
		return false, err
	}
	return res > 0, nil
}

func (c *RedisCache) MarkPaid(ctx context.Context, orderID int64) error {
	return c.Client.Set(ctx, c.PaidMarkerKey(orderID), "1", c.MarkerTTL).Err()
}
