package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// GenerationKey scopes every cached report in analytics-svc. The two services
// must agree on it.
const GenerationKey = "report:generation"

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Invalidate moves report readers onto a fresh cache generation and returns
// it. Entries cached under older generations are left to expire.
func (s *Store) Invalidate(ctx context.Context) (int64, error) {
	return s.rdb.Incr(ctx, GenerationKey).Result()
}
