package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Decision is the outcome of a single rate limit check.
type Decision struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   time.Time
}

// Limiter counts events per key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Window is a fixed window limiter backed by a ulule/limiter store.
type Window struct {
	l *limiter.Limiter
}

// New builds a limiter from a formatted rate such as "60-M" and a store.
func New(rate string, store limiter.Store) (*Window, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", rate, err)
	}
	return &Window{l: limiter.New(store, parsed)}, nil
}

// NewRedisStore stores counters in redis under prefix.
func NewRedisStore(client redis.UniversalClient, prefix string) (limiter.Store, error) {
	return limiterredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: prefix})
}

// NewMemoryStore keeps counters in process memory.
func NewMemoryStore(prefix string) limiter.Store {
	return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: prefix, CleanUpInterval: time.Minute})
}

// Allow registers an event for key.
func (w *Window) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := w.l.Get(ctx, key)
	if err != nil {
		return Decision{Allowed: true}, err
	}
	return Decision{
		Allowed:   !res.Reached,
		Limit:     res.Limit,
		Remaining: res.Remaining,
		ResetAt:   time.Unix(res.Reset, 0),
	}, nil
}
