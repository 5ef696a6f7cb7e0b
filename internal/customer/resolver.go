package customer

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-cart/internal/cache"
	"github.com/noah-isme/toko-cart/internal/resilience"
)

// DefaultTTL is how long a lookup answer is cached.
const DefaultTTL = 10 * time.Minute

// Lookup answers whether a customer exists for a store.
type Lookup interface {
	Exists(ctx context.Context, storeID string, id Identity) (bool, error)
}

// Resolver resolves Existence through a per (store, user) cache.
type Resolver struct {
	Lookup Lookup
	Cache  cache.Store
	TTL    time.Duration
	Call   resilience.Call
	Logger zerolog.Logger
}

func (r *Resolver) ttl() time.Duration {
	if r == nil || r.TTL <= 0 {
		return DefaultTTL
	}
	return r.TTL
}

// Resolve returns the cached answer when present, otherwise looks the
// customer up and caches a known answer. Failures degrade to Unknown.
func (r *Resolver) Resolve(ctx context.Context, storeID, userID string, id Identity) Existence {
	if r == nil || r.Lookup == nil {
		return Unknown
	}
	key := ""
	if userID != "" && r.Cache != nil {
		key = cache.KeyCustomerExistence(storeID, userID)
		var cached Existence
		ok, err := r.Cache.Get(ctx, key, &cached)
		if err != nil {
			r.Logger.Warn().Err(err).Str("store_id", storeID).Msg("customer existence cache read")
		} else if ok && cached.Known() {
			return cached
		}
	}
	if id.Empty() {
		return Unknown
	}

	var exists bool
	err := r.Call.Do(ctx, func(ctx context.Context) error {
		var err error
		exists, err = r.Lookup.Exists(ctx, storeID, id)
		return err
	})
	if err != nil {
		r.Logger.Warn().Err(err).Str("store_id", storeID).Msg("customer lookup failed")
		return Unknown
	}
	result := FromBool(exists)
	if key != "" {
		if err := r.Cache.Put(ctx, key, result, r.ttl()); err != nil {
			r.Logger.Warn().Err(err).Str("store_id", storeID).Msg("customer existence cache write")
		}
	}
	return result
}
