package customer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-cart/internal/cache"
	"github.com/noah-isme/toko-cart/internal/customer"
)

type stubLookup struct {
	exists bool
	err    error
	calls  int
	last   customer.Identity
}

func (s *stubLookup) Exists(_ context.Context, _ string, id customer.Identity) (bool, error) {
	s.calls++
	s.last = id
	return s.exists, s.err
}

func newResolver(t *testing.T, lookup customer.Lookup) (*customer.Resolver, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &customer.Resolver{Lookup: lookup, Cache: cache.NewRedis(client), TTL: 10 * time.Minute}, mr
}

func TestResolveCachesAnswer(t *testing.T) {
	lookup := &stubLookup{exists: true}
	r, mr := newResolver(t, lookup)
	ctx := context.Background()
	id := customer.Identity{Email: "  Buyer@Example.com "}

	require.Equal(t, customer.Existing, r.Resolve(ctx, "store", "user", id))
	require.Equal(t, customer.Existing, r.Resolve(ctx, "store", "user", id))
	require.Equal(t, 1, lookup.calls)

	mr.FastForward(11 * time.Minute)
	lookup.exists = false
	require.Equal(t, customer.New, r.Resolve(ctx, "store", "user", id))
	require.Equal(t, 2, lookup.calls)
}

func TestResolveWithoutIdentityIsUnknown(t *testing.T) {
	lookup := &stubLookup{exists: true}
	r, _ := newResolver(t, lookup)
	require.Equal(t, customer.Unknown, r.Resolve(context.Background(), "store", "user", customer.Identity{}))
	require.Zero(t, lookup.calls)
}

func TestResolveFailureDegradesToUnknown(t *testing.T) {
	lookup := &stubLookup{err: errors.New("db down")}
	r, _ := newResolver(t, lookup)
	ctx := context.Background()
	id := customer.Identity{MobileNumber: "26772000001"}

	require.Equal(t, customer.Unknown, r.Resolve(ctx, "store", "user", id))
	lookup.err = nil
	lookup.exists = true
	require.Equal(t, customer.Existing, r.Resolve(ctx, "store", "user", id), "unknown answers are not cached")
}

func TestExistenceJSON(t *testing.T) {
	for _, tc := range []struct {
		in   customer.Existence
		want string
	}{
		{customer.Unknown, "null"},
		{customer.New, "false"},
		{customer.Existing, "true"},
	} {
		data, err := json.Marshal(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, string(data))

		var out customer.Existence
		require.NoError(t, json.Unmarshal(data, &out))
		require.Equal(t, tc.in, out)
	}

	var out customer.Existence
	require.Error(t, json.Unmarshal([]byte(`"maybe"`), &out))
}

func TestIdentityNormalized(t *testing.T) {
	id := customer.Identity{Email: " A@B.COM ", MobileNumber: " 123 "}.Normalized()
	require.Equal(t, "a@b.com", id.Email)
	require.Equal(t, "123", id.MobileNumber)
	require.True(t, customer.Identity{Email: "  "}.Empty())
}
