package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/toko-cart/internal/cache"
	"github.com/noah-isme/toko-cart/internal/catalog"
	"github.com/noah-isme/toko-cart/internal/customer"
	"github.com/noah-isme/toko-cart/internal/obs"
)

// DefaultSnapshotTTL is how long a snapshot stays cached.
const DefaultSnapshotTTL = 10 * time.Minute

// Catalog reads the live store, product and coupon records.
type Catalog interface {
	Store(ctx context.Context, storeID string) (catalog.Store, error)
	Products(ctx context.Context, storeID, currency string, ids []string) ([]catalog.Product, error)
	Coupons(ctx context.Context, storeID, currency string) ([]catalog.Coupon, error)
}

// ExistenceResolver answers whether the shopper is an existing customer.
type ExistenceResolver interface {
	Resolve(ctx context.Context, storeID, userID string, id customer.Identity) customer.Existence
}

// Locker serialises work on a key.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// Service wraps the engine with the snapshot cache.
type Service struct {
	Catalog   Catalog
	Cache     cache.Store
	Customers ExistenceResolver
	// Locker, when set, serialises passes of the same user in the same store.
	Locker  Locker
	LockTTL time.Duration
	TTL     time.Duration
	Now     func() time.Time
	Logger  zerolog.Logger
}

func (s *Service) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return DefaultSnapshotTTL
	}
	return s.TTL
}

func (s *Service) lockTTL() time.Duration {
	if s == nil || s.LockTTL <= 0 {
		return 10 * time.Second
	}
	return s.LockTTL
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Reconcile runs one reconciliation pass for the user in the store and caches
// the resulting snapshot. Anonymous callers (empty userID) are never cached.
func (s *Service) Reconcile(ctx context.Context, storeID, userID string, raw RawInput) (*Snapshot, error) {
	if s == nil || s.Catalog == nil {
		return nil, errors.New("cart service not configured")
	}
	ctx, span := otel.Tracer("cart.Service").Start(ctx, "CartService.Reconcile")
	defer span.End()
	span.SetAttributes(attribute.String("cart.store_id", storeID), attribute.Bool("cart.anonymous", userID == ""))

	start := time.Now()
	var (
		snap *Snapshot
		err  error
	)
	storeID = strings.TrimSpace(storeID)
	if s.Locker != nil && userID != "" && storeID != "" {
		err = s.Locker.WithLock(ctx, cache.KeyCartLock(storeID, userID), s.lockTTL(), func(ctx context.Context) error {
			var passErr error
			snap, passErr = s.reconcile(ctx, storeID, userID, raw)
			return passErr
		})
	} else {
		snap, err = s.reconcile(ctx, storeID, userID, raw)
	}
	obs.ObserveCartReconcile(resultLabel(err), time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("cart.product_lines", len(snap.ProductLines)),
		attribute.Int("cart.coupon_lines", len(snap.CouponLines)),
	)
	return snap, nil
}

func (s *Service) reconcile(ctx context.Context, storeID, userID string, raw RawInput) (*Snapshot, error) {
	if storeID == "" {
		return nil, ErrCartRequiresStore
	}
	store, err := s.Catalog.Store(ctx, storeID)
	if err != nil {
		if errors.Is(err, catalog.ErrStoreNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCartRequiresStore, storeID)
		}
		return nil, fmt.Errorf("load store: %w", err)
	}
	req, err := ParseRequest(raw)
	if err != nil {
		return nil, err
	}

	existence := customer.Unknown
	if s.Customers != nil {
		existence = s.Customers.Resolve(ctx, store.ID, userID, req.Customer)
	}
	prev := s.previous(ctx, store.ID, userID)

	var products []catalog.Product
	if ids := req.ProductIDs(); len(ids) > 0 {
		if products, err = s.Catalog.Products(ctx, store.ID, store.Currency, ids); err != nil {
			return nil, fmt.Errorf("load products: %w", err)
		}
	}
	coupons, err := s.Catalog.Coupons(ctx, store.ID, store.Currency)
	if err != nil {
		return nil, fmt.Errorf("load coupons: %w", err)
	}

	snap, err := Engine{}.Reconcile(Inputs{
		Store:     &store,
		Products:  products,
		Coupons:   coupons,
		UserID:    userID,
		Request:   req,
		Previous:  prev,
		Existence: existence,
		Now:       s.now(),
	})
	if err != nil {
		return nil, err
	}
	s.save(ctx, snap)

	for _, c := range snap.DetectedChanges {
		obs.ObserveCartChange(string(c.Type), c.NotifiedUser)
	}
	s.Logger.Debug().
		Str("store_id", store.ID).
		Str("user_id", userID).
		Int("product_lines", len(snap.ProductLines)).
		Int("coupon_lines", len(snap.CouponLines)).
		Int("detected_changes", len(snap.DetectedChanges)).
		Str("grand_total", snap.GrandTotal.String()).
		Msg("cart_reconciled")
	return snap, nil
}

// Current returns the cached snapshot, or nil when none is cached.
func (s *Service) Current(ctx context.Context, storeID, userID string) (*Snapshot, error) {
	if s == nil || s.Cache == nil || userID == "" {
		return nil, nil
	}
	var snap Snapshot
	ok, err := s.Cache.Get(ctx, cache.KeyCartSnapshot(storeID, userID), &snap)
	if err != nil {
		obs.ObserveCartCache("get", "error")
		return nil, fmt.Errorf("read cart snapshot: %w", err)
	}
	if !ok {
		obs.ObserveCartCache("get", "miss")
		return nil, nil
	}
	obs.ObserveCartCache("get", "hit")
	return &snap, nil
}

// Forget drops the cached snapshot so the next pass starts fresh.
func (s *Service) Forget(ctx context.Context, storeID, userID string) error {
	if s == nil || s.Cache == nil || userID == "" {
		return nil
	}
	if err := s.Cache.Forget(ctx, cache.KeyCartSnapshot(storeID, userID)); err != nil {
		obs.ObserveCartCache("forget", "error")
		return fmt.Errorf("forget cart snapshot: %w", err)
	}
	obs.ObserveCartCache("forget", "ok")
	return nil
}

func (s *Service) previous(ctx context.Context, storeID, userID string) *Snapshot {
	snap, err := s.Current(ctx, storeID, userID)
	if err != nil {
		s.Logger.Warn().Err(err).Str("store_id", storeID).Str("user_id", userID).Msg("cart snapshot cache read")
		return nil
	}
	return snap
}

func (s *Service) save(ctx context.Context, snap *Snapshot) {
	if s.Cache == nil || snap.UserID == "" {
		return
	}
	if err := s.Cache.Put(ctx, cache.KeyCartSnapshot(snap.StoreID, snap.UserID), snap, s.ttl()); err != nil {
		obs.ObserveCartCache("put", "error")
		s.Logger.Warn().Err(err).Str("store_id", snap.StoreID).Str("user_id", snap.UserID).Msg("cart snapshot cache write")
		return
	}
	obs.ObserveCartCache("put", "ok")
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrCartRequiresStore):
		return "no_store"
	case errors.Is(err, ErrInvalidCartPayload):
		return "invalid"
	default:
		return "error"
	}
}
