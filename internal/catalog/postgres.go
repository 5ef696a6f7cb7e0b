package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-cart/internal/money"
)

// DBTX is the subset of pgx used by the catalog reader. Both *pgxpool.Pool and
// pgx.Tx satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres reads live store, product and coupon records.
type Postgres struct {
	DB DBTX
}

const getStoreSQL = `
SELECT id::text, name, currency, time_zone, allow_free_delivery,
       delivery_flat_fee::text, delivery_destinations
FROM stores
WHERE id = $1`

// Store loads the store settings.
func (p Postgres) Store(ctx context.Context, storeID string) (Store, error) {
	if p.DB == nil {
		return Store{}, errors.New("catalog: db not configured")
	}
	id, err := uuid.Parse(storeID)
	if err != nil {
		return Store{}, ErrStoreNotFound
	}
	var (
		s            Store
		flatFee      *string
		destinations []byte
	)
	err = p.DB.QueryRow(ctx, getStoreSQL, id.String()).Scan(
		&s.ID, &s.Name, &s.Currency, &s.TimeZone, &s.AllowFreeDelivery, &flatFee, &destinations,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Store{}, ErrStoreNotFound
		}
		return Store{}, fmt.Errorf("load store: %w", err)
	}
	if s.DeliveryFlatFee, err = optionalMoney(flatFee, s.Currency); err != nil {
		return Store{}, err
	}
	if s.DeliveryDestinations, err = decodeDestinations(destinations, s.Currency); err != nil {
		return Store{}, err
	}
	return s, nil
}

const listProductsSQL = `
SELECT id::text, name, visible, is_free, supports_variations,
       unit_regular_price::text, unit_sale_price::text,
       stock_quantity, maximum_allowed_quantity_per_order, position
FROM products
WHERE store_id = $1 AND id = ANY($2::uuid[])
ORDER BY position, id`

// Products loads the catalog records for the given ids. Malformed ids are skipped.
func (p Postgres) Products(ctx context.Context, storeID string, currency string, ids []string) ([]Product, error) {
	if p.DB == nil {
		return nil, errors.New("catalog: db not configured")
	}
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, ErrStoreNotFound
	}
	parsed := make([]string, 0, len(ids))
	for _, raw := range ids {
		if id, err := uuid.Parse(raw); err == nil {
			parsed = append(parsed, id.String())
		}
	}
	if len(parsed) == 0 {
		return nil, nil
	}
	rows, err := p.DB.Query(ctx, listProductsSQL, sid.String(), parsed)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var (
			prod      Product
			regular   string
			sale      *string
			stock     *int32
			maxPerOrd *int32
			position  int32
		)
		if err := rows.Scan(&prod.ID, &prod.Name, &prod.Visible, &prod.IsFree, &prod.SupportsVariations,
			&regular, &sale, &stock, &maxPerOrd, &position); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if prod.UnitRegularPrice, err = money.Parse(regular, currency); err != nil {
			return nil, err
		}
		if prod.UnitSalePrice, err = optionalMoney(sale, currency); err != nil {
			return nil, err
		}
		prod.StockQuantity = optionalInt(stock)
		prod.MaximumAllowedQuantityPerOrder = optionalInt(maxPerOrd)
		prod.Position = int(position)
		out = append(out, prod)
	}
	return out, rows.Err()
}

const listCouponsSQL = `
SELECT id::text, name, description, active,
       offer_discount, discount_type, discount_percentage_rate::text, discount_fixed_rate::text,
       offer_free_delivery, activate_using_code, code,
       minimum_grand_total::text, minimum_total_products, minimum_total_product_quantities,
       start_at, end_at,
       COALESCE(hours_of_day, '{}'), COALESCE(days_of_week, '{}'),
       COALESCE(days_of_month, '{}'), COALESCE(months_of_year, '{}'),
       for_new_customer, for_existing_customer, remaining_uses
FROM coupons
WHERE store_id = $1
ORDER BY created_at, id`

// Coupons loads every coupon configured for the store.
func (p Postgres) Coupons(ctx context.Context, storeID string, currency string) ([]Coupon, error) {
	if p.DB == nil {
		return nil, errors.New("catalog: db not configured")
	}
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return nil, ErrStoreNotFound
	}
	rows, err := p.DB.Query(ctx, listCouponsSQL, sid.String())
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var out []Coupon
	for rows.Next() {
		var (
			c                        Coupon
			discountType             string
			percentRate, fixedRate   string
			minGrandTotal            *string
			minProducts, minQuantity *int32
			startAt, endAt           *time.Time
			hours, weekdays, mdays   []int32
			months                   []int32
			remaining                *int32
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Active,
			&c.OfferDiscount, &discountType, &percentRate, &fixedRate,
			&c.OfferFreeDelivery, &c.ActivateUsingCode, &c.Code,
			&minGrandTotal, &minProducts, &minQuantity,
			&startAt, &endAt,
			&hours, &weekdays, &mdays, &months,
			&c.ForNewCustomer, &c.ForExistingCustomer, &remaining,
		); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		c.DiscountType = DiscountType(discountType)
		if c.DiscountPercentageRate, err = decimal.NewFromString(percentRate); err != nil {
			return nil, fmt.Errorf("coupon %s percentage rate: %w", c.ID, err)
		}
		if c.DiscountFixedRate, err = money.Parse(fixedRate, currency); err != nil {
			return nil, err
		}
		if c.MinimumGrandTotal, err = optionalMoney(minGrandTotal, currency); err != nil {
			return nil, err
		}
		c.MinimumTotalProducts = optionalInt(minProducts)
		c.MinimumTotalProductQuantities = optionalInt(minQuantity)
		c.StartAt = startAt
		c.EndAt = endAt
		c.HoursOfDay = toInts(hours)
		c.DaysOfMonth = toInts(mdays)
		for _, d := range weekdays {
			c.DaysOfWeek = append(c.DaysOfWeek, time.Weekday(d))
		}
		for _, m := range months {
			c.MonthsOfYear = append(c.MonthsOfYear, time.Month(m))
		}
		c.RemainingUses = optionalInt(remaining)
		out = append(out, c)
	}
	return out, rows.Err()
}

type destinationRow struct {
	Name              string          `json:"name"`
	Cost              decimal.Decimal `json:"cost"`
	AllowFreeDelivery bool            `json:"allow_free_delivery"`
}

func decodeDestinations(raw []byte, currency string) ([]DeliveryDestination, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var rows []destinationRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode delivery destinations: %w", err)
	}
	out := make([]DeliveryDestination, 0, len(rows))
	for _, r := range rows {
		out = append(out, DeliveryDestination{
			Name:              r.Name,
			Cost:              money.New(r.Cost, currency).NonNegative(),
			AllowFreeDelivery: r.AllowFreeDelivery,
		})
	}
	return out, nil
}

func optionalMoney(value *string, currency string) (*money.Money, error) {
	if value == nil {
		return nil, nil
	}
	m, err := money.Parse(*value, currency)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func optionalInt(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func toInts(values []int32) []int {
	if len(values) == 0 {
		return nil
	}
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out
}
