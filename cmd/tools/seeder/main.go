package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-cart/internal/auth"
	"github.com/noah-isme/toko-cart/internal/db"
	"github.com/noah-isme/toko-cart/internal/obs"
)

const demoStoreID = "5f0c6f2e-3a8b-4d1e-9c47-2b6d0e1a7c11"

func main() {
	_ = godotenv.Load()
	logger := obs.NewLogger(os.Getenv("OBS_LOG_FORMAT"), "info")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}
	if err := db.Migrate(dbURL); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer conn.Close(context.Background())

	err = pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if err := seedStore(ctx, tx); err != nil {
			return err
		}
		if err := seedProducts(ctx, tx); err != nil {
			return err
		}
		if err := seedCoupons(ctx, tx); err != nil {
			return err
		}
		return seedCustomers(ctx, tx)
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("seed demo store")
	}
	logger.Info().Str("store_id", demoStoreID).Msg("seeding completed")

	printDemoToken(logger)
}

func seedStore(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
INSERT INTO stores (id, name, currency, time_zone, allow_free_delivery, delivery_flat_fee, delivery_destinations)
VALUES ($1, 'Toko Demo', 'IDR', 'Asia/Jakarta', FALSE, 15000,
        '[{"name":"Jakarta","cost":10000,"allow_free_delivery":false},{"name":"Bandung","cost":20000,"allow_free_delivery":false},{"name":"Pickup","cost":0,"allow_free_delivery":true}]')
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  currency = EXCLUDED.currency,
  time_zone = EXCLUDED.time_zone,
  delivery_flat_fee = EXCLUDED.delivery_flat_fee,
  delivery_destinations = EXCLUDED.delivery_destinations`, demoStoreID)
	return err
}

func seedProducts(ctx context.Context, tx pgx.Tx) error {
	products := []struct {
		ID       string
		Name     string
		Regular  int64
		Sale     *int64
		Stock    *int
		MaxOrder *int
		Visible  bool
		IsFree   bool
	}{
		{"0b6a1a53-8f3e-4c55-a3a1-7b1c1d3f0001", "Kopi Gayo 250g", 85000, ptr[int64](75000), ptr(40), ptr(5), true, false},
		{"0b6a1a53-8f3e-4c55-a3a1-7b1c1d3f0002", "Teh Melati 100g", 30000, nil, ptr(3), nil, true, false},
		{"0b6a1a53-8f3e-4c55-a3a1-7b1c1d3f0003", "Gula Aren Cair", 45000, nil, ptr(0), nil, true, false},
		{"0b6a1a53-8f3e-4c55-a3a1-7b1c1d3f0004", "Tumbler Bambu", 120000, ptr[int64](99000), nil, ptr(2), true, false},
		{"0b6a1a53-8f3e-4c55-a3a1-7b1c1d3f0005", "Sampel Kopi", 0, nil, ptr(100), ptr(1), true, true},
		{"0b6a1a53-8f3e-4c55-a3a1-7b1c1d3f0006", "Kopi Musiman", 95000, nil, ptr(10), nil, false, false},
	}
	batch := &pgx.Batch{}
	for i, p := range products {
		batch.Queue(`
INSERT INTO products (id, store_id, name, visible, is_free, unit_regular_price, unit_sale_price,
                      stock_quantity, maximum_allowed_quantity_per_order, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  visible = EXCLUDED.visible,
  is_free = EXCLUDED.is_free,
  unit_regular_price = EXCLUDED.unit_regular_price,
  unit_sale_price = EXCLUDED.unit_sale_price,
  stock_quantity = EXCLUDED.stock_quantity,
  maximum_allowed_quantity_per_order = EXCLUDED.maximum_allowed_quantity_per_order,
  position = EXCLUDED.position`,
			p.ID, demoStoreID, p.Name, p.Visible, p.IsFree, p.Regular, p.Sale, p.Stock, p.MaxOrder, i)
	}
	return tx.SendBatch(ctx, batch).Close()
}

func seedCoupons(ctx context.Context, tx pgx.Tx) error {
	batch := &pgx.Batch{}
	batch.Queue(`
INSERT INTO coupons (id, store_id, name, description, offer_discount, discount_type, discount_percentage_rate,
                     activate_using_code, code, minimum_grand_total)
VALUES ('7d2f4b9a-1c3e-4f5a-8b6d-000000000001', $1, 'HEMAT10', '10% off orders above 100k', TRUE, 'percentage', 10,
        TRUE, 'HEMAT10', 100000)
ON CONFLICT (id) DO NOTHING`, demoStoreID)
	batch.Queue(`
INSERT INTO coupons (id, store_id, name, description, offer_discount, discount_type, discount_fixed_rate,
                     for_new_customer, remaining_uses)
VALUES ('7d2f4b9a-1c3e-4f5a-8b6d-000000000002', $1, 'Welcome', '25k off the first order', TRUE, 'fixed', 25000,
        TRUE, 100)
ON CONFLICT (id) DO NOTHING`, demoStoreID)
	batch.Queue(`
INSERT INTO coupons (id, store_id, name, description, offer_free_delivery, minimum_total_product_quantities,
                     days_of_week)
VALUES ('7d2f4b9a-1c3e-4f5a-8b6d-000000000003', $1, 'Weekend Ongkir', 'Free delivery on weekends for 3+ items', TRUE, 3,
        '{0,6}')
ON CONFLICT (id) DO NOTHING`, demoStoreID)
	return tx.SendBatch(ctx, batch).Close()
}

func seedCustomers(ctx context.Context, tx pgx.Tx) error {
	storeID := [16]byte(uuid.MustParse(demoStoreID))
	rows := [][]any{
		{storeID, "budi@example.com", "+6281200000001"},
		{storeID, "siti@example.com", "+6281200000002"},
	}
	if _, err := tx.Exec(ctx, `DELETE FROM customers WHERE store_id = $1`, demoStoreID); err != nil {
		return err
	}
	_, err := tx.CopyFrom(ctx, pgx.Identifier{"customers"}, []string{"store_id", "email", "mobile_number"}, pgx.CopyFromRows(rows))
	return err
}

func printDemoToken(logger zerolog.Logger) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return
	}
	verifier := auth.Verifier{
		Secret:   []byte(secret),
		Issuer:   os.Getenv("JWT_ISSUER"),
		Audience: os.Getenv("JWT_AUDIENCE"),
	}
	token, err := verifier.Sign("demo-shopper", 24*time.Hour)
	if err != nil {
		logger.Error().Err(err).Msg("sign demo token")
		return
	}
	logger.Info().Str("token", token).Msg("demo shopper token")
}

func ptr[T any](v T) *T { return &v }
