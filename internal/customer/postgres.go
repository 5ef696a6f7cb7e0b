package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Querier is the pgx subset used by Postgres.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres looks customers up in the store's customer table.
type Postgres struct {
	DB Querier
}

const customerExistsSQL = `
SELECT EXISTS (
  SELECT 1 FROM customers
  WHERE store_id = $1
    AND (($2 <> '' AND lower(email) = $2) OR ($3 <> '' AND mobile_number = $3))
)`

// Exists reports whether a customer with the email or mobile number exists in the store.
func (p Postgres) Exists(ctx context.Context, storeID string, id Identity) (bool, error) {
	if p.DB == nil {
		return false, errors.New("customer: db not configured")
	}
	sid, err := uuid.Parse(storeID)
	if err != nil {
		return false, fmt.Errorf("customer: invalid store id: %w", err)
	}
	n := id.Normalized()
	var exists bool
	if err := p.DB.QueryRow(ctx, customerExistsSQL, sid.String(), n.Email, n.MobileNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("customer lookup: %w", err)
	}
	return exists, nil
}
