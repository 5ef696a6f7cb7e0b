package catalog

import (
	"errors"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/noah-isme/toko-cart/internal/money"
)

// ErrStoreNotFound indicates the requested store does not exist.
var ErrStoreNotFound = errors.New("store not found")

// DeliveryDestination is a named delivery area configured by a store.
type DeliveryDestination struct {
	Name              string      `json:"name"`
	Cost              money.Money `json:"cost"`
	AllowFreeDelivery bool        `json:"allow_free_delivery"`
}

// Store carries the settings that influence cart pricing.
type Store struct {
	ID                   string
	Name                 string
	Currency             string
	TimeZone             string
	AllowFreeDelivery    bool
	DeliveryFlatFee      *money.Money
	DeliveryDestinations []DeliveryDestination
}

// Location resolves the store time zone, defaulting to UTC.
func (s Store) Location() *time.Location {
	name := strings.TrimSpace(s.TimeZone)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Destination looks up a delivery destination by exact name.
func (s Store) Destination(name string) (DeliveryDestination, bool) {
	if name == "" {
		return DeliveryDestination{}, false
	}
	for _, d := range s.DeliveryDestinations {
		if d.Name == name {
			return d, true
		}
	}
	return DeliveryDestination{}, false
}
