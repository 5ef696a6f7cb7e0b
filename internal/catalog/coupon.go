package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-cart/internal/money"
)

// DiscountType selects how a coupon discount is computed.
type DiscountType string

const (
	// DiscountPercentage takes a percentage of the cart grand total.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed takes a fixed amount off the cart grand total.
	DiscountFixed DiscountType = "fixed"
)

// Coupon describes a store coupon and its activation settings. Each optional
// field, when set, is an activation requirement.
type Coupon struct {
	ID          string
	Name        string
	Description string
	Active      bool

	OfferDiscount          bool
	DiscountType           DiscountType
	DiscountPercentageRate decimal.Decimal
	DiscountFixedRate      money.Money
	OfferFreeDelivery      bool

	ActivateUsingCode             bool
	Code                          string
	MinimumGrandTotal             *money.Money
	MinimumTotalProducts          *int
	MinimumTotalProductQuantities *int
	StartAt                       *time.Time
	EndAt                         *time.Time
	HoursOfDay                    []int
	DaysOfWeek                    []time.Weekday
	DaysOfMonth                   []int
	MonthsOfYear                  []time.Month
	ForNewCustomer                bool
	ForExistingCustomer           bool
	RemainingUses                 *int
}

// DiscountRate returns the percentage rate or the fixed amount depending on the type.
func (c Coupon) DiscountRate() decimal.Decimal {
	if c.DiscountType == DiscountPercentage {
		return c.DiscountPercentageRate
	}
	return c.DiscountFixedRate.Amount()
}
