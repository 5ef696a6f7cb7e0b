package catalog

import "github.com/noah-isme/toko-cart/internal/money"

// Product is a live catalog record. Nil limits mean unlimited.
type Product struct {
	ID                             string
	Name                           string
	Visible                        bool
	IsFree                         bool
	SupportsVariations             bool
	UnitRegularPrice               money.Money
	UnitSalePrice                  *money.Money
	StockQuantity                  *int
	MaximumAllowedQuantityPerOrder *int
	Position                       int
}

// Eligible reports whether the product can be placed in a cart. Products that
// support variations are parents; only their variations are sold.
func (p Product) Eligible() bool {
	return !p.SupportsVariations
}

// OnSale reports whether a sale price below the regular price is active.
func (p Product) OnSale() bool {
	if p.IsFree || p.UnitSalePrice == nil {
		return false
	}
	return p.UnitSalePrice.LessThan(p.UnitRegularPrice) && !p.UnitSalePrice.IsNegative()
}

// RegularPrice is the unit price before any sale. Free products cost nothing.
func (p Product) RegularPrice() money.Money {
	if p.IsFree {
		return money.Zero(p.UnitRegularPrice.Currency())
	}
	return p.UnitRegularPrice.NonNegative()
}

// UnitPrice is the price charged per unit.
func (p Product) UnitPrice() money.Money {
	if p.OnSale() {
		return *p.UnitSalePrice
	}
	return p.RegularPrice()
}

// UnitSaleDiscount is the per-unit saving granted by an active sale.
func (p Product) UnitSaleDiscount() money.Money {
	if !p.OnSale() {
		return money.Zero(p.UnitRegularPrice.Currency())
	}
	return p.RegularPrice().Sub(*p.UnitSalePrice)
}

// HasFiniteStock reports whether stock is tracked.
func (p Product) HasFiniteStock() bool {
	return p.StockQuantity != nil
}
