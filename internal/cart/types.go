package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-cart/internal/catalog"
	"github.com/noah-isme/toko-cart/internal/customer"
	"github.com/noah-isme/toko-cart/internal/money"
)

// ChangeKind identifies a business relevant change detected on a cart line.
type ChangeKind string

const (
	ChangeNoStock                                         ChangeKind = "no_stock"
	ChangeLimitedStock                                    ChangeKind = "limited_stock"
	ChangeExceededMaximumAllowedQuantityPerOrder          ChangeKind = "exceeded_maximum_allowed_quantity_per_order"
	ChangeNoLongerExceedingMaximumAllowedQuantityPerOrder ChangeKind = "no_longer_exceeding_maximum_allowed_quantity_per_order"
	ChangeNoStockToEnoughStock                            ChangeKind = "no_stock_to_enough_stock"
	ChangeNoStockToLimitedStock                           ChangeKind = "no_stock_to_limited_stock"
	ChangeLimitedStockToEnoughStock                       ChangeKind = "limited_stock_to_enough_stock"
	ChangePriceIncrease                                   ChangeKind = "price_increase"
	ChangePriceDecrease                                   ChangeKind = "price_decrease"
	ChangeSaleStarted                                     ChangeKind = "sale_started"
	ChangeSaleEnded                                       ChangeKind = "sale_ended"
	ChangeFreeToNotFree                                   ChangeKind = "free_to_not_free"
	ChangeNotFreeToFree                                   ChangeKind = "not_free_to_free"
	ChangeNameChanged                                     ChangeKind = "name_changed"
	ChangeNoLongerVisible                                 ChangeKind = "no_longer_visible"
	ChangeVisibleAgain                                    ChangeKind = "visible_again"
	ChangeCouponCancelled                                 ChangeKind = "coupon_cancelled"
	ChangeCouponRestored                                  ChangeKind = "coupon_restored"
)

// Valid reports whether k is one of the known kinds.
func (k ChangeKind) Valid() bool {
	switch k {
	case ChangeNoStock, ChangeLimitedStock, ChangeExceededMaximumAllowedQuantityPerOrder,
		ChangeNoLongerExceedingMaximumAllowedQuantityPerOrder, ChangeNoStockToEnoughStock,
		ChangeNoStockToLimitedStock, ChangeLimitedStockToEnoughStock, ChangePriceIncrease,
		ChangePriceDecrease, ChangeSaleStarted, ChangeSaleEnded, ChangeFreeToNotFree,
		ChangeNotFreeToFree, ChangeNameChanged, ChangeNoLongerVisible, ChangeVisibleAgain,
		ChangeCouponCancelled, ChangeCouponRestored:
		return true
	}
	return false
}

// DetectedChange records one change on a product or coupon line.
type DetectedChange struct {
	Date         time.Time  `json:"date"`
	Type         ChangeKind `json:"type"`
	Message      string     `json:"message"`
	NotifiedUser bool       `json:"notified_user"`
	ProductID    string     `json:"product_id,omitempty"`
	CouponID     string     `json:"coupon_id,omitempty"`
}

// CancellationReason explains why a line does not count towards the totals.
type CancellationReason struct {
	Date    time.Time `json:"date"`
	Message string    `json:"message"`
}

// ProductLine is a priced, quantity constrained product entry.
type ProductLine struct {
	ProductID                              string               `json:"product_id"`
	Name                                   string               `json:"name"`
	UnitRegularPrice                       money.Money          `json:"unit_regular_price"`
	UnitSaleDiscount                       money.Money          `json:"unit_sale_discount"`
	UnitPrice                              money.Money          `json:"unit_price"`
	OriginalQuantity                       int                  `json:"original_quantity"`
	Quantity                               int                  `json:"quantity"`
	SubTotal                               money.Money          `json:"sub_total"`
	SaleDiscountTotal                      money.Money          `json:"sale_discount_total"`
	GrandTotal                             money.Money          `json:"grand_total"`
	IsFree                                 bool                 `json:"is_free"`
	OnSale                                 bool                 `json:"on_sale"`
	HasStock                               bool                 `json:"has_stock"`
	HasLimitedStock                        bool                 `json:"has_limited_stock"`
	ExceededMaximumAllowedQuantityPerOrder bool                 `json:"exceeded_maximum_allowed_quantity_per_order"`
	Visible                                bool                 `json:"visible"`
	IsCancelled                            bool                 `json:"is_cancelled"`
	CancellationReasons                    []CancellationReason `json:"cancellation_reasons"`
	DetectedChanges                        []DetectedChange     `json:"detected_changes"`
}

// CouponLine is a coupon evaluated against the cart.
type CouponLine struct {
	CouponID            string               `json:"coupon_id"`
	Name                string               `json:"name"`
	Description         string               `json:"description"`
	OfferDiscount       bool                 `json:"offer_discount"`
	DiscountType        catalog.DiscountType `json:"discount_type"`
	DiscountRate        decimal.Decimal      `json:"discount_rate"`
	OfferFreeDelivery   bool                 `json:"offer_free_delivery"`
	IsCancelled         bool                 `json:"is_cancelled"`
	CancellationReasons []CancellationReason `json:"cancellation_reasons"`
	DetectedChanges     []DetectedChange     `json:"detected_changes"`
}

// Counters are the aggregate line counts of a snapshot.
type Counters struct {
	TotalProducts                     int `json:"total_products"`
	TotalCancelledProducts            int `json:"total_cancelled_products"`
	TotalUncancelledProducts          int `json:"total_uncancelled_products"`
	TotalProductQuantities            int `json:"total_product_quantities"`
	TotalCancelledProductQuantities   int `json:"total_cancelled_product_quantities"`
	TotalUncancelledProductQuantities int `json:"total_uncancelled_product_quantities"`
	TotalCoupons                      int `json:"total_coupons"`
	TotalCancelledCoupons             int `json:"total_cancelled_coupons"`
	TotalUncancelledCoupons           int `json:"total_uncancelled_coupons"`
}

// Snapshot is the full computed cart state of one reconciliation pass. A
// snapshot is never mutated once built; the next pass supersedes it.
type Snapshot struct {
	StoreID                     string                       `json:"store_id"`
	UserID                      string                       `json:"user_id,omitempty"`
	Currency                    string                       `json:"currency"`
	SubTotal                    money.Money                  `json:"sub_total"`
	SaleDiscountTotal           money.Money                  `json:"sale_discount_total"`
	CouponDiscountTotal         money.Money                  `json:"coupon_discount_total"`
	CouponAndSaleDiscountTotal  money.Money                  `json:"coupon_and_sale_discount_total"`
	DeliveryFee                 money.Money                  `json:"delivery_fee"`
	AllowFreeDelivery           bool                         `json:"allow_free_delivery"`
	DeliveryDestination         *catalog.DeliveryDestination `json:"delivery_destination"`
	GrandTotal                  money.Money                  `json:"grand_total"`
	ProductLines                []ProductLine                `json:"product_lines"`
	CouponLines                 []CouponLine                 `json:"coupon_lines"`
	Counters                    Counters                     `json:"counters"`
	IsExistingCustomer          customer.Existence           `json:"is_existing_customer"`
	HasNewCouponAndSaleDiscount bool                         `json:"has_new_coupon_and_sale_discount"`
	DetectedChanges             []DetectedChange             `json:"detected_changes"`
	CreatedAt                   time.Time                    `json:"created_at"`
}

func (s *Snapshot) productLine(id string) (ProductLine, bool) {
	if s == nil {
		return ProductLine{}, false
	}
	for _, l := range s.ProductLines {
		if l.ProductID == id {
			return l, true
		}
	}
	return ProductLine{}, false
}

func (s *Snapshot) couponLine(id string) (CouponLine, bool) {
	if s == nil {
		return CouponLine{}, false
	}
	for _, l := range s.CouponLines {
		if l.CouponID == id {
			return l, true
		}
	}
	return CouponLine{}, false
}
