package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/toko-cart/internal/customer"
)

var (
	// ErrCartRequiresStore is returned when a reconciliation has no store context.
	ErrCartRequiresStore = errors.New("cart requires a store")
	// ErrInvalidCartPayload is returned when the submitted cart cannot be decoded.
	ErrInvalidCartPayload = errors.New("invalid cart payload")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RawInput is the cart description submitted by the client. The list fields
// accept either a native JSON list or a string holding an encoded list.
type RawInput struct {
	CartProducts            json.RawMessage   `json:"cart_products"`
	CartCouponCodes         json.RawMessage   `json:"cart_coupon_codes"`
	DeliveryDestinationName string            `json:"delivery_destination_name"`
	Customer                customer.Identity `json:"customer"`
}

// Item is one requested product.
type Item struct {
	ID       string `json:"id" validate:"required"`
	Quantity *int   `json:"quantity" validate:"omitnil,gte=1"`
}

// UnmarshalJSON accepts the product id as a JSON string or number.
func (i *Item) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID       json.RawMessage `json:"id"`
		Quantity *int            `json:"quantity"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}
	*i = Item{ID: id, Quantity: raw.Quantity}
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		return "", nil
	case raw[0] == '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id must be a string or number: %w", err)
	}
	return n.String(), nil
}

// RequestedQuantity is the quantity asked for, 1 when omitted.
func (i Item) RequestedQuantity() int {
	if i.Quantity == nil {
		return 1
	}
	return *i.Quantity
}

// Request is the decoded and validated cart description.
type Request struct {
	Items           []Item   `validate:"dive"`
	CouponCodes     []string `validate:"dive,max=100"`
	DestinationName string
	Customer        customer.Identity
}

// ProductIDs returns the distinct requested product ids in request order.
func (r Request) ProductIDs() []string {
	seen := make(map[string]struct{}, len(r.Items))
	out := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it.ID)
	}
	return out
}

// item returns the first requested entry for a product.
func (r Request) item(productID string) (Item, bool) {
	for _, it := range r.Items {
		if it.ID == productID {
			return it, true
		}
	}
	return Item{}, false
}

// ParseRequest decodes and validates the raw input. It never recovers
// partially: any malformed list fails the whole request.
func ParseRequest(raw RawInput) (Request, error) {
	req := Request{
		DestinationName: strings.TrimSpace(raw.DeliveryDestinationName),
		Customer:        raw.Customer.Normalized(),
	}
	if err := decodeList(raw.CartProducts, &req.Items); err != nil {
		return Request{}, fmt.Errorf("%w: cart_products: %w", ErrInvalidCartPayload, err)
	}
	if err := decodeList(raw.CartCouponCodes, &req.CouponCodes); err != nil {
		return Request{}, fmt.Errorf("%w: cart_coupon_codes: %w", ErrInvalidCartPayload, err)
	}
	for i := range req.Items {
		req.Items[i].ID = strings.TrimSpace(req.Items[i].ID)
	}
	codes := req.CouponCodes[:0]
	for _, c := range req.CouponCodes {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	req.CouponCodes = codes
	if err := validate.Struct(req); err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrInvalidCartPayload, err)
	}
	return req, nil
}

func decodeList(raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return err
		}
		encoded = strings.TrimSpace(encoded)
		if encoded == "" {
			return nil
		}
		raw = json.RawMessage(encoded)
	}
	return json.Unmarshal(raw, dst)
}
