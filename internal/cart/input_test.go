package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequestAcceptsListsAndEncodedStrings(t *testing.T) {
	cases := map[string]string{
		"native": `{
			"cart_products": [{"id":"p1","quantity":2},{"id":" p2 "}],
			"cart_coupon_codes": ["SAVE", "  "],
			"delivery_destination_name": " Harbour ",
			"customer": {"email":" Ana@Example.com ","mobile_number":"+267 71 000 000"}
		}`,
		"encoded": `{
			"cart_products": "[{\"id\":\"p1\",\"quantity\":2},{\"id\":\"p2\"}]",
			"cart_coupon_codes": "[\"SAVE\"]",
			"delivery_destination_name": "Harbour",
			"customer": {"email":"ana@example.com","mobile_number":"+267 71 000 000"}
		}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var raw RawInput
			require.NoError(t, json.Unmarshal([]byte(body), &raw))
			req, err := ParseRequest(raw)
			require.NoError(t, err)
			require.Equal(t, []string{"p1", "p2"}, req.ProductIDs())
			require.Equal(t, 2, req.Items[0].RequestedQuantity())
			require.Equal(t, 1, req.Items[1].RequestedQuantity())
			require.Equal(t, []string{"SAVE"}, req.CouponCodes)
			require.Equal(t, "Harbour", req.DestinationName)
			require.Equal(t, "ana@example.com", req.Customer.Email)
		})
	}
}

func TestParseRequestEmptyInput(t *testing.T) {
	req, err := ParseRequest(RawInput{CartProducts: json.RawMessage(`""`), CartCouponCodes: json.RawMessage(`null`)})
	require.NoError(t, err)
	require.Empty(t, req.Items)
	require.Empty(t, req.CouponCodes)
}

func TestParseRequestDuplicateIDsKeepFirst(t *testing.T) {
	req, err := ParseRequest(RawInput{CartProducts: json.RawMessage(`[{"id":"p1","quantity":2},{"id":"p1","quantity":7}]`)})
	require.NoError(t, err)
	require.Equal(t, []string{"p1"}, req.ProductIDs())
	item, ok := req.item("p1")
	require.True(t, ok)
	require.Equal(t, 2, item.RequestedQuantity())
}

func TestParseRequestAcceptsNumericIDs(t *testing.T) {
	req, err := ParseRequest(RawInput{CartProducts: json.RawMessage(`[{"id":5,"quantity":2},{"id":"5"},{"id":"p7"}]`)})
	require.NoError(t, err)
	require.Equal(t, []string{"5", "p7"}, req.ProductIDs())
	item, ok := req.item("5")
	require.True(t, ok)
	require.Equal(t, 2, item.RequestedQuantity())
}

func TestParseRequestRejectsMalformedInput(t *testing.T) {
	cases := map[string]RawInput{
		"broken json":    {CartProducts: json.RawMessage(`"[{\"id\":"`)},
		"wrong shape":    {CartProducts: json.RawMessage(`{"id":"p1"}`)},
		"zero quantity":  {CartProducts: json.RawMessage(`[{"id":"p1","quantity":0}]`)},
		"missing id":     {CartProducts: json.RawMessage(`[{"quantity":1}]`)},
		"boolean id":     {CartProducts: json.RawMessage(`[{"id":true}]`)},
		"codes not list": {CartCouponCodes: json.RawMessage(`"SAVE10"`)},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRequest(raw)
			require.ErrorIs(t, err, ErrInvalidCartPayload)
		})
	}
}
