package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DiscountType represents the type of discount a coupon grants
type DiscountType string

const (
	DiscountPercentage   DiscountType = "PERCENTAGE"
	DiscountFreeShipping DiscountType = "FREE_SHIPPING"
)

// CouponRule describes one recognised coupon code.
// Value is a percentage for DiscountPercentage and unused for DiscountFreeShipping.
type CouponRule struct {
	Code        string
	Type        DiscountType
	Value       decimal.Decimal
	MaxDiscount *decimal.Decimal
	Label       string
}

// DefaultRules returns the storefront's built-in coupons
func DefaultRules() []CouponRule {
	cap10 := decimal.NewFromInt(50000)
	cap20 := decimal.NewFromInt(100000)
	return []CouponRule{
		{
			Code:        "HEMAT10",
			Type:        DiscountPercentage,
			Value:       decimal.NewFromInt(10),
			MaxDiscount: &cap10,
			Label:       "10% off (cap 50000)",
		},
		{
			Code:        "DISKON20",
			Type:        DiscountPercentage,
			Value:       decimal.NewFromInt(20),
			MaxDiscount: &cap20,
			Label:       "20% off (cap 100000)",
		},
		{
			Code:  "GRATISONGKIR",
			Type:  DiscountFreeShipping,
			Label: "free delivery",
		},
	}
}

// NormalizeCode trims and upper-cases a user-entered coupon code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// discountAmount returns the unrounded discount this rule grants on subtotal
func (r CouponRule) discountAmount(subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal

	switch r.Type {
	case DiscountPercentage:
		discount = subtotal.Mul(r.Value).Div(decimal.NewFromInt(100))
	default:
		discount = decimal.Zero
	}

	if r.MaxDiscount != nil && discount.GreaterThan(*r.MaxDiscount) {
		discount = *r.MaxDiscount
	}

	return discount
}
