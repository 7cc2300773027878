package pricing

import (
	"github.com/shopspring/decimal"
	"storefront-service/internal/models"
)

// DefaultDeliveryFee is the flat fee charged on any non-empty cart
const DefaultDeliveryFee = 15000

// Calculator derives cart totals from a subtotal and a coupon code.
// It holds no per-cart state and is safe for concurrent use.
type Calculator struct {
	deliveryFee decimal.Decimal
	rules       map[string]CouponRule
}

// NewCalculator builds a calculator with the given flat delivery fee and
// coupon rules. A negative fee is treated as 0. Rule codes are normalised;
// on duplicates the later rule wins.
func NewCalculator(deliveryFee float64, rules []CouponRule) *Calculator {
	if deliveryFee < 0 {
		deliveryFee = 0
	}
	c := &Calculator{
		deliveryFee: decimal.NewFromFloat(deliveryFee),
		rules:       make(map[string]CouponRule, len(rules)),
	}
	for _, r := range rules {
		c.rules[NormalizeCode(r.Code)] = r
	}
	return c
}

// NewDefaultCalculator uses DefaultDeliveryFee and DefaultRules
func NewDefaultCalculator() *Calculator {
	return NewCalculator(DefaultDeliveryFee, DefaultRules())
}

// Rule looks up the rule a code would apply
func (c *Calculator) Rule(code string) (CouponRule, bool) {
	r, ok := c.rules[NormalizeCode(code)]
	return r, ok
}

// ComputeTotals prices a cart. A subtotal of zero or less yields all zeros
// whatever the code. At most one rule applies; unknown codes apply nothing.
// The grand total is computed from the unrounded discount and then rounded
// half-up; the reported discount is rounded on its own.
func (c *Calculator) ComputeTotals(subtotal float64, couponCode string) models.Totals {
	if subtotal <= 0 {
		return models.Totals{}
	}

	sub := decimal.NewFromFloat(subtotal)
	discount := decimal.Zero
	fee := c.deliveryFee
	var applied *string

	if rule, ok := c.Rule(couponCode); ok {
		switch rule.Type {
		case DiscountFreeShipping:
			fee = decimal.Zero
		default:
			discount = rule.discountAmount(sub)
		}
		label := rule.Label
		applied = &label
	}

	total := sub.Sub(discount).Add(fee).Round(0)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return models.Totals{
		Subtotal:    subtotal,
		Discount:    discount.Round(0).InexactFloat64(),
		DeliveryFee: fee.InexactFloat64(),
		Total:       total.InexactFloat64(),
		Applied:     applied,
	}
}
