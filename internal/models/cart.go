package models

// CartLine is one cart entry. Title, price and image are copied from the
// product when the line is created and are not refreshed afterwards.
type CartLine struct {
	ProductID string  `json:"_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"qty"`
}

// LineTotal is price × quantity for the line
func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Totals is the derived pricing of a cart. Applied is nil when no coupon rule matched.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
	Applied     *string `json:"applied"`
}

// CartSummary is the cart as presented to a session
type CartSummary struct {
	Lines     []CartLine `json:"lines"`
	LineCount int        `json:"lineCount"`
	ItemCount int        `json:"itemCount"`
	Coupon    string     `json:"coupon,omitempty"`
	Totals    Totals     `json:"totals"`
}

// SetQuantityRequest is the body of PUT /storefront/cart/items/:productId
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}
