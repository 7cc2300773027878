package models

import "time"

// OrderStatusPending is the only status a storefront submits
const OrderStatusPending = "pending"

// OrderItem is one line of an order submission
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     *string `json:"image"`
}

// OrderSubmission is the body of POST /orders
type OrderSubmission struct {
	BuyerName    string      `json:"buyer_name"`
	BuyerEmail   string      `json:"buyer_email"`
	BuyerAddress string      `json:"buyer_address"`
	CouponCode   *string     `json:"coupon_code"`
	Items        []OrderItem `json:"items"`
	Subtotal     float64     `json:"subtotal"`
	Discount     float64     `json:"discount"`
	DeliveryFee  float64     `json:"delivery_fee"`
	Total        float64     `json:"total"`
	Status       string      `json:"status"`
}

// OrderReceipt is what the backend returns for an accepted order
type OrderReceipt struct {
	ID     string  `json:"_id"`
	Status string  `json:"status,omitempty"`
	Total  float64 `json:"total,omitempty"`
}

// CheckoutRequest carries the buyer form
type CheckoutRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Coupon  string `json:"coupon"`
}

// CheckoutResult is returned after the backend accepted an order
type CheckoutResult struct {
	OrderID string `json:"orderId"`
	Totals  Totals `json:"totals"`
	Message string `json:"message"`
}

// TopupRequest is a balance top-up awaiting admin review
type TopupRequest struct {
	ID        string     `json:"_id"`
	UserID    string     `json:"user_id,omitempty"`
	UserName  string     `json:"user_name,omitempty"`
	Amount    float64    `json:"amount"`
	Status    string     `json:"status"`
	ProofURL  string     `json:"proof_url,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
