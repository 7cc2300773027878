package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"storefront-service/internal/models"
	"storefront-service/internal/pricing"
)

// OrderBackend submits orders
type OrderBackend interface {
	CreateOrder(ctx context.Context, order *models.OrderSubmission) (*models.OrderReceipt, error)
}

// OrderPublisher announces accepted orders
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, sessionID string, receipt *models.OrderReceipt, order *models.OrderSubmission) error
}

var emailPattern = regexp.MustCompile(`.+@.+\..+`)

// CheckoutService turns a session's cart into an order
type CheckoutService struct {
	backend    OrderBackend
	sessions   *SessionManager
	calculator *pricing.Calculator
	publisher  OrderPublisher
	logger     *logrus.Entry

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewCheckoutService creates a checkout service. publisher may be nil.
func NewCheckoutService(
	backend OrderBackend,
	sessions *SessionManager,
	calculator *pricing.Calculator,
	publisher OrderPublisher,
	logger *logrus.Logger,
) *CheckoutService {
	return &CheckoutService{
		backend:    backend,
		sessions:   sessions,
		calculator: calculator,
		publisher:  publisher,
		logger:     logger.WithField("component", "checkout_service"),
		inFlight:   make(map[string]struct{}),
	}
}

// ValidateBuyer checks the buyer form after trimming it
func ValidateBuyer(req models.CheckoutRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return newValidationError(CodeInvalidBuyer, "name", "name, a valid email and an address are required")
	}
	if !emailPattern.MatchString(strings.TrimSpace(req.Email)) {
		return newValidationError(CodeInvalidBuyer, "email", "name, a valid email and an address are required")
	}
	if strings.TrimSpace(req.Address) == "" {
		return newValidationError(CodeInvalidBuyer, "address", "name, a valid email and an address are required")
	}
	return nil
}

// BuildOrder assembles the order submission for lines priced with totals
func BuildOrder(req models.CheckoutRequest, lines []models.CartLine, totals models.Totals) *models.OrderSubmission {
	var couponCode *string
	if code := pricing.NormalizeCode(req.Coupon); code != "" {
		couponCode = &code
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		var image *string
		if line.Image != "" {
			img := line.Image
			image = &img
		}
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.Price,
			Quantity:  line.Quantity,
			Image:     image,
		})
	}

	return &models.OrderSubmission{
		BuyerName:    strings.TrimSpace(req.Name),
		BuyerEmail:   strings.TrimSpace(req.Email),
		BuyerAddress: strings.TrimSpace(req.Address),
		CouponCode:   couponCode,
		Items:        items,
		Subtotal:     totals.Subtotal,
		Discount:     totals.Discount,
		DeliveryFee:  totals.DeliveryFee,
		Total:        totals.Total,
		Status:       models.OrderStatusPending,
	}
}

// Checkout validates the cart and buyer, submits the order and clears the
// cart once the backend accepted it. Nothing is sent when validation fails,
// and the cart is left untouched when the submission fails. Only one checkout
// per session may be outstanding.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, req models.CheckoutRequest) (*models.CheckoutResult, error) {
	if !s.begin(sessionID) {
		return nil, ErrCheckoutInProgress
	}
	defer s.end(sessionID)

	order, totals, err := s.prepare(ctx, sessionID, req)
	if err != nil {
		return nil, err
	}

	receipt, err := s.backend.CreateOrder(ctx, order)
	if err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("Order submission failed")
		return nil, err
	}

	unlock := s.sessions.Lock(sessionID)
	session := s.sessions.Load(ctx, sessionID)
	session.Cart.Clear()
	s.sessions.SaveCart(ctx, session)
	unlock()

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"order_id":   receipt.ID,
		"total":      totals.Total,
	}).Info("Order placed")

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, sessionID, receipt, order); err != nil {
			s.logger.WithError(err).WithField("order_id", receipt.ID).Warn("Failed to publish order.placed event")
		}
	}

	return &models.CheckoutResult{
		OrderID: receipt.ID,
		Totals:  totals,
		Message: fmt.Sprintf("Order placed. ID: %s", receipt.ID),
	}, nil
}

// prepare validates and prices the cart under the session lock and records
// the entered coupon as the session's last coupon.
func (s *CheckoutService) prepare(ctx context.Context, sessionID string, req models.CheckoutRequest) (*models.OrderSubmission, models.Totals, error) {
	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	session := s.sessions.Load(ctx, sessionID)
	if session.Cart.IsEmpty() {
		return nil, models.Totals{}, newValidationError(CodeEmptyCart, "", "cart is empty")
	}
	if err := ValidateBuyer(req); err != nil {
		return nil, models.Totals{}, err
	}

	session.Coupon = pricing.NormalizeCode(req.Coupon)
	s.sessions.SaveCoupon(ctx, session)

	totals := s.calculator.ComputeTotals(session.Cart.Subtotal(), req.Coupon)
	return BuildOrder(req, session.Cart.Lines(), totals), totals, nil
}

func (s *CheckoutService) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *CheckoutService) end(sessionID string) {
	s.mu.Lock()
	delete(s.inFlight, sessionID)
	s.mu.Unlock()
}
