package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"storefront-service/internal/clients"
	"storefront-service/internal/models"
	"storefront-service/internal/pricing"
)

type checkoutFixture struct {
	backend    *MockBackend
	publisher  *MockPublisher
	sessions   *SessionManager
	storefront *StorefrontService
	checkout   *CheckoutService
}

func newCheckoutFixture(withPublisher bool) *checkoutFixture {
	backend := new(MockBackend)
	sessions, _ := newTestSessions()
	calculator := pricing.NewDefaultCalculator()
	catalogService := newLoadedCatalog(backend)

	f := &checkoutFixture{
		backend:    backend,
		sessions:   sessions,
		storefront: NewStorefrontService(sessions, catalogService, calculator, nil, testLogger()),
	}
	var publisher OrderPublisher
	if withPublisher {
		f.publisher = new(MockPublisher)
		publisher = f.publisher
	}
	f.checkout = NewCheckoutService(backend, sessions, calculator, publisher, testLogger())
	return f
}

func (f *checkoutFixture) fillCart(t *testing.T, sessionID string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.storefront.SetCartQuantity(ctx, sessionID, "p1", 1)
	require.NoError(t, err)
	_, err = f.storefront.SetCartQuantity(ctx, sessionID, "p2", 2)
	require.NoError(t, err)
	_, err = f.storefront.SetCartQuantity(ctx, sessionID, "p3", 1)
	require.NoError(t, err)
}

func validBuyer() models.CheckoutRequest {
	return models.CheckoutRequest{
		Name:    "Siti",
		Email:   "siti@mail.test",
		Address: "Jl. Merdeka 1, Bandung",
	}
}

func TestCheckout_EmptyCartSendsNothing(t *testing.T) {
	f := newCheckoutFixture(false)

	_, err := f.checkout.Checkout(context.Background(), "s1", validBuyer())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, CodeEmptyCart, vErr.Code)
	f.backend.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCheckout_InvalidBuyerSendsNothing(t *testing.T) {
	tests := []struct {
		name  string
		req   models.CheckoutRequest
		field string
	}{
		{"blank name", models.CheckoutRequest{Name: "   ", Email: "a@b.co", Address: "x"}, "name"},
		{"no at sign", models.CheckoutRequest{Name: "A", Email: "ab.co", Address: "x"}, "email"},
		{"no dot after at", models.CheckoutRequest{Name: "A", Email: "a@bco", Address: "x"}, "email"},
		{"blank address", models.CheckoutRequest{Name: "A", Email: "a@b.co", Address: ""}, "address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture(false)
			f.fillCart(t, "s1")

			_, err := f.checkout.Checkout(context.Background(), "s1", tt.req)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, CodeInvalidBuyer, vErr.Code)
			assert.Equal(t, tt.field, vErr.Field)
			f.backend.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
			assert.Equal(t, 3, f.sessions.Load(context.Background(), "s1").Cart.LineCount())
		})
	}
}

func TestCheckout_SuccessClearsCart(t *testing.T) {
	f := newCheckoutFixture(true)
	f.fillCart(t, "s1")
	req := validBuyer()
	req.Coupon = "hemat10"

	var submitted *models.OrderSubmission
	f.backend.On("CreateOrder", mock.Anything, mock.AnythingOfType("*models.OrderSubmission")).
		Run(func(args mock.Arguments) { submitted = args.Get(1).(*models.OrderSubmission) }).
		Return(&models.OrderReceipt{ID: "ord-77", Status: "pending"}, nil)
	f.publisher.On("PublishOrderPlaced", mock.Anything, "s1", mock.Anything, mock.Anything).Return(nil)

	result, err := f.checkout.Checkout(context.Background(), "s1", req)

	require.NoError(t, err)
	assert.Equal(t, "ord-77", result.OrderID)
	assert.Equal(t, 8000.0, result.Totals.Discount)
	assert.Equal(t, 87000.0, result.Totals.Total)

	require.NotNil(t, submitted)
	require.NotNil(t, submitted.CouponCode)
	assert.Equal(t, "HEMAT10", *submitted.CouponCode)
	assert.Equal(t, models.OrderStatusPending, submitted.Status)
	assert.Equal(t, 80000.0, submitted.Subtotal)
	assert.Equal(t, 15000.0, submitted.DeliveryFee)
	require.Len(t, submitted.Items, 3)
	assert.Equal(t, "p2", submitted.Items[1].ProductID)
	assert.Equal(t, 2, submitted.Items[1].Quantity)

	session := f.sessions.Load(context.Background(), "s1")
	assert.True(t, session.Cart.IsEmpty())
	assert.Equal(t, "HEMAT10", session.Coupon)
	assert.NotContains(t, f.checkout.inFlight, "s1")
	f.publisher.AssertExpectations(t)
}

func TestCheckout_RejectedKeepsCart(t *testing.T) {
	f := newCheckoutFixture(false)
	f.fillCart(t, "s1")
	f.backend.On("CreateOrder", mock.Anything, mock.Anything).
		Return(nil, &clients.APIError{Status: 400, Detail: "Stok habis"})

	_, err := f.checkout.Checkout(context.Background(), "s1", validBuyer())

	var apiErr *clients.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Stok habis", apiErr.Detail)
	assert.Equal(t, 3, f.sessions.Load(context.Background(), "s1").Cart.LineCount())
	assert.NotContains(t, f.checkout.inFlight, "s1")
}

func TestCheckout_PublishFailureDoesNotFailCheckout(t *testing.T) {
	f := newCheckoutFixture(true)
	f.fillCart(t, "s1")
	f.backend.On("CreateOrder", mock.Anything, mock.Anything).Return(&models.OrderReceipt{ID: "ord-1"}, nil)
	f.publisher.On("PublishOrderPlaced", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("nats: connection closed"))

	result, err := f.checkout.Checkout(context.Background(), "s1", validBuyer())

	require.NoError(t, err)
	assert.Equal(t, "ord-1", result.OrderID)
}

func TestCheckout_SecondCheckoutWhileInFlight(t *testing.T) {
	f := newCheckoutFixture(false)
	f.fillCart(t, "s1")
	f.fillCart(t, "s2")

	entered := make(chan struct{})
	release := make(chan struct{})
	f.backend.On("CreateOrder", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(&models.OrderReceipt{ID: "ord-1"}, nil).Once()
	f.backend.On("CreateOrder", mock.Anything, mock.Anything).
		Return(&models.OrderReceipt{ID: "ord-2"}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := f.checkout.Checkout(context.Background(), "s1", validBuyer())
		done <- err
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first checkout never reached the backend")
	}

	_, err := f.checkout.Checkout(context.Background(), "s1", validBuyer())
	assert.Equal(t, ErrCheckoutInProgress, err)

	// the session stays usable while the order is outstanding
	_, err = f.storefront.AddToCart(context.Background(), "s1", "p1")
	assert.NoError(t, err)

	// other sessions are not blocked
	other, err := f.checkout.Checkout(context.Background(), "s2", validBuyer())
	require.NoError(t, err)
	assert.Equal(t, "ord-2", other.OrderID)

	close(release)
	require.NoError(t, <-done)
	assert.NotContains(t, f.checkout.inFlight, "s1")
}

func TestBuildOrder_NullsEmptyCouponAndImage(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: "a", Title: "A", Price: 1000, Quantity: 2},
		{ProductID: "b", Title: "B", Price: 500, Quantity: 1, Image: "https://img/b.png"},
	}

	order := BuildOrder(validBuyer(), lines, models.Totals{Subtotal: 2500, DeliveryFee: 15000, Total: 17500})

	assert.Nil(t, order.CouponCode)
	assert.Nil(t, order.Items[0].Image)
	require.NotNil(t, order.Items[1].Image)
	assert.Equal(t, "https://img/b.png", *order.Items[1].Image)
	assert.Equal(t, 17500.0, order.Total)
}
