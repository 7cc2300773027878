package events

import (
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront-service/internal/models"
)

func TestBuildOrderPlacedEvent(t *testing.T) {
	coupon := "HEMAT10"
	order := &models.OrderSubmission{
		BuyerEmail: "siti@mail.test",
		CouponCode: &coupon,
		Items: []models.OrderItem{
			{ProductID: "p1", Title: "Beras", Price: 10000, Quantity: 1},
			{ProductID: "p2", Title: "Minyak", Price: 20000, Quantity: 2},
		},
		Subtotal:    50000,
		Discount:    5000,
		DeliveryFee: 15000,
		Total:       60000,
		Status:      models.OrderStatusPending,
	}

	event := BuildOrderPlacedEvent("s1", &models.OrderReceipt{ID: "ord-1"}, order)

	assert.Equal(t, OrderPlaced, event.EventType)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "ord-1", event.OrderID)
	assert.Equal(t, "pending", event.Status)
	assert.Equal(t, 3, event.ItemCount)
	assert.Equal(t, 60000.0, event.Total)
	assert.Equal(t, "HEMAT10", *event.CouponCode)

	data, err := json.Marshal(event)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "order.placed", decoded["eventType"])
	assert.Equal(t, "s1", decoded["sessionId"])
}

func TestBuildOrderPlacedEvent_NilOrder(t *testing.T) {
	event := BuildOrderPlacedEvent("s1", &models.OrderReceipt{ID: "ord-2", Status: "paid"}, nil)

	assert.Equal(t, "paid", event.Status)
	assert.NotNil(t, event.Items)
	assert.Zero(t, event.ItemCount)
}

func TestNewPublisher_RequiresURL(t *testing.T) {
	_, err := NewPublisher("", logrus.New())

	assert.Error(t, err)
}

func TestPublisher_NilIsDisconnected(t *testing.T) {
	var p *Publisher

	assert.False(t, p.IsConnected())
	p.Close()
}
