package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"storefront-service/internal/models"
)

// Storefront event types
const (
	OrderPlaced = "order.placed"

	StreamStorefrontOrders = "STOREFRONT_ORDERS"
)

// OrderPlacedEvent is published after the backend accepted a checkout
type OrderPlacedEvent struct {
	EventID     string             `json:"eventId"`
	EventType   string             `json:"eventType"`
	SessionID   string             `json:"sessionId"`
	OrderID     string             `json:"orderId"`
	Status      string             `json:"status"`
	BuyerEmail  string             `json:"buyerEmail"`
	CouponCode  *string            `json:"couponCode,omitempty"`
	Items       []models.OrderItem `json:"items"`
	ItemCount   int                `json:"itemCount"`
	Subtotal    float64            `json:"subtotal"`
	Discount    float64            `json:"discount"`
	DeliveryFee float64            `json:"deliveryFee"`
	Total       float64            `json:"total"`
	Timestamp   time.Time          `json:"timestamp"`
}

// Publisher sends storefront events to NATS JetStream
type Publisher struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *logrus.Entry
}

// NewPublisher connects to natsURL and makes sure the orders stream exists
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	if natsURL == "" {
		return nil, fmt.Errorf("NATS_URL not set")
	}

	conn, err := nats.Connect(natsURL,
		nats.Name("storefront-service"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open JetStream context: %w", err)
	}

	p := &Publisher{
		conn:   conn,
		js:     js,
		logger: logger.WithField("component", "events.publisher"),
	}

	if err := p.ensureStream(); err != nil {
		p.logger.WithError(err).Warn("Failed to ensure storefront orders stream (may already exist)")
	}

	return p, nil
}

func (p *Publisher) ensureStream() error {
	if _, err := p.js.StreamInfo(StreamStorefrontOrders); err == nil {
		return nil
	}
	_, err := p.js.AddStream(&nats.StreamConfig{
		Name:     StreamStorefrontOrders,
		Subjects: []string{"order.>"},
		MaxAge:   7 * 24 * time.Hour,
	})
	return err
}

// IsConnected reports whether the NATS connection is up
func (p *Publisher) IsConnected() bool {
	return p != nil && p.conn != nil && p.conn.IsConnected()
}

// Close drains and closes the NATS connection
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// PublishOrderPlaced publishes an order.placed event
func (p *Publisher) PublishOrderPlaced(ctx context.Context, sessionID string, receipt *models.OrderReceipt, order *models.OrderSubmission) error {
	event := BuildOrderPlacedEvent(sessionID, receipt, order)
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.EventType, err)
	}

	if _, err := p.js.Publish(event.EventType, data, nats.Context(ctx), nats.MsgId(event.OrderID)); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.EventType, err)
	}

	p.logger.WithFields(logrus.Fields{
		"order_id":   event.OrderID,
		"session_id": sessionID,
		"total":      event.Total,
	}).Debug("Published order.placed event")
	return nil
}

// BuildOrderPlacedEvent assembles the event body from the submitted order
// and the backend's receipt
func BuildOrderPlacedEvent(sessionID string, receipt *models.OrderReceipt, order *models.OrderSubmission) *OrderPlacedEvent {
	event := &OrderPlacedEvent{
		EventID:   uuid.New().String(),
		EventType: OrderPlaced,
		SessionID: sessionID,
		Items:     []models.OrderItem{},
		Timestamp: time.Now().UTC(),
	}
	if receipt != nil {
		event.OrderID = receipt.ID
		event.Status = receipt.Status
	}
	if order != nil {
		if event.Status == "" {
			event.Status = order.Status
		}
		event.BuyerEmail = order.BuyerEmail
		event.CouponCode = order.CouponCode
		event.Items = order.Items
		event.Subtotal = order.Subtotal
		event.Discount = order.Discount
		event.DeliveryFee = order.DeliveryFee
		event.Total = order.Total
		for _, item := range order.Items {
			event.ItemCount += item.Quantity
		}
	}
	return event
}
