package messaging

import (
	"testing"
	"time"

	"storefront-backend/internal/domain"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublishing(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	event := domain.OrderEvent{
		Type:       domain.OrderEventPlaced,
		OrderID:    "o-1",
		CustomerID: "u-1",
		Status:     domain.OrderStatusPending,
		Total:      decimal.RequireFromString("2300.50"),
		OccurredAt: at,
	}

	msg, err := NewPublishing(event)
	require.NoError(t, err)

	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "o-1:order.placed", msg.MessageId)
	assert.Equal(t, at, msg.Timestamp)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, "order.placed", decoded["type"])
	assert.Equal(t, "2300.5", decoded["total"])
}

func TestNewPublishing_DefaultsTimestamp(t *testing.T) {
	msg, err := NewPublishing(domain.OrderEvent{Type: domain.OrderEventStatusChanged, OrderID: "o-2"})
	require.NoError(t, err)
	assert.False(t, msg.Timestamp.IsZero())
}
