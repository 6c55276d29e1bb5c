package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/danielnero-bot/potential-goggles/internal/orders"
)

// StatusApplier receives decoded status updates; the hub implements it.
type StatusApplier interface {
	Apply(update orders.StatusUpdate) bool
}

// HistoryInvalidator drops the affected user's cached history so the next
// full fetch sees the new status.
type HistoryInvalidator interface {
	Delete(ctx context.Context, userID string) error
}

// StatusConsumer reads order status change events off Kafka and merges them
// into the in-memory trackers. It stands in for the original backing store's
// realtime UPDATE feed: payloads carry the updated row's id, owner and status.
type StatusConsumer struct {
	hub     StatusApplier
	history HistoryInvalidator
	reader  *kafka.Reader
}

func NewStatusConsumer(hub StatusApplier, history HistoryInvalidator, brokers ...string) *StatusConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "order-status",
		GroupID:  "quickplate",
		MaxBytes: 10e6, // 10MB
	})
	return &StatusConsumer{hub: hub, history: history, reader: reader}
}

func (c *StatusConsumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *StatusConsumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

func (c *StatusConsumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading status message: %v", err)
		return
	}
	c.handleMessage(m.Value)
}

// handleMessage decodes and dispatches one payload. Malformed messages are
// logged and skipped; a missed notification only leaves the displayed status
// stale until the next full fetch.
func (c *StatusConsumer) handleMessage(value []byte) {
	var update orders.StatusUpdate
	if err := json.Unmarshal(value, &update); err != nil {
		log.Printf("error parsing status message: %v", err)
		return
	}
	if update.OrderID == "" || update.UserID == "" {
		log.Printf("status message missing order_id or user_id, skipping")
		return
	}

	matched := c.hub.Apply(update)
	log.Printf("status update for order %s (user %s) -> %s, matched=%v",
		update.OrderID, update.UserID, update.Status, matched)

	if c.history != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := c.history.Delete(ctx, update.UserID); err != nil {
			log.Printf("history invalidate error: %v", err)
		}
	}
}
