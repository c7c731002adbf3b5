package simpletrader

import (
	"context"
	"log/slog"
)

// NoopOrderSink is a no-operation implementation of OrderSink
// Useful when nothing needs to react to order events, and for testing
type NoopOrderSink struct{}

// NewNoopOrderSink creates a new no-operation order sink
func NewNoopOrderSink() OrderSink {
	return &NoopOrderSink{}
}

// OrderSubmitted does nothing and returns nil
func (n *NoopOrderSink) OrderSubmitted(ctx context.Context, order *Order) error {
	return nil
}

// OrderStatusChanged does nothing and returns nil
func (n *NoopOrderSink) OrderStatusChanged(ctx context.Context, order *Order, from OrderStatus) error {
	return nil
}

// OrdersCleared does nothing and returns nil
func (n *NoopOrderSink) OrdersCleared(ctx context.Context, count int) error {
	return nil
}

// LogOrderSink writes order events to a structured logger.
type LogOrderSink struct {
	logger *slog.Logger
}

// NewLogOrderSink creates an order sink that logs through logger, or slog.Default when nil
func NewLogOrderSink(logger *slog.Logger) OrderSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogOrderSink{logger: logger}
}

func (l *LogOrderSink) OrderSubmitted(ctx context.Context, order *Order) error {
	l.logger.InfoContext(ctx, "order submitted",
		"order_id", order.ID,
		"user_id", order.UserID,
		"mode", order.Mode,
		"lines", len(order.Lines),
		"total", order.Total.String())
	return nil
}

func (l *LogOrderSink) OrderStatusChanged(ctx context.Context, order *Order, from OrderStatus) error {
	l.logger.InfoContext(ctx, "order status changed",
		"order_id", order.ID,
		"user_id", order.UserID,
		"from", from,
		"to", order.Status,
		"confirmed_by", order.ConfirmedBy)
	return nil
}

func (l *LogOrderSink) OrdersCleared(ctx context.Context, count int) error {
	l.logger.InfoContext(ctx, "orders cleared", "count", count)
	return nil
}
