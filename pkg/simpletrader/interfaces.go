package simpletrader

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// CatalogStore defines the interface for price list storage backends
type CatalogStore interface {
	// Open returns the stored document under key, or ErrCatalogNotFound
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Put replaces the document under key
	Put(ctx context.Context, key string, reader io.Reader) error

	// Exists reports whether a document is stored under key
	Exists(ctx context.Context, key string) (bool, error)
}

// Repository defines the interface for order persistence
type Repository interface {
	// CreateOrder stores a new order, or returns ErrOrderExists
	CreateOrder(ctx context.Context, order *Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)

	// UpdateOrder replaces a stored order only while its stored status is
	// still from. If another writer moved it first, ErrInvalidOrderStatus is
	// returned and nothing is written.
	UpdateOrder(ctx context.Context, order *Order, from OrderStatus) error

	// ListOrders returns orders newest first. An empty userID lists every order.
	ListOrders(ctx context.Context, userID string) ([]*Order, error)

	// DeleteAllOrders removes every order and reports how many were removed
	DeleteAllOrders(ctx context.Context) (int, error)
}

// OrderSink defines the interface for order event handling
type OrderSink interface {
	// OrderSubmitted is fired when a new order is stored
	OrderSubmitted(ctx context.Context, order *Order) error

	// OrderStatusChanged is fired after an order moves to a new status
	OrderStatusChanged(ctx context.Context, order *Order, from OrderStatus) error

	// OrdersCleared is fired after all orders are deleted
	OrdersCleared(ctx context.Context, count int) error
}
