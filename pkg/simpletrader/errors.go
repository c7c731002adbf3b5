package simpletrader

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrOrderNotFound indicates an order was not found
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderExists indicates an order with the same ID is already stored
	ErrOrderExists = errors.New("order already exists")

	// ErrSessionNotFound indicates the user has no open trade session
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired indicates the user's trade session timed out
	ErrSessionExpired = errors.New("session expired")

	// ErrEmptyCart indicates an order was submitted without any lines
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidOrderStatus indicates a disallowed order status transition
	ErrInvalidOrderStatus = errors.New("invalid order status")

	// ErrInvalidOrderLine indicates an order line could not be parsed
	ErrInvalidOrderLine = errors.New("invalid order line")

	// ErrInvalidQuantity indicates a non-positive quantity
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrNotOrderOwner indicates a user acted on an order they do not own
	ErrNotOrderOwner = errors.New("order belongs to another user")

	// ErrUserRequired indicates an operation was called without a user or admin ID
	ErrUserRequired = errors.New("user id is required")

	// ErrCatalogNotFound indicates the price list is missing from its store
	ErrCatalogNotFound = errors.New("price list not found")

	// ErrCatalogUnavailable indicates no price list has been loaded
	ErrCatalogUnavailable = errors.New("price list not loaded")
)

// OrderError represents an error related to order operations
type OrderError struct {
	OrderID uuid.UUID
	Op      string
	Err     error
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("order operation %s failed for order %s: %v", e.Op, e.OrderID, e.Err)
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

// LineError reports the first order line that failed to parse.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("error on line %d: '%s': %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to price list storage operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
