package simpletrader

import "github.com/tendant/simple-trader/pkg/simpletrader/catalog"

// Request/Response DTOs

// QuoteRequest identifies a priced variant
type QuoteRequest struct {
	Category string
	Item     string
	Variant  string
	Mode     catalog.Mode
}

// StartSessionRequest opens a new cart for a user
type StartSessionRequest struct {
	UserID string
	Mode   catalog.Mode
}

// AddToCartRequest adds a quantity of a variant to the user's open cart
type AddToCartRequest struct {
	UserID   string
	Category string
	Item     string
	Variant  string
	Quantity int
}

// SubmitOrderTextRequest submits free-form order lines as a new order
type SubmitOrderTextRequest struct {
	UserID string
	Mode   catalog.Mode
	Text   string
}
