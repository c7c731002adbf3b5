package simpletrader

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/tendant/simple-trader/pkg/simpletrader/catalog"
)

// Service defines the main interface for the simple-trader library
type Service interface {
	// Catalog operations
	Catalog(ctx context.Context) (*catalog.Catalog, error)
	Categories(ctx context.Context) ([]string, error)
	Items(ctx context.Context, category string) ([]string, error)
	Variants(ctx context.Context, category, item string) ([]string, error)
	MatchVariant(ctx context.Context, category, item, choice string) (string, bool, error)
	Quote(ctx context.Context, req QuoteRequest) (catalog.Quote, error)
	ReloadCatalog(ctx context.Context) error
	PublishCatalog(ctx context.Context, reader io.Reader) error

	// Order text parsing
	ParseOrder(ctx context.Context, text string, mode catalog.Mode) (*ParsedOrder, error)

	// Session (cart) operations
	StartSession(ctx context.Context, req StartSessionRequest) (*Session, error)
	GetSession(ctx context.Context, userID string) (*Session, error)
	AddToCart(ctx context.Context, req AddToCartRequest) (*Session, error)
	ClearSession(ctx context.Context, userID string) error
	SubmitCart(ctx context.Context, userID string) (*Order, error)

	// Order operations
	SubmitOrderText(ctx context.Context, req SubmitOrderTextRequest) (*Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context, userID string) ([]*Order, error)
	ConfirmOrder(ctx context.Context, id uuid.UUID, adminID string) (*Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID, userID string) (*Order, error)
	CompleteOrder(ctx context.Context, id uuid.UUID, adminID string) (*Order, error)
	ClearOrders(ctx context.Context) (int, error)
}
