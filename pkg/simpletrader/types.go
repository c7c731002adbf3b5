package simpletrader

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tendant/simple-trader/pkg/simpletrader/catalog"
)

// OrderStatus is the domain type for order lifecycle states.
type OrderStatus string

// Order status constants (typed).
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCompleted OrderStatus = "completed"
)

// OrderLine is one priced category/item/variant entry of an order or cart.
type OrderLine struct {
	Category string          `json:"category"`
	Item     string          `json:"item"`
	Variant  string          `json:"variant"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Order is a submitted trade awaiting or past admin handling.
type Order struct {
	ID          uuid.UUID       `json:"id"`
	UserID      string          `json:"user_id"`
	Mode        catalog.Mode    `json:"mode"`
	Lines       []OrderLine     `json:"lines"`
	Total       decimal.Decimal `json:"total"`
	Status      OrderStatus     `json:"status"`
	ConfirmedBy string          `json:"confirmed_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ParsedOrder is the result of parsing free-form order text.
type ParsedOrder struct {
	Mode  catalog.Mode    `json:"mode"`
	Lines []OrderLine     `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// Session is a user's open cart. Sessions live in memory only.
type Session struct {
	UserID    string       `json:"user_id"`
	Mode      catalog.Mode `json:"mode"`
	Lines     []OrderLine  `json:"lines"`
	StartedAt time.Time    `json:"started_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Total sums the session's line subtotals.
func (s *Session) Total() decimal.Decimal {
	return sumLines(s.Lines)
}

func newOrderLine(q catalog.Quote, quantity int) OrderLine {
	return OrderLine{
		Category: q.Category,
		Item:     q.Item,
		Variant:  q.Variant,
		Quantity: quantity,
		Price:    q.Price,
		Subtotal: q.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

func sumLines(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	return total
}

func copyLines(lines []OrderLine) []OrderLine {
	if lines == nil {
		return nil
	}
	out := make([]OrderLine, len(lines))
	copy(out, lines)
	return out
}
