package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-trader/pkg/simpletrader"
)

// Repository implements simpletrader.Repository using in-memory storage
type Repository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*simpletrader.Order
}

// New creates a new in-memory repository
func New() simpletrader.Repository {
	return &Repository{
		orders: make(map[uuid.UUID]*simpletrader.Order),
	}
}

func (r *Repository) CreateOrder(ctx context.Context, order *simpletrader.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return simpletrader.ErrOrderExists
	}
	r.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *Repository) GetOrder(ctx context.Context, id uuid.UUID) (*simpletrader.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, exists := r.orders[id]
	if !exists {
		return nil, simpletrader.ErrOrderNotFound
	}
	return copyOrder(order), nil
}

func (r *Repository) UpdateOrder(ctx context.Context, order *simpletrader.Order, from simpletrader.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.orders[order.ID]
	if !exists {
		return simpletrader.ErrOrderNotFound
	}
	if stored.Status != from {
		return fmt.Errorf("%w: order is %s, expected %s", simpletrader.ErrInvalidOrderStatus, stored.Status, from)
	}
	r.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *Repository) ListOrders(ctx context.Context, userID string) ([]*simpletrader.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*simpletrader.Order
	for _, order := range r.orders {
		if userID == "" || order.UserID == userID {
			result = append(result, copyOrder(order))
		}
	}

	// Sort by created_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Repository) DeleteAllOrders(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.orders)
	r.orders = make(map[uuid.UUID]*simpletrader.Order)
	return n, nil
}

func copyOrder(o *simpletrader.Order) *simpletrader.Order {
	c := *o
	if o.Lines != nil {
		c.Lines = make([]simpletrader.OrderLine, len(o.Lines))
		copy(c.Lines, o.Lines)
	}
	return &c
}
