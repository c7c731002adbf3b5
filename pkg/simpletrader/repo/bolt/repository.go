package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/tendant/simple-trader/pkg/simpletrader"
	bolt "go.etcd.io/bbolt"
)

var (
	ordersBucket  = []byte("orders")
	errClosed     = errors.New("order store is closed")
	boltFilePerms = os.FileMode(0o600)
)

// Repository implements simpletrader.Repository on a single bbolt file.
// Orders are stored as JSON keyed by their ID.
type Repository struct {
	db *bolt.DB
}

// Open opens or creates the database file at path.
func Open(path string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	db, err := bolt.Open(path, boltFilePerms, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(ordersBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

// Close releases the database file.
func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) CreateOrder(ctx context.Context, order *simpletrader.Order) error {
	return r.put(order, func(stored []byte) error {
		if stored != nil {
			return simpletrader.ErrOrderExists
		}
		return nil
	})
}

func (r *Repository) GetOrder(ctx context.Context, id uuid.UUID) (*simpletrader.Order, error) {
	if r == nil || r.db == nil {
		return nil, errClosed
	}

	var order simpletrader.Order
	err := r.db.View(func(tx *bolt.Tx) error {
		payload := tx.Bucket(ordersBucket).Get(id[:])
		if payload == nil {
			return simpletrader.ErrOrderNotFound
		}
		return json.Unmarshal(payload, &order)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) UpdateOrder(ctx context.Context, order *simpletrader.Order, from simpletrader.OrderStatus) error {
	return r.put(order, func(stored []byte) error {
		if stored == nil {
			return simpletrader.ErrOrderNotFound
		}
		var current struct {
			Status simpletrader.OrderStatus `json:"status"`
		}
		if err := json.Unmarshal(stored, &current); err != nil {
			return fmt.Errorf("failed to decode order: %w", err)
		}
		if current.Status != from {
			return fmt.Errorf("%w: order is %s, expected %s", simpletrader.ErrInvalidOrderStatus, current.Status, from)
		}
		return nil
	})
}

func (r *Repository) ListOrders(ctx context.Context, userID string) ([]*simpletrader.Order, error) {
	if r == nil || r.db == nil {
		return nil, errClosed
	}

	var orders []*simpletrader.Order
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(ordersBucket).ForEach(func(_, payload []byte) error {
			var order simpletrader.Order
			if err := json.Unmarshal(payload, &order); err != nil {
				return err
			}
			if userID == "" || order.UserID == userID {
				orders = append(orders, &order)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (r *Repository) DeleteAllOrders(ctx context.Context) (int, error) {
	if r == nil || r.db == nil {
		return 0, errClosed
	}

	var n int
	err := r.db.Update(func(tx *bolt.Tx) error {
		n = tx.Bucket(ordersBucket).Stats().KeyN
		if err := tx.DeleteBucket(ordersBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(ordersBucket)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// put writes order inside one update transaction after check accepts the
// currently stored payload (nil when absent).
func (r *Repository) put(order *simpletrader.Order, check func(stored []byte) error) error {
	if r == nil || r.db == nil {
		return errClosed
	}

	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(ordersBucket)
		if err := check(bucket.Get(order.ID[:])); err != nil {
			return err
		}
		return bucket.Put(order.ID[:], payload)
	})
}
