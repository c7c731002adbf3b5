package simpletrader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-trader/pkg/simpletrader/catalog"
	"github.com/tendant/simple-trader/pkg/simpletrader/variant"
)

// DefaultCatalogKey is the store key the price list is read from.
const DefaultCatalogKey = "price-list.json"

// service implements the Service interface
type service struct {
	repository Repository
	store      CatalogStore
	catalogKey string
	orderSink  OrderSink
	logger     *slog.Logger
	sessionTTL time.Duration
	now        func() time.Time

	mu      sync.RWMutex
	catalog *catalog.Catalog

	sessions *sessionStore
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the order repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithCatalogStore sets the backend the price list is loaded from and published to
func WithCatalogStore(store CatalogStore) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithCatalogKey overrides DefaultCatalogKey
func WithCatalogKey(key string) Option {
	return func(s *service) {
		if key != "" {
			s.catalogKey = key
		}
	}
}

// WithCatalog installs an already parsed price list
func WithCatalog(cat *catalog.Catalog) Option {
	return func(s *service) {
		s.catalog = cat
	}
}

// WithOrderSink sets the event sink for order lifecycle events
func WithOrderSink(sink OrderSink) Option {
	return func(s *service) {
		s.orderSink = sink
	}
}

// WithLogger sets the logger used for non-fatal failures
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionTTL overrides DefaultSessionTTL
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		catalogKey: DefaultCatalogKey,
		logger:     slog.Default(),
		sessionTTL: DefaultSessionTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.catalog == nil && s.store == nil {
		return nil, fmt.Errorf("a catalog or catalog store is required")
	}

	s.sessions = newSessionStore(s.sessionTTL, s.now)
	return s, nil
}

// Catalog operations

func (s *service) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	s.mu.RLock()
	cat := s.catalog
	s.mu.RUnlock()
	if cat != nil {
		return cat, nil
	}

	if err := s.ReloadCatalog(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog, nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	cat, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Categories(), nil
}

func (s *service) Items(ctx context.Context, category string) ([]string, error) {
	cat, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Items(category)
}

func (s *service) Variants(ctx context.Context, category, item string) ([]string, error) {
	cat, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Variants(category, item)
}

func (s *service) MatchVariant(ctx context.Context, category, item, choice string) (string, bool, error) {
	variants, err := s.Variants(ctx, category, item)
	if err != nil {
		return "", false, err
	}
	name, ok := variant.Resolve(variants, choice)
	return name, ok, nil
}

func (s *service) Quote(ctx context.Context, req QuoteRequest) (catalog.Quote, error) {
	cat, err := s.Catalog(ctx)
	if err != nil {
		return catalog.Quote{}, err
	}
	return cat.Price(req.Category, req.Item, req.Variant, req.Mode)
}

func (s *service) ReloadCatalog(ctx context.Context) error {
	if s.store == nil {
		return ErrCatalogUnavailable
	}

	rc, err := s.store.Open(ctx, s.catalogKey)
	if err != nil {
		return fmt.Errorf("failed to open price list %s: %w", s.catalogKey, err)
	}
	defer rc.Close()

	cat, err := catalog.Parse(rc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.catalog = cat
	s.mu.Unlock()

	s.logger.Info("price list loaded", "key", s.catalogKey, "categories", cat.Len())
	return nil
}

func (s *service) PublishCatalog(ctx context.Context, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read price list: %w", err)
	}

	cat, err := catalog.Parse(bytes.NewReader(data))
	if err != nil {
		return err
	}

	if s.store != nil {
		if err := s.store.Put(ctx, s.catalogKey, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to store price list %s: %w", s.catalogKey, err)
		}
	}

	s.mu.Lock()
	s.catalog = cat
	s.mu.Unlock()

	s.logger.Info("price list published", "key", s.catalogKey, "categories", cat.Len())
	return nil
}

// Order text parsing

func (s *service) ParseOrder(ctx context.Context, text string, mode catalog.Mode) (*ParsedOrder, error) {
	cat, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return ParseOrderLines(cat, text, mode)
}

// Session operations

func (s *service) StartSession(ctx context.Context, req StartSessionRequest) (*Session, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, ErrUserRequired
	}
	if req.Mode == "" {
		req.Mode = catalog.ModeBuy
	}
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("%w: %q", catalog.ErrInvalidMode, req.Mode)
	}
	return s.sessions.start(req.UserID, req.Mode), nil
}

func (s *service) GetSession(ctx context.Context, userID string) (*Session, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserRequired
	}
	return s.sessions.get(userID)
}

func (s *service) AddToCart(ctx context.Context, req AddToCartRequest) (*Session, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, ErrUserRequired
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, req.Quantity)
	}
	cat, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	return s.sessions.update(req.UserID, func(sess *Session) error {
		q, err := cat.Price(req.Category, req.Item, req.Variant, sess.Mode)
		if err != nil {
			return err
		}
		for i := range sess.Lines {
			l := &sess.Lines[i]
			if l.Category == q.Category && l.Item == q.Item && l.Variant == q.Variant {
				*l = newOrderLine(q, l.Quantity+req.Quantity)
				return nil
			}
		}
		sess.Lines = append(sess.Lines, newOrderLine(q, req.Quantity))
		return nil
	})
}

func (s *service) ClearSession(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrUserRequired
	}
	if !s.sessions.clear(userID) {
		return ErrSessionNotFound
	}
	return nil
}

func (s *service) SubmitCart(ctx context.Context, userID string) (*Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserRequired
	}

	sess, err := s.sessions.get(userID)
	if err != nil {
		return nil, err
	}
	if len(sess.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	order, err := s.createOrder(ctx, userID, sess.Mode, sess.Lines)
	if err != nil {
		return nil, err
	}
	s.sessions.clear(userID)
	return order, nil
}

// Order operations

func (s *service) SubmitOrderText(ctx context.Context, req SubmitOrderTextRequest) (*Order, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, ErrUserRequired
	}
	parsed, err := s.ParseOrder(ctx, req.Text, req.Mode)
	if err != nil {
		return nil, err
	}
	return s.createOrder(ctx, req.UserID, parsed.Mode, parsed.Lines)
}

func (s *service) createOrder(ctx context.Context, userID string, mode catalog.Mode, lines []OrderLine) (*Order, error) {
	now := s.now()
	order := &Order{
		ID:        uuid.New(),
		UserID:    userID,
		Mode:      mode,
		Lines:     copyLines(lines),
		Total:     sumLines(lines),
		Status:    OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repository.CreateOrder(ctx, order); err != nil {
		return nil, &OrderError{OrderID: order.ID, Op: "create", Err: err}
	}

	if s.orderSink != nil {
		if err := s.orderSink.OrderSubmitted(ctx, order); err != nil {
			s.logger.Warn("order sink failed", "event", "submitted", "order_id", order.ID, "error", err)
		}
	}
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	order, err := s.repository.GetOrder(ctx, id)
	if err != nil {
		return nil, &OrderError{OrderID: id, Op: "get", Err: err}
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, userID string) ([]*Order, error) {
	return s.repository.ListOrders(ctx, userID)
}

func (s *service) ConfirmOrder(ctx context.Context, id uuid.UUID, adminID string) (*Order, error) {
	if strings.TrimSpace(adminID) == "" {
		return nil, ErrUserRequired
	}
	return s.transition(ctx, id, OrderStatusConfirmed, "confirm", func(o *Order) error {
		o.ConfirmedBy = adminID
		return nil
	})
}

func (s *service) MarkPaid(ctx context.Context, id uuid.UUID, userID string) (*Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserRequired
	}
	return s.transition(ctx, id, OrderStatusPaid, "pay", func(o *Order) error {
		if o.UserID != userID {
			return ErrNotOrderOwner
		}
		return nil
	})
}

func (s *service) CompleteOrder(ctx context.Context, id uuid.UUID, adminID string) (*Order, error) {
	if strings.TrimSpace(adminID) == "" {
		return nil, ErrUserRequired
	}
	return s.transition(ctx, id, OrderStatusCompleted, "complete", nil)
}

func (s *service) ClearOrders(ctx context.Context) (int, error) {
	n, err := s.repository.DeleteAllOrders(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear orders: %w", err)
	}

	if s.orderSink != nil {
		if err := s.orderSink.OrdersCleared(ctx, n); err != nil {
			s.logger.Warn("order sink failed", "event", "cleared", "error", err)
		}
	}
	return n, nil
}

// transition loads an order, lets check veto or amend it, validates the
// status move and persists the result.
func (s *service) transition(ctx context.Context, id uuid.UUID, to OrderStatus, op string, check func(*Order) error) (*Order, error) {
	order, err := s.repository.GetOrder(ctx, id)
	if err != nil {
		return nil, &OrderError{OrderID: id, Op: op, Err: err}
	}

	if check != nil {
		if err := check(order); err != nil {
			return nil, &OrderError{OrderID: id, Op: op, Err: err}
		}
	}
	if _, err := canTransition(order.Status, to); err != nil {
		return nil, &OrderError{OrderID: id, Op: op, Err: err}
	}

	from := order.Status
	order.Status = to
	order.UpdatedAt = s.now()
	if err := s.repository.UpdateOrder(ctx, order, from); err != nil {
		return nil, &OrderError{OrderID: id, Op: op, Err: err}
	}

	if s.orderSink != nil {
		if err := s.orderSink.OrderStatusChanged(ctx, order, from); err != nil {
			s.logger.Warn("order sink failed", "event", "status_changed", "order_id", id, "error", err)
		}
	}
	return order, nil
}
