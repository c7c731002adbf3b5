package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/tendant/simple-trader/pkg/simpletrader"
)

// maxPriceListBytes bounds PUT /catalog bodies.
const maxPriceListBytes = 4 << 20

// Handler serves the trader service over HTTP
type Handler struct {
	service   simpletrader.Service
	tokenAuth *jwtauth.JWTAuth
	admin     []func(http.Handler) http.Handler
}

// Option configures a Handler
type Option func(*Handler)

// WithTokenAuth requires a bearer JWT on every request. The token's "sub"
// claim becomes the user ID instead of the X-User-ID header.
func WithTokenAuth(ja *jwtauth.JWTAuth) Option {
	return func(h *Handler) {
		h.tokenAuth = ja
	}
}

// WithAdminMiddleware guards the admin-only routes
func WithAdminMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.admin = append(h.admin, mw...)
	}
}

// NewHandler creates a new trader handler
func NewHandler(service simpletrader.Service, opts ...Option) *Handler {
	h := &Handler{service: service}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the routes for the trader API
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	if h.tokenAuth != nil {
		r.Use(jwtauth.Verifier(h.tokenAuth))
		r.Use(jwtauth.Authenticator)
	}
	r.Use(h.identify)

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/categories", h.ListCategories)
		r.Get("/categories/{category}/items", h.ListItems)
		r.Get("/categories/{category}/items/{item}/variants", h.ListVariants)
		r.Get("/categories/{category}/items/{item}/variants/match", h.MatchVariant)
		r.Get("/quote", h.GetQuote)

		r.Group(func(r chi.Router) {
			r.Use(h.admin...)
			r.Put("/", h.PublishCatalog)
			r.Post("/reload", h.ReloadCatalog)
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/parse", h.ParseOrder)
		r.Post("/", h.SubmitOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Post("/{id}/pay", h.MarkPaid)

		r.Group(func(r chi.Router) {
			r.Use(h.admin...)
			r.Get("/all", h.ListAllOrders)
			r.Post("/{id}/confirm", h.ConfirmOrder)
			r.Post("/{id}/complete", h.CompleteOrder)
			r.Delete("/", h.ClearOrders)
		})
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.StartSession)
		r.Get("/current", h.GetSession)
		r.Post("/current/items", h.AddToCart)
		r.Delete("/current", h.ClearSession)
		r.Post("/current/submit", h.SubmitCart)
	})

	return r
}
