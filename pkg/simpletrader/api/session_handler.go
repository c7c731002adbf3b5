package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/shopspring/decimal"
	"github.com/tendant/simple-trader/pkg/simpletrader"
	"github.com/tendant/simple-trader/pkg/simpletrader/catalog"
)

// StartSessionRequest is the request body for opening a cart
type StartSessionRequest struct {
	Mode string `json:"mode"`
}

// AddToCartRequest is the request body for adding a variant to the cart
type AddToCartRequest struct {
	Category string `json:"category"`
	Item     string `json:"item"`
	Variant  string `json:"variant"`
	Quantity int    `json:"quantity"`
}

// SessionResponse is the response body for a cart
type SessionResponse struct {
	UserID    string                   `json:"user_id"`
	Mode      catalog.Mode             `json:"mode"`
	Lines     []simpletrader.OrderLine `json:"lines"`
	Total     decimal.Decimal          `json:"total"`
	StartedAt time.Time                `json:"started_at"`
	ExpiresAt time.Time                `json:"expires_at"`
}

func newSessionResponse(sess *simpletrader.Session) SessionResponse {
	lines := sess.Lines
	if lines == nil {
		lines = []simpletrader.OrderLine{}
	}
	return SessionResponse{
		UserID:    sess.UserID,
		Mode:      sess.Mode,
		Lines:     lines,
		Total:     sess.Total(),
		StartedAt: sess.StartedAt,
		ExpiresAt: sess.ExpiresAt,
	}
}

// StartSession opens a new cart for the caller, replacing any open one
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, r, err.Error())
			return
		}
	}
	mode, err := catalog.ParseMode(req.Mode)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := h.service.StartSession(r.Context(), simpletrader.StartSessionRequest{
		UserID: UserIDFromContext(r.Context()),
		Mode:   mode,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, newSessionResponse(sess))
}

// GetSession returns the caller's open cart
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.GetSession(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, newSessionResponse(sess))
}

// AddToCart adds a variant to the caller's open cart
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, err.Error())
		return
	}

	sess, err := h.service.AddToCart(r.Context(), simpletrader.AddToCartRequest{
		UserID:   UserIDFromContext(r.Context()),
		Category: req.Category,
		Item:     req.Item,
		Variant:  req.Variant,
		Quantity: req.Quantity,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, newSessionResponse(sess))
}

// ClearSession discards the caller's open cart
func (h *Handler) ClearSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearSession(r.Context(), UserIDFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitCart turns the caller's cart into a pending order
func (h *Handler) SubmitCart(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.SubmitCart(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, order)
}
