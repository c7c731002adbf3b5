package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-trader/pkg/simpletrader"
	"github.com/tendant/simple-trader/pkg/simpletrader/catalog"
)

// OrderTextRequest is the request body for previewing or submitting order text
type OrderTextRequest struct {
	Mode string `json:"mode"`
	Text string `json:"text"`
}

// ClearOrdersResponse reports how many orders were deleted
type ClearOrdersResponse struct {
	Deleted int `json:"deleted"`
}

func decodeOrderText(r *http.Request) (OrderTextRequest, catalog.Mode, error) {
	var req OrderTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, "", err
	}
	mode, err := catalog.ParseMode(req.Mode)
	return req, mode, err
}

// ParseOrder prices order text without submitting it
func (h *Handler) ParseOrder(w http.ResponseWriter, r *http.Request) {
	req, mode, err := decodeOrderText(r)
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	parsed, err := h.service.ParseOrder(r.Context(), req.Text, mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, parsed)
}

// SubmitOrder submits order text as a new pending order for the caller
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	req, mode, err := decodeOrderText(r)
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	order, err := h.service.SubmitOrderText(r.Context(), simpletrader.SubmitOrderTextRequest{
		UserID: UserIDFromContext(r.Context()),
		Mode:   mode,
		Text:   req.Text,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("Order submitted", "order_id", order.ID, "user_id", order.UserID, "lines", len(order.Lines))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, order)
}

// ListOrders lists the caller's orders, newest first
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, r, simpletrader.ErrUserRequired)
		return
	}
	h.listOrders(w, r, userID)
}

// ListAllOrders lists every user's orders, newest first
func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	h.listOrders(w, r, "")
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request, userID string) {
	orders, err := h.service.ListOrders(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []*simpletrader.Order{}
	}
	render.JSON(w, r, orders)
}

// GetOrder returns one of the caller's orders
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, r, simpletrader.ErrUserRequired)
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if order.UserID != userID {
		writeError(w, r, simpletrader.ErrNotOrderOwner)
		return
	}
	render.JSON(w, r, order)
}

// MarkPaid records that the caller paid for their confirmed order
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.MarkPaid)
}

// ConfirmOrder confirms a pending order as the calling admin
func (h *Handler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ConfirmOrder)
}

// CompleteOrder completes a paid order as the calling admin
func (h *Handler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.CompleteOrder)
}

// ClearOrders deletes every order
func (h *Handler) ClearOrders(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.ClearOrders(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("Orders cleared", "count", n, "by", UserIDFromContext(r.Context()))
	render.JSON(w, r, ClearOrdersResponse{Deleted: n})
}

type transitionFunc func(ctx context.Context, id uuid.UUID, actorID string) (*simpletrader.Order, error)

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	order, err := fn(r.Context(), id, UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("Order status changed", "order_id", order.ID, "status", order.Status)
	render.JSON(w, r, order)
}

func orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, r, "invalid order id")
		return uuid.Nil, false
	}
	return id, true
}
