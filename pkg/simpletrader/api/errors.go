package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-trader/pkg/simpletrader"
	"github.com/tendant/simple-trader/pkg/simpletrader/catalog"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failed request
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// statusFor maps service errors to an HTTP status and error code.
func statusFor(err error) (int, string) {
	var lineErr *simpletrader.LineError
	if errors.As(err, &lineErr) {
		return http.StatusBadRequest, "invalid_order_line"
	}

	switch {
	case errors.Is(err, simpletrader.ErrUserRequired):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, simpletrader.ErrNotOrderOwner):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, simpletrader.ErrInvalidOrderStatus):
		return http.StatusConflict, "invalid_status"
	case errors.Is(err, simpletrader.ErrOrderExists):
		return http.StatusConflict, "conflict"
	case errors.Is(err, simpletrader.ErrOrderNotFound),
		errors.Is(err, simpletrader.ErrSessionNotFound),
		errors.Is(err, simpletrader.ErrSessionExpired),
		errors.Is(err, simpletrader.ErrCatalogNotFound),
		errors.Is(err, catalog.ErrUnknownCategory),
		errors.Is(err, catalog.ErrUnknownItem),
		errors.Is(err, catalog.ErrUnknownVariant):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, simpletrader.ErrEmptyCart),
		errors.Is(err, simpletrader.ErrInvalidOrderLine),
		errors.Is(err, simpletrader.ErrInvalidQuantity),
		errors.Is(err, catalog.ErrInvalidPriceList),
		errors.Is(err, catalog.ErrInvalidMode),
		errors.Is(err, catalog.ErrVariantsUnsupported):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, simpletrader.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	}
	return http.StatusInternalServerError, "internal_error"
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	body := ErrorBody{Code: code, Message: err.Error()}
	var lineErr *simpletrader.LineError
	if errors.As(err, &lineErr) {
		body.Line = lineErr.Line
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: body})
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: ErrorBody{Code: "invalid_request", Message: message}})
}
