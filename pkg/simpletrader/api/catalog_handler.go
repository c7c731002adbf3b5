package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-trader/pkg/simpletrader"
	"github.com/tendant/simple-trader/pkg/simpletrader/catalog"
)

// NamesResponse lists categories, items or variants in price list order
type NamesResponse struct {
	Names []string `json:"names"`
}

// MatchResponse is the result of resolving a user's variant choice
type MatchResponse struct {
	Choice  string `json:"choice"`
	Matched bool   `json:"matched"`
	Variant string `json:"variant,omitempty"`
}

// ListCategories lists the price list's categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, NamesResponse{Names: names})
}

// ListItems lists the items of a category
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.Items(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, NamesResponse{Names: names})
}

// ListVariants lists an item's variants. Flat-priced items report Default.
func (h *Handler) ListVariants(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.Variants(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "item"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, NamesResponse{Names: names})
}

// MatchVariant checks the choice query parameter against an item's variants
func (h *Handler) MatchVariant(w http.ResponseWriter, r *http.Request) {
	choice := r.URL.Query().Get("choice")
	name, ok, err := h.service.MatchVariant(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "item"), choice)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, MatchResponse{Choice: choice, Matched: ok, Variant: name})
}

// GetQuote prices one variant for buying or selling
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mode, err := catalog.ParseMode(query.Get("mode"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	q, err := h.service.Quote(r.Context(), simpletrader.QuoteRequest{
		Category: query.Get("category"),
		Item:     query.Get("item"),
		Variant:  query.Get("variant"),
		Mode:     mode,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, q)
}

// PublishCatalog replaces the price list with the request body
func (h *Handler) PublishCatalog(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxPriceListBytes)
	if err := h.service.PublishCatalog(r.Context(), body); err != nil {
		writeError(w, r, err)
		return
	}
	h.ListCategories(w, r)
}

// ReloadCatalog re-reads the price list from its store
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ReloadCatalog(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	h.ListCategories(w, r)
}
