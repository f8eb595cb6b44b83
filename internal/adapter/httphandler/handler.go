package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/teerex/internal/core/domain"
	"github.com/niksmo/teerex/internal/core/port"
)

// GET /products (200 OK, 500 Internal server error)
// GET /products/search?value=query (200 OK, 404 Not found, 500 Internal server error)

const (
	searchParam    = "value"
	maxQueryLength = 256
)

type ProductsHandler struct {
	catalog port.CatalogReader
}

func RegisterProducts(mux *http.ServeMux, catalog port.CatalogReader) {
	h := ProductsHandler{catalog}
	mux.HandleFunc("GET /products", h.GetProducts)
	mux.HandleFunc("GET /products/search", h.SearchProducts)
}

func (h ProductsHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProducts"
	log := slog.With("op", op)

	ps, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		log.Error("failed to list products", "err", err)
		writeFailure(w, http.StatusInternalServerError,
			"Could not read the product catalog")
		return
	}

	writeProducts(w, ps)
	log.Debug("products sent", "nProducts", len(ps))
}

func (h ProductsHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.SearchProducts"
	log := slog.With("op", op)

	query := r.URL.Query().Get(searchParam)
	if len(query) > maxQueryLength {
		writeFailure(w, http.StatusBadRequest, "Search query is too long")
		return
	}

	ps, err := h.catalog.SearchProducts(r.Context(), query)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, "No products found")
			return
		}
		log.Error("failed to search products", "query", query, "err", err)
		writeFailure(w, http.StatusInternalServerError,
			"Could not search the product catalog")
		return
	}

	writeProducts(w, ps)
	log.Debug("search results sent", "query", query, "nProducts", len(ps))
}

func writeProducts(w http.ResponseWriter, ps []domain.Product) {
	writeJSON(w, http.StatusOK, fromDomain(ps))
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Failure{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	const op = "httphandler.writeJSON"

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}
