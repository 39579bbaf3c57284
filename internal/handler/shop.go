package handler

import (
	"log/slog"
	"net/http"
	"strings"
)

// msgOrderIDRequired is returned when the order path segment is empty or blank.
const msgOrderIDRequired = "Order ID is required"

// handleListProducts proxies a product query to the store.
// GET /products
//
// The inbound query string is forwarded untouched.
func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.FetchProducts(r.Context(), r.URL.Query())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, products)
}

// handleListCategories returns the store's product categories.
// GET /products/categories
func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.FetchCategories(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, categories)
}

// handleGetOrder returns one order.
// GET /orders/{orderId}
func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderId")
	if strings.TrimSpace(orderID) == "" {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgOrderIDRequired})
		return
	}

	order, err := h.store.FetchOrderDetails(r.Context(), orderID)
	if err != nil {
		h.logger.Debug("order lookup failed", slog.String("order_id", orderID))
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}
