// Package handler provides the HTTP surface of the bridge: direct store
// lookups, the agent fulfillment webhook and the MCP tool endpoint.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"shop-agent-bridge/internal/adapter"
	"shop-agent-bridge/internal/intent"
	"shop-agent-bridge/internal/model"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	store      adapter.Store
	dispatcher *intent.Dispatcher
	logger     *slog.Logger
}

// New creates a new Handler with the given store, dispatcher, and logger.
func New(store adapter.Store, dispatcher *intent.Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
// Uses Go 1.22+ method routing patterns.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Direct store lookups
	mux.HandleFunc("GET /products", h.handleListProducts)
	mux.HandleFunc("GET /products/categories", h.handleListCategories)
	mux.HandleFunc("GET /orders/{orderId}", h.handleGetOrder)
	mux.HandleFunc("GET /orders/{$}", h.handleGetOrder)

	// Agent fulfillment
	mux.HandleFunc("POST /webhook", h.handleWebhook)

	// MCP transport - JSON-RPC endpoint using official MCP SDK
	mux.Handle("/mcp", h.NewMCPHandler())

	// Health check
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status and message from
// APIError if present. Uses errors.As() to unwrap error chains.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError

	if !errors.As(err, &apiErr) {
		apiErr = model.NewInternalError(err)
		h.logger.Error("internal error", slog.String("error", err.Error()))
	}

	h.writeJSON(w, apiErr.StatusCode, errorResponse{Error: apiErr.Message})
}

// errorResponse is the JSON structure for error responses.
// Direct API consumers match on the message text.
type errorResponse struct {
	Error string `json:"error"`
}

// MaxRequestBodySize limits JSON request bodies to 1MB to prevent DoS.
const MaxRequestBodySize = 1 << 20 // 1MB

// decodeJSON reads JSON from request body into v.
// Limits body size to MaxRequestBodySize to prevent memory exhaustion.
// Returns an APIError if decoding fails.
func decodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Don't expose internal error details to client
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}
