// MCP transport handler using the official MCP Go SDK.
// Exposes the agent intents and the category listing as MCP tools, so MCP
// clients get the same answers as the fulfillment webhook.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"shop-agent-bridge/internal/intent"
	"shop-agent-bridge/internal/model"
)

// === MCP Tool Input/Output Types ===

// FetchProductsInput is the input schema for fetch_products tool.
type FetchProductsInput struct {
	Search   string `json:"search,omitempty" jsonschema:"free-text product search"`
	Category string `json:"category,omitempty" jsonschema:"category ID to filter by"`
}

// FetchOrderStatusInput is the input schema for fetch_order_status tool.
type FetchOrderStatusInput struct {
	OrderID string `json:"order_id" jsonschema:"store order ID"`
}

// ListCategoriesInput is the input schema for list_categories tool.
type ListCategoriesInput struct{}

// FulfillmentOutput carries the same text the webhook would return.
type FulfillmentOutput struct {
	FulfillmentText string `json:"fulfillment_text"`
}

// CategoriesOutput is the output schema for list_categories tool.
type CategoriesOutput struct {
	Categories []CategorySummary `json:"categories"`
}

// CategorySummary is the subset of a store category exposed over MCP.
type CategorySummary struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Parent int    `json:"parent"`
	Count  int    `json:"count"`
}

// NewMCPServer creates an MCP server with the shop tools registered.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "shop-agent-bridge",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "Shop assistant tools backed by a WooCommerce store. " +
				"Search products, look up an order's status, or list product categories.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fetch_products",
		Description: "Search the store's newest products. Returns a sentence naming up to 10 matches.",
	}, h.mcpFetchProducts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fetch_order_status",
		Description: "Look up the status of an order by its ID.",
	}, h.mcpFetchOrderStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_categories",
		Description: "List the store's product categories.",
	}, h.mcpListCategories)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (h *Handler) mcpFetchProducts(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input FetchProductsInput,
) (*mcp.CallToolResult, FulfillmentOutput, error) {
	resp := h.dispatcher.Dispatch(ctx, intent.Request{
		Intent: intent.FetchProducts,
		Name:   intent.FetchProducts.String(),
		Parameters: map[string]any{
			"search":   input.Search,
			"category": input.Category,
		},
	})
	return nil, FulfillmentOutput{FulfillmentText: resp.FulfillmentText}, nil
}

func (h *Handler) mcpFetchOrderStatus(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input FetchOrderStatusInput,
) (*mcp.CallToolResult, FulfillmentOutput, error) {
	resp := h.dispatcher.Dispatch(ctx, intent.Request{
		Intent:     intent.FetchOrderStatus,
		Name:       intent.FetchOrderStatus.String(),
		Parameters: map[string]any{"orderId": input.OrderID},
	})
	return nil, FulfillmentOutput{FulfillmentText: resp.FulfillmentText}, nil
}

func (h *Handler) mcpListCategories(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListCategoriesInput,
) (*mcp.CallToolResult, CategoriesOutput, error) {
	categories, err := h.store.FetchCategories(ctx)
	if err != nil {
		return nil, CategoriesOutput{}, h.mcpError(err)
	}

	out := CategoriesOutput{Categories: make([]CategorySummary, 0, len(categories))}
	for _, c := range categories {
		out.Categories = append(out.Categories, CategorySummary{
			ID:     c.ID,
			Name:   c.Name,
			Slug:   c.Slug,
			Parent: c.Parent,
			Count:  c.Count,
		})
	}
	return nil, out, nil
}

// mcpError converts store errors to MCP-friendly errors.
func (h *Handler) mcpError(err error) error {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	// Don't leak internal error details
	h.logger.Error("mcp internal error", "error", err.Error())
	return fmt.Errorf("internal error")
}
