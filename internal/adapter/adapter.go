// Package adapter defines the store interface the HTTP surface and the
// intent dispatcher depend on. The WooCommerce client is the production
// implementation; Mock backs the tests.
package adapter

import (
	"context"
	"net/url"

	"shop-agent-bridge/internal/model"
)

// Store abstracts the read-only upstream operations.
//
// Every method reports failure through the returned error. Failed reads
// return a *model.APIError carrying the operation's fixed message, so
// callers use errors.As rather than inspecting the payload.
type Store interface {
	// FetchProducts lists products filtered by params, passed through
	// verbatim as upstream query parameters.
	FetchProducts(ctx context.Context, params url.Values) ([]model.Product, error)

	// FetchCategories lists product categories.
	FetchCategories(ctx context.Context) ([]model.Category, error)

	// FetchOrderDetails retrieves one order by its store identifier.
	FetchOrderDetails(ctx context.Context, orderID string) (*model.Order, error)
}
