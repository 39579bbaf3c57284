package adapter

import (
	"context"
	"net/url"
	"sync"

	"shop-agent-bridge/internal/model"
)

// Mock implements Store for testing.
// Each method can be configured via function fields; every call is recorded.
type Mock struct {
	FetchProductsFunc     func(ctx context.Context, params url.Values) ([]model.Product, error)
	FetchCategoriesFunc   func(ctx context.Context) ([]model.Category, error)
	FetchOrderDetailsFunc func(ctx context.Context, orderID string) (*model.Order, error)

	mu    sync.Mutex
	calls []Call
}

// Call records one Store invocation.
type Call struct {
	Method  string
	Params  url.Values // FetchProducts only
	OrderID string     // FetchOrderDetails only
}

// FetchProducts calls the configured FetchProductsFunc or returns no products.
func (m *Mock) FetchProducts(ctx context.Context, params url.Values) ([]model.Product, error) {
	m.record(Call{Method: "FetchProducts", Params: params})
	if m.FetchProductsFunc != nil {
		return m.FetchProductsFunc(ctx, params)
	}
	return []model.Product{}, nil
}

// FetchCategories calls the configured FetchCategoriesFunc or returns no categories.
func (m *Mock) FetchCategories(ctx context.Context) ([]model.Category, error) {
	m.record(Call{Method: "FetchCategories"})
	if m.FetchCategoriesFunc != nil {
		return m.FetchCategoriesFunc(ctx)
	}
	return []model.Category{}, nil
}

// FetchOrderDetails calls the configured FetchOrderDetailsFunc or returns not found.
func (m *Mock) FetchOrderDetails(ctx context.Context, orderID string) (*model.Order, error) {
	m.record(Call{Method: "FetchOrderDetails", OrderID: orderID})
	if m.FetchOrderDetailsFunc != nil {
		return m.FetchOrderDetailsFunc(ctx, orderID)
	}
	return nil, model.NewFetchError("Error fetching order details", model.NewNotFoundError("order"))
}

// Calls returns a copy of the recorded invocations in call order.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

func (m *Mock) record(c Call) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()
}

// Verify Mock implements Store interface at compile time.
var _ Store = (*Mock)(nil)
