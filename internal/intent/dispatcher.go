package intent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"runtime/debug"
	"strconv"
	"strings"

	"shop-agent-bridge/internal/adapter"
	"shop-agent-bridge/internal/model"
)

// ProductPageSize is the fixed number of products a search returns.
const ProductPageSize = 10

// Dispatcher runs one store lookup per intent and renders the result.
// It holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	store  adapter.Store
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher over the given store.
// A nil logger discards output.
func NewDispatcher(store adapter.Store, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{store: store, logger: logger}
}

// Dispatch handles one intent and always returns fulfillment text.
// Store failures and unexpected panics are rendered as apology texts; the
// caller never sees an error.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (resp model.FulfillmentResponse) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic while dispatching intent",
				slog.String("intent", req.Name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			resp = model.FulfillmentResponse{FulfillmentText: MsgSomethingWrong}
		}
	}()

	var text string
	switch req.Intent {
	case FetchProducts:
		text = d.fetchProducts(ctx, req.Parameters)
	case FetchOrderStatus:
		text = d.fetchOrderStatus(ctx, req.Parameters)
	case Unknown:
		text = MsgNotUnderstood
	default:
		panic(fmt.Sprintf("unhandled intent %d", req.Intent))
	}

	d.logger.Debug("intent dispatched",
		slog.String("intent", req.Intent.String()),
		slog.String("display_name", req.Name),
		slog.String("fulfillment_text", text),
	)
	return model.FulfillmentResponse{FulfillmentText: text}
}

// ProductQuery builds the upstream filter for a product search: first page
// of ProductPageSize results, newest first.
func ProductQuery(search, category string) url.Values {
	return url.Values{
		"per_page": {strconv.Itoa(ProductPageSize)},
		"page":     {"1"},
		"search":   {search},
		"category": {category},
		"orderby":  {"date"},
		"order":    {"desc"},
	}
}

func (d *Dispatcher) fetchProducts(ctx context.Context, params map[string]any) string {
	query := ProductQuery(param(params, "search"), param(params, "category"))

	products, err := d.store.FetchProducts(ctx, query)
	if err != nil {
		d.logger.Error("product search failed", slog.String("error", err.Error()))
		return MsgSomethingWrong
	}
	if len(products) == 0 {
		return MsgNoProducts
	}

	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	return fmt.Sprintf(MsgProductsFound, strings.Join(names, ", "))
}

func (d *Dispatcher) fetchOrderStatus(ctx context.Context, params map[string]any) string {
	orderID := param(params, "orderId")
	if orderID == "" {
		return MsgOrderIDRequired
	}

	order, err := d.store.FetchOrderDetails(ctx, orderID)
	if err != nil {
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) {
			d.logger.Error("unexpected order lookup error", slog.String("error", err.Error()))
		}
		return MsgOrderFailed
	}
	// A 2xx with a null or status-less body is not an answer.
	if order == nil || order.Status == "" {
		d.logger.Error("order lookup returned no status", slog.String("order_id", orderID))
		return MsgSomethingWrong
	}

	return fmt.Sprintf(MsgOrderStatus, orderID, order.Status)
}
