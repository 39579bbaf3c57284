package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"shop-agent-bridge/internal/adapter"
	"shop-agent-bridge/internal/model"
	"shop-agent-bridge/internal/transport"
)

// restAPIPath is the WordPress REST prefix for the WooCommerce namespace.
// The API version segment is appended by New.
const restAPIPath = "/wp-json/wc/"

// DefaultAPIVersion is the REST API version used when none is configured.
const DefaultAPIVersion = "v3"

// Caller-facing failure texts. Every failed read collapses into one of
// these, whatever the underlying cause.
const (
	MsgProductsFailed   = "Error fetching products"
	MsgCategoriesFailed = "Error fetching categories"
	MsgOrderFailed      = "Error fetching order details"
)

const (
	serviceName = "WooCommerce"

	// userAgent identifies this client to upstream servers.
	// Required: WooCommerce CDN/WAF rate-limits requests without User-Agent.
	userAgent = "Shop-Agent-Bridge/1.0"

	dialTimeout = 30 * time.Second
)

// Config holds the store location and the REST API credential pair.
type Config struct {
	StoreURL       string
	ConsumerKey    string
	ConsumerSecret string
	APIVersion     string // Default: v3

	// HTTPClient overrides the default fingerprinting client (tests).
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client performs authenticated reads against a WooCommerce store.
// It is immutable after New and safe for concurrent use.
//
// No retries and no client-level timeout: each call lives exactly as long
// as the caller's context.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	consumerKey    string
	consumerSecret string
	logger         *slog.Logger
}

// New creates a WooCommerce client with the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.StoreURL == "" {
		return nil, fmt.Errorf("store URL is required")
	}
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		return nil, fmt.Errorf("API credentials are required")
	}

	version, err := NormalizeAPIVersion(cfg.APIVersion)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: transport.NewChromeTransport(dialTimeout)}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimSuffix(cfg.StoreURL, "/") + restAPIPath + version,
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		logger:         logger.With(slog.String("upstream", serviceName)),
	}, nil
}

// NormalizeAPIVersion validates a REST API version and reduces it to the
// major path segment: "" → "v3", "3" → "v3", "v3.1.0" → "v3".
func NormalizeAPIVersion(version string) (string, error) {
	if version == "" {
		return DefaultAPIVersion, nil
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) {
		return "", fmt.Errorf("invalid WooCommerce API version %q", version)
	}
	return semver.Major(version), nil
}

// FetchProducts lists products, passing params through verbatim as the
// query string (per_page, page, search, category, orderby, ...).
// An empty catalogue or search is a successful empty slice.
func (c *Client) FetchProducts(ctx context.Context, params url.Values) ([]model.Product, error) {
	var products []model.Product
	if err := c.get(ctx, "/products", params, &products); err != nil {
		c.logger.Error("error fetching products",
			slog.String("query", params.Encode()),
			slog.String("error", err.Error()))
		return nil, model.NewFetchError(MsgProductsFailed, err)
	}
	if products == nil {
		products = []model.Product{}
	}

	c.logger.Info("fetched products",
		slog.String("query", params.Encode()),
		slog.Int("count", len(products)))
	c.logger.Debug("fetched products payload", slog.Any("products", products))
	return products, nil
}

// FetchCategories lists product categories.
func (c *Client) FetchCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.get(ctx, "/products/categories", nil, &categories); err != nil {
		c.logger.Error("error fetching categories", slog.String("error", err.Error()))
		return nil, model.NewFetchError(MsgCategoriesFailed, err)
	}
	if categories == nil {
		categories = []model.Category{}
	}

	c.logger.Info("fetched categories", slog.Int("count", len(categories)))
	return categories, nil
}

// FetchOrderDetails retrieves a single order. The ID is not interpreted;
// whatever the store rejects comes back as the order fetch error.
// An empty ID is a validation error and never reaches the store.
func (c *Client) FetchOrderDetails(ctx context.Context, orderID string) (*model.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, model.NewValidationError("order_id", "required")
	}

	var order model.Order
	if err := c.get(ctx, "/orders/"+url.PathEscape(orderID), nil, &order); err != nil {
		c.logger.Error("error fetching order details",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()))
		return nil, model.NewFetchError(MsgOrderFailed, err)
	}

	c.logger.Info("fetched order details",
		slog.String("order_id", orderID),
		slog.String("status", order.Status))
	return &order, nil
}

// get issues an authenticated GET against the versioned REST namespace and
// decodes a 2xx JSON body into v.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewUpstreamError(serviceName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.NewUpstreamError(serviceName, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.parseErrorResponse(resp.StatusCode, path, body)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return model.NewUpstreamError(serviceName, fmt.Errorf("parsing response: %w", err))
	}
	return nil
}

// setHeaders attaches the credential pair and content negotiation headers.
// The REST API accepts consumer key/secret as HTTP Basic credentials over
// HTTPS; stores on plain HTTP must allow it explicitly.
func (c *Client) setHeaders(req *http.Request) {
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
}

// parseErrorResponse converts a WooCommerce error body to APIError.
func (c *Client) parseErrorResponse(statusCode int, path string, body []byte) error {
	var wcErr WooErrorResponse
	json.Unmarshal(body, &wcErr) // Best effort parse

	switch statusCode {
	case http.StatusNotFound:
		return model.NewNotFoundError(strings.TrimPrefix(path, "/"))
	case http.StatusUnauthorized, http.StatusForbidden:
		return model.NewUnauthorizedError("WooCommerce authentication failed")
	case http.StatusBadRequest:
		msg := wcErr.Message
		if msg == "" {
			msg = "invalid request"
		}
		return model.NewValidationError("request", msg)
	case http.StatusTooManyRequests:
		return model.NewRateLimitError(serviceName)
	default:
		return model.NewUpstreamError(serviceName,
			fmt.Errorf("status %d: %s - %s", statusCode, wcErr.Code, wcErr.Message))
	}
}

// Verify Client implements adapter.Store at compile time.
var _ adapter.Store = (*Client)(nil)
