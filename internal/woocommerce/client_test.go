package woocommerce

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"shop-agent-bridge/internal/model"
)

func newTestClient(t *testing.T, storeURL string) *Client {
	t.Helper()

	client, err := New(Config{
		StoreURL:       storeURL,
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
		HTTPClient:     &http.Client{},
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return client
}

// requireFetchError asserts err is the collapsed upstream failure with the given message.
func requireFetchError(t *testing.T, err error, wantMsg string) *model.APIError {
	t.Helper()

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T is not *model.APIError", err)
	}
	if apiErr.Message != wantMsg {
		t.Errorf("Message = %q, want %q", apiErr.Message, wantMsg)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if !errors.Is(err, model.ErrUpstreamError) {
		t.Error("error should wrap ErrUpstreamError")
	}
	return apiErr
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{StoreURL: "https://shop.example.com", ConsumerKey: "ck", ConsumerSecret: "cs"}, false},
		{"missing store URL", Config{ConsumerKey: "ck", ConsumerSecret: "cs"}, true},
		{"missing key", Config{StoreURL: "https://shop.example.com", ConsumerSecret: "cs"}, true},
		{"missing secret", Config{StoreURL: "https://shop.example.com", ConsumerKey: "ck"}, true},
		{"bad version", Config{StoreURL: "https://shop.example.com", ConsumerKey: "ck", ConsumerSecret: "cs", APIVersion: "latest"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_BaseURL(t *testing.T) {
	client, err := New(Config{
		StoreURL:       "https://shop.example.com/",
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		APIVersion:     "v2",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if client.baseURL != "https://shop.example.com/wp-json/wc/v2" {
		t.Errorf("baseURL = %s", client.baseURL)
	}
}

func TestNormalizeAPIVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "v3", false},
		{"v3", "v3", false},
		{"3", "v3", false},
		{"v3.1.0", "v3", false},
		{"v1", "v1", false},
		{"wc/v3", "", true},
		{"latest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeAPIVersion(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeAPIVersion(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFetchProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/wp-json/wc/v3/products" {
			t.Errorf("Path = %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "ck_test" || pass != "cs_test" {
			t.Errorf("BasicAuth = %q/%q/%v, want ck_test/cs_test", user, pass, ok)
		}
		q := r.URL.Query()
		if q.Get("search") != "hoodie" || q.Get("per_page") != "10" {
			t.Errorf("query = %v", q)
		}
		// Multi-valued keys pass through untouched
		if got := q["include"]; len(got) != 2 {
			t.Errorf("include = %v, want 2 values", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"A","sku":"a-1"},{"id":2,"name":"B"}]`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	params := url.Values{
		"search":   {"hoodie"},
		"per_page": {"10"},
		"include":  {"1", "2"},
	}
	products, err := client.FetchProducts(context.Background(), params)
	if err != nil {
		t.Fatalf("FetchProducts() error: %v", err)
	}
	if len(products) != 2 || products[0].Name != "A" || products[1].Name != "B" {
		t.Errorf("products = %+v", products)
	}
}

func TestFetchProducts_Empty(t *testing.T) {
	for _, body := range []string{`[]`, `null`} {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			products, err := newTestClient(t, srv.URL).FetchProducts(context.Background(), nil)
			if err != nil {
				t.Fatalf("FetchProducts() error: %v", err)
			}
			if products == nil || len(products) != 0 {
				t.Errorf("products = %#v, want empty non-nil slice", products)
			}
		})
	}
}

func TestFetchProducts_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCause error
	}{
		{"server error", http.StatusInternalServerError, `{"code":"internal","message":"boom"}`, model.ErrUpstreamError},
		{"unauthorized", http.StatusUnauthorized, `{"code":"woocommerce_rest_cannot_view","message":"Sorry, you cannot list resources."}`, model.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ``, model.ErrUnauthorized},
		{"not found", http.StatusNotFound, `{"code":"rest_no_route"}`, model.ErrNotFound},
		{"bad request", http.StatusBadRequest, `{"message":"Invalid parameter(s): per_page"}`, model.ErrInvalidRequest},
		{"rate limited", http.StatusTooManyRequests, ``, model.ErrRateLimited},
		{"invalid json", http.StatusOK, `<html>maintenance</html>`, model.ErrUpstreamError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			products, err := newTestClient(t, srv.URL).FetchProducts(context.Background(), nil)
			if products != nil {
				t.Errorf("products = %v, want nil on failure", products)
			}
			requireFetchError(t, err, MsgProductsFailed)
			if !errors.Is(err, tt.wantCause) {
				t.Errorf("error %v should wrap %v", err, tt.wantCause)
			}
		})
	}
}

func TestFetchProducts_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	storeURL := srv.URL
	srv.Close()

	_, err := newTestClient(t, storeURL).FetchProducts(context.Background(), nil)
	requireFetchError(t, err, MsgProductsFailed)
}

func TestFetchCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wc/v3/products/categories" {
			t.Errorf("Path = %s", r.URL.Path)
		}
		if _, _, ok := r.BasicAuth(); !ok {
			t.Error("missing basic auth")
		}
		w.Write([]byte(`[{"id":15,"name":"Clothing","slug":"clothing","parent":0,"count":7}]`))
	}))
	defer srv.Close()

	categories, err := newTestClient(t, srv.URL).FetchCategories(context.Background())
	if err != nil {
		t.Fatalf("FetchCategories() error: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Clothing" || categories[0].Count != 7 {
		t.Errorf("categories = %+v", categories)
	}
}

func TestFetchCategories_FailureReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	categories, err := newTestClient(t, srv.URL).FetchCategories(context.Background())
	if categories != nil {
		t.Errorf("categories = %v, want nil", categories)
	}
	requireFetchError(t, err, MsgCategoriesFailed)
}

func TestFetchOrderDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wc/v3/orders/42" {
			t.Errorf("Path = %s, want /wp-json/wc/v3/orders/42", r.URL.Path)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("RawQuery = %q, want empty", r.URL.RawQuery)
		}
		w.Write([]byte(`{"id":42,"number":"42","status":"processing","total":"29.35"}`))
	}))
	defer srv.Close()

	order, err := newTestClient(t, srv.URL).FetchOrderDetails(context.Background(), "42")
	if err != nil {
		t.Fatalf("FetchOrderDetails() error: %v", err)
	}
	if order.Status != "processing" || order.ID != 42 {
		t.Errorf("order = %+v", order)
	}
}

func TestFetchOrderDetails_EscapesID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/wp-json/wc/v3/orders/a%2Fb" {
			t.Errorf("EscapedPath = %s", r.URL.EscapedPath())
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).FetchOrderDetails(context.Background(), "a/b")
	requireFetchError(t, err, MsgOrderFailed)
}

func TestFetchOrderDetails_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"woocommerce_rest_shop_order_invalid_id","message":"Invalid ID.","data":{"status":404}}`))
	}))
	defer srv.Close()

	order, err := newTestClient(t, srv.URL).FetchOrderDetails(context.Background(), "999")
	if order != nil {
		t.Errorf("order = %+v, want nil", order)
	}
	requireFetchError(t, err, MsgOrderFailed)
	if !errors.Is(err, model.ErrNotFound) {
		t.Error("cause should be ErrNotFound")
	}
}

func TestFetchOrderDetails_EmptyIDSkipsUpstream(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).FetchOrderDetails(context.Background(), "  ")
	if !errors.Is(err, model.ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
	if hits.Load() != 0 {
		t.Errorf("upstream hit %d times, want 0", hits.Load())
	}
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, srv.URL).FetchProducts(ctx, nil)
	requireFetchError(t, err, MsgProductsFailed)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error %v should wrap context.Canceled", err)
	}
}

func TestParseErrorResponse(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantCode    string
		wantStatus  int
		wantCause   error
		wantMessage string
	}{
		{"unknown order", http.StatusNotFound, `{"code":"woocommerce_rest_shop_order_invalid_id","message":"Invalid ID."}`,
			"NOT_FOUND", http.StatusNotFound, model.ErrNotFound, "orders/42 not found"},
		{"bad key", http.StatusUnauthorized, `{"code":"woocommerce_rest_cannot_view"}`,
			"UNAUTHORIZED", http.StatusUnauthorized, model.ErrUnauthorized, "WooCommerce authentication failed"},
		{"read-only key", http.StatusForbidden, ``,
			"UNAUTHORIZED", http.StatusUnauthorized, model.ErrUnauthorized, "WooCommerce authentication failed"},
		{"store message kept", http.StatusBadRequest, `{"code":"rest_invalid_param","message":"Invalid parameter(s): per_page"}`,
			"VALIDATION_ERROR", http.StatusBadRequest, model.ErrInvalidRequest, "invalid request: Invalid parameter(s): per_page"},
		{"empty bad request", http.StatusBadRequest, `not json`,
			"VALIDATION_ERROR", http.StatusBadRequest, model.ErrInvalidRequest, "invalid request: invalid request"},
		{"throttled", http.StatusTooManyRequests, ``,
			"RATE_LIMITED", http.StatusTooManyRequests, model.ErrRateLimited, "WooCommerce rate limit exceeded, please retry later"},
		{"maintenance", http.StatusServiceUnavailable, `{"code":"maintenance","message":"Down"}`,
			"UPSTREAM_ERROR", http.StatusBadGateway, model.ErrUpstreamError, "WooCommerce request failed"},
	}

	c := newTestClient(t, "http://shop.test")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.parseErrorResponse(tt.status, "/orders/42", []byte(tt.body))

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error %T is not *model.APIError", err)
			}
			if apiErr.Code != tt.wantCode || apiErr.StatusCode != tt.wantStatus {
				t.Errorf("got %s/%d, want %s/%d", apiErr.Code, apiErr.StatusCode, tt.wantCode, tt.wantStatus)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
			if !errors.Is(err, tt.wantCause) {
				t.Errorf("error %v should wrap %v", err, tt.wantCause)
			}
		})
	}
}

// Unmapped statuses keep the store's own code in the logged cause.
func TestParseErrorResponse_UpstreamDetail(t *testing.T) {
	err := newTestClient(t, "http://shop.test").parseErrorResponse(
		http.StatusBadGateway, "/products", []byte(`{"code":"cf_origin","message":"origin unreachable"}`))

	want := "status 502: cf_origin - origin unreachable"
	if !strings.Contains(err.Error(), want) {
		t.Errorf("Error() = %q, missing %q", err.Error(), want)
	}
}
