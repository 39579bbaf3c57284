package intent

import (
	"errors"
	"testing"

	"shop-agent-bridge/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want Intent
	}{
		{"FetchProducts", FetchProducts},
		{"FetchOrderStatus", FetchOrderStatus},
		{"fetchproducts", Unknown},
		{"Default Welcome Intent", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.name); got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestIntentString(t *testing.T) {
	for name, i := range intentNames {
		if i.String() != name {
			t.Errorf("%d.String() = %q, want %q", i, i.String(), name)
		}
	}
	if Unknown.String() != "Unknown" {
		t.Errorf("Unknown.String() = %q", Unknown.String())
	}
}

func TestRequestFromWebhook(t *testing.T) {
	req, err := RequestFromWebhook(&model.WebhookRequest{
		QueryResult: &model.QueryResult{
			Intent:     &model.AgentIntent{DisplayName: "FetchOrderStatus"},
			Parameters: map[string]any{"orderId": "42"},
		},
	})
	if err != nil {
		t.Fatalf("RequestFromWebhook() error: %v", err)
	}
	if req.Intent != FetchOrderStatus || req.Name != "FetchOrderStatus" {
		t.Errorf("req = %+v", req)
	}
	if req.Parameters["orderId"] != "42" {
		t.Errorf("Parameters = %v", req.Parameters)
	}
}

func TestRequestFromWebhook_NilParameters(t *testing.T) {
	req, err := RequestFromWebhook(&model.WebhookRequest{
		QueryResult: &model.QueryResult{Intent: &model.AgentIntent{DisplayName: "FetchProducts"}},
	})
	if err != nil {
		t.Fatalf("RequestFromWebhook() error: %v", err)
	}
	if req.Parameters == nil {
		t.Error("Parameters should default to an empty map")
	}
}

func TestRequestFromWebhook_Malformed(t *testing.T) {
	tests := []struct {
		name string
		req  *model.WebhookRequest
	}{
		{"nil request", nil},
		{"no query result", &model.WebhookRequest{}},
		{"no intent", &model.WebhookRequest{QueryResult: &model.QueryResult{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RequestFromWebhook(tt.req)
			if !errors.Is(err, ErrMalformedRequest) {
				t.Errorf("error = %v, want ErrMalformedRequest", err)
			}
		})
	}
}

func TestParamValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "abc", "abc"},
		{"integral float", float64(1042), "1042"},
		{"fractional float", 2.5, "2.5"},
		{"zero float", float64(0), ""},
		{"int", 7, "7"},
		{"true", true, "true"},
		{"false", false, ""},
		{"empty list", []any{}, ""},
		{"list", []any{float64(3), "x"}, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := paramValue(tt.in); got != tt.want {
				t.Errorf("paramValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
