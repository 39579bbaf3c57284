// Package intent maps conversational-agent intents onto store lookups and
// renders the outcome as fulfillment text.
//
// The set of intents is closed. Adding one means adding a constant, a name
// in intentNames and a case in Dispatcher.Dispatch.
package intent

import (
	"errors"
	"fmt"

	"shop-agent-bridge/internal/model"
)

// Intent is a supported agent intent.
type Intent int

const (
	// Unknown is any display name the bridge does not handle.
	Unknown Intent = iota
	// FetchProducts searches the catalogue.
	FetchProducts
	// FetchOrderStatus reports the status of one order.
	FetchOrderStatus
)

// intentNames maps agent display names to intents. Matching is exact.
var intentNames = map[string]Intent{
	"FetchProducts":    FetchProducts,
	"FetchOrderStatus": FetchOrderStatus,
}

// Parse resolves an agent intent display name.
func Parse(displayName string) Intent {
	if i, ok := intentNames[displayName]; ok {
		return i
	}
	return Unknown
}

func (i Intent) String() string {
	switch i {
	case FetchProducts:
		return "FetchProducts"
	case FetchOrderStatus:
		return "FetchOrderStatus"
	default:
		return "Unknown"
	}
}

// Request is one intent invocation, reduced from the webhook envelope.
type Request struct {
	Intent     Intent
	Name       string // display name as sent by the agent
	Parameters map[string]any
}

// ErrMalformedRequest is returned when the webhook body has no intent.
var ErrMalformedRequest = errors.New("malformed webhook request")

// RequestFromWebhook extracts the intent and parameters from a fulfillment
// request. Missing parameters are an empty bag; a missing query result or
// intent is ErrMalformedRequest.
func RequestFromWebhook(req *model.WebhookRequest) (Request, error) {
	if req == nil || req.QueryResult == nil {
		return Request{}, fmt.Errorf("%w: queryResult missing", ErrMalformedRequest)
	}
	qr := req.QueryResult
	if qr.Intent == nil {
		return Request{}, fmt.Errorf("%w: queryResult.intent missing", ErrMalformedRequest)
	}

	params := qr.Parameters
	if params == nil {
		params = map[string]any{}
	}

	return Request{
		Intent:     Parse(qr.Intent.DisplayName),
		Name:       qr.Intent.DisplayName,
		Parameters: params,
	}, nil
}
