package handler

import (
	"log/slog"
	"net/http"

	"shop-agent-bridge/internal/intent"
	"shop-agent-bridge/internal/model"
)

// handleWebhook answers an agent fulfillment request.
// POST /webhook
//
// Always responds 200: the agent conversation must not break, so every
// failure is reported through the fulfillment text.
func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var body model.WebhookRequest
	if err := decodeJSON(r, &body); err != nil {
		h.logger.Warn("undecodable webhook body", slog.String("error", err.Error()))
		h.writeFulfillment(w, intent.MsgSomethingWrong)
		return
	}

	req, err := intent.RequestFromWebhook(&body)
	if err != nil {
		h.logger.Warn("malformed webhook request",
			slog.String("session", body.Session),
			slog.String("error", err.Error()),
		)
		h.writeFulfillment(w, intent.MsgSomethingWrong)
		return
	}

	h.logger.Info("webhook intent",
		slog.String("intent", req.Name),
		slog.String("session", body.Session),
		slog.Any("parameters", req.Parameters),
	)

	h.writeJSON(w, http.StatusOK, h.dispatcher.Dispatch(r.Context(), req))
}

func (h *Handler) writeFulfillment(w http.ResponseWriter, text string) {
	h.writeJSON(w, http.StatusOK, model.FulfillmentResponse{FulfillmentText: text})
}
