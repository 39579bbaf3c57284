package model

// WebhookRequest is the fulfillment request body sent by the conversational
// agent platform (Dialogflow ES format). Fields the bridge never reads are
// omitted.
type WebhookRequest struct {
	ResponseID  string       `json:"responseId"`
	Session     string       `json:"session"`
	QueryResult *QueryResult `json:"queryResult"`
}

// QueryResult carries the matched intent and the parameters the agent
// extracted from the user's utterance.
type QueryResult struct {
	QueryText    string         `json:"queryText"`
	Parameters   map[string]any `json:"parameters"`
	Intent       *AgentIntent   `json:"intent"`
	LanguageCode string         `json:"languageCode"`
}

// AgentIntent identifies the matched intent. DisplayName is the routing key.
type AgentIntent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// FulfillmentResponse is the only webhook response shape.
type FulfillmentResponse struct {
	FulfillmentText string `json:"fulfillmentText"`
}
