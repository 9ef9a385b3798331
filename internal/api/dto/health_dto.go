package dto

// APIHealthResponse reports process health and the configured webhook.
type APIHealthResponse struct {
	Status        string `json:"status"`
	N8NWebhookURL string `json:"n8n_webhook_url"`
}

// ReadyResponse lists dependency states.
type ReadyResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}
