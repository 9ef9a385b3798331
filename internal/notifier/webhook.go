// Package notifier delivers ticket snapshots to the automation webhook.
package notifier

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-triage-service/internal/config"
	"github.com/spec-kit/hr-triage-service/internal/domain"
	"github.com/spec-kit/hr-triage-service/internal/observability"
)

// Result describes one delivery attempt.
type Result struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Payload is the body posted to the webhook.
type Payload struct {
	TicketID      string              `json:"ticket_id"`
	EmployeeName  string              `json:"employee_name"`
	EmployeeEmail string              `json:"employee_email"`
	Subject       string              `json:"subject"`
	Description   string              `json:"description"`
	AICategory    *domain.Category    `json:"ai_category"`
	AIConfidence  *float64            `json:"ai_confidence"`
	Status        domain.TicketStatus `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
}

// Webhook posts tickets to the configured URL. Deliveries are never retried.
type Webhook struct {
	http    *resty.Client
	url     string
	timeout time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewWebhook builds a notifier. An empty URL disables delivery.
func NewWebhook(cfg config.NotificationConfig, logger *zap.Logger, metrics *observability.Metrics) *Webhook {
	httpClient := resty.New().
		SetLogger(logger.Sugar()).
		SetHeader("Content-Type", "application/json")
	return &Webhook{
		http:    httpClient,
		url:     cfg.WebhookURL,
		timeout: cfg.Timeout(),
		logger:  logger.Named("notifier"),
		metrics: metrics,
	}
}

// URL returns the configured endpoint, possibly empty.
func (w *Webhook) URL() string {
	return w.url
}

// Notify posts the ticket snapshot. 200 and 201 count as success.
func (w *Webhook) Notify(ctx context.Context, ticket domain.Ticket) Result {
	if w.url == "" {
		w.logger.Info("webhook not configured")
		w.metrics.RecordWebhook(observability.OutcomeSkipped)
		return Result{Success: false, Error: "No webhook URL configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	resp, err := w.http.R().
		SetContext(ctx).
		SetBody(payloadFor(ticket)).
		Post(w.url)
	if err != nil {
		msg := err.Error()
		if isTimeout(err) {
			msg = "Webhook timeout"
		}
		w.logger.Warn("webhook delivery failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		w.metrics.RecordWebhook(observability.OutcomeFailure)
		return Result{Success: false, Error: msg}
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated:
		w.logger.Info("webhook delivered", zap.String("ticket_id", ticket.ID), zap.Int("status_code", resp.StatusCode()))
		w.metrics.RecordWebhook(observability.OutcomeSuccess)
		return Result{Success: true, StatusCode: resp.StatusCode()}
	default:
		w.logger.Warn("webhook rejected",
			zap.String("ticket_id", ticket.ID),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", resp.String()))
		w.metrics.RecordWebhook(observability.OutcomeFailure)
		return Result{Success: false, StatusCode: resp.StatusCode()}
	}
}

func payloadFor(ticket domain.Ticket) Payload {
	return Payload{
		TicketID:      ticket.ID,
		EmployeeName:  ticket.EmployeeName,
		EmployeeEmail: ticket.EmployeeEmail,
		Subject:       ticket.Subject,
		Description:   ticket.Description,
		AICategory:    ticket.AICategory,
		AIConfidence:  ticket.AIConfidence,
		Status:        ticket.Status,
		CreatedAt:     ticket.CreatedAt,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
