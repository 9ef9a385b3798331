// Package classifier talks to a hosted zero-shot classification model.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-triage-service/internal/config"
	"github.com/spec-kit/hr-triage-service/internal/domain"
	"github.com/spec-kit/hr-triage-service/internal/observability"
)

// Health states reported by Health.
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusLoading      = "loading"
	StatusTimeout      = "timeout"
	StatusError        = "error"
)

// HealthStatus is the result of a connectivity probe.
type HealthStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	Model  string `json:"model,omitempty"`
}

// Connected reports whether the probe reached a ready model.
func (h HealthStatus) Connected() bool {
	return h.Status == StatusConnected
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

// Client classifies ticket descriptions.
type Client struct {
	http          *resty.Client
	endpoint      string
	token         string
	model         string
	labels        []string
	timeout       time.Duration
	healthTimeout time.Duration
	logger        *zap.Logger
	metrics       *observability.Metrics
}

// NewClient builds a client for the configured model endpoint.
func NewClient(cfg config.ClassifierConfig, logger *zap.Logger, metrics *observability.Metrics) *Client {
	labels := make([]string, 0, len(domain.CandidateLabels))
	for _, label := range domain.CandidateLabels {
		labels = append(labels, string(label))
	}
	httpClient := resty.New().
		SetLogger(logger.Sugar()).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:          httpClient,
		endpoint:      cfg.Endpoint(),
		token:         cfg.APIToken,
		model:         cfg.Model,
		labels:        labels,
		timeout:       cfg.Timeout(),
		healthTimeout: cfg.HealthTimeout(),
		logger:        logger.Named("classifier"),
		metrics:       metrics,
	}
}

// Classify returns the top label for description, or nil when no token is
// configured, the description is blank, or the call fails in any way.
// Failures are logged and never returned.
func (c *Client) Classify(ctx context.Context, description string) *domain.Classification {
	if c.token == "" || strings.TrimSpace(description) == "" {
		c.logger.Info("classification skipped: no token or description")
		c.metrics.RecordClassification(observability.OutcomeSkipped)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.post(ctx, description, c.labels)
	if err != nil {
		c.logger.Warn("classification request failed", zap.Error(err), zap.Bool("timeout", isTimeout(err)))
		c.metrics.RecordClassification(observability.OutcomeFailure)
		return nil
	}
	if !resp.IsSuccess() {
		c.logger.Warn("classification rejected",
			zap.Int("status_code", resp.StatusCode()),
			zap.ByteString("body", truncate(resp.Body(), 512)))
		c.metrics.RecordClassification(observability.OutcomeFailure)
		return nil
	}

	result, err := parseResponse(resp.Body())
	if err != nil {
		c.logger.Warn("unexpected classification response", zap.Error(err), zap.ByteString("body", truncate(resp.Body(), 512)))
		c.metrics.RecordClassification(observability.OutcomeFailure)
		return nil
	}

	c.logger.Debug("classification result",
		zap.String("category", string(result.Category)),
		zap.Float64("confidence", result.Confidence))
	c.metrics.RecordClassification(observability.OutcomeSuccess)
	return result
}

// Health submits a trivial input with a single label under a short timeout.
func (c *Client) Health(ctx context.Context) HealthStatus {
	if c.token == "" {
		return HealthStatus{Status: StatusDisconnected, Reason: "No API token configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	resp, err := c.post(ctx, "test", []string{"test"})
	switch {
	case err != nil && isTimeout(err):
		return HealthStatus{Status: StatusTimeout, Reason: "API not responding"}
	case err != nil:
		return HealthStatus{Status: StatusError, Reason: err.Error()}
	case resp.StatusCode() == http.StatusOK:
		return HealthStatus{Status: StatusConnected, Model: c.model}
	case resp.StatusCode() == http.StatusServiceUnavailable:
		return HealthStatus{Status: StatusLoading, Reason: "Model is loading, please wait"}
	default:
		return HealthStatus{Status: StatusError, Reason: fmt.Sprintf("API returned %d", resp.StatusCode())}
	}
}

func (c *Client) post(ctx context.Context, input string, labels []string) (*resty.Response, error) {
	return c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetBody(inferenceRequest{
			Inputs:     input,
			Parameters: inferenceParameters{CandidateLabels: labels},
		}).
		Post(c.endpoint)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
