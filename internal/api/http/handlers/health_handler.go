package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-triage-service/internal/api/dto"
	"github.com/spec-kit/hr-triage-service/internal/classifier"
)

const notConfigured = "not configured"

// DependencyCheck is a named readiness probe.
type DependencyCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// ClassifierProbe reports classifier connectivity.
type ClassifierProbe interface {
	Health(ctx context.Context) classifier.HealthStatus
}

// HealthHandler responds to liveness, readiness and integration probes.
type HealthHandler struct {
	serviceName string
	version     string
	webhookURL  string
	classifier  ClassifierProbe
	checks      []DependencyCheck
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version, webhookURL string, probe ClassifierProbe, checks ...DependencyCheck) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		webhookURL:  webhookURL,
		classifier:  probe,
		checks:      checks,
	}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := make(map[string]string, len(h.checks))
	ready := true
	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			depStatus[check.Name] = err.Error()
			ready = false
		} else {
			depStatus[check.Name] = "ok"
		}
	}

	if ready {
		return c.JSON(dto.ReadyResponse{Status: "ready", Dependencies: depStatus})
	}
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}

// API GET /api/health.
func (h *HealthHandler) API(c *fiber.Ctx) error {
	url := h.webhookURL
	if url == "" {
		url = notConfigured
	}
	return c.JSON(dto.APIHealthResponse{Status: "healthy", N8NWebhookURL: url})
}

// AI GET /api/ai/health. Answers 503 unless the model is reachable.
func (h *HealthHandler) AI(c *fiber.Ctx) error {
	status := h.classifier.Health(c.UserContext())
	if !status.Connected() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return c.JSON(status)
}
