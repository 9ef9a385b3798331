package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-triage-service/internal/autoresponse"
	"github.com/spec-kit/hr-triage-service/internal/domain"
	"github.com/spec-kit/hr-triage-service/internal/notifier"
	"github.com/spec-kit/hr-triage-service/internal/repository"
)

// Classifier labels a ticket description. A nil result means no label.
type Classifier interface {
	Classify(ctx context.Context, description string) *domain.Classification
}

// Notifier forwards a ticket snapshot to the automation workflow.
type Notifier interface {
	Notify(ctx context.Context, ticket domain.Ticket) notifier.Result
}

// TriageService runs the classify, persist, notify pipeline for one ticket.
type TriageService struct {
	tickets    repository.TicketRepository
	classifier Classifier
	notifier   Notifier
	logger     *zap.Logger
	now        func() time.Time
}

// TriageDependencies bundles collaborators for the triage pipeline.
type TriageDependencies struct {
	TicketRepo repository.TicketRepository
	Classifier Classifier
	Notifier   Notifier
	Logger     *zap.Logger
	Clock      func() time.Time
}

// NewTriageService constructs the pipeline.
func NewTriageService(deps TriageDependencies) *TriageService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TriageService{
		tickets:    deps.TicketRepo,
		classifier: deps.Classifier,
		notifier:   deps.Notifier,
		logger:     logger,
		now:        clock,
	}
}

// Process re-reads the ticket, classifies it, stores the result and then
// notifies the webhook. The webhook is called whether or not a label was
// found. A ticket that is no longer pending keeps its status; only the AI
// fields are recorded.
func (s *TriageService) Process(ctx context.Context, ticketID string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("load ticket %s: %w", ticketID, err)
	}

	if result := s.classifier.Classify(ctx, ticket.Description); result != nil {
		response := autoresponse.For(result.Category)
		ticket, err = s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
			status := t.Status
			t.ApplyClassification(*result, response, s.now())
			if status != domain.TicketStatusPending {
				t.Status = status
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("store classification for %s: %w", ticketID, err)
		}
		s.logger.Info("ticket classified",
			zap.String("ticket_id", ticketID),
			zap.String("category", string(result.Category)),
			zap.Float64("confidence", result.Confidence))
	} else {
		s.logger.Info("ticket left pending", zap.String("ticket_id", ticketID))
	}

	res := s.notifier.Notify(ctx, *ticket)
	if !res.Success {
		s.logger.Warn("automation webhook not notified",
			zap.String("ticket_id", ticketID),
			zap.Int("status_code", res.StatusCode),
			zap.String("error", res.Error))
	}
	return nil
}
