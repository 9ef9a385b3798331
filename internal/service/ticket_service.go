package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-triage-service/internal/domain"
	"github.com/spec-kit/hr-triage-service/internal/events"
	"github.com/spec-kit/hr-triage-service/internal/repository"
	apperrors "github.com/spec-kit/hr-triage-service/pkg/util"
)

// DefaultResolver is recorded when a resolve request names no user.
const DefaultResolver = "Dashboard User"

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	EmployeeName  string
	EmployeeEmail string
	Subject       string
	Description   string
}

// TicketUpdateInput carries a partial update. Nil fields are left unchanged.
type TicketUpdateInput struct {
	AICategory   *domain.Category
	AIConfidence *float64
	AIResponse   *string
	Status       *domain.TicketStatus
}

func (in TicketUpdateInput) hasAIFields() bool {
	return in.AICategory != nil || in.AIConfidence != nil || in.AIResponse != nil
}

// TicketResolveInput describes a resolve action.
type TicketResolveInput struct {
	Action domain.TicketStatus
	Actor  string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// ListTickets returns every ticket in insertion order.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.List(ctx)
}

// CreateTicket persists a pending ticket and announces it. Classification
// happens later, off the request path.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	email := strings.TrimSpace(input.EmployeeEmail)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperrors.NewValidationError("employee_email is not a valid address", map[string]any{"employee_email": email})
		}
	}

	now := s.now().UTC()
	ticket := &domain.Ticket{
		ID:            uuid.NewString(),
		EmployeeName:  input.EmployeeName,
		EmployeeEmail: email,
		Subject:       input.Subject,
		Description:   input.Description,
		Status:        domain.TicketStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.logger.Info("ticket created", zap.String("ticket_id", ticket.ID))

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    ticket.EmployeeEmail,
		Payload: events.TicketCreatedPayload{
			Subject:       ticket.Subject,
			EmployeeEmail: ticket.EmployeeEmail,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	return ticket, nil
}

// UpdateTicket applies the supplied AI fields and status. When status is
// omitted but an AI field is present the ticket becomes classified.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	var oldStatus domain.TicketStatus
	ticket, err := s.tickets.Update(ctx, id, func(t *domain.Ticket) error {
		oldStatus = t.Status
		if input.AICategory != nil {
			category := *input.AICategory
			t.AICategory = &category
		}
		if input.AIConfidence != nil {
			confidence := *input.AIConfidence
			t.AIConfidence = &confidence
		}
		if input.AIResponse != nil {
			response := *input.AIResponse
			t.AIResponse = &response
		}
		switch {
		case input.Status != nil:
			t.Status = *input.Status
		case input.hasAIFields():
			t.Status = domain.TicketStatusClassified
		}
		t.Touch(s.now())
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err, id)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Payload: events.TicketUpdatedPayload{
			OldStatus:  oldStatus,
			NewStatus:  ticket.Status,
			AICategory: ticket.AICategory,
		},
	})
	return ticket, nil
}

// ResolveTicket closes out a ticket as resolved or escalated.
func (s *TicketService) ResolveTicket(ctx context.Context, id string, input TicketResolveInput) (*domain.Ticket, error) {
	action := input.Action
	if action == "" {
		action = domain.TicketStatusResolved
	}
	if action != domain.TicketStatusResolved && action != domain.TicketStatusEscalated {
		return nil, apperrors.NewValidationError("action must be resolved or escalated", map[string]any{"action": action})
	}
	actor := strings.TrimSpace(input.Actor)
	if actor == "" {
		actor = DefaultResolver
	}

	var oldStatus domain.TicketStatus
	ticket, err := s.tickets.Update(ctx, id, func(t *domain.Ticket) error {
		oldStatus = t.Status
		t.Status = action
		t.ResolvedBy = &actor
		t.Touch(s.now())
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	s.logger.Info("ticket resolved",
		zap.String("ticket_id", ticket.ID),
		zap.String("status", string(ticket.Status)),
		zap.String("resolved_by", actor))

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketResolved,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketResolvedPayload{
			OldStatus:  oldStatus,
			NewStatus:  ticket.Status,
			ResolvedBy: actor,
		},
	})
	return ticket, nil
}

// Analytics counts tickets per category and per status.
func (s *TicketService) Analytics(ctx context.Context) (*domain.Analytics, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	result := &domain.Analytics{
		TotalTickets:   len(tickets),
		CategoryCounts: map[string]int{},
		StatusCounts:   map[string]int{},
	}
	for _, ticket := range tickets {
		category := domain.CategoryUnclassified
		if ticket.AICategory != nil && *ticket.AICategory != "" {
			category = string(*ticket.AICategory)
		}
		result.CategoryCounts[category]++

		status := ticket.Status
		if status == "" {
			status = domain.TicketStatusPending
		}
		result.StatusCounts[string(status)]++
	}
	return result, nil
}

func validateUpdate(input TicketUpdateInput) error {
	details := map[string]any{}
	if input.Status != nil && !input.Status.Valid() {
		details["status"] = *input.Status
	}
	if input.AICategory != nil && !input.AICategory.Valid() {
		details["ai_category"] = *input.AICategory
	}
	if input.AIConfidence != nil && (*input.AIConfidence < 0 || *input.AIConfidence > 1) {
		details["ai_confidence"] = *input.AIConfidence
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket update", details)
	}
	return nil
}

func mapRepoError(err error, id string) error {
	if errors.Is(err, repository.ErrTicketNotFound) {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return fmt.Errorf("ticket %s: %w", id, err)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}
