package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-triage-service/internal/api/dto"
	"github.com/spec-kit/hr-triage-service/internal/auth"
	"github.com/spec-kit/hr-triage-service/internal/domain"
	"github.com/spec-kit/hr-triage-service/internal/service"
	apperrors "github.com/spec-kit/hr-triage-service/pkg/util"
)

// TicketsHandler serves the ticket and analytics endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.UserContext())
	if err != nil {
		return err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return c.JSON(tickets)
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		EmployeeName:  req.EmployeeName,
		EmployeeEmail: req.EmployeeEmail,
		Subject:       req.Subject,
		Description:   req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ticket)
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// UpdateTicket PATCH /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	input := service.TicketUpdateInput{
		AIConfidence: req.AIConfidence,
		AIResponse:   req.AIResponse,
	}
	if req.AICategory != nil {
		category := domain.Category(*req.AICategory)
		input.AICategory = &category
	}
	if req.Status != nil {
		status := domain.TicketStatus(*req.Status)
		input.Status = &status
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// ResolveTicket POST /api/tickets/:id/resolve.
func (h *TicketsHandler) ResolveTicket(c *fiber.Ctx) error {
	var req dto.ResolveTicketRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	actor := req.User
	if actor == "" {
		if principal, ok := auth.PrincipalFromContext(c); ok {
			actor = principal.Subject
		}
	}
	ticket, err := h.service.ResolveTicket(c.UserContext(), c.Params("id"), service.TicketResolveInput{
		Action: domain.TicketStatus(req.Action),
		Actor:  actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.ResolveTicketResponse{
		Success:  true,
		TicketID: ticket.ID,
		Status:   string(ticket.Status),
		Message:  fmt.Sprintf("Ticket %s successfully", ticket.Status),
	})
}

// Analytics GET /api/analytics.
func (h *TicketsHandler) Analytics(c *fiber.Ctx) error {
	analytics, err := h.service.Analytics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(analytics)
}
