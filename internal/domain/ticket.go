package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusClassified TicketStatus = "classified"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusEscalated  TicketStatus = "escalated"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPending, TicketStatusClassified, TicketStatusResolved, TicketStatusEscalated:
		return true
	}
	return false
}

// Ticket is an employee HR request. Field tags define both the persisted
// document and the wire format.
type Ticket struct {
	ID            string       `json:"id"`
	EmployeeName  string       `json:"employee_name"`
	EmployeeEmail string       `json:"employee_email"`
	Subject       string       `json:"subject"`
	Description   string       `json:"description"`
	Status        TicketStatus `json:"status"`
	AICategory    *Category    `json:"ai_category"`
	AIConfidence  *float64     `json:"ai_confidence"`
	AIResponse    *string      `json:"ai_response"`
	ResolvedBy    *string      `json:"resolved_by,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Touch advances UpdatedAt to now, never moving it backwards.
func (t *Ticket) Touch(now time.Time) {
	now = now.UTC()
	if now.Before(t.UpdatedAt) {
		return
	}
	t.UpdatedAt = now
}

// ApplyClassification records a classifier result and its canned response.
func (t *Ticket) ApplyClassification(c Classification, response string, now time.Time) {
	category := c.Category
	confidence := c.Confidence
	t.AICategory = &category
	t.AIConfidence = &confidence
	t.AIResponse = &response
	t.Status = TicketStatusClassified
	t.Touch(now)
}
