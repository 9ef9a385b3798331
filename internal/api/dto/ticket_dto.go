package dto

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	EmployeeName  string `json:"employee_name"`
	EmployeeEmail string `json:"employee_email"`
	Subject       string `json:"subject"`
	Description   string `json:"description"`
}

// UpdateTicketRequest is a partial update; absent fields stay unchanged.
type UpdateTicketRequest struct {
	AICategory   *string  `json:"ai_category"`
	AIConfidence *float64 `json:"ai_confidence"`
	AIResponse   *string  `json:"ai_response"`
	Status       *string  `json:"status"`
}

// ResolveTicketRequest payload. Both fields are optional.
type ResolveTicketRequest struct {
	Action string `json:"action"`
	User   string `json:"user"`
}

// ResolveTicketResponse acknowledges a resolve action.
type ResolveTicketResponse struct {
	Success  bool   `json:"success"`
	TicketID string `json:"ticket_id"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}
