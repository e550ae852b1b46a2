package dto

import (
	"time"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// CreateTicketRequest payload. Enum fields are optional; absent values
// take the server defaults.
type CreateTicketRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

// UpdateTicketRequest payload. Absent fields keep their stored values.
type UpdateTicketRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

// ClassifyTicketRequest payload.
type ClassifyTicketRequest struct {
	Description string `json:"description"`
}

// TicketResponse is the wire shape for a single ticket.
type TicketResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    domain.Category `json:"category"`
	Priority    domain.Priority `json:"priority"`
	Status      domain.Status   `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SuggestionResponse carries a classification proposal.
type SuggestionResponse struct {
	SuggestedCategory domain.Category `json:"suggested_category"`
	SuggestedPriority domain.Priority `json:"suggested_priority"`
}

// StatsResponse aggregates counters for the dashboard.
type StatsResponse struct {
	TotalTickets      int64                     `json:"total_tickets"`
	OpenTickets       int64                     `json:"open_tickets"`
	AvgTicketsPerDay  float64                   `json:"avg_tickets_per_day"`
	PriorityBreakdown map[domain.Priority]int64 `json:"priority_breakdown"`
	CategoryBreakdown map[domain.Category]int64 `json:"category_breakdown"`
}
