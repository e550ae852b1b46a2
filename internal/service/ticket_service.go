package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/spec-kit/ticketdesk/internal/classifier"
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/events"
	"github.com/spec-kit/ticketdesk/internal/repository"
	"github.com/spec-kit/ticketdesk/internal/statscache"
	"github.com/spec-kit/ticketdesk/pkg/util"
)

// Message returned when classification cannot be served; clients fall
// back to manual selection.
const classifyUnavailableMessage = "Classification service unavailable. Please select category and priority manually."

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	classifier classifier.Classifier
	stats      *statscache.Cache
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Classifier classifier.Classifier
	StatsCache *statscache.Cache
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload. Enum fields are
// raw client strings; nil means absent and takes the default.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    *string
	Priority    *string
	Status      *string
}

// TicketUpdateInput describes a partial update. Nil fields are left
// untouched.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *string
	Status      *string
}

// TicketListInput describes listing filters as raw client strings.
type TicketListInput struct {
	Category *string
	Priority *string
	Status   *string
	Search   *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		classifier: deps.Classifier,
		stats:      deps.StatsCache,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket validates input, applies defaults and persists a new
// ticket.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	if title == "" {
		return nil, util.NewValidationError("title is required", map[string]any{"field": "title"})
	}
	if utf8.RuneCountInString(title) > domain.TitleMaxLen {
		return nil, util.NewValidationError("title must be at most 200 characters", map[string]any{"field": "title"})
	}
	if description == "" {
		return nil, util.NewValidationError("description is required", map[string]any{"field": "description"})
	}

	category := domain.CategoryGeneral
	if input.Category != nil {
		parsed, err := domain.ParseCategory(*input.Category)
		if err != nil {
			return nil, util.NewValidationError(err.Error(), map[string]any{"field": "category"})
		}
		category = parsed
	}

	priority := domain.PriorityMedium
	if input.Priority != nil {
		parsed, err := domain.ParsePriority(*input.Priority)
		if err != nil {
			return nil, util.NewValidationError(err.Error(), map[string]any{"field": "priority"})
		}
		priority = parsed
	}

	status := domain.StatusOpen
	if input.Status != nil {
		parsed, err := domain.ParseStatus(*input.Status)
		if err != nil {
			return nil, util.NewValidationError(err.Error(), map[string]any{"field": "status"})
		}
		status = parsed
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		Status:      status,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.stats.Invalidate(ctx)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Category: ticket.Category,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// GetTicket fetches a single ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, util.NewNotFound("ticket", map[string]any{"id": id})
	}
	return s.tickets.GetByID(ctx, id)
}

// UpdateTicket applies a partial update to a ticket. An empty input
// returns the stored record unchanged.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, util.NewNotFound("ticket", map[string]any{"id": id})
	}

	var patch repository.UpdatePatch

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, util.NewValidationError("title cannot be empty", map[string]any{"field": "title"})
		}
		if utf8.RuneCountInString(title) > domain.TitleMaxLen {
			return nil, util.NewValidationError("title must be at most 200 characters", map[string]any{"field": "title"})
		}
		patch.Title = &title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, util.NewValidationError("description cannot be empty", map[string]any{"field": "description"})
		}
		patch.Description = &description
	}
	if input.Category != nil {
		parsed, err := domain.ParseCategory(*input.Category)
		if err != nil {
			return nil, util.NewValidationError(err.Error(), map[string]any{"field": "category"})
		}
		patch.Category = &parsed
	}
	if input.Priority != nil {
		parsed, err := domain.ParsePriority(*input.Priority)
		if err != nil {
			return nil, util.NewValidationError(err.Error(), map[string]any{"field": "priority"})
		}
		patch.Priority = &parsed
	}
	if input.Status != nil {
		parsed, err := domain.ParseStatus(*input.Status)
		if err != nil {
			return nil, util.NewValidationError(err.Error(), map[string]any{"field": "status"})
		}
		patch.Status = &parsed
	}

	current, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.tickets.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.stats.Invalidate(ctx)
	if patch.Status != nil && current.Status != updated.Status {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: updated.ID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: current.Status,
				NewStatus: updated.Status,
			},
		})
	}
	return updated, nil
}

// ListTickets returns tickets matching the filters, newest first.
func (s *TicketService) ListTickets(ctx context.Context, input TicketListInput) ([]domain.Ticket, error) {
	var filter repository.TicketFilter

	if input.Category != nil && strings.TrimSpace(*input.Category) != "" {
		parsed, err := domain.ParseCategory(*input.Category)
		if err != nil {
			return nil, util.NewValidationError(err.Error(), map[string]any{"field": "category"})
		}
		filter.Category = &parsed
	}
	if input.Priority != nil && strings.TrimSpace(*input.Priority) != "" {
		parsed, err := domain.ParsePriority(*input.Priority)
		if err != nil {
			return nil, util.NewValidationError(err.Error(), map[string]any{"field": "priority"})
		}
		filter.Priority = &parsed
	}
	if input.Status != nil && strings.TrimSpace(*input.Status) != "" {
		parsed, err := domain.ParseStatus(*input.Status)
		if err != nil {
			return nil, util.NewValidationError(err.Error(), map[string]any{"field": "status"})
		}
		filter.Status = &parsed
	}
	filter.Search = input.Search

	return s.tickets.List(ctx, filter)
}

// Stats returns aggregate counters, served from cache when fresh.
func (s *TicketService) Stats(ctx context.Context) (*domain.StatsSummary, error) {
	if cached, ok := s.stats.Get(ctx); ok {
		return cached, nil
	}

	summary, err := s.tickets.Stats(ctx)
	if err != nil {
		return nil, err
	}

	s.stats.Set(ctx, summary)
	return summary, nil
}

// SuggestClassification asks the classifier for a category and
// priority proposal. The description is never persisted.
func (s *TicketService) SuggestClassification(ctx context.Context, description string) (*domain.Suggestion, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, util.NewValidationError("description is required", map[string]any{"field": "description"})
	}

	if s.classifier == nil {
		return nil, util.NewUnavailable(classifyUnavailableMessage)
	}

	suggestion, err := s.classifier.Classify(ctx, description)
	if err != nil {
		if errors.Is(err, classifier.ErrUnavailable) {
			return nil, util.NewUnavailable(classifyUnavailableMessage)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type: events.EventClassificationSuggested,
		Payload: events.ClassificationSuggestedPayload{
			Category: suggestion.Category,
			Priority: suggestion.Priority,
		},
	})
	return suggestion, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.dispatcher.Publish(ctx, event)
}
