package domain

import (
	"fmt"
	"strings"
	"time"
)

// TitleMaxLen bounds ticket titles, measured in runes.
const TitleMaxLen = 200

// Category classifies what a ticket is about.
type Category string

const (
	CategoryBilling   Category = "billing"
	CategoryTechnical Category = "technical"
	CategoryAccount   Category = "account"
	CategoryGeneral   Category = "general"
)

// Priority enumerates ticket urgency.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Status enumerates lifecycle states for tickets.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Categories returns every category in a stable order.
func Categories() []Category {
	return []Category{CategoryBilling, CategoryTechnical, CategoryAccount, CategoryGeneral}
}

// Priorities returns every priority in a stable order.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// Statuses returns every status in a stable order.
func Statuses() []Status {
	return []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}
}

// Valid reports whether the value is a member of the category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryBilling, CategoryTechnical, CategoryAccount, CategoryGeneral:
		return true
	}
	return false
}

// Valid reports whether the value is a member of the priority set.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Valid reports whether the value is a member of the status set.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// ParseCategory normalizes raw input to a Category. Matching is
// case-insensitive; anything outside the closed set is rejected.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", fmt.Errorf("invalid category %q (allowed: %s)", raw, joinValues(Categories()))
	}
	return c, nil
}

// ParsePriority normalizes raw input to a Priority.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q (allowed: %s)", raw, joinValues(Priorities()))
	}
	return p, nil
}

// ParseStatus normalizes raw input to a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid status %q (allowed: %s)", raw, joinValues(Statuses()))
	}
	return s, nil
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Category    Category
	Priority    Priority
	Status      Status
	CreatedAt   time.Time
}
