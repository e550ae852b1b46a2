package domain

// StatsSummary aggregates counts across the whole ticket store.
type StatsSummary struct {
	TotalTickets      int64
	OpenTickets       int64
	AvgTicketsPerDay  float64
	PriorityBreakdown map[Priority]int64
	CategoryBreakdown map[Category]int64
}

// NewStatsSummary returns a summary with every enum value present at
// zero, so breakdowns always carry the full key set.
func NewStatsSummary() StatsSummary {
	s := StatsSummary{
		PriorityBreakdown: make(map[Priority]int64, len(Priorities())),
		CategoryBreakdown: make(map[Category]int64, len(Categories())),
	}
	for _, p := range Priorities() {
		s.PriorityBreakdown[p] = 0
	}
	for _, c := range Categories() {
		s.CategoryBreakdown[c] = 0
	}
	return s
}

// Suggestion is a classification proposal for a ticket description.
type Suggestion struct {
	Category Category
	Priority Priority
}
