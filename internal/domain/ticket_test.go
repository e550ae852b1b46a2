package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Category
		wantErr bool
	}{
		{"exact member", "billing", CategoryBilling, false},
		{"uppercase normalized", "TECHNICAL", CategoryTechnical, false},
		{"mixed case normalized", "Account", CategoryAccount, false},
		{"surrounding whitespace", "  general  ", CategoryGeneral, false},
		{"unknown value", "vip", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid category")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Priority
		wantErr bool
	}{
		{"exact member", "critical", PriorityCritical, false},
		{"uppercase normalized", "LOW", PriorityLow, false},
		{"unknown value", "urgent", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Status
		wantErr bool
	}{
		{"underscore member", "in_progress", StatusInProgress, false},
		{"uppercase normalized", "RESOLVED", StatusResolved, false},
		{"space instead of underscore", "in progress", "", true},
		{"unknown value", "done", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidRejectsNonMembers(t *testing.T) {
	assert.False(t, Category("Billing").Valid(), "validity check is case sensitive; normalization happens in Parse")
	assert.False(t, Priority("urgent").Valid())
	assert.False(t, Status("").Valid())
}

func TestEnumOrderings(t *testing.T) {
	assert.Equal(t, []Category{CategoryBilling, CategoryTechnical, CategoryAccount, CategoryGeneral}, Categories())
	assert.Equal(t, []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}, Priorities())
	assert.Equal(t, []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}, Statuses())
}

func TestNewStatsSummarySeedsAllKeys(t *testing.T) {
	summary := NewStatsSummary()

	require.Len(t, summary.PriorityBreakdown, 4)
	require.Len(t, summary.CategoryBreakdown, 4)
	for _, p := range Priorities() {
		count, ok := summary.PriorityBreakdown[p]
		assert.True(t, ok, "priority %q must be pre-seeded", p)
		assert.Zero(t, count)
	}
	for _, c := range Categories() {
		count, ok := summary.CategoryBreakdown[c]
		assert.True(t, ok, "category %q must be pre-seeded", c)
		assert.Zero(t, count)
	}
	assert.Zero(t, summary.TotalTickets)
	assert.Zero(t, summary.OpenTickets)
	assert.Zero(t, summary.AvgTicketsPerDay)
}
