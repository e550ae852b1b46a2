package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"refund", "refund"},
		{"100%", `100\%`},
		{"in_progress", `in\_progress`},
		{`C:\temp`, `C:\\temp`},
		{`%_\`, `\%\_\\`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLike(tt.input), "input %q", tt.input)
	}
}

func TestUpdatePatchIsEmpty(t *testing.T) {
	assert.True(t, UpdatePatch{}.IsEmpty())

	title := "new title"
	assert.False(t, UpdatePatch{Title: &title}.IsEmpty())

	status := domain.StatusClosed
	assert.False(t, UpdatePatch{Status: &status}.IsEmpty())
}

func TestValidateStoredRejectsUnknownValues(t *testing.T) {
	valid := domain.Ticket{
		ID:       "t-1",
		Category: domain.CategoryBilling,
		Priority: domain.PriorityHigh,
		Status:   domain.StatusOpen,
	}
	assert.NoError(t, validateStored(&valid))

	corrupt := valid
	corrupt.Status = domain.Status("archived")
	err := validateStored(&corrupt)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `"archived"`)
}
