package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/templeseva/priest_scheduler/internal/model"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 10, hour, minute, 0, 0, time.UTC)
}

func TestHasConflict(t *testing.T) {
	existing := []model.Interval{{ID: "a1", Start: at(10, 30), End: at(11, 30)}}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"partial overlap", at(10, 0), at(11, 0), true},
		{"adjacent after", at(11, 30), at(12, 0), false},
		{"adjacent before", at(9, 30), at(10, 30), false},
		{"contained", at(10, 45), at(11, 0), true},
		{"containing", at(10, 0), at(12, 0), true},
		{"same interval", at(10, 30), at(11, 30), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasConflict(tt.start, tt.end, existing, ""))
		})
	}
}

func TestHasConflict_Scenario(t *testing.T) {
	candidateStart, candidateEnd := at(10, 0), at(11, 0)

	overlapping := []model.Interval{{ID: "x", Start: at(10, 30), End: at(11, 30)}}
	touching := []model.Interval{{ID: "y", Start: at(11, 0), End: at(12, 0)}}

	assert.True(t, HasConflict(candidateStart, candidateEnd, overlapping, ""))
	assert.False(t, HasConflict(candidateStart, candidateEnd, touching, ""))
}

func TestHasConflict_ExcludeID(t *testing.T) {
	existing := []model.Interval{
		{ID: "a1", Start: at(10, 0), End: at(11, 0)},
		{ID: "a2", Start: at(13, 0), End: at(14, 0)},
	}

	assert.False(t, HasConflict(at(10, 0), at(11, 0), existing, "a1"))
	assert.True(t, HasConflict(at(10, 0), at(11, 0), existing, "a2"))
	assert.True(t, HasConflict(at(10, 0), at(13, 30), existing, "a1"))
}

func TestConflicts_SortedByStart(t *testing.T) {
	existing := []model.Interval{
		{ID: "late", Start: at(12, 0), End: at(13, 0)},
		{ID: "early", Start: at(9, 0), End: at(10, 0)},
		{ID: "outside", Start: at(15, 0), End: at(16, 0)},
	}

	got := Conflicts(at(9, 30), at(12, 30), existing, "")

	assert.Len(t, got, 2)
	assert.Equal(t, "early", got[0].ID)
	assert.Equal(t, "late", got[1].ID)
}

func TestValidateCandidate(t *testing.T) {
	now := at(10, 0)

	assert.NoError(t, ValidateCandidate(now, at(10, 0), at(11, 0)))
	assert.ErrorIs(t, ValidateCandidate(now, at(9, 59), at(11, 0)), ErrStartInPast)
	assert.ErrorIs(t, ValidateCandidate(now, at(11, 0), at(11, 0)), ErrInvalidInterval)
	assert.ErrorIs(t, ValidateCandidate(now, at(12, 0), at(11, 0)), ErrInvalidInterval)

	// past start is reported before a negative duration
	err := ValidateCandidate(now, at(9, 0), at(8, 0))
	assert.ErrorIs(t, err, ErrStartInPast)
	assert.True(t, errors.Is(err, ErrValidation))
}
