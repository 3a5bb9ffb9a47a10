package service

import (
	"sort"
	"time"

	"github.com/templeseva/priest_scheduler/internal/model"
)

// Conflicts returns every existing interval overlapping [start, end), except the one
// whose ID equals excludeID. Overlap is half-open: touching intervals do not conflict.
func Conflicts(start, end time.Time, existing []model.Interval, excludeID string) []model.Interval {
	var conflicts []model.Interval
	for _, iv := range existing {
		if excludeID != "" && iv.ID == excludeID {
			continue
		}
		if iv.Overlaps(start, end) {
			conflicts = append(conflicts, iv)
		}
	}

	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].Start.Before(conflicts[j].Start)
	})

	return conflicts
}

// HasConflict reports whether [start, end) overlaps any existing interval other than excludeID.
func HasConflict(start, end time.Time, existing []model.Interval, excludeID string) bool {
	for _, iv := range existing {
		if excludeID != "" && iv.ID == excludeID {
			continue
		}
		if iv.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// ValidateCandidate checks the temporal preconditions of a candidate appointment.
// They are evaluated before the overlap test so the most specific error is reported.
func ValidateCandidate(now, start, end time.Time) error {
	if start.Before(now) {
		return ErrStartInPast
	}
	if !start.Before(end) {
		return ErrInvalidInterval
	}
	return nil
}
