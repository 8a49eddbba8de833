package scheduler

import (
	"slices"
	"time"
)

// unscheduled is the sort key of a card that has never been scheduled.
var unscheduled = time.Unix(0, 0).UTC()

// IsDue reports whether a card with the given next review time is due at now.
// A card that was never scheduled is always due.
func IsDue(next *time.Time, now time.Time) bool {
	return next == nil || !next.After(now)
}

// SelectDue returns the states that are due at now, in their original order.
func SelectDue(states []State, now time.Time) []State {
	return SelectDueFunc(states, now, stateDueAt)
}

// SortByDueDate returns a copy of states ordered by next review time, oldest
// first. Never-scheduled states sort first and ties keep their input order.
func SortByDueDate(states []State) []State {
	return SortByDueDateFunc(states, stateDueAt)
}

// SelectDueFunc is SelectDue for any record that can report its due time.
func SelectDueFunc[T any](items []T, now time.Time, dueAt func(T) *time.Time) []T {
	due := make([]T, 0, len(items))
	for _, item := range items {
		if IsDue(dueAt(item), now) {
			due = append(due, item)
		}
	}
	return due
}

// SortByDueDateFunc is SortByDueDate for any record that can report its due time.
func SortByDueDateFunc[T any](items []T, dueAt func(T) *time.Time) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return dueKey(dueAt(a)).Compare(dueKey(dueAt(b)))
	})
	return sorted
}

func dueKey(t *time.Time) time.Time {
	if t == nil {
		return unscheduled
	}
	return *t
}

func stateDueAt(s State) *time.Time {
	return s.NextReviewAt
}
