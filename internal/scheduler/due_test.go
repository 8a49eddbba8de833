package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/neurorecall/internal/scheduler"
)

func ptr(t time.Time) *time.Time { return &t }

func TestSelectDue_NeverScheduledIsDue(t *testing.T) {
	now := at(9, 0)
	cards := []scheduler.State{
		{EasinessFactor: 2.5, IntervalDays: 3, NextReviewAt: ptr(now.Add(48 * time.Hour))},
		{EasinessFactor: 2.5},
	}

	due := scheduler.SelectDue(cards, now)

	assert.Len(t, due, 1)
	assert.Nil(t, due[0].NextReviewAt)
}

func TestSelectDue_Boundaries(t *testing.T) {
	now := at(9, 0)
	cards := []scheduler.State{
		{IntervalDays: 1, NextReviewAt: ptr(now)},
		{IntervalDays: 2, NextReviewAt: ptr(now.Add(time.Second))},
		{IntervalDays: 3, NextReviewAt: ptr(now.Add(-time.Hour))},
	}

	due := scheduler.SelectDue(cards, now)

	assert.Len(t, due, 2)
	assert.Equal(t, 1, due[0].IntervalDays, "due exactly at now")
	assert.Equal(t, 3, due[1].IntervalDays, "original order is kept")
}

func TestSelectDue_Idempotent(t *testing.T) {
	now := at(9, 0)
	cards := []scheduler.State{
		{IntervalDays: 1, NextReviewAt: ptr(now.Add(-24 * time.Hour))},
		{IntervalDays: 2, NextReviewAt: ptr(now.Add(24 * time.Hour))},
		{IntervalDays: 3},
		{IntervalDays: 4, NextReviewAt: ptr(now)},
	}

	once := scheduler.SelectDue(cards, now)
	twice := scheduler.SelectDue(once, now)

	assert.Equal(t, once, twice)
}

func TestSelectDue_Empty(t *testing.T) {
	due := scheduler.SelectDue(nil, at(9, 0))
	assert.NotNil(t, due)
	assert.Empty(t, due)
}

func TestSortByDueDate_StableWithUnscheduledFirst(t *testing.T) {
	base := at(10, 0)
	cards := []scheduler.State{
		{IntervalDays: 1, NextReviewAt: ptr(base.Add(2 * time.Hour))},
		{IntervalDays: 2, NextReviewAt: ptr(base)},
		{IntervalDays: 3},
		{IntervalDays: 4, NextReviewAt: ptr(base)},
		{IntervalDays: 5},
	}

	sorted := scheduler.SortByDueDate(cards)

	got := make([]int, len(sorted))
	for i, c := range sorted {
		got[i] = c.IntervalDays
	}
	assert.Equal(t, []int{3, 5, 2, 4, 1}, got)
	assert.Equal(t, 1, cards[0].IntervalDays, "input is not reordered")
}

func TestSortByDueDateFunc_ArbitraryRecords(t *testing.T) {
	type card struct {
		id  string
		due *time.Time
	}
	base := at(10, 0)
	cards := []card{
		{id: "late", due: ptr(base.Add(time.Hour))},
		{id: "early", due: ptr(base.Add(-time.Hour))},
		{id: "new"},
	}

	dueAt := func(c card) *time.Time { return c.due }
	sorted := scheduler.SortByDueDateFunc(cards, dueAt)
	due := scheduler.SelectDueFunc(sorted, base, dueAt)

	assert.Equal(t, "new", sorted[0].id)
	assert.Equal(t, "early", sorted[1].id)
	assert.Equal(t, "late", sorted[2].id)
	assert.Len(t, due, 2)
}

func TestIsDue(t *testing.T) {
	now := at(10, 0)
	assert.True(t, scheduler.IsDue(nil, now))
	assert.True(t, scheduler.IsDue(ptr(now), now))
	assert.False(t, scheduler.IsDue(ptr(now.Add(time.Minute)), now))
}
