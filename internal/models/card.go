package models

import (
	"time"

	"github.com/vytor/neurorecall/internal/scheduler"
)

type Deck struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeckInput is the payload for creating a deck.
type DeckInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// Card is a flashcard together with its persisted scheduling columns.
type Card struct {
	ID             int64      `json:"id"`
	DeckID         int64      `json:"deck_id"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	Topic          string     `json:"topic"`
	ContentType    string     `json:"content_type"`
	Difficulty     string     `json:"difficulty"`
	SeedPlan       []int      `json:"seed_plan"`
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	NextReviewAt   *time.Time `json:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	Version        int64      `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
}

// SchedulingState extracts the fields the scheduler reads.
func (c Card) SchedulingState() scheduler.State {
	return scheduler.State{
		EasinessFactor: c.EaseFactor,
		IntervalDays:   c.IntervalDays,
		Repetitions:    c.Repetitions,
		NextReviewAt:   c.NextReviewAt,
		LastReviewedAt: c.LastReviewedAt,
	}
}

// ApplyState copies a scheduler result back onto the card.
func (c *Card) ApplyState(s scheduler.State) {
	c.EaseFactor = s.EasinessFactor
	c.IntervalDays = s.IntervalDays
	c.Repetitions = s.Repetitions
	c.NextReviewAt = s.NextReviewAt
	c.LastReviewedAt = s.LastReviewedAt
}

// DueAt is the card's due date, nil when never scheduled.
func (c Card) DueAt() *time.Time {
	return c.NextReviewAt
}

type CardFilter struct {
	DeckID     int64
	Topic      string
	Difficulty string
	// DueBefore keeps unscheduled cards and cards due at or before the time.
	DueBefore *time.Time
	Limit     int
	Offset    int
}

type ReviewHistory struct {
	ID           int64     `json:"id"`
	CardID       int64     `json:"card_id"`
	Quality      int       `json:"quality"`
	TimeSeconds  float64   `json:"time_seconds"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}

// ImportCard is one entry of a bulk import request.
type ImportCard struct {
	Front       string `json:"front" validate:"required,max=2000"`
	Back        string `json:"back" validate:"required,max=2000"`
	Topic       string `json:"topic" validate:"max=200"`
	ContentType string `json:"content_type" validate:"omitempty,oneof=definition process list concept numerical"`
	Difficulty  string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}
