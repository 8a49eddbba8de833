// Package scheduler implements the enhanced SM-2 review scheduler, due-card
// selection and the small study policies built around them.
//
// Every function in this package is pure: results depend only on the explicit
// arguments, including the review time. Nothing here touches storage or the
// wall clock, so the package is safe for concurrent use without locking.
package scheduler

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidQuality is returned for ratings outside 0..5 or non-integral ratings.
	ErrInvalidQuality = errors.New("invalid review quality")
	// ErrInvalidState is returned by State.Validate for corrupt persisted state.
	ErrInvalidState = errors.New("invalid scheduling state")
	// ErrUnknownDifficulty is returned by ParseDifficulty.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// Quality is the self-reported recall rating for one review.
type Quality int

const (
	QualityBlackout   Quality = 0 // complete blackout
	QualityWrong      Quality = 1 // incorrect, barely remembered
	QualityRecognized Quality = 2 // incorrect, but the answer looked familiar
	QualityHard       Quality = 3 // correct with serious difficulty
	QualityHesitant   Quality = 4 // correct after some hesitation
	QualityPerfect    Quality = 5 // effortless recall
)

const (
	minQuality = QualityBlackout
	maxQuality = QualityPerfect
)

// Valid reports whether q is within 0..5.
func (q Quality) Valid() bool {
	return q >= minQuality && q <= maxQuality
}

// Passed reports whether the review counts as a successful recall.
func (q Quality) Passed() bool {
	return q >= PassingQuality
}

// QualityFromInt converts a raw rating, rejecting values outside 0..5.
// Ratings are never clamped: a bad value usually means a broken client.
func QualityFromInt(v int) (Quality, error) {
	q := Quality(v)
	if !q.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidQuality, v)
	}
	return q, nil
}

// QualityFromFloat converts a decoded JSON number, rejecting fractions.
func QualityFromFloat(v float64) (Quality, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidQuality, v)
	}
	if v < float64(minQuality) || v > float64(maxQuality) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidQuality, v)
	}
	return Quality(v), nil
}

// State is the scheduling slice of a card.
type State struct {
	EasinessFactor float64    `json:"easiness_factor"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	NextReviewAt   *time.Time `json:"next_review_at,omitempty"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// NewState returns the state of a freshly authored card. It has never been
// scheduled and is therefore due immediately.
func NewState() State {
	return State{EasinessFactor: DefaultEasinessFactor}
}

// Validate rejects state that a well-behaved store never produces.
// A zero easiness factor is accepted and read as "unset".
func (s State) Validate() error {
	ef := s.EasinessFactor
	switch {
	case math.IsNaN(ef) || math.IsInf(ef, 0):
		return fmt.Errorf("%w: easiness factor %v is not finite", ErrInvalidState, ef)
	case ef != 0 && (ef < MinEasinessFactor || ef > MaxEasinessFactor):
		return fmt.Errorf("%w: easiness factor %.2f outside [%.1f, %.1f]", ErrInvalidState, ef, MinEasinessFactor, MaxEasinessFactor)
	case s.IntervalDays < 0:
		return fmt.Errorf("%w: negative interval %d", ErrInvalidState, s.IntervalDays)
	case s.Repetitions < 0:
		return fmt.Errorf("%w: negative repetitions %d", ErrInvalidState, s.Repetitions)
	}
	return nil
}

// Result is the outcome of one review.
type Result struct {
	Next           State    `json:"next"`
	Assessment     string   `json:"assessment"`
	Insights       []string `json:"insights"`
	TimingAdvice   string   `json:"timing_advice"`
	PeakWindow     bool     `json:"peak_window"`
	PreSleepWindow bool     `json:"pre_sleep_window"`
}
