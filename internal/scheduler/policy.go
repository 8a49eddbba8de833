package scheduler

import (
	"fmt"
	"strings"
)

// Difficulty is the author's estimate of how hard a card is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var scheduleTemplates = map[Difficulty][]int{
	DifficultyEasy:   {1, 3, 7, 14, 30, 60, 120},
	DifficultyMedium: {1, 4, 10, 21, 45, 90, 180},
	DifficultyHard:   {1, 2, 5, 12, 25, 50, 100, 180},
}

// ParseDifficulty accepts easy, medium or hard in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := scheduleTemplates[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

// ScheduleFor returns the suggested day offsets for seeding a new card of the
// given difficulty, or nil for an unknown difficulty. The slice is a copy.
// It is advisory only: ComputeNextReview never reads it.
func ScheduleFor(d Difficulty) []int {
	tmpl, ok := scheduleTemplates[d]
	if !ok {
		return nil
	}
	out := make([]int, len(tmpl))
	copy(out, tmpl)
	return out
}

// Energy, Focus and Stress describe the learner's self-reported state.
type (
	Energy string
	Focus  string
	Stress string
)

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"

	FocusDistracted Focus = "distracted"
	FocusNeutral    Focus = "neutral"
	FocusFocused    Focus = "focused"

	StressHigh   Stress = "high"
	StressMedium Stress = "medium"
	StressLow    Stress = "low"
)

var (
	energyScores = map[Energy]int{EnergyHigh: 25, EnergyMedium: 0, EnergyLow: -25}
	focusScores  = map[Focus]int{FocusFocused: 25, FocusNeutral: 0, FocusDistracted: -25}
	stressScores = map[Stress]int{StressLow: 20, StressMedium: 0, StressHigh: -20}
)

// ScoreState rates how ready the learner is to study, from 0 to 100.
// Unknown levels contribute nothing. hour is taken modulo 24.
func ScoreState(hour int, energy Energy, focus Focus, stress Stress) int {
	h := ((hour % 24) + 24) % 24

	score := 50
	switch {
	case InPeakWindow(h):
		score += 30
	case h >= 13 && h <= 15:
		// post-lunch dip
		score -= 20
	case h >= 22 || h <= 6:
		score -= 30
	}
	score += energyScores[energy]
	score += focusScores[focus]
	score += stressScores[stress]

	return min(100, max(0, score))
}

// IsCheckpoint reports whether completed units of work call for an
// interleaved review checkpoint. It fires on every third unit.
func IsCheckpoint(completed int) bool {
	return completed > 0 && completed%3 == 0
}
