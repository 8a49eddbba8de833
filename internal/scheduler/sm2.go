package scheduler

import (
	"fmt"
	"math"
	"time"
)

// Scheduling policy.
const (
	MinEasinessFactor     = 1.3
	MaxEasinessFactor     = 2.8
	DefaultEasinessFactor = 2.5

	MinIntervalDays = 1
	MaxIntervalDays = 180

	// PassingQuality is the lowest rating that keeps the repetition streak.
	PassingQuality = QualityHard

	// PreferredReviewHour is the local hour every next review is queued for.
	PreferredReviewHour = 10

	PeakBonus     = 0.10
	PreSleepBonus = 0.05

	firstIntervalDays  = 1
	secondIntervalDays = 6
	longIntervalDays   = 30
)

var assessments = [...]string{
	QualityBlackout:   "Total blackout: relearn this card from scratch.",
	QualityWrong:      "Wrong answer: review it again soon and build a memory hook.",
	QualityRecognized: "Recognized but not recalled: practice active retrieval.",
	QualityHard:       "Correct with effort: good progress, keep practicing.",
	QualityHesitant:   "Easy recall: retention is strong.",
	QualityPerfect:    "Perfect recall: this card is in long-term memory.",
}

const (
	insightLapseNormal   = "Reset: review again tomorrow. Early forgetting is steep, this is expected."
	insightLapseHook     = "Tip: build a memory hook or a visual association for this card."
	insightFirstSleep    = "Great start. Sleep will consolidate this before the next review."
	insightFirstTomorrow = "Next review is tomorrow, the best point for initial consolidation."
	insightSecondSpacing = "Strong retention. The spacing effect is working."
	insightSecondPathway = "The memory trace is getting stronger with each spaced review."
	insightLongTerm      = "Excellent. This is turning into long-term memory."
	insightLongInterval  = "A long interval means retention is strong."
	insightStrengthening = "High-quality recall is strengthening this memory."
	insightPeakTiming    = "Great timing: this review happened in a peak performance window."
	insightPreSleep      = "Reviewing before sleep helps overnight consolidation."

	adviceInPeak  = "Perfect timing, you are in a peak learning window."
	adviceOffPeak = "Try reviewing between 9-11 AM or 3-5 PM for best results."
)

// Assessment returns the fixed feedback line for a rating.
func Assessment(q Quality) string {
	if !q.Valid() {
		return ""
	}
	return assessments[q]
}

// InPeakWindow reports whether hour falls in a morning or afternoon peak.
func InPeakWindow(hour int) bool {
	return (hour >= 9 && hour <= 11) || (hour >= 15 && hour <= 17)
}

// InPreSleepWindow reports whether hour falls in the pre-sleep window.
func InPreSleepWindow(hour int) bool {
	return hour >= 21 && hour <= 23
}

// EaseDelta is the classic SM-2 easiness adjustment for a rating.
func EaseDelta(q Quality) float64 {
	miss := float64(maxQuality - q)
	return 0.1 - miss*(0.08+miss*0.02)
}

// ComputeNextReview schedules the next review of a card rated q at now.
//
// The hour of now, in now's location, decides the time-of-day bonuses, and the
// next review lands on a calendar day in that same location at
// PreferredReviewHour. The returned easiness factor and interval always respect
// their bands, whatever prior holds.
func ComputeNextReview(q Quality, prior State, now time.Time) (Result, error) {
	if !q.Valid() {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidQuality, int(q))
	}

	hour := now.Hour()
	peak := InPeakWindow(hour)
	preSleep := InPreSleepWindow(hour)

	bonus := 0.0
	if peak {
		bonus += PeakBonus
	}
	if preSleep {
		bonus += PreSleepBonus
	}
	ease := clampEase(startingEase(prior.EasinessFactor) + EaseDelta(q) + bonus)

	next := State{EasinessFactor: roundEase(ease)}
	insights := []string{}
	if !q.Passed() {
		next.Repetitions = 0
		next.IntervalDays = MinIntervalDays
		insights = append(insights, insightLapseNormal, insightLapseHook)
	} else {
		next.Repetitions = max(prior.Repetitions, 0) + 1
		switch next.Repetitions {
		case 1:
			next.IntervalDays = firstIntervalDays
			insights = append(insights, insightFirstSleep, insightFirstTomorrow)
		case 2:
			next.IntervalDays = secondIntervalDays
			insights = append(insights, insightSecondSpacing, insightSecondPathway)
		default:
			next.IntervalDays = clampInterval(int(math.Round(float64(prior.IntervalDays) * ease)))
			if next.IntervalDays > longIntervalDays {
				insights = append(insights, insightLongTerm, insightLongInterval)
			}
		}
	}
	next.IntervalDays = clampInterval(next.IntervalDays)

	due := NextReviewTime(now, next.IntervalDays)
	reviewed := now
	next.NextReviewAt = &due
	next.LastReviewedAt = &reviewed

	if q >= QualityHesitant {
		insights = append(insights, insightStrengthening)
	}
	if peak {
		insights = append(insights, insightPeakTiming)
	}
	if preSleep {
		insights = append(insights, insightPreSleep)
	}

	advice := adviceOffPeak
	if peak {
		advice = adviceInPeak
	}

	return Result{
		Next:           next,
		Assessment:     assessments[q],
		Insights:       insights,
		TimingAdvice:   advice,
		PeakWindow:     peak,
		PreSleepWindow: preSleep,
	}, nil
}

// NextReviewTime returns the calendar day of from plus days, at
// PreferredReviewHour in from's location.
func NextReviewTime(from time.Time, days int) time.Time {
	y, m, d := from.Date()
	return time.Date(y, m, d+days, PreferredReviewHour, 0, 0, 0, from.Location())
}

func startingEase(ef float64) float64 {
	if ef == 0 || math.IsNaN(ef) || math.IsInf(ef, 0) {
		return DefaultEasinessFactor
	}
	return ef
}

func clampEase(ef float64) float64 {
	return math.Min(MaxEasinessFactor, math.Max(MinEasinessFactor, ef))
}

func clampInterval(days int) int {
	return min(MaxIntervalDays, max(MinIntervalDays, days))
}

func roundEase(ef float64) float64 {
	return math.Round(ef*100) / 100
}
