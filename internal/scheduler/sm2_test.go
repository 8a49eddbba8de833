package scheduler_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/neurorecall/internal/scheduler"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, time.March, 2, hour, minute, 0, 0, time.UTC)
}

func hasInsight(insights []string, fragment string) bool {
	for _, s := range insights {
		if strings.Contains(s, fragment) {
			return true
		}
	}
	return false
}

func TestComputeNextReview_FreshCardInPeakWindow(t *testing.T) {
	now := at(10, 30)

	res, err := scheduler.ComputeNextReview(scheduler.QualityHesitant, scheduler.NewState(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Next.Repetitions)
	assert.Equal(t, 1, res.Next.IntervalDays)
	assert.InDelta(t, 2.6, res.Next.EasinessFactor, 1e-9, "2.5 + delta(4) + peak bonus")
	assert.Equal(t, scheduler.Assessment(scheduler.QualityHesitant), res.Assessment)
	assert.True(t, res.PeakWindow)
	assert.False(t, res.PreSleepWindow)
	assert.True(t, hasInsight(res.Insights, "peak performance window"), "insights: %v", res.Insights)
	assert.True(t, hasInsight(res.Insights, "strengthening"), "quality 4 should add the strengthening insight")

	require.NotNil(t, res.Next.NextReviewAt)
	assert.Equal(t, time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC), *res.Next.NextReviewAt)
	require.NotNil(t, res.Next.LastReviewedAt)
	assert.Equal(t, now, *res.Next.LastReviewedAt)
}

func TestComputeNextReview_ThirdRepetitionOffPeak(t *testing.T) {
	prior := scheduler.State{EasinessFactor: 2.5, IntervalDays: 6, Repetitions: 2}

	res, err := scheduler.ComputeNextReview(scheduler.QualityPerfect, prior, at(14, 0))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Next.Repetitions)
	assert.InDelta(t, 2.6, res.Next.EasinessFactor, 1e-9)
	assert.Equal(t, 16, res.Next.IntervalDays, "round(6 * 2.6)")
	assert.False(t, res.PeakWindow)
	assert.False(t, hasInsight(res.Insights, "peak performance window"))
	assert.Equal(t, time.Date(2026, time.March, 18, 10, 0, 0, 0, time.UTC), *res.Next.NextReviewAt)
}

func TestComputeNextReview_LapseAtEaseFloor(t *testing.T) {
	prior := scheduler.State{EasinessFactor: 1.3, IntervalDays: 30, Repetitions: 5}

	res, err := scheduler.ComputeNextReview(scheduler.QualityWrong, prior, at(14, 0))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Next.Repetitions)
	assert.Equal(t, 1, res.Next.IntervalDays)
	assert.Equal(t, 1.3, res.Next.EasinessFactor)
	assert.True(t, hasInsight(res.Insights, "memory hook"))
	assert.True(t, hasInsight(res.Insights, "expected"))
}

func TestComputeNextReview_PreSleepBonus(t *testing.T) {
	res, err := scheduler.ComputeNextReview(scheduler.QualityHard, scheduler.NewState(), at(22, 15))
	require.NoError(t, err)

	assert.True(t, res.PreSleepWindow)
	assert.False(t, res.PeakWindow)
	assert.InDelta(t, 2.41, res.Next.EasinessFactor, 1e-9, "2.5 - 0.14 + 0.05")
	assert.True(t, hasInsight(res.Insights, "before sleep"))
	assert.Equal(t, time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC), *res.Next.NextReviewAt)
}

func TestComputeNextReview_TimingAdvice(t *testing.T) {
	peak, err := scheduler.ComputeNextReview(scheduler.QualityHard, scheduler.NewState(), at(16, 0))
	require.NoError(t, err)
	offPeak, err := scheduler.ComputeNextReview(scheduler.QualityHard, scheduler.NewState(), at(13, 0))
	require.NoError(t, err)

	assert.NotEqual(t, peak.TimingAdvice, offPeak.TimingAdvice)
	assert.Contains(t, offPeak.TimingAdvice, "9-11 AM")
}

func TestComputeNextReview_InvalidQuality(t *testing.T) {
	for _, q := range []scheduler.Quality{-1, 6, 42} {
		_, err := scheduler.ComputeNextReview(q, scheduler.NewState(), at(10, 0))
		assert.ErrorIs(t, err, scheduler.ErrInvalidQuality, "quality %d", q)
	}
}

func TestComputeNextReview_ClampingInvariant(t *testing.T) {
	priors := []scheduler.State{
		scheduler.NewState(),
		{EasinessFactor: 1.3, IntervalDays: 1, Repetitions: 0},
		{EasinessFactor: 2.8, IntervalDays: 180, Repetitions: 12},
		{EasinessFactor: 2.0, IntervalDays: 90, Repetitions: 4},
		{EasinessFactor: 9.0, IntervalDays: 500, Repetitions: 3},
		{EasinessFactor: 0.2, IntervalDays: -4, Repetitions: -2},
		{EasinessFactor: math.NaN(), IntervalDays: 10, Repetitions: 3},
	}

	for _, prior := range priors {
		for q := scheduler.QualityBlackout; q <= scheduler.QualityPerfect; q++ {
			for hour := 0; hour < 24; hour++ {
				res, err := scheduler.ComputeNextReview(q, prior, at(hour, 0))
				require.NoError(t, err)
				assert.GreaterOrEqual(t, res.Next.EasinessFactor, scheduler.MinEasinessFactor)
				assert.LessOrEqual(t, res.Next.EasinessFactor, scheduler.MaxEasinessFactor)
				assert.GreaterOrEqual(t, res.Next.IntervalDays, scheduler.MinIntervalDays)
				assert.LessOrEqual(t, res.Next.IntervalDays, scheduler.MaxIntervalDays)
				assert.Equal(t, scheduler.PreferredReviewHour, res.Next.NextReviewAt.Hour())
			}
		}
	}
}

func TestComputeNextReview_LapseResetsRepetitions(t *testing.T) {
	for reps := 1; reps <= 8; reps++ {
		prior := scheduler.State{EasinessFactor: 2.3, IntervalDays: 40, Repetitions: reps}
		for q := scheduler.QualityBlackout; q < scheduler.PassingQuality; q++ {
			res, err := scheduler.ComputeNextReview(q, prior, at(12, 0))
			require.NoError(t, err)
			assert.Equal(t, 0, res.Next.Repetitions)
			assert.Equal(t, 1, res.Next.IntervalDays)
		}
	}
}

func TestComputeNextReview_FixedFirstSteps(t *testing.T) {
	for _, ef := range []float64{1.3, 1.9, 2.5, 2.8} {
		for q := scheduler.PassingQuality; q <= scheduler.QualityPerfect; q++ {
			first, err := scheduler.ComputeNextReview(q, scheduler.State{EasinessFactor: ef}, at(12, 0))
			require.NoError(t, err)
			assert.Equal(t, 1, first.Next.Repetitions)
			assert.Equal(t, 1, first.Next.IntervalDays)

			second, err := scheduler.ComputeNextReview(q, first.Next, at(12, 0))
			require.NoError(t, err)
			assert.Equal(t, 2, second.Next.Repetitions)
			assert.Equal(t, 6, second.Next.IntervalDays)
		}
	}
}

func TestComputeNextReview_ExponentialGrowthBound(t *testing.T) {
	tests := []struct {
		name  string
		prior scheduler.State
		q     scheduler.Quality
	}{
		{name: "good recall from six days", prior: scheduler.State{EasinessFactor: 2.5, IntervalDays: 6, Repetitions: 2}, q: scheduler.QualityHesitant},
		{name: "hard recall shrinks ease", prior: scheduler.State{EasinessFactor: 2.1, IntervalDays: 15, Repetitions: 3}, q: scheduler.QualityHard},
		{name: "long interval hits the cap", prior: scheduler.State{EasinessFactor: 2.8, IntervalDays: 100, Repetitions: 6}, q: scheduler.QualityPerfect},
		{name: "ease floor", prior: scheduler.State{EasinessFactor: 1.3, IntervalDays: 20, Repetitions: 4}, q: scheduler.QualityHard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ease := math.Min(scheduler.MaxEasinessFactor, math.Max(scheduler.MinEasinessFactor,
				tt.prior.EasinessFactor+scheduler.EaseDelta(tt.q)))
			want := int(math.Min(180, math.Round(float64(tt.prior.IntervalDays)*ease)))

			res, err := scheduler.ComputeNextReview(tt.q, tt.prior, at(13, 0))
			require.NoError(t, err)
			assert.Equal(t, want, res.Next.IntervalDays)
			assert.Equal(t, tt.prior.Repetitions+1, res.Next.Repetitions)
		})
	}
}

func TestComputeNextReview_LongIntervalInsight(t *testing.T) {
	prior := scheduler.State{EasinessFactor: 2.5, IntervalDays: 20, Repetitions: 3}

	res, err := scheduler.ComputeNextReview(scheduler.QualityPerfect, prior, at(13, 0))
	require.NoError(t, err)

	assert.Equal(t, 52, res.Next.IntervalDays)
	assert.True(t, hasInsight(res.Insights, "long-term memory"))
}

func TestComputeNextReview_UsesLocationOfNow(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)
	// 23:30 local is 04:30 UTC the following day.
	now := time.Date(2026, time.March, 2, 23, 30, 0, 0, zone)

	res, err := scheduler.ComputeNextReview(scheduler.QualityHard, scheduler.NewState(), now)
	require.NoError(t, err)

	assert.True(t, res.PreSleepWindow)
	assert.Equal(t, time.Date(2026, time.March, 3, 10, 0, 0, 0, zone), *res.Next.NextReviewAt)
}

func TestComputeNextReview_UnsetEaseUsesDefault(t *testing.T) {
	res, err := scheduler.ComputeNextReview(scheduler.QualityHesitant, scheduler.State{}, at(13, 0))
	require.NoError(t, err)
	assert.InDelta(t, scheduler.DefaultEasinessFactor, res.Next.EasinessFactor, 1e-9)
}

func TestAssessment_OnePerQuality(t *testing.T) {
	seen := map[string]bool{}
	for q := scheduler.QualityBlackout; q <= scheduler.QualityPerfect; q++ {
		a := scheduler.Assessment(q)
		assert.NotEmpty(t, a)
		seen[a] = true
	}
	assert.Len(t, seen, 6)
	assert.Empty(t, scheduler.Assessment(7))
}

func TestQualityFromFloat(t *testing.T) {
	q, err := scheduler.QualityFromFloat(4)
	require.NoError(t, err)
	assert.Equal(t, scheduler.QualityHesitant, q)

	for _, v := range []float64{3.5, -1, 6, math.NaN(), math.Inf(1)} {
		_, err := scheduler.QualityFromFloat(v)
		assert.ErrorIs(t, err, scheduler.ErrInvalidQuality, "value %v", v)
	}
}

func TestQualityFromInt(t *testing.T) {
	q, err := scheduler.QualityFromInt(0)
	require.NoError(t, err)
	assert.Equal(t, scheduler.QualityBlackout, q)

	_, err = scheduler.QualityFromInt(6)
	assert.ErrorIs(t, err, scheduler.ErrInvalidQuality)
}

func TestStateValidate(t *testing.T) {
	assert.NoError(t, scheduler.NewState().Validate())
	assert.NoError(t, scheduler.State{}.Validate(), "zero ease reads as unset")

	bad := []scheduler.State{
		{EasinessFactor: 3.5},
		{EasinessFactor: 1.0},
		{EasinessFactor: math.Inf(-1)},
		{EasinessFactor: 2.5, IntervalDays: -1},
		{EasinessFactor: 2.5, Repetitions: -3},
	}
	for _, s := range bad {
		assert.ErrorIs(t, s.Validate(), scheduler.ErrInvalidState, "%+v", s)
	}
}

func TestComputeNextReview_NoInsightsIsEmptyList(t *testing.T) {
	prior := scheduler.State{EasinessFactor: 2.5, IntervalDays: 6, Repetitions: 2}

	res, err := scheduler.ComputeNextReview(scheduler.QualityHard, prior, at(13, 0))
	require.NoError(t, err)
	assert.Equal(t, 14, res.Next.IntervalDays)
	assert.NotNil(t, res.Insights)
	assert.Empty(t, res.Insights)

	body, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"insights":[]`)
}
