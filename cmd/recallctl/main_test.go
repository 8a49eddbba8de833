package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/neurorecall/internal/scheduler"
)

var fixedNow = func() time.Time { return time.Date(2024, time.March, 4, 14, 0, 0, 0, time.UTC) }

func runJSON(t *testing.T, dst any, args ...string) {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, run(args, &out, fixedNow))
	require.NoError(t, json.Unmarshal(out.Bytes(), dst), out.String())
}

func TestReview(t *testing.T) {
	var res scheduler.Result
	runJSON(t, &res, "review", "--quality", "4", "--interval", "6", "--reps", "2", "--at", "2024-03-04T10:30:00Z", "--tz", "UTC")

	assert.Equal(t, 3, res.Next.Repetitions)
	assert.Equal(t, 16, res.Next.IntervalDays)
	assert.Equal(t, 2.6, res.Next.EasinessFactor)
	assert.True(t, res.PeakWindow)
	require.NotNil(t, res.Next.NextReviewAt)
	assert.True(t, res.Next.NextReviewAt.Equal(time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC)))
}

func TestReview_Lapse(t *testing.T) {
	var res scheduler.Result
	runJSON(t, &res, "review", "--quality", "1", "--ease", "2.0", "--interval", "40", "--reps", "5", "--tz", "UTC")

	assert.Equal(t, 0, res.Next.Repetitions)
	assert.Equal(t, 1, res.Next.IntervalDays)
	assert.False(t, res.PeakWindow, "14:00 is outside both peaks")
}

func TestReview_Errors(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorIs(t, run([]string{"review"}, &out, fixedNow), scheduler.ErrInvalidQuality)
	assert.ErrorIs(t, run([]string{"review", "--quality", "7"}, &out, fixedNow), scheduler.ErrInvalidQuality)
	assert.Error(t, run([]string{"review", "--quality", "3", "--at", "yesterday"}, &out, fixedNow))
	assert.Error(t, run([]string{"review", "--quality", "3", "--tz", "Mars/Olympus"}, &out, fixedNow))
	assert.Empty(t, out.String())
}

func TestSchedule(t *testing.T) {
	var got scheduleOutput
	runJSON(t, &got, "schedule", "--difficulty", "easy")
	assert.Equal(t, []int{1, 3, 7, 14, 30, 60, 120}, got.Days)

	var out bytes.Buffer
	assert.ErrorIs(t, run([]string{"schedule", "--difficulty", "brutal"}, &out, fixedNow), scheduler.ErrUnknownDifficulty)
}

func TestScore(t *testing.T) {
	var got scoreOutput
	runJSON(t, &got, "score", "--hour", "10", "--energy", "high", "--focus", "focused", "--stress", "low")
	assert.Equal(t, 100, got.Score)
	assert.NotEmpty(t, got.Recommendations)

	runJSON(t, &got, "score")
	assert.Equal(t, 14, got.Hour, "defaults to the current hour")
	assert.Equal(t, 30, got.Score)

	var out bytes.Buffer
	assert.Error(t, run([]string{"score", "--hour", "24"}, &out, fixedNow))
}

func TestTechniqueAndSession(t *testing.T) {
	var tech scheduler.Technique
	runJSON(t, &tech, "technique", "--type", "list")
	assert.Equal(t, "Memory palace", tech.Name)

	var session scheduler.StudySession
	runJSON(t, &session, "session")
	assert.Equal(t, 4, session.SessionsBeforeLongBreak)
}

func TestUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(nil, &out, fixedNow))
	assert.Error(t, run([]string{"explode"}, &out, fixedNow))
	assert.Error(t, run([]string{"technique", "--type", "poem"}, &out, fixedNow))
}
