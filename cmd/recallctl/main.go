// Command recallctl runs the scheduler offline and prints JSON.
//
//	recallctl review --quality 4 --ease 2.5 --interval 6 --reps 2 --at 2024-03-04T10:30:00Z
//	recallctl schedule --difficulty hard
//	recallctl score --hour 10 --energy high --focus focused --stress low
//	recallctl technique --type list
//	recallctl session
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/vytor/neurorecall/internal/scheduler"
)

const usage = `usage: recallctl <command> [flags]

commands:
  review     compute the next review for one rating
  schedule   print the seed schedule for a difficulty
  score      score a learning state
  technique  print the memory technique for a content type
  session    print the recommended study session
`

type scoreOutput struct {
	Hour            int      `json:"hour"`
	Score           int      `json:"score"`
	Recommendations []string `json:"recommendations"`
}

type scheduleOutput struct {
	Difficulty scheduler.Difficulty `json:"difficulty"`
	Days       []int                `json:"days"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout, time.Now); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "recallctl: %v\n", err)
		}
		os.Exit(2)
	}
}

func run(args []string, out io.Writer, now func() time.Time) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("missing command")
	}

	cmd, rest := args[0], args[1:]
	fs := pflag.NewFlagSet("recallctl "+cmd, pflag.ContinueOnError)

	var result any
	switch cmd {
	case "review":
		quality := fs.Int("quality", -1, "rating 0..5 (required)")
		ease := fs.Float64("ease", scheduler.DefaultEasinessFactor, "current easiness factor")
		interval := fs.Int("interval", 0, "current interval in days")
		reps := fs.Int("reps", 0, "current repetition streak")
		at := fs.String("at", "", "review time, RFC 3339 (default now)")
		tz := fs.String("tz", "Local", "IANA zone the review hour is read in")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		q, err := scheduler.QualityFromInt(*quality)
		if err != nil {
			return err
		}
		when, err := reviewTime(*at, *tz, now)
		if err != nil {
			return err
		}
		prior := scheduler.State{EasinessFactor: *ease, IntervalDays: *interval, Repetitions: *reps}
		if err := prior.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "recallctl: warning: %v\n", err)
		}
		res, err := scheduler.ComputeNextReview(q, prior, when)
		if err != nil {
			return err
		}
		result = res

	case "schedule":
		difficulty := fs.String("difficulty", string(scheduler.DifficultyMedium), "easy, medium or hard")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		d, err := scheduler.ParseDifficulty(*difficulty)
		if err != nil {
			return err
		}
		result = scheduleOutput{Difficulty: d, Days: scheduler.ScheduleFor(d)}

	case "score":
		hour := fs.Int("hour", now().Hour(), "hour of day 0..23")
		energy := fs.String("energy", "medium", "low, medium or high")
		focus := fs.String("focus", "neutral", "distracted, neutral or focused")
		stress := fs.String("stress", "medium", "low, medium or high")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *hour < 0 || *hour > 23 {
			return fmt.Errorf("hour must be between 0 and 23, got %d", *hour)
		}
		score := scheduler.ScoreState(*hour, scheduler.Energy(*energy), scheduler.Focus(*focus), scheduler.Stress(*stress))
		result = scoreOutput{Hour: *hour, Score: score, Recommendations: scheduler.StudyRecommendations(score)}

	case "technique":
		contentType := fs.String("type", "", "definition, process, list, concept or numerical")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		t, ok := scheduler.MemoryTechniqueFor(scheduler.ContentType(*contentType))
		if !ok {
			return fmt.Errorf("unknown content type %q", *contentType)
		}
		result = t

	case "session":
		if err := fs.Parse(rest); err != nil {
			return err
		}
		result = scheduler.OptimalStudySession()

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func reviewTime(at, tz string, now func() time.Time) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("load timezone: %w", err)
	}
	if at == "" {
		return now().In(loc), nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --at: %w", err)
	}
	return t.In(loc), nil
}
