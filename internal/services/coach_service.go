package services

import (
	"context"
	"strings"
	"time"

	"github.com/vytor/neurorecall/internal/errors"
	"github.com/vytor/neurorecall/internal/logger"
	"github.com/vytor/neurorecall/internal/scheduler"
)

// LearningState is a scored snapshot of the learner's readiness.
type LearningState struct {
	Hour            int      `json:"hour"`
	Score           int      `json:"score"`
	Recommendations []string `json:"recommendations"`
}

// SchedulePlan is a seed schedule with the offsets resolved to dates.
type SchedulePlan struct {
	Difficulty string      `json:"difficulty"`
	Days       []int       `json:"days"`
	Dates      []time.Time `json:"dates"`
}

// CoachService serves study advice that needs no stored data.
type CoachService interface {
	// Assess scores the learner's state. A nil hour means the current local hour.
	Assess(ctx context.Context, hour *int, energy, focus, stress string) (*LearningState, error)
	Session(ctx context.Context) scheduler.StudySession
	Technique(ctx context.Context, contentType string) (*scheduler.Technique, error)
	Schedule(ctx context.Context, difficulty string) (*SchedulePlan, error)
}

type coachService struct {
	opts options
}

// NewCoachService creates a new CoachService
func NewCoachService(opts ...Option) CoachService {
	return &coachService{opts: newOptions(opts)}
}

func (s *coachService) Assess(ctx context.Context, hour *int, energy, focus, stress string) (*LearningState, error) {
	h := s.opts.localNow().Hour()
	if hour != nil {
		if *hour < 0 || *hour > 23 {
			return nil, errors.NewValidationError("hour", "must be between 0 and 23")
		}
		h = *hour
	}

	score := scheduler.ScoreState(h,
		scheduler.Energy(strings.ToLower(energy)),
		scheduler.Focus(strings.ToLower(focus)),
		scheduler.Stress(strings.ToLower(stress)),
	)
	logger.FromContext(ctx).Debug("learning state: hour=%d score=%d", h, score)

	return &LearningState{
		Hour:            h,
		Score:           score,
		Recommendations: scheduler.StudyRecommendations(score),
	}, nil
}

func (s *coachService) Session(context.Context) scheduler.StudySession {
	return scheduler.OptimalStudySession()
}

func (s *coachService) Technique(_ context.Context, contentType string) (*scheduler.Technique, error) {
	ct := scheduler.ContentType(strings.ToLower(contentType))
	t, ok := scheduler.MemoryTechniqueFor(ct)
	if !ok {
		return nil, errors.NewNotFoundError("memory technique", contentType)
	}
	return &t, nil
}

func (s *coachService) Schedule(_ context.Context, difficulty string) (*SchedulePlan, error) {
	d, err := scheduler.ParseDifficulty(difficulty)
	if err != nil {
		return nil, errors.NewValidationError("difficulty", "must be one of: easy medium hard")
	}

	days := scheduler.ScheduleFor(d)
	now := s.opts.localNow()
	dates := make([]time.Time, len(days))
	for i, offset := range days {
		dates[i] = scheduler.NextReviewTime(now, offset)
	}
	return &SchedulePlan{Difficulty: string(d), Days: days, Dates: dates}, nil
}
