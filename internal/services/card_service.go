package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/vytor/neurorecall/internal/errors"
	"github.com/vytor/neurorecall/internal/logger"
	"github.com/vytor/neurorecall/internal/models"
	"github.com/vytor/neurorecall/internal/repository"
	"github.com/vytor/neurorecall/internal/scheduler"
	"github.com/vytor/neurorecall/internal/validation"
)

const (
	recentTopicsLimit = 3
	maxHistoryLimit   = 100
)

// ReviewOutcome is everything the learner sees after rating a card.
type ReviewOutcome struct {
	Card           *models.Card `json:"card"`
	Quality        int          `json:"quality"`
	Confidence     string       `json:"confidence"`
	Assessment     string       `json:"assessment"`
	Insights       []string     `json:"insights"`
	TimingAdvice   string       `json:"timing_advice"`
	PeakWindow     bool         `json:"peak_window"`
	PreSleepWindow bool         `json:"pre_sleep_window"`
	ReviewsToday   int          `json:"reviews_today"`
	Checkpoint     bool         `json:"checkpoint"`
	Interleaving   []string     `json:"interleaving,omitempty"`
}

// PreviewOption is the schedule a card would get for one rating.
type PreviewOption struct {
	Quality      int       `json:"quality"`
	Confidence   string    `json:"confidence"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	NextReviewAt time.Time `json:"next_review_at"`
}

// CardService handles card-related business logic
type CardService interface {
	CreateCard(ctx context.Context, deckID int64, in models.ImportCard) (*models.Card, error)
	GetCard(ctx context.Context, id int64) (*models.Card, error)
	DeleteCard(ctx context.Context, id int64) error
	DueCards(ctx context.Context, deckID int64, limit int) ([]models.Card, error)
	ReviewCard(ctx context.Context, cardID int64, quality float64, timeSeconds float64) (*ReviewOutcome, error)
	Preview(ctx context.Context, cardID int64) ([]PreviewOption, error)
	History(ctx context.Context, cardID int64, limit int) ([]models.ReviewHistory, error)
}

type cardService struct {
	decks   repository.DeckRepository
	cards   repository.CardRepository
	reviews repository.ReviewRepository
	opts    options
}

// NewCardService creates a new CardService
func NewCardService(
	decks repository.DeckRepository,
	cards repository.CardRepository,
	reviews repository.ReviewRepository,
	opts ...Option,
) CardService {
	return &cardService{
		decks:   decks,
		cards:   cards,
		reviews: reviews,
		opts:    newOptions(opts),
	}
}

// newCard builds an unscheduled card from validated input. A missing
// difficulty means medium.
func newCard(deckID int64, in models.ImportCard) models.Card {
	difficulty, err := scheduler.ParseDifficulty(in.Difficulty)
	if err != nil {
		difficulty = scheduler.DifficultyMedium
	}

	card := models.Card{
		DeckID:      deckID,
		Front:       strings.TrimSpace(in.Front),
		Back:        strings.TrimSpace(in.Back),
		Topic:       strings.TrimSpace(in.Topic),
		ContentType: in.ContentType,
		Difficulty:  string(difficulty),
		SeedPlan:    scheduler.ScheduleFor(difficulty),
	}
	card.ApplyState(scheduler.NewState())
	return card
}

func (s *cardService) requireDeck(ctx context.Context, deckID int64) error {
	_, err := s.decks.Get(ctx, deckID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NewNotFoundError("deck", deckID)
	}
	if err != nil {
		logger.FromContext(ctx).Error("failed to get deck: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *cardService) CreateCard(ctx context.Context, deckID int64, in models.ImportCard) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating card: deck_id=%d", deckID)

	if err := validation.Struct(in, ""); err != nil {
		return nil, err
	}
	if err := s.requireDeck(ctx, deckID); err != nil {
		return nil, err
	}

	id, err := s.cards.Insert(ctx, newCard(deckID, in))
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("card created: id=%d", id)
	return s.GetCard(ctx, id)
}

func (s *cardService) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	card, err := s.cards.Get(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewNotFoundError("card", id)
	}
	if err != nil {
		logger.FromContext(ctx).Error("failed to get card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return card, nil
}

func (s *cardService) DeleteCard(ctx context.Context, id int64) error {
	err := s.cards.Delete(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NewNotFoundError("card", id)
	}
	if err != nil {
		logger.FromContext(ctx).Error("failed to delete card: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

// DueCards returns the deck's due cards, oldest due date first, with
// never-scheduled cards leading. The store pre-filters, the scheduler decides.
func (s *cardService) DueCards(ctx context.Context, deckID int64, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx)
	if limit <= 0 || limit > s.opts.dueLimit {
		limit = s.opts.dueLimit
	}
	if err := s.requireDeck(ctx, deckID); err != nil {
		return nil, err
	}

	now := s.opts.localNow()
	candidates, err := s.cards.List(ctx, models.CardFilter{DeckID: deckID, DueBefore: &now})
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	due := scheduler.SortByDueDateFunc(scheduler.SelectDueFunc(candidates, now, models.Card.DueAt), models.Card.DueAt)
	if len(due) > limit {
		due = due[:limit]
	}
	log.Debug("due cards: deck_id=%d candidates=%d due=%d", deckID, len(candidates), len(due))
	return due, nil
}

func (s *cardService) ReviewCard(ctx context.Context, cardID int64, quality float64, timeSeconds float64) (*ReviewOutcome, error) {
	log := logger.FromContext(ctx).WithField("card_id", cardID)
	log.Debug("reviewing card: quality=%v", quality)

	q, err := scheduler.QualityFromFloat(quality)
	if err != nil {
		return nil, errors.NewInvalidQualityError(err)
	}
	if timeSeconds < 0 {
		return nil, errors.NewValidationError("time_seconds", "must not be negative")
	}

	card, err := s.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	prior := card.SchedulingState()
	if err := prior.Validate(); err != nil {
		log.Warn("stored scheduling state is out of range, it will be clamped: %v", err)
	}

	now := s.opts.localNow()
	result, err := scheduler.ComputeNextReview(q, prior, now)
	if err != nil {
		return nil, errors.NewInvalidQualityError(err)
	}

	card.ApplyState(result.Next)
	updated, err := s.reviews.Record(ctx, *card, models.ReviewHistory{
		CardID:       card.ID,
		Quality:      int(q),
		TimeSeconds:  timeSeconds,
		EaseFactor:   result.Next.EasinessFactor,
		IntervalDays: result.Next.IntervalDays,
		ReviewedAt:   now,
	})
	switch {
	case stderrors.Is(err, repository.ErrConflict):
		log.Warn("review lost a concurrent update")
		return nil, errors.NewConflictError("card", cardID)
	case stderrors.Is(err, repository.ErrNotFound):
		return nil, errors.NewNotFoundError("card", cardID)
	case err != nil:
		log.Error("failed to record review: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("review recorded: quality=%d interval=%d ease=%.2f", q, result.Next.IntervalDays, result.Next.EasinessFactor)

	outcome := &ReviewOutcome{
		Card:           updated,
		Quality:        int(q),
		Confidence:     scheduler.ConfidenceText(q),
		Assessment:     result.Assessment,
		Insights:       result.Insights,
		TimingAdvice:   result.TimingAdvice,
		PeakWindow:     result.PeakWindow,
		PreSleepWindow: result.PreSleepWindow,
	}

	// The review is stored; the extras below only enrich the response.
	count, err := s.reviews.CountSince(ctx, startOfDay(now))
	if err != nil {
		log.Warn("failed to count today's reviews: %v", err)
		return outcome, nil
	}
	outcome.ReviewsToday = count
	outcome.Checkpoint = scheduler.IsCheckpoint(count)

	if outcome.Checkpoint {
		topics, err := s.reviews.RecentTopics(ctx, card.DeckID, card.Topic, recentTopicsLimit)
		if err != nil {
			log.Warn("failed to load recent topics: %v", err)
			return outcome, nil
		}
		outcome.Interleaving = scheduler.InterleavingSuggestions(topicLabel(card.Topic), topics)
	}
	return outcome, nil
}

func topicLabel(topic string) string {
	if topic == "" {
		return "the current topic"
	}
	return topic
}

// Preview shows what each rating would do to the card without storing anything.
func (s *cardService) Preview(ctx context.Context, cardID int64) ([]PreviewOption, error) {
	card, err := s.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	now := s.opts.localNow()
	prior := card.SchedulingState()
	previews := make([]PreviewOption, 0, int(scheduler.QualityPerfect)+1)
	for q := scheduler.QualityBlackout; q <= scheduler.QualityPerfect; q++ {
		result, err := scheduler.ComputeNextReview(q, prior, now)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		previews = append(previews, PreviewOption{
			Quality:      int(q),
			Confidence:   scheduler.ConfidenceText(q),
			EaseFactor:   result.Next.EasinessFactor,
			IntervalDays: result.Next.IntervalDays,
			NextReviewAt: *result.Next.NextReviewAt,
		})
	}
	return previews, nil
}

func (s *cardService) History(ctx context.Context, cardID int64, limit int) ([]models.ReviewHistory, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if _, err := s.GetCard(ctx, cardID); err != nil {
		return nil, err
	}

	history, err := s.reviews.History(ctx, cardID, limit)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load review history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return history, nil
}
