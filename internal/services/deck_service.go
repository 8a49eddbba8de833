package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/vytor/neurorecall/internal/errors"
	"github.com/vytor/neurorecall/internal/logger"
	"github.com/vytor/neurorecall/internal/models"
	"github.com/vytor/neurorecall/internal/repository"
	"github.com/vytor/neurorecall/internal/validation"
)

// DeckService handles deck-related business logic
type DeckService interface {
	CreateDeck(ctx context.Context, in models.DeckInput) (*models.Deck, error)
	GetDeck(ctx context.Context, id int64) (*models.Deck, error)
	ListDecks(ctx context.Context) ([]models.Deck, error)
	DeleteDeck(ctx context.Context, id int64) error
	Stats(ctx context.Context, id int64) (*models.DeckStats, error)
}

type deckService struct {
	decks repository.DeckRepository
	stats repository.StatsRepository
	opts  options
}

// NewDeckService creates a new DeckService
func NewDeckService(decks repository.DeckRepository, stats repository.StatsRepository, opts ...Option) DeckService {
	return &deckService{decks: decks, stats: stats, opts: newOptions(opts)}
}

func (s *deckService) CreateDeck(ctx context.Context, in models.DeckInput) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	in.Name = strings.TrimSpace(in.Name)
	log.Debug("creating deck: name=%s", in.Name)

	if err := validation.Struct(in, ""); err != nil {
		return nil, err
	}

	id, err := s.decks.Insert(ctx, models.Deck{Name: in.Name, Description: in.Description})
	if stderrors.Is(err, repository.ErrDuplicate) {
		return nil, errors.NewValidationError("name", "a deck with this name already exists")
	}
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return s.GetDeck(ctx, id)
}

func (s *deckService) GetDeck(ctx context.Context, id int64) (*models.Deck, error) {
	deck, err := s.decks.Get(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewNotFoundError("deck", id)
	}
	if err != nil {
		logger.FromContext(ctx).Error("failed to get deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return deck, nil
}

func (s *deckService) ListDecks(ctx context.Context) ([]models.Deck, error) {
	decks, err := s.decks.List(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list decks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Info("deleting deck: id=%d", id)

	err := s.decks.Delete(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NewNotFoundError("deck", id)
	}
	if err != nil {
		log.Error("failed to delete deck: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *deckService) Stats(ctx context.Context, id int64) (*models.DeckStats, error) {
	if _, err := s.GetDeck(ctx, id); err != nil {
		return nil, err
	}

	now := s.opts.localNow()
	stats, err := s.stats.DeckStats(ctx, id, now, startOfDay(now))
	if err != nil {
		logger.FromContext(ctx).Error("failed to load deck stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}
