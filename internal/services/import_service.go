package services

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/vytor/neurorecall/internal/errors"
	"github.com/vytor/neurorecall/internal/jobs"
	"github.com/vytor/neurorecall/internal/logger"
	"github.com/vytor/neurorecall/internal/models"
	"github.com/vytor/neurorecall/internal/repository"
	"github.com/vytor/neurorecall/internal/validation"
	"github.com/vytor/neurorecall/internal/worker"
)

// MaxImportBatch bounds the cards accepted by one import request.
const MaxImportBatch = 1000

// ImportReceipt acknowledges a queued import. Backlog counts the import
// jobs still waiting for a worker once this one was queued.
type ImportReceipt struct {
	DeckID  int64 `json:"deck_id"`
	Queued  int   `json:"queued"`
	Backlog int   `json:"backlog"`
}

// ImportService handles bulk card imports
type ImportService interface {
	ImportCards(ctx context.Context, deckID int64, in []models.ImportCard) (*ImportReceipt, error)
}

type importService struct {
	decks repository.DeckRepository
	queue jobs.JobQueue
}

// NewImportService creates a new ImportService
func NewImportService(decks repository.DeckRepository, queue jobs.JobQueue) ImportService {
	return &importService{decks: decks, queue: queue}
}

func (s *importService) ImportCards(ctx context.Context, deckID int64, in []models.ImportCard) (*ImportReceipt, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"deck_id": deckID,
		"cards":   len(in),
	})

	switch {
	case len(in) == 0:
		return nil, errors.NewValidationError("cards", "at least one card is required")
	case len(in) > MaxImportBatch:
		return nil, errors.NewValidationError("cards", fmt.Sprintf("at most %d cards per import", MaxImportBatch))
	}

	cards := make([]models.Card, 0, len(in))
	for i, item := range in {
		if err := validation.Struct(item, fmt.Sprintf("cards[%d].", i)); err != nil {
			return nil, err
		}
		cards = append(cards, newCard(deckID, item))
	}

	_, err := s.decks.Get(ctx, deckID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("queueing card import job")
	if err := s.queue.EnqueueImport(deckID, cards); err != nil {
		if stderrors.Is(err, worker.ErrQueueFull) || stderrors.Is(err, worker.ErrPoolStopped) {
			return nil, errors.NewUnavailableError("import queue is busy, retry later", err)
		}
		log.Error("failed to enqueue import: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &ImportReceipt{DeckID: deckID, Queued: len(cards), Backlog: s.queue.Backlog()}, nil
}
