package worker

import (
	"context"

	"github.com/vytor/neurorecall/internal/logger"
	"github.com/vytor/neurorecall/internal/models"
	"github.com/vytor/neurorecall/internal/repository"
)

// ImportCardsJob inserts a validated batch of cards in one transaction.
type ImportCardsJob struct {
	Cards  repository.CardRepository
	DeckID int64
	Batch  []models.Card
}

func (j *ImportCardsJob) Name() string { return "import_cards" }

func (j *ImportCardsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"deck_id": j.DeckID,
		"cards":   len(j.Batch),
	})
	log.Info("starting card import")

	if err := ctx.Err(); err != nil {
		log.Warn("import cancelled before start: %v", err)
		return err
	}

	ids, err := j.Cards.InsertBatch(ctx, j.Batch)
	if err != nil {
		log.Error("failed to import cards: %v", err)
		return err
	}

	log.Info("imported %d cards", len(ids))
	return nil
}
