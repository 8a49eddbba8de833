package jobs

import (
	"github.com/vytor/neurorecall/internal/logger"
	"github.com/vytor/neurorecall/internal/models"
	"github.com/vytor/neurorecall/internal/repository"
	"github.com/vytor/neurorecall/internal/worker"
)

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	importPool *worker.Pool
	cardRepo   repository.CardRepository
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(importPool *worker.Pool, cardRepo repository.CardRepository) JobQueue {
	return &WorkerQueue{
		importPool: importPool,
		cardRepo:   cardRepo,
	}
}

func (q *WorkerQueue) EnqueueImport(deckID int64, cards []models.Card) error {
	batch := make([]models.Card, len(cards))
	copy(batch, cards)

	err := q.importPool.Submit(&worker.ImportCardsJob{
		Cards:  q.cardRepo,
		DeckID: deckID,
		Batch:  batch,
	})
	if err != nil {
		logger.Default().WithPrefix("jobs").Warn("import for deck %d not queued: %v", deckID, err)
	}
	return err
}

func (q *WorkerQueue) Backlog() int {
	return q.importPool.QueueSize()
}
