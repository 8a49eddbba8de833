package jobs

import "github.com/vytor/neurorecall/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueImport(deckID int64, cards []models.Card) error
	// Backlog is the number of import jobs waiting for a worker.
	Backlog() int
}
