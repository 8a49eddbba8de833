package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/neurorecall/internal/models"
)

var (
	// ErrNotFound is returned when a row addressed by id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a card changed between read and write.
	ErrConflict = errors.New("record modified concurrently")
	// ErrDuplicate is returned when a unique key already exists.
	ErrDuplicate = errors.New("record already exists")
)

// DeckRepository handles deck data access
type DeckRepository interface {
	Get(ctx context.Context, id int64) (*models.Deck, error)
	List(ctx context.Context) ([]models.Deck, error)
	Insert(ctx context.Context, deck models.Deck) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// CardRepository handles card data access
type CardRepository interface {
	Get(ctx context.Context, id int64) (*models.Card, error)
	List(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
	Insert(ctx context.Context, card models.Card) (int64, error)
	InsertBatch(ctx context.Context, cards []models.Card) ([]int64, error)
	Delete(ctx context.Context, id int64) error
}

// ReviewRepository handles review writes and review history reads
type ReviewRepository interface {
	// Record stores the card's new scheduling state and appends the review
	// in one transaction. It returns ErrConflict when card.Version is stale.
	Record(ctx context.Context, card models.Card, review models.ReviewHistory) (*models.Card, error)
	History(ctx context.Context, cardID int64, limit int) ([]models.ReviewHistory, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	// RecentTopics lists the deck's most recently reviewed topics, newest
	// last, skipping exclude.
	RecentTopics(ctx context.Context, deckID int64, exclude string, limit int) ([]string, error)
}

// StatsRepository handles deck statistics
type StatsRepository interface {
	DeckStats(ctx context.Context, deckID int64, now, dayStart time.Time) (*models.DeckStats, error)
}
