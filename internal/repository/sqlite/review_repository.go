package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/neurorecall/internal/db"
	"github.com/vytor/neurorecall/internal/logger"
	"github.com/vytor/neurorecall/internal/models"
	"github.com/vytor/neurorecall/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository implementation
func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Record(ctx context.Context, c models.Card, review models.ReviewHistory) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("recording review: card_id=%d, quality=%d, interval=%d, ease=%.2f, version=%d",
		c.ID, review.Quality, c.IntervalDays, c.EaseFactor, c.Version)

	err := db.Tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := sqlBuilder.Update("cards").
			Set("ease_factor", c.EaseFactor).
			Set("interval_days", c.IntervalDays).
			Set("repetitions", c.Repetitions).
			Set("next_review_at", utcPtr(c.NextReviewAt)).
			Set("last_reviewed_at", utcPtr(c.LastReviewedAt)).
			Set("version", squirrel.Expr("version + 1")).
			Where(squirrel.Eq{"id": c.ID, "version": c.Version}).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return r.missOrConflict(ctx, tx, c.ID)
		}

		_, err = tx.ExecContext(ctx, `
INSERT INTO review_history (card_id, quality, time_seconds, ease_factor, interval_days, reviewed_at)
VALUES (?, ?, ?, ?, ?, ?)
`, c.ID, review.Quality, review.TimeSeconds, c.EaseFactor, c.IntervalDays, utc(review.ReviewedAt))
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			log.Warn("stale write rejected: card_id=%d, version=%d", c.ID, c.Version)
		case !errors.Is(err, repository.ErrNotFound):
			log.Error("failed to record review: %v", err)
		}
		return nil, err
	}

	c.Version++
	log.Debug("review recorded: card_id=%d, version=%d", c.ID, c.Version)
	return &c, nil
}

func (r *reviewRepository) missOrConflict(ctx context.Context, tx *sql.Tx, id int64) error {
	var exists int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM cards WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	return repository.ErrConflict
}

func (r *reviewRepository) History(ctx context.Context, cardID int64, limit int) ([]models.ReviewHistory, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("fetching review history: card_id=%d, limit=%d", cardID, limit)

	query := sqlBuilder.Select("id", "card_id", "quality", "time_seconds", "ease_factor", "interval_days", "reviewed_at").
		From("review_history").
		Where(squirrel.Eq{"card_id": cardID}).
		OrderBy("reviewed_at DESC", "id DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query review history: %v", err)
		return nil, err
	}
	defer rows.Close()

	history := []models.ReviewHistory{}
	for rows.Next() {
		var h models.ReviewHistory
		if err := rows.Scan(&h.ID, &h.CardID, &h.Quality, &h.TimeSeconds, &h.EaseFactor, &h.IntervalDays, &h.ReviewedAt); err != nil {
			log.Error("failed to scan review row: %v", err)
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (r *reviewRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM review_history WHERE reviewed_at >= ?`, utc(since)).Scan(&count)
	if err != nil {
		log.Error("failed to count reviews: %v", err)
		return 0, err
	}
	log.Debug("reviews since %s: %d", since.Format(time.RFC3339), count)
	return count, nil
}

func (r *reviewRepository) RecentTopics(ctx context.Context, deckID int64, exclude string, limit int) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("fetching recent topics: deck_id=%d, exclude=%s, limit=%d", deckID, exclude, limit)

	query := sqlBuilder.Select("c.topic", "MAX(h.reviewed_at) AS last_reviewed", "MAX(h.id) AS last_id").
		From("review_history h").
		Join("cards c ON c.id = h.card_id").
		Where(squirrel.Eq{"c.deck_id": deckID}).
		Where(squirrel.NotEq{"c.topic": ""}).
		GroupBy("c.topic").
		OrderBy("last_reviewed DESC", "last_id DESC")
	if exclude != "" {
		query = query.Where(squirrel.NotEq{"c.topic": exclude})
	}
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query recent topics: %v", err)
		return nil, err
	}
	defer rows.Close()

	var newestFirst []string
	for rows.Next() {
		var (
			topic  string
			last   sql.NullString
			lastID int64
		)
		if err := rows.Scan(&topic, &last, &lastID); err != nil {
			log.Error("failed to scan topic row: %v", err)
			return nil, err
		}
		newestFirst = append(newestFirst, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	topics := make([]string, len(newestFirst))
	for i, t := range newestFirst {
		topics[len(newestFirst)-1-i] = t
	}
	return topics, nil
}
