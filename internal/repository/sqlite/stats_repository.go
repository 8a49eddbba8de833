package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/neurorecall/internal/logger"
	"github.com/vytor/neurorecall/internal/models"
	"github.com/vytor/neurorecall/internal/repository"
	"github.com/vytor/neurorecall/internal/scheduler"
)

// matureIntervalDays is the interval from which a card counts as mature.
const matureIntervalDays = 21

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) DeckStats(ctx context.Context, deckID int64, now, dayStart time.Time) (*models.DeckStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("computing deck stats: deck_id=%d", deckID)

	stats := models.DeckStats{DeckID: deckID}

	cardQuery, args, err := sqlBuilder.Select(
		"COUNT(*)",
		"COALESCE(SUM(CASE WHEN next_review_at IS NULL THEN 1 ELSE 0 END), 0)",
	).
		Column("COALESCE(SUM(CASE WHEN next_review_at IS NULL OR next_review_at <= ? THEN 1 ELSE 0 END), 0)", utc(now)).
		Column("COALESCE(SUM(CASE WHEN repetitions BETWEEN 1 AND 2 THEN 1 ELSE 0 END), 0)").
		Column("COALESCE(SUM(CASE WHEN interval_days >= ? THEN 1 ELSE 0 END), 0)", matureIntervalDays).
		Columns("COALESCE(AVG(ease_factor), 0)", "COALESCE(AVG(interval_days), 0)").
		From("cards").
		Where(squirrel.Eq{"deck_id": deckID}).
		ToSql()
	if err != nil {
		log.Error("failed to build card stats query: %v", err)
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, cardQuery, args...).Scan(
		&stats.TotalCards, &stats.NewCards, &stats.DueCards, &stats.LearningCards, &stats.MatureCards,
		&stats.AvgEaseFactor, &stats.AvgIntervalDays,
	)
	if err != nil {
		log.Error("failed to query card stats: %v", err)
		return nil, err
	}

	reviewQuery, args, err := sqlBuilder.Select("COUNT(*)").
		Column("COALESCE(SUM(CASE WHEN h.reviewed_at >= ? THEN 1 ELSE 0 END), 0)", utc(dayStart)).
		Column("COALESCE(AVG(CASE WHEN h.quality >= ? THEN 1.0 ELSE 0.0 END), 0)", int(scheduler.PassingQuality)).
		Column("COALESCE(AVG(NULLIF(h.time_seconds, 0)), 0)").
		From("review_history h").
		Join("cards c ON c.id = h.card_id").
		Where(squirrel.Eq{"c.deck_id": deckID}).
		ToSql()
	if err != nil {
		log.Error("failed to build review stats query: %v", err)
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, reviewQuery, args...).Scan(
		&stats.TotalReviews, &stats.ReviewsToday, &stats.Accuracy, &stats.AvgTimeSeconds,
	)
	if err != nil {
		log.Error("failed to query review stats: %v", err)
		return nil, err
	}

	log.Debug("deck stats: total=%d, due=%d, reviews=%d", stats.TotalCards, stats.DueCards, stats.TotalReviews)
	return &stats, nil
}
