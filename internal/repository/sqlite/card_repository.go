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

var cardColumns = []string{
	"id", "deck_id", "front", "back", "topic", "content_type", "difficulty", "seed_plan",
	"ease_factor", "interval_days", "repetitions", "next_review_at", "last_reviewed_at",
	"version", "created_at",
}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func scanCard(row rowScanner) (models.Card, error) {
	var (
		c    models.Card
		plan string
	)
	err := row.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.Topic, &c.ContentType, &c.Difficulty, &plan,
		&c.EaseFactor, &c.IntervalDays, &c.Repetitions, &c.NextReviewAt, &c.LastReviewedAt,
		&c.Version, &c.CreatedAt)
	c.SeedPlan = decodePlan(plan)
	return c, err
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d", id)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	c, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", id)
		return nil, repository.ErrNotFound
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards with filter: deck_id=%d, topic=%s, difficulty=%s", filter.DeckID, filter.Topic, filter.Difficulty)

	query := sqlBuilder.Select(cardColumns...).From("cards")

	if filter.DeckID != 0 {
		query = query.Where(squirrel.Eq{"deck_id": filter.DeckID})
	}
	if filter.Topic != "" {
		query = query.Where(squirrel.Eq{"topic": filter.Topic})
	}
	if filter.Difficulty != "" {
		query = query.Where(squirrel.Eq{"difficulty": filter.Difficulty})
	}
	if filter.DueBefore != nil {
		query = query.Where(squirrel.Or{
			squirrel.Eq{"next_review_at": nil},
			squirrel.LtOrEq{"next_review_at": utc(*filter.DueBefore)},
		})
	}
	query = query.OrderBy("id ASC")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func insertCard(ctx context.Context, exec squirrel.StdSqlCtx, c models.Card) (int64, error) {
	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := sqlBuilder.Insert("cards").
		Columns("deck_id", "front", "back", "topic", "content_type", "difficulty", "seed_plan",
			"ease_factor", "interval_days", "repetitions", "next_review_at", "last_reviewed_at", "created_at").
		Values(c.DeckID, c.Front, c.Back, c.Topic, c.ContentType, c.Difficulty, encodePlan(c.SeedPlan),
			c.EaseFactor, c.IntervalDays, c.Repetitions, utcPtr(c.NextReviewAt), utcPtr(c.LastReviewedAt), utc(created)).
		RunWith(exec).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: deck_id=%d", c.DeckID)

	id, err := insertCard(ctx, r.db, c)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	log.Debug("card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) InsertBatch(ctx context.Context, cards []models.Card) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting %d cards in batch", len(cards))

	ids := make([]int64, 0, len(cards))
	err := db.Tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, c := range cards {
			id, err := insertCard(ctx, tx, c)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert card batch: %v", err)
		return nil, err
	}
	log.Debug("batch inserted %d cards", len(ids))
	return ids, nil
}

func (r *cardRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%d", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete card: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
