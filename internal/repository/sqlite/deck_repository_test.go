package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/neurorecall/internal/models"
	"github.com/vytor/neurorecall/internal/repository"
	"github.com/vytor/neurorecall/internal/repository/sqlite"
	"github.com/vytor/neurorecall/internal/testutil"
)

type DeckRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.DeckRepository
}

func (s *DeckRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewDeckRepository(s.db)
}

func (s *DeckRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *DeckRepositorySuite) TestInsertGetList() {
	ctx := context.Background()

	id, err := s.repo.Insert(ctx, models.Deck{Name: "spanish", Description: "verbs"})
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, models.Deck{Name: "biology"})
	s.Require().NoError(err)

	deck, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal("spanish", deck.Name)
	s.Assert().Equal("verbs", deck.Description)
	s.Assert().False(deck.CreatedAt.IsZero())

	decks, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(decks, 2)
	s.Assert().Equal("biology", decks[0].Name, "ordered by name")
}

func (s *DeckRepositorySuite) TestInsert_DuplicateName() {
	ctx := context.Background()
	_, err := s.repo.Insert(ctx, models.Deck{Name: "dup"})
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, models.Deck{Name: "dup"})
	s.Assert().ErrorIs(err, repository.ErrDuplicate)
}

func (s *DeckRepositorySuite) TestGetAndDelete_NotFound() {
	ctx := context.Background()
	_, err := s.repo.Get(ctx, 7)
	s.Assert().ErrorIs(err, repository.ErrNotFound)
	s.Assert().ErrorIs(s.repo.Delete(ctx, 7), repository.ErrNotFound)
}

func (s *DeckRepositorySuite) TestList_Empty() {
	decks, err := s.repo.List(context.Background())
	s.Require().NoError(err)
	s.Assert().NotNil(decks)
	s.Assert().Empty(decks)
}

func TestDeckRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeckRepositorySuite))
}
