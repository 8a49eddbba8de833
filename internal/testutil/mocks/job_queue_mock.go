package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/neurorecall/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueImport(deckID int64, cards []models.Card) error {
	args := m.Called(deckID, cards)
	return args.Error(0)
}

func (m *MockJobQueue) Backlog() int {
	args := m.Called()
	return args.Int(0)
}
