package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/puzzlequest/internal/models"
	"github.com/vytor/puzzlequest/internal/puzzles"
)

// MockPuzzleSource is a mock implementation of puzzles.Source
type MockPuzzleSource struct {
	mock.Mock
}

func (m *MockPuzzleSource) Fetch(ctx context.Context, req puzzles.Request) ([]models.Puzzle, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Puzzle), args.Error(1)
}
