// Package pity provides persistence for per-character pity counters
package pity

//go:generate mockgen -destination=mock/mock_repository.go -package=pitymock github.com/questforge/progression-api/internal/repositories/pity Repository

import (
	"context"

	"github.com/questforge/progression-api/internal/entities"
)

// Repository defines the interface for pity counter persistence
type Repository interface {
	// Get retrieves a character's pity counters
	// Returns errors.InvalidArgument for empty character IDs
	// Returns errors.NotFound if the character has no counters yet
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save stores a character's pity counters, overwriting any previous
	// state
	// Returns errors.InvalidArgument for validation failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)
}

// GetInput defines the input for getting pity counters
type GetInput struct {
	CharacterID string
}

// GetOutput defines the output for getting pity counters
type GetOutput struct {
	Counters entities.PityCounters
}

// SaveInput defines the input for saving pity counters
type SaveInput struct {
	CharacterID string
	Counters    entities.PityCounters
}

// SaveOutput defines the output for saving pity counters
type SaveOutput struct{}
