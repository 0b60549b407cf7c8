// Package dungeonrun provides the interface for dungeon run persistence
package dungeonrun

//go:generate mockgen -destination=mock/mock_repository.go -package=dungeonrunmock github.com/questforge/progression-api/internal/repositories/dungeonrun Repository

import (
	"context"

	"github.com/questforge/progression-api/internal/entities"
)

// Repository defines the interface for dungeon run persistence
type Repository interface {
	// Create stores a new run and indexes it by character
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if a run with the same ID exists
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a run by ID
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the run doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save overwrites an existing run
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.NotFound if the run doesn't exist
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// ListByCharacter retrieves all runs for a character
	// Returns errors.InvalidArgument for empty character IDs
	ListByCharacter(ctx context.Context, input ListByCharacterInput) (*ListByCharacterOutput, error)
}

// CreateInput defines the input for creating a run
type CreateInput struct {
	Run *entities.DungeonRun
}

// CreateOutput defines the output for creating a run
type CreateOutput struct {
	Run *entities.DungeonRun
}

// GetInput defines the input for getting a run
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a run
type GetOutput struct {
	Run *entities.DungeonRun
}

// SaveInput defines the input for saving a run
type SaveInput struct {
	Run *entities.DungeonRun
}

// SaveOutput defines the output for saving a run
type SaveOutput struct {
	Run *entities.DungeonRun
}

// ListByCharacterInput defines the input for listing a character's runs
type ListByCharacterInput struct {
	CharacterID string
}

// ListByCharacterOutput defines the output for listing a character's runs
type ListByCharacterOutput struct {
	Runs []*entities.DungeonRun
}
