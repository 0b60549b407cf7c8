// Package cardcollection provides persistence for owned monster cards.
// A character's collection is keyed by card definition, matching the
// duplicate-absorption rule: at most one owned card per definition.
package cardcollection

//go:generate mockgen -destination=mock/mock_repository.go -package=cardcollectionmock github.com/questforge/progression-api/internal/repositories/cardcollection Repository

import (
	"context"

	"github.com/questforge/progression-api/internal/entities"
)

// Repository defines the interface for card collection persistence
type Repository interface {
	// Get retrieves one owned card by definition
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the character doesn't own the card
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Upsert stores an owned card, replacing any previous state for the
	// same definition
	// Returns errors.InvalidArgument for validation failures
	Upsert(ctx context.Context, input UpsertInput) (*UpsertOutput, error)

	// List retrieves a character's whole collection
	// Returns errors.InvalidArgument for empty character IDs
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}

// GetInput defines the input for getting an owned card
type GetInput struct {
	CharacterID  string
	DefinitionID string
}

// GetOutput defines the output for getting an owned card
type GetOutput struct {
	Card *entities.MonsterCard
}

// UpsertInput defines the input for upserting an owned card
type UpsertInput struct {
	CharacterID string
	Card        *entities.MonsterCard
}

// UpsertOutput defines the output for upserting an owned card
type UpsertOutput struct {
	Card *entities.MonsterCard
}

// ListInput defines the input for listing a collection
type ListInput struct {
	CharacterID string
}

// ListOutput defines the output for listing a collection
type ListOutput struct {
	Cards []*entities.MonsterCard
}
