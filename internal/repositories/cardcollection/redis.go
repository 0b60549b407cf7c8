package cardcollection

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/questforge/progression-api/internal/entities"
	"github.com/questforge/progression-api/internal/errors"
	redisclient "github.com/questforge/progression-api/internal/redis"
)

const (
	collectionKeyPrefix = "cards:"

	errCharacterIDEmpty  = "character ID cannot be empty"
	errDefinitionIDEmpty = "definition ID cannot be empty"
	errCardNil           = "card cannot be nil"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis card collection
// repository.
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed card collection repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{
		client: cfg.Client,
	}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}
	if input.DefinitionID == "" {
		return nil, errors.InvalidArgument(errDefinitionIDEmpty)
	}

	key := collectionKeyPrefix + input.CharacterID
	result, err := r.client.HGet(ctx, key, input.DefinitionID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("character %s does not own card %s",
				input.CharacterID, input.DefinitionID)
		}
		return nil, errors.Wrapf(err, "failed to get card")
	}

	var card entities.MonsterCard
	if err := json.Unmarshal([]byte(result), &card); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal card")
	}

	return &GetOutput{Card: &card}, nil
}

func (r *redisRepository) Upsert(ctx context.Context, input UpsertInput) (*UpsertOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}
	if input.Card == nil {
		return nil, errors.InvalidArgument(errCardNil)
	}
	if input.Card.DefinitionID == "" {
		return nil, errors.InvalidArgument(errDefinitionIDEmpty)
	}

	data, err := json.Marshal(input.Card)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal card")
	}

	key := collectionKeyPrefix + input.CharacterID
	if err := r.client.HSet(ctx, key, input.Card.DefinitionID, data).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to upsert card")
	}

	return &UpsertOutput{Card: input.Card}, nil
}

func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	key := collectionKeyPrefix + input.CharacterID
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list cards")
	}

	cards := make([]*entities.MonsterCard, 0, len(fields))
	for definitionID, raw := range fields {
		var card entities.MonsterCard
		if err := json.Unmarshal([]byte(raw), &card); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal card %s", definitionID)
		}
		cards = append(cards, &card)
	}

	return &ListOutput{Cards: cards}, nil
}
