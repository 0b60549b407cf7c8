package pity

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/questforge/progression-api/internal/entities"
	"github.com/questforge/progression-api/internal/errors"
	redisclient "github.com/questforge/progression-api/internal/redis"
)

const (
	pityKeyPrefix = "pity:"

	errCharacterIDEmpty = "character ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis pity repository.
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

// NewRedis creates a new Redis-backed pity repository
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

	key := pityKeyPrefix + input.CharacterID
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no pity counters for character %s", input.CharacterID)
		}
		return nil, errors.Wrapf(err, "failed to get pity counters")
	}

	var counters entities.PityCounters
	if err := json.Unmarshal([]byte(result), &counters); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal pity counters")
	}

	return &GetOutput{Counters: counters}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}
	for contentType := range input.Counters {
		if !contentType.Valid() {
			return nil, errors.InvalidArgumentf("unknown content type %q", contentType)
		}
	}

	data, err := json.Marshal(input.Counters.Clone())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal pity counters")
	}

	key := pityKeyPrefix + input.CharacterID
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to save pity counters")
	}

	return &SaveOutput{}, nil
}
