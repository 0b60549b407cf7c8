package dungeonrun

import (
	"context"
	"encoding/json"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/questforge/progression-api/internal/entities"
	"github.com/questforge/progression-api/internal/errors"
	"github.com/questforge/progression-api/internal/pkg/clock"
	redisclient "github.com/questforge/progression-api/internal/redis"
)

const (
	runKeyPrefix         = "dungeon_run:"
	characterIndexPrefix = "dungeon_run:character:"

	errRunNil           = "run cannot be nil"
	errRunIDEmpty       = "run ID cannot be empty"
	errCharacterIDEmpty = "character ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis dungeon run
// repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
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

// NewRedis creates a new Redis-backed dungeon run repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Run == nil {
		return nil, errors.InvalidArgument(errRunNil)
	}
	if input.Run.ID == "" {
		return nil, errors.InvalidArgument(errRunIDEmpty)
	}
	if input.Run.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	key := runKeyPrefix + input.Run.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("run with ID %s already exists", input.Run.ID)
	}

	now := r.clock.Now()
	input.Run.CreatedAt = now
	input.Run.UpdatedAt = now

	data, err := json.Marshal(input.Run)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal run")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, characterIndexPrefix+input.Run.CharacterID, input.Run.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create run")
	}

	return &CreateOutput{Run: input.Run}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errRunIDEmpty)
	}

	key := runKeyPrefix + input.ID
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("run with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get run")
	}

	var run entities.DungeonRun
	if err := json.Unmarshal([]byte(result), &run); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal run")
	}

	return &GetOutput{Run: &run}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Run == nil {
		return nil, errors.InvalidArgument(errRunNil)
	}
	if input.Run.ID == "" {
		return nil, errors.InvalidArgument(errRunIDEmpty)
	}

	key := runKeyPrefix + input.Run.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("run with ID %s not found", input.Run.ID)
	}

	input.Run.UpdatedAt = r.clock.Now()

	data, err := json.Marshal(input.Run)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal run")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to save run")
	}

	return &SaveOutput{Run: input.Run}, nil
}

func (r *redisRepository) ListByCharacter(
	ctx context.Context,
	input ListByCharacterInput,
) (*ListByCharacterOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	indexKey := characterIndexPrefix + input.CharacterID
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read character index")
	}

	runs := make([]*entities.DungeonRun, 0, len(ids))
	for _, id := range ids {
		out, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				// stale index entry, skip it
				slog.WarnContext(ctx, "dungeon run in index but missing",
					"character_id", input.CharacterID,
					"run_id", id)
				continue
			}
			return nil, err
		}
		runs = append(runs, out.Run)
	}

	return &ListByCharacterOutput{Runs: runs}, nil
}
