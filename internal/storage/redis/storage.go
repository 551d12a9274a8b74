package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/freestreet/internal/model"
	"github.com/mcoot/freestreet/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	// Claim the login name first so two profiles can never share it
	indexKey := logNameIndexKey(profile.LogName)
	claimed, err := s.client.SetNX(ctx, indexKey, profile.ID.Hex(), 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		owner, err := s.client.Get(ctx, indexKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if owner != profile.ID.Hex() {
			return model.ErrLogNameTaken
		}
	}

	old, err := s.GetProfile(ctx, profile.ID)
	if err != nil && !errors.Is(err, model.ErrProfileNotFound) {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, profileKey(profile.ID), data, 0)
	if old != nil && old.LogName != profile.LogName {
		pipe.Del(ctx, logNameIndexKey(old.LogName))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetProfile(ctx context.Context, id model.ID) (*model.Profile, error) {
	data, err := s.client.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	var profile model.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Storage) GetProfileByLogName(ctx context.Context, logName string) (*model.Profile, error) {
	// Look up profile ID from login name index
	idStr, err := s.client.Get(ctx, logNameIndexKey(logName)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	id, err := model.ParseID(idStr)
	if err != nil {
		return nil, model.ErrProfileNotFound
	}
	return s.GetProfile(ctx, id)
}

// Crew operations

func (s *Storage) SaveCrew(ctx context.Context, crew *model.Crew) error {
	data, err := json.Marshal(crew)
	if err != nil {
		return err
	}

	indexKey := crewNameIndexKey()
	claimed, err := s.client.HSetNX(ctx, indexKey, crew.Name, crew.ID.Hex()).Result()
	if err != nil {
		return err
	}
	if !claimed {
		owner, err := s.client.HGet(ctx, indexKey, crew.Name).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if owner != crew.ID.Hex() {
			return model.ErrCrewNameTaken
		}
	}

	old, err := s.GetCrew(ctx, crew.ID)
	if err != nil && !errors.Is(err, model.ErrCrewNotFound) {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, crewKey(crew.ID), data, 0)
	if old != nil && old.Name != crew.Name {
		pipe.HDel(ctx, indexKey, old.Name)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCrew(ctx context.Context, id model.ID) (*model.Crew, error) {
	data, err := s.client.Get(ctx, crewKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCrewNotFound
		}
		return nil, err
	}

	var crew model.Crew
	if err := json.Unmarshal(data, &crew); err != nil {
		return nil, err
	}
	return &crew, nil
}

func (s *Storage) GetCrewByName(ctx context.Context, name string) (*model.Crew, error) {
	idStr, err := s.client.HGet(ctx, crewNameIndexKey(), name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCrewNotFound
		}
		return nil, err
	}

	id, err := model.ParseID(idStr)
	if err != nil {
		return nil, model.ErrCrewNotFound
	}
	return s.GetCrew(ctx, id)
}

func (s *Storage) FindCrewsByName(ctx context.Context, keyword string) ([]*model.Crew, error) {
	names, err := s.client.HGetAll(ctx, crewNameIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	var keys []string
	for name, idStr := range names {
		if !storage.NameMatches(name, keyword) {
			continue
		}
		id, err := model.ParseID(idStr)
		if err != nil {
			continue // Skip corrupt index entries
		}
		keys = append(keys, crewKey(id))
	}

	if len(keys) == 0 {
		return []*model.Crew{}, nil
	}

	// Fetch all matching crews in one round trip
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	crews := make([]*model.Crew, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue
		}
		var crew model.Crew
		if err := json.Unmarshal([]byte(str), &crew); err != nil {
			continue // Skip invalid data
		}
		crews = append(crews, &crew)
	}

	storage.SortCrewsByName(crews)
	return crews, nil
}
