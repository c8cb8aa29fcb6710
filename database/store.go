package database

import (
	"carecompanion/internal/cache"
	"carecompanion/internal/config"
	"carecompanion/internal/repository"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ActivityStore is an opened activity backend.
type ActivityStore struct {
	Repository repository.ActivityRepository
	// Redis is set only for the redis backend.
	Redis   *cache.RedisClient
	cleanup func()
}

// Close releases the backend connections.
func (s *ActivityStore) Close() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

// OpenActivityStore connects the backend named by cfg.StoreBackend.
func OpenActivityStore(cfg *config.Config) (*ActivityStore, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		if err := ConnectDatabase(); err != nil {
			return nil, err
		}
		if err := MigrateDatabase(); err != nil {
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		return &ActivityStore{
			Repository: repository.NewActivityRepository(DB),
			cleanup: func() {
				if sqlDB, err := DB.DB(); err == nil {
					sqlDB.Close()
				}
			},
		}, nil

	case config.BackendRedis:
		redisClient, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		log.Info().Str("key", cfg.RedisKey).Msg("Using Redis activity store")
		return &ActivityStore{
			Repository: repository.NewRedisActivityRepository(redisClient.Client(), cfg.RedisKey),
			Redis:      redisClient,
			cleanup: func() {
				if err := redisClient.Close(); err != nil {
					log.Warn().Err(err).Msg("Failed to close Redis client")
				}
			},
		}, nil

	default:
		log.Info().Int("max_bytes", cfg.MemoryMaxBytes).Msg("Using in-memory activity store")
		return &ActivityStore{Repository: repository.NewMemoryActivityRepository(cfg.MemoryMaxBytes)}, nil
	}
}
