package repository

import (
	"carecompanion/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxWatchRetries = 5

// redisActivityRepository stores the whole log as one JSON value under key.
type redisActivityRepository struct {
	client *redis.Client
	key    string
}

func NewRedisActivityRepository(client *redis.Client, key string) ActivityRepository {
	return &redisActivityRepository{client: client, key: key}
}

func (r *redisActivityRepository) FindAll(ctx context.Context) ([]models.ActivityRecord, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []models.ActivityRecord{}, nil
		}
		return nil, fmt.Errorf("failed to get activity log from Redis: %w", err)
	}
	return decodeLog(data)
}

// Update retries the optimistic transaction when another writer touched the
// key between WATCH and EXEC.
func (r *redisActivityRepository) Update(ctx context.Context, fn func([]models.ActivityRecord) ([]models.ActivityRecord, error)) error {
	txf := func(tx *redis.Tx) error {
		current := []models.ActivityRecord{}
		data, err := tx.Get(ctx, r.key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("failed to get activity log from Redis: %w", err)
		default:
			if decoded, err := decodeLog(data); err != nil {
				log.Warn().Err(err).Str("key", r.key).Msg("Discarding unreadable activity log")
			} else {
				current = decoded
			}
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal activity log: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, payload, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := r.client.Watch(ctx, txf, r.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return classifyRedisError(err)
	}
	return fmt.Errorf("activity log update lost %d optimistic races", maxWatchRetries)
}

func (r *redisActivityRepository) ReplaceAll(ctx context.Context, records []models.ActivityRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal activity log: %w", err)
	}
	return classifyRedisError(r.client.Set(ctx, r.key, payload, 0).Err())
}

func (r *redisActivityRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to delete activity log: %w", err)
	}
	return nil
}

func (r *redisActivityRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func decodeLog(data []byte) ([]models.ActivityRecord, error) {
	var records []models.ActivityRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if records == nil {
		records = []models.ActivityRecord{}
	}
	return records, nil
}

// classifyRedisError maps the maxmemory OOM reply to ErrQuotaExceeded.
func classifyRedisError(err error) error {
	if err == nil {
		return nil
	}
	if strings.HasPrefix(err.Error(), "OOM ") {
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	}
	return fmt.Errorf("failed to store activity log in Redis: %w", err)
}
