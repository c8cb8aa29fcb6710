package repository

import (
	"carecompanion/internal/models"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// memoryActivityRepository keeps the serialized log in process memory.
// maxBytes bounds the encoded size; zero means unbounded.
type memoryActivityRepository struct {
	mu       sync.Mutex
	data     []byte
	maxBytes int
}

func NewMemoryActivityRepository(maxBytes int) ActivityRepository {
	return &memoryActivityRepository{maxBytes: maxBytes}
}

func (r *memoryActivityRepository) FindAll(ctx context.Context) ([]models.ActivityRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.decode()
}

func (r *memoryActivityRepository) Update(ctx context.Context, fn func([]models.ActivityRecord) ([]models.ActivityRecord, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.decode()
	if err != nil {
		log.Warn().Err(err).Msg("Discarding unreadable activity log")
		current = []models.ActivityRecord{}
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	return r.encode(next)
}

func (r *memoryActivityRepository) ReplaceAll(ctx context.Context, records []models.ActivityRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.encode(records)
}

func (r *memoryActivityRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = nil
	return nil
}

func (r *memoryActivityRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *memoryActivityRepository) decode() ([]models.ActivityRecord, error) {
	if len(r.data) == 0 {
		return []models.ActivityRecord{}, nil
	}
	var records []models.ActivityRecord
	if err := json.Unmarshal(r.data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if records == nil {
		records = []models.ActivityRecord{}
	}
	return records, nil
}

func (r *memoryActivityRepository) encode(records []models.ActivityRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal activity log: %w", err)
	}
	if r.maxBytes > 0 && len(data) > r.maxBytes {
		return fmt.Errorf("%w: %d bytes over limit of %d", ErrQuotaExceeded, len(data), r.maxBytes)
	}
	r.data = data
	return nil
}
