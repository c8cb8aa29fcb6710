package services

import (
	"carecompanion/internal/models"
	"carecompanion/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	DefaultRetentionCap   = 500
	DefaultQuotaRetention = 100
)

type TrackerConfig struct {
	// RetentionCap is the maximum number of records kept in the log.
	RetentionCap int
	// QuotaRetention is how many records survive a quota failure.
	QuotaRetention int
	// Location decides calendar days and times of day.
	Location *time.Location
}

// ActivityTracker is the activity log store. Writes are best-effort: the
// caller always gets its record back, even when persisting it failed.
type ActivityTracker struct {
	repo           repository.ActivityRepository
	retentionCap   int
	quotaRetention int
	loc            *time.Location
	now            func() time.Time

	// mu serializes read-modify-write cycles of this process.
	mu sync.Mutex
}

func NewActivityTracker(repo repository.ActivityRepository, cfg TrackerConfig) *ActivityTracker {
	if cfg.RetentionCap <= 0 {
		cfg.RetentionCap = DefaultRetentionCap
	}
	if cfg.QuotaRetention <= 0 || cfg.QuotaRetention > cfg.RetentionCap {
		cfg.QuotaRetention = min(DefaultQuotaRetention, cfg.RetentionCap)
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &ActivityTracker{
		repo:           repo,
		retentionCap:   cfg.RetentionCap,
		quotaRetention: cfg.QuotaRetention,
		loc:            cfg.Location,
		now:            time.Now,
	}
}

// SetClock replaces the time source. Intended for tests and demos.
func (t *ActivityTracker) SetClock(now func() time.Time) {
	t.now = now
}

func (t *ActivityTracker) Now() time.Time {
	return t.now().In(t.loc)
}

func (t *ActivityTracker) Location() *time.Location {
	return t.loc
}

func (t *ActivityTracker) RetentionCap() int {
	return t.retentionCap
}

// NewActivityID builds "<prefix><unix millis>_<random suffix>".
func NewActivityID(prefix string, at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s%d_%s", prefix, at.UnixMilli(), suffix)
}

// NewRecord builds a record for activityType at the given instant without
// storing it.
func (t *ActivityTracker) NewRecord(activityType models.ActivityType, metadata models.Metadata, patientID string, at time.Time, idPrefix string) models.ActivityRecord {
	if patientID == "" {
		patientID = models.DefaultPatientID
	}
	at = at.In(t.loc)
	return models.ActivityRecord{
		ID:        NewActivityID(idPrefix, at),
		Type:      activityType,
		TypeInfo:  models.LookupTypeInfo(activityType),
		Metadata:  metadata.Sanitize(),
		PatientID: patientID,
		Timestamp: at,
		Date:      models.DateKey(at, t.loc),
	}
}

// Track records a new activity at the front of the log and returns it.
func (t *ActivityTracker) Track(ctx context.Context, activityType models.ActivityType, metadata models.Metadata, patientID string) models.ActivityRecord {
	// The timestamp is taken under the lock so the log stays newest first.
	t.mu.Lock()
	defer t.mu.Unlock()

	record := t.NewRecord(activityType, metadata, patientID, t.now(), "")
	if !activityType.IsKnown() {
		log.Debug().Str("type", string(activityType)).Msg("Tracking activity of unknown type")
	}

	err := t.repo.Update(ctx, prependTrimmed(record, t.retentionCap))
	if errors.Is(err, repository.ErrQuotaExceeded) {
		log.Warn().Err(err).
			Int("keep", t.quotaRetention).
			Msg("Activity storage full, clearing old activities")
		err = t.repo.Update(ctx, prependTrimmed(record, t.quotaRetention))
	}
	if err != nil {
		log.Error().Err(err).
			Str("activity_id", record.ID).
			Str("type", string(record.Type)).
			Msg("Failed to persist activity")
		return record
	}

	log.Debug().
		Str("activity_id", record.ID).
		Str("type", string(record.Type)).
		Str("patient_id", record.PatientID).
		Msg("Activity tracked")
	return record
}

func prependTrimmed(record models.ActivityRecord, limit int) func([]models.ActivityRecord) ([]models.ActivityRecord, error) {
	return func(current []models.ActivityRecord) ([]models.ActivityRecord, error) {
		next := make([]models.ActivityRecord, 0, min(len(current)+1, limit))
		next = append(next, record)
		for _, r := range current {
			if len(next) >= limit {
				break
			}
			next = append(next, r)
		}
		return next, nil
	}
}

// All returns the full log, most recent first. Unreadable storage reads as
// an empty log.
func (t *ActivityTracker) All(ctx context.Context) []models.ActivityRecord {
	records, err := t.repo.FindAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Activity log unavailable, treating as empty")
		return []models.ActivityRecord{}
	}
	if records == nil {
		return []models.ActivityRecord{}
	}
	return records
}

// Clear removes every record for every patient.
func (t *ActivityTracker) Clear(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.repo.Clear(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to clear activity log")
		return err
	}
	log.Info().Msg("Activity log cleared")
	return nil
}

// Replace swaps the whole log for records, which must already be ordered
// most recent first.
func (t *ActivityTracker) Replace(ctx context.Context, records []models.ActivityRecord) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(records) > t.retentionCap {
		records = records[:t.retentionCap]
	}
	if err := t.repo.ReplaceAll(ctx, records); err != nil {
		return fmt.Errorf("replace activity log: %w", err)
	}
	return nil
}

func (t *ActivityTracker) Ping(ctx context.Context) error {
	return t.repo.Ping(ctx)
}
