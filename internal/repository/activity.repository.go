package repository

import (
	"carecompanion/internal/models"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	// ErrQuotaExceeded is returned when the backend has no room left for the log.
	ErrQuotaExceeded = errors.New("activity storage quota exceeded")
	// ErrCorrupt is returned when the persisted log cannot be decoded.
	ErrCorrupt = errors.New("activity storage is corrupt")
)

// ActivityRepository persists the whole activity log of a device or process.
// The log is kept most-recent-first.
type ActivityRepository interface {
	// FindAll returns the full log. An empty store yields an empty slice.
	FindAll(ctx context.Context) ([]models.ActivityRecord, error)
	// Update runs a read-modify-write of the log as one step. fn receives the
	// current log (empty when nothing usable is stored) and returns the log to
	// persist.
	Update(ctx context.Context, fn func([]models.ActivityRecord) ([]models.ActivityRecord, error)) error
	// ReplaceAll swaps the stored log for records in a single step.
	ReplaceAll(ctx context.Context, records []models.ActivityRecord) error
	// Clear removes every record for every patient.
	Clear(ctx context.Context) error
	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db}
}

func (r *activityRepository) FindAll(ctx context.Context) ([]models.ActivityRecord, error) {
	var rows []models.ActivityRow
	err := r.db.WithContext(ctx).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query activity records: %w", err)
	}

	records := make([]models.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.Record()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *activityRepository) Update(ctx context.Context, fn func([]models.ActivityRecord) ([]models.ActivityRecord, error)) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("LOCK TABLE activity_records IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
			return err
		}

		var rows []models.ActivityRow
		if err := tx.Order("position ASC").Find(&rows).Error; err != nil {
			return err
		}
		current := make([]models.ActivityRecord, 0, len(rows))
		for _, row := range rows {
			record, err := row.Record()
			if err != nil {
				log.Warn().Err(err).Msg("Discarding unreadable activity log")
				current = current[:0]
				break
			}
			current = append(current, record)
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		return writeRows(tx, next)
	})
	if err != nil {
		return classifyPgError(err)
	}
	return nil
}

func (r *activityRepository) ReplaceAll(ctx context.Context, records []models.ActivityRecord) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return writeRows(tx, records)
	})
	if err != nil {
		log.Error().Err(err).Int("records", len(records)).Msg("Error replacing activity records")
		return classifyPgError(err)
	}
	return nil
}

func writeRows(tx *gorm.DB, records []models.ActivityRecord) error {
	rows := make([]models.ActivityRow, 0, len(records))
	for i, record := range records {
		row, err := models.NewActivityRow(record, i)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ActivityRow{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, 100).Error
}

func (r *activityRepository) Clear(ctx context.Context) error {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.ActivityRow{}).Error
	if err != nil {
		return fmt.Errorf("clear activity records: %w", err)
	}
	return nil
}

func (r *activityRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// classifyPgError maps postgres resource exhaustion to ErrQuotaExceeded.
func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "53000", "53100", "53200":
			return fmt.Errorf("%w: %s", ErrQuotaExceeded, pgErr.Message)
		}
	}
	return fmt.Errorf("write activity records: %w", err)
}
