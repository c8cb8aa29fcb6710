package mocks

import (
	"carecompanion/internal/models"
	"carecompanion/internal/repository"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockActivityRepository is a testify mock of repository.ActivityRepository.
// Update calls fn with the slice registered as its first return value. Every
// log fn produced lands in Attempted; it lands in Written only when the
// registered error is nil.
type MockActivityRepository struct {
	mock.Mock
	Attempted [][]models.ActivityRecord
	Written   [][]models.ActivityRecord
}

func (m *MockActivityRepository) FindAll(ctx context.Context) ([]models.ActivityRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ActivityRecord), args.Error(1)
}

func (m *MockActivityRepository) Update(ctx context.Context, fn func([]models.ActivityRecord) ([]models.ActivityRecord, error)) error {
	args := m.Called(ctx, fn)
	current, _ := args.Get(0).([]models.ActivityRecord)
	next, err := fn(current)
	if err != nil {
		return err
	}
	m.Attempted = append(m.Attempted, next)
	if err := args.Error(1); err != nil {
		return err
	}
	m.Written = append(m.Written, next)
	return nil
}

func (m *MockActivityRepository) ReplaceAll(ctx context.Context, records []models.ActivityRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockActivityRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockActivityRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ repository.ActivityRepository = (*MockActivityRepository)(nil)
