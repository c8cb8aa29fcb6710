package services

import (
	"carecompanion/internal/models"
	"carecompanion/internal/repository"
	"carecompanion/internal/repository/mocks"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewActivityTrackerDefaults(t *testing.T) {
	tracker := NewActivityTracker(repository.NewMemoryActivityRepository(0), TrackerConfig{})

	assert.Equal(t, DefaultRetentionCap, tracker.RetentionCap())
	assert.Equal(t, DefaultQuotaRetention, tracker.quotaRetention)
	assert.Equal(t, time.Local, tracker.Location())
}

func TestTrackBuildsRecord(t *testing.T) {
	tracker, _ := newTestTracker(testNoon)
	ctx := context.Background()

	record := tracker.Track(ctx, models.MoodCheckin, models.Metadata{"mood": "good", "note": "sunny"}, "patient_001")

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, models.MoodCheckin, record.Type)
	assert.Equal(t, models.CategoryWellness, record.TypeInfo.Category)
	assert.Equal(t, "Mood Check-in", record.TypeInfo.Label)
	assert.Equal(t, "patient_001", record.PatientID)
	assert.Equal(t, "2026-10-16", record.Date)
	assert.True(t, record.Timestamp.Equal(testNoon))
	assert.Equal(t, "good", record.Metadata.String("mood"))

	all := tracker.All(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, record.ID, all[0].ID)
}

func TestTrackUnknownTypeAndDefaultPatient(t *testing.T) {
	tracker, _ := newTestTracker(testNoon)

	record := tracker.Track(context.Background(), "GARDENING", nil, "")

	assert.Equal(t, models.CategoryOther, record.TypeInfo.Category)
	assert.Equal(t, "GARDENING", record.TypeInfo.Label)
	assert.Equal(t, "📌", record.TypeInfo.Icon)
	assert.Equal(t, models.DefaultPatientID, record.PatientID)
	assert.NotNil(t, record.Metadata)
}

func TestTrackDropsNonScalarMetadata(t *testing.T) {
	tracker, _ := newTestTracker(testNoon)

	record := tracker.Track(context.Background(), models.PageVisited, models.Metadata{
		"page":   "learn",
		"nested": map[string]interface{}{"a": 1},
		"count":  2,
	}, "p1")

	assert.Equal(t, "learn", record.Metadata.String("page"))
	assert.Equal(t, 2, record.Metadata["count"])
	assert.NotContains(t, record.Metadata, "nested")
}

func TestTrackRetentionCap(t *testing.T) {
	tracker, clock := newTestTracker(testNoon)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 510; i++ {
		clock.Advance(time.Second)
		ids = append(ids, tracker.Track(ctx, models.AppOpened, nil, "p1").ID)
	}

	all := tracker.All(ctx)
	require.Len(t, all, DefaultRetentionCap)
	assert.Equal(t, ids[509], all[0].ID, "newest record first")
	assert.Equal(t, ids[10], all[len(all)-1].ID, "the ten oldest records are evicted")

	seen := make(map[string]bool)
	for i, r := range all {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
		if i > 0 {
			assert.False(t, r.Timestamp.After(all[i-1].Timestamp), "log must be most recent first")
		}
	}
}

func TestTrackUniqueIDsWithFrozenClock(t *testing.T) {
	tracker, _ := newTestTracker(testNoon)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := tracker.Track(ctx, models.ChatMessage, nil, "p1").ID
		require.False(t, seen[id], "id %s reused", id)
		seen[id] = true
	}
}

func TestAllIsIdempotent(t *testing.T) {
	tracker, clock := newTestTracker(testNoon)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		clock.Advance(time.Minute)
		tracker.Track(ctx, models.ArticleRead, models.Metadata{"article": fmt.Sprint(i)}, "p1")
	}

	assert.Equal(t, tracker.All(ctx), tracker.All(ctx))
}

func TestTrackQuotaFallback(t *testing.T) {
	repo := new(mocks.MockActivityRepository)
	tracker := NewActivityTracker(repo, TrackerConfig{Location: time.UTC})

	existing := make([]models.ActivityRecord, 300)
	for i := range existing {
		existing[i] = models.ActivityRecord{ID: fmt.Sprintf("old_%d", i)}
	}
	repo.On("Update", mock.Anything, mock.Anything).Return(existing, repository.ErrQuotaExceeded).Once()
	repo.On("Update", mock.Anything, mock.Anything).Return(existing, nil).Once()

	record := tracker.Track(context.Background(), models.MedicationTaken, nil, "p1")

	require.Len(t, repo.Attempted, 2)
	assert.Len(t, repo.Attempted[0], 301)
	require.Len(t, repo.Written, 1)
	assert.Len(t, repo.Written[0], DefaultQuotaRetention)
	assert.Equal(t, record.ID, repo.Written[0][0].ID)
	assert.Equal(t, "old_98", repo.Written[0][99].ID)
	repo.AssertExpectations(t)
}

func TestTrackSwallowsWriteFailure(t *testing.T) {
	repo := new(mocks.MockActivityRepository)
	tracker := NewActivityTracker(repo, TrackerConfig{Location: time.UTC})

	repo.On("Update", mock.Anything, mock.Anything).Return([]models.ActivityRecord{}, repository.ErrQuotaExceeded).Twice()

	record := tracker.Track(context.Background(), models.VoiceSession, models.Metadata{"duration": "8 min"}, "p1")

	assert.Equal(t, models.VoiceSession, record.Type)
	assert.NotEmpty(t, record.ID)
	assert.Empty(t, repo.Written)
	repo.AssertExpectations(t)
}

func TestTrackDoesNotRetryOtherErrors(t *testing.T) {
	repo := new(mocks.MockActivityRepository)
	tracker := NewActivityTracker(repo, TrackerConfig{Location: time.UTC})

	repo.On("Update", mock.Anything, mock.Anything).Return([]models.ActivityRecord{}, errors.New("connection refused")).Once()

	record := tracker.Track(context.Background(), models.FamilyCall, nil, "p1")

	assert.Equal(t, models.FamilyCall, record.Type)
	repo.AssertNumberOfCalls(t, "Update", 1)
}

func TestAllTreatsCorruptStorageAsEmpty(t *testing.T) {
	repo := new(mocks.MockActivityRepository)
	tracker := NewActivityTracker(repo, TrackerConfig{Location: time.UTC})
	repo.On("FindAll", mock.Anything).Return(nil, repository.ErrCorrupt)

	all := tracker.All(context.Background())

	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestClear(t *testing.T) {
	tracker, _ := newTestTracker(testNoon)
	ctx := context.Background()
	tracker.Track(ctx, models.AppOpened, nil, "p1")
	tracker.Track(ctx, models.AppOpened, nil, "p2")

	require.NoError(t, tracker.Clear(ctx))
	assert.Empty(t, tracker.All(ctx))
}

func TestClearReportsBackendError(t *testing.T) {
	repo := new(mocks.MockActivityRepository)
	tracker := NewActivityTracker(repo, TrackerConfig{Location: time.UTC})
	repo.On("Clear", mock.Anything).Return(errors.New("read-only replica"))

	assert.Error(t, tracker.Clear(context.Background()))
}

func TestReplaceTrimsToCap(t *testing.T) {
	repo := new(mocks.MockActivityRepository)
	tracker := NewActivityTracker(repo, TrackerConfig{RetentionCap: 5, Location: time.UTC})
	repo.On("ReplaceAll", mock.Anything, mock.MatchedBy(func(records []models.ActivityRecord) bool {
		return len(records) == 5
	})).Return(nil)

	require.NoError(t, tracker.Replace(context.Background(), make([]models.ActivityRecord, 8)))
	repo.AssertExpectations(t)
}

func TestConcurrentTrackKeepsNewestFirst(t *testing.T) {
	tracker := NewActivityTracker(repository.NewMemoryActivityRepository(0), TrackerConfig{Location: time.UTC})
	var ticks atomic.Int64
	tracker.SetClock(func() time.Time {
		return testNoon.Add(time.Duration(ticks.Add(1)) * time.Millisecond)
	})
	ctx := context.Background()

	const workers, perWorker = 16, 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				tracker.Track(ctx, models.AppOpened, nil, fmt.Sprintf("p%d", w))
			}
		}(w)
	}
	wg.Wait()

	all := tracker.All(ctx)
	require.Len(t, all, workers*perWorker)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Timestamp.After(all[i-1].Timestamp), "record %d is newer than record %d", i, i-1)
	}
}
