package services

import (
	"carecompanion/internal/models"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trackMoods(t *testing.T, tracker *ActivityTracker, clock *fakeClock, moods ...string) {
	t.Helper()
	for _, mood := range moods {
		clock.Advance(time.Minute)
		tracker.Track(context.Background(), models.MoodCheckin, models.Metadata{"mood": mood}, "p1")
	}
}

func TestDailySummaryMoodTrend(t *testing.T) {
	tests := []struct {
		name       string
		moods      []string
		wantTrend  models.MoodTrend
		wantLatest string
	}{
		{name: "good then okay", moods: []string{"good", "okay"}, wantTrend: models.TrendDeclining, wantLatest: "okay"},
		{name: "okay then good", moods: []string{"okay", "good"}, wantTrend: models.TrendImproving, wantLatest: "good"},
		{name: "single checkin", moods: []string{"low"}, wantTrend: models.TrendStable, wantLatest: "low"},
		{name: "same mood", moods: []string{"great", "great"}, wantTrend: models.TrendStable, wantLatest: "great"},
		{name: "unknown mood is neutral", moods: []string{"low", "meh"}, wantTrend: models.TrendImproving, wantLatest: "meh"},
		{name: "only latest two count", moods: []string{"struggling", "great", "good"}, wantTrend: models.TrendDeclining, wantLatest: "good"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, clock := newTestTracker(testNoon)
			trackMoods(t, tracker, clock, tt.moods...)

			summary := NewSummaryService(tracker).DailySummary(context.Background(), "p1", clock.Now())

			assert.Equal(t, tt.wantTrend, summary.MoodTrend)
			require.NotNil(t, summary.LatestMood)
			assert.Equal(t, tt.wantLatest, *summary.LatestMood)
		})
	}
}

func TestDailySummaryMissingMoodMetadata(t *testing.T) {
	tracker, clock := newTestTracker(testNoon)
	ctx := context.Background()
	tracker.Track(ctx, models.MoodCheckin, models.Metadata{"mood": "okay"}, "p1")
	clock.Advance(time.Minute)
	tracker.Track(ctx, models.MoodCheckin, nil, "p1")

	summary := NewSummaryService(tracker).DailySummary(ctx, "p1", clock.Now())

	assert.Nil(t, summary.LatestMood)
	assert.Equal(t, models.TrendStable, summary.MoodTrend)
}

func TestDailySummaryAlertsWithoutMedication(t *testing.T) {
	tracker, clock := newTestTracker(testNoon)
	ctx := context.Background()
	for _, activity := range []models.ActivityType{models.AppOpened, models.PageVisited, models.ChatMessage, models.VideoWatched, models.DailyCheckin} {
		clock.Advance(time.Minute)
		tracker.Track(ctx, activity, nil, "p1")
	}

	summary := NewSummaryService(tracker).DailySummary(ctx, "p1", clock.Now())

	assert.Equal(t, 5, summary.TotalActivities)
	assert.Equal(t, 50, summary.EngagementScore)
	assert.Equal(t, []models.Alert{{Type: models.AlertWarning, Message: AlertNoMedication}}, summary.Alerts)
}

func TestDailySummaryMedicationTakenClearsWarning(t *testing.T) {
	tracker, clock := newTestTracker(testNoon)
	ctx := context.Background()
	tracker.Track(ctx, models.MedicationTaken, nil, "p1")

	summary := NewSummaryService(tracker).DailySummary(ctx, "p1", clock.Now())

	assert.False(t, summary.HasAlert(AlertNoMedication))
	assert.True(t, summary.HasAlert(AlertLowEngagement))
	assert.Equal(t, 10, summary.EngagementScore)
}

func TestDailySummaryAlertOrder(t *testing.T) {
	tracker, clock := newTestTracker(testNoon)
	ctx := context.Background()
	tracker.Track(ctx, models.MedicationMissed, nil, "p1")

	summary := NewSummaryService(tracker).DailySummary(ctx, "p1", clock.Now())

	require.Len(t, summary.Alerts, 3)
	assert.Equal(t, AlertNoMedication, summary.Alerts[0].Message)
	assert.Equal(t, models.AlertAlert, summary.Alerts[1].Type)
	assert.Equal(t, AlertMissedDose, summary.Alerts[1].Message)
	assert.Equal(t, AlertLowEngagement, summary.Alerts[2].Message)
}

func TestDailySummaryEngagementCapped(t *testing.T) {
	tracker, clock := newTestTracker(testNoon)
	ctx := context.Background()
	for i := 0; i < 14; i++ {
		clock.Advance(time.Minute)
		tracker.Track(ctx, models.MedicationTaken, nil, "p1")
	}

	summary := NewSummaryService(tracker).DailySummary(ctx, "p1", clock.Now())

	assert.Equal(t, 100, summary.EngagementScore)
	assert.Empty(t, summary.Alerts)
}

func TestDailySummaryHighlights(t *testing.T) {
	tracker, clock := newTestTracker(testNoon)
	ctx := context.Background()
	for _, activity := range []models.ActivityType{
		models.ArticleRead, models.ArticleRead,
		models.MedicationTaken,
		models.MemoryGame, models.PuzzleCompleted, models.CognitiveExercise,
		models.VoiceSession,
	} {
		clock.Advance(time.Minute)
		tracker.Track(ctx, activity, nil, "p1")
	}

	summary := NewSummaryService(tracker).DailySummary(ctx, "p1", clock.Now())

	assert.Equal(t, []string{
		"Had 1 voice conversation",
		"Completed 3 brain exercises",
		"Took medication 1 time",
		"Read 2 articles",
	}, summary.Highlights)
	assert.Len(t, summary.ByCategory[models.CategoryCognitive], 3)
	assert.Len(t, summary.ByCategory[models.CategoryLearning], 2)
}

func TestDailySummarySingleArticle(t *testing.T) {
	tracker, clock := newTestTracker(testNoon)
	ctx := context.Background()
	tracker.Track(ctx, models.ArticleRead, nil, "p1")

	summary := NewSummaryService(tracker).DailySummary(ctx, "p1", clock.Now())

	assert.Equal(t, []string{"Read 1 article"}, summary.Highlights)
}

func TestDailySummaryEmpty(t *testing.T) {
	tracker, clock := newTestTracker(testNoon)

	summary := NewSummaryService(tracker).DailySummary(context.Background(), "nobody", clock.Now())

	assert.Equal(t, "2026-10-16", summary.Date)
	assert.Equal(t, "nobody", summary.PatientID)
	assert.Zero(t, summary.TotalActivities)
	assert.NotNil(t, summary.ByCategory)
	assert.NotNil(t, summary.Highlights)
	assert.Empty(t, summary.Highlights)
	assert.Nil(t, summary.LatestMood)
	assert.Equal(t, models.TrendStable, summary.MoodTrend)
	assert.True(t, summary.HasAlert(AlertNoMedication))
	assert.True(t, summary.HasAlert(AlertLowEngagement))
}

func TestForDateFiltersDayAndPatient(t *testing.T) {
	tracker, clock := newTestTracker(testNoon)
	ctx := context.Background()
	tracker.Track(ctx, models.AppOpened, nil, "p1")
	tracker.Track(ctx, models.AppOpened, nil, "p2")
	clock.Advance(24 * time.Hour)
	tracker.Track(ctx, models.AppOpened, nil, "p1")

	svc := NewSummaryService(tracker)

	assert.Len(t, svc.ForDate(ctx, testNoon, "p1"), 1)
	assert.Len(t, svc.ForDate(ctx, testNoon, ""), 2)
	assert.Len(t, svc.Today(ctx, "p1"), 1)
	assert.Empty(t, svc.Today(ctx, "p2"))
}

func TestRecentUsesInstantCutoff(t *testing.T) {
	tracker, clock := newTestTracker(testNoon)
	ctx := context.Background()
	tracker.Track(ctx, models.AppOpened, nil, "p1")
	clock.Advance(2*24*time.Hour + time.Minute)
	tracker.Track(ctx, models.AppOpened, nil, "p1")

	svc := NewSummaryService(tracker)

	assert.Len(t, svc.Recent(ctx, 2, "p1"), 1)
	assert.Len(t, svc.Recent(ctx, 3, "p1"), 2)
	assert.Empty(t, svc.Recent(ctx, 3, "p2"))
}

func TestWeeklySummaryEmpty(t *testing.T) {
	tracker, _ := newTestTracker(testNoon)

	weekly := NewSummaryService(tracker).WeeklySummary(context.Background(), "p1")

	assert.Equal(t, 0, weekly.TotalActivities)
	assert.Equal(t, 0, weekly.AveragePerDay)
	assert.Equal(t, models.Morning, weekly.MostActivePeriod)
	assert.Equal(t, []models.CategoryCount{}, weekly.TopCategories)
	assert.Empty(t, weekly.MoodCheckins)
	assert.Equal(t, "Last 7 days", weekly.Period)
	require.Len(t, weekly.DailyBreakdown, 7)
	assert.Equal(t, "2026-10-10", weekly.DailyBreakdown[0].Date)
	assert.Equal(t, "2026-10-16", weekly.DailyBreakdown[6].Date)
}

func TestWeeklySummaryAggregates(t *testing.T) {
	tracker, clock := newTestTracker(time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()
	tracker.Track(ctx, models.MoodCheckin, models.Metadata{"mood": "okay"}, "p1")
	clock.Advance(6 * time.Hour) // 15:00
	tracker.Track(ctx, models.MedicationTaken, nil, "p1")
	tracker.Track(ctx, models.MedicationTaken, nil, "p1")
	clock.Advance(2*24*time.Hour + 4*time.Hour) // 10-16 19:00
	tracker.Track(ctx, models.MoodCheckin, models.Metadata{"mood": "great"}, "p1")
	tracker.Track(ctx, models.ArticleRead, nil, "p2")

	weekly := NewSummaryService(tracker).WeeklySummary(ctx, "p1")

	assert.Equal(t, 4, weekly.TotalActivities)
	assert.Equal(t, 1, weekly.AveragePerDay)
	assert.Equal(t, models.Afternoon, weekly.MostActivePeriod)
	require.Len(t, weekly.MoodCheckins, 2)
	assert.Equal(t, "great", weekly.MoodCheckins[0].Mood)
	assert.Equal(t, "2026-10-16", weekly.MoodCheckins[0].Date)
	assert.Equal(t, "okay", weekly.MoodCheckins[1].Mood)
	assert.Equal(t, []models.CategoryCount{
		{Category: models.CategoryWellness, Count: 2},
		{Category: models.CategoryCare, Count: 2},
	}, weekly.TopCategories)

	counts := map[string]int{}
	for _, d := range weekly.DailyBreakdown {
		counts[d.Date] = d.Count
	}
	assert.Equal(t, 3, counts["2026-10-14"])
	assert.Equal(t, 1, counts["2026-10-16"])
	assert.Equal(t, 0, counts["2026-10-15"])
}

func TestMostActivePeriodTies(t *testing.T) {
	at := func(hour int) models.ActivityRecord {
		return models.ActivityRecord{Timestamp: time.Date(2026, 10, 16, hour, 0, 0, 0, time.UTC)}
	}

	assert.Equal(t, models.Morning, mostActivePeriod(nil, time.UTC))
	assert.Equal(t, models.Morning, mostActivePeriod([]models.ActivityRecord{at(20), at(9)}, time.UTC))
	assert.Equal(t, models.Afternoon, mostActivePeriod([]models.ActivityRecord{at(20), at(12)}, time.UTC))
	assert.Equal(t, models.Evening, mostActivePeriod([]models.ActivityRecord{at(17), at(23), at(16)}, time.UTC))
}

func TestTopCategoriesLimit(t *testing.T) {
	rec := func(c models.Category) models.ActivityRecord {
		return models.ActivityRecord{TypeInfo: models.TypeInfo{Category: c}}
	}
	activities := []models.ActivityRecord{
		rec(models.CategoryOther),
		rec(models.CategoryCare), rec(models.CategoryCare), rec(models.CategoryCare),
		rec(models.CategoryLearning), rec(models.CategoryLearning),
		rec(models.CategoryEngagement), rec(models.CategoryEngagement),
	}

	assert.Equal(t, []models.CategoryCount{
		{Category: models.CategoryCare, Count: 3},
		{Category: models.CategoryLearning, Count: 2},
		{Category: models.CategoryEngagement, Count: 2},
	}, topCategories(activities, 3))
}

func TestMoodHistory(t *testing.T) {
	tracker, clock := newTestTracker(testNoon)
	ctx := context.Background()
	tracker.Track(ctx, models.MoodCheckin, models.Metadata{"mood": "great", "note": "walk in the park"}, "p1")
	clock.Advance(24 * time.Hour)
	tracker.Track(ctx, models.MoodCheckin, models.Metadata{"mood": "low"}, "p1")
	tracker.Track(ctx, models.AppOpened, nil, "p1")

	history := NewSummaryService(tracker).MoodHistory(ctx, "p1", 7)

	assert.Equal(t, 7, history.Days)
	require.Len(t, history.Checkins, 2)
	assert.Equal(t, "low", history.Checkins[0].Mood)
	assert.Equal(t, "walk in the park", history.Checkins[1].Note)
	assert.Equal(t, models.TrendDeclining, history.Trend)
}
