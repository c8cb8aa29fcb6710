package utils

import (
	"carecompanion/internal/models"
	"carecompanion/internal/services"
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultDemoPatientID = "patient_001"
	demoDays             = 7
	demoIDPrefix         = "demo_"
)

// demoMoods is indexed by days ago.
var demoMoods = [demoDays]string{"great", "good", "okay", "good", "great", "okay", "good"}

type demoEntry struct {
	hour, minute int
	activity     models.ActivityType
	metadata     models.Metadata
}

// demoDay lists the activities generated daysAgo days before today. Day 3
// has no brain exercise and day 1 misses the evening dose.
func demoDay(daysAgo int) []demoEntry {
	entries := []demoEntry{
		{8, 30, models.AppOpened, models.Metadata{"page": "home"}},
		{8, 35, models.MoodCheckin, models.Metadata{"mood": demoMoods[daysAgo], "time": "08:35"}},
		{9, 0, models.MedicationTaken, models.Metadata{"medication": "Morning medication"}},
	}
	if daysAgo != 3 {
		entries = append(entries, demoEntry{10, 15, models.CognitiveExercise, models.Metadata{"exercise": "Word Association", "duration": "5 min"}})
	}
	if daysAgo%2 == 0 {
		entries = append(entries, demoEntry{14, 30, models.VoiceSession, models.Metadata{"duration": "8 min", "topic": "Grounding conversation"}})
	}
	if daysAgo < 4 {
		entries = append(entries, demoEntry{15, 45, models.ArticleRead, models.Metadata{"article": "Daily Wellness Tips"}})
	}
	if daysAgo != 1 {
		entries = append(entries, demoEntry{20, 0, models.MedicationTaken, models.Metadata{"medication": "Evening medication"}})
	}
	return entries
}

// BuildDemoActivities generates a week of synthetic history ending on the
// day of now, most recent first.
func BuildDemoActivities(tracker *services.ActivityTracker, patientID string, now time.Time) []models.ActivityRecord {
	if patientID == "" {
		patientID = DefaultDemoPatientID
	}
	loc := tracker.Location()
	now = now.In(loc)

	var records []models.ActivityRecord
	for daysAgo := demoDays - 1; daysAgo >= 0; daysAgo-- {
		day := now.AddDate(0, 0, -daysAgo)
		for _, e := range demoDay(daysAgo) {
			at := time.Date(day.Year(), day.Month(), day.Day(), e.hour, e.minute, 0, 0, loc)
			records = append(records, tracker.NewRecord(e.activity, e.metadata, patientID, at, demoIDPrefix))
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records
}

// SeedDemoActivities replaces the whole activity log with demo history for
// patientID and returns the number of records written.
func SeedDemoActivities(ctx context.Context, tracker *services.ActivityTracker, patientID string) (int, error) {
	records := BuildDemoActivities(tracker, patientID, tracker.Now())
	if err := tracker.Replace(ctx, records); err != nil {
		return 0, err
	}
	log.Info().
		Str("patient_id", records[0].PatientID).
		Int("records", len(records)).
		Msg("Seeded demo activities")
	return len(records), nil
}
