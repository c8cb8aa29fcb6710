package services

import (
	"carecompanion/internal/models"
	"context"
	"fmt"
	"math"
	"sort"
	"time"
)

const (
	weeklyWindowDays = 7
	weeklyPeriod     = "Last 7 days"
	neutralMood      = 3
)

// Alert messages
const (
	AlertNoMedication   = "No medication taken today"
	AlertMissedDose     = "Medication was missed"
	AlertLowEngagement  = "Low engagement today"
	lowEngagementCutoff = 20
)

var moodScale = map[string]int{
	"great":      5,
	"good":       4,
	"okay":       3,
	"low":        2,
	"struggling": 1,
}

var brainExerciseTypes = map[models.ActivityType]bool{
	models.CognitiveExercise: true,
	models.MemoryGame:        true,
	models.PuzzleCompleted:   true,
}

// SummaryService derives read-only reports from the activity log.
type SummaryService struct {
	tracker *ActivityTracker
}

func NewSummaryService(tracker *ActivityTracker) *SummaryService {
	return &SummaryService{tracker: tracker}
}

// ForDate returns the records logged on the calendar day of date. An empty
// patientID matches every patient.
func (s *SummaryService) ForDate(ctx context.Context, date time.Time, patientID string) []models.ActivityRecord {
	key := models.DateKey(date, s.tracker.Location())
	return filterRecords(s.tracker.All(ctx), func(r models.ActivityRecord) bool {
		return r.Date == key && matchesPatient(r, patientID)
	})
}

func (s *SummaryService) Today(ctx context.Context, patientID string) []models.ActivityRecord {
	return s.ForDate(ctx, s.tracker.Now(), patientID)
}

// Recent returns the records whose timestamp falls within the last days × 24h.
func (s *SummaryService) Recent(ctx context.Context, days int, patientID string) []models.ActivityRecord {
	cutoff := s.tracker.Now().Add(-time.Duration(days) * 24 * time.Hour)
	return filterRecords(s.tracker.All(ctx), func(r models.ActivityRecord) bool {
		return !r.Timestamp.Before(cutoff) && matchesPatient(r, patientID)
	})
}

func (s *SummaryService) DailySummary(ctx context.Context, patientID string, date time.Time) models.DailySummary {
	activities := s.ForDate(ctx, date, patientID)

	byCategory := make(map[models.Category][]models.ActivityRecord)
	for _, a := range activities {
		byCategory[a.TypeInfo.Category] = append(byCategory[a.TypeInfo.Category], a)
	}

	checkins := filterRecords(activities, isType(models.MoodCheckin))
	var latestMood *string
	if len(checkins) > 0 {
		if mood := checkins[0].Metadata.String("mood"); mood != "" {
			latestMood = &mood
		}
	}
	trend := models.TrendStable
	if len(checkins) > 1 {
		trend = moodTrend(checkins[0].Metadata.String("mood"), checkins[1].Metadata.String("mood"))
	}

	engagement := min(100, len(activities)*10)

	return models.DailySummary{
		Date:            models.DateKey(date, s.tracker.Location()),
		PatientID:       patientID,
		TotalActivities: len(activities),
		ByCategory:      byCategory,
		LatestMood:      latestMood,
		MoodTrend:       trend,
		EngagementScore: engagement,
		Alerts:          dailyAlerts(activities, engagement),
		Highlights:      highlights(activities),
		GeneratedAt:     s.tracker.Now(),
	}
}

func dailyAlerts(activities []models.ActivityRecord, engagement int) []models.Alert {
	alerts := []models.Alert{}
	if countWhere(activities, isType(models.MedicationTaken)) == 0 {
		alerts = append(alerts, models.Alert{Type: models.AlertWarning, Message: AlertNoMedication})
	}
	if countWhere(activities, isType(models.MedicationMissed)) > 0 {
		alerts = append(alerts, models.Alert{Type: models.AlertAlert, Message: AlertMissedDose})
	}
	if engagement < lowEngagementCutoff {
		alerts = append(alerts, models.Alert{Type: models.AlertInfo, Message: AlertLowEngagement})
	}
	return alerts
}

func highlights(activities []models.ActivityRecord) []string {
	out := []string{}

	if n := countWhere(activities, isType(models.VoiceSession)); n > 0 {
		out = append(out, fmt.Sprintf("Had %d %s", n, plural(n, "voice conversation", "voice conversations")))
	}
	if n := countWhere(activities, func(r models.ActivityRecord) bool { return brainExerciseTypes[r.Type] }); n > 0 {
		out = append(out, fmt.Sprintf("Completed %d %s", n, plural(n, "brain exercise", "brain exercises")))
	}
	if n := countWhere(activities, isType(models.MedicationTaken)); n > 0 {
		out = append(out, fmt.Sprintf("Took medication %d %s", n, plural(n, "time", "times")))
	}
	if n := countWhere(activities, isType(models.ArticleRead)); n > 0 {
		out = append(out, fmt.Sprintf("Read %d %s", n, plural(n, "article", "articles")))
	}
	return out
}

func (s *SummaryService) WeeklySummary(ctx context.Context, patientID string) models.WeeklySummary {
	activities := s.Recent(ctx, weeklyWindowDays, patientID)
	now := s.tracker.Now()
	loc := s.tracker.Location()

	perDay := make(map[string]int)
	for _, a := range activities {
		perDay[a.Date]++
	}
	breakdown := make([]models.DayCount, 0, weeklyWindowDays)
	for i := weeklyWindowDays - 1; i >= 0; i-- {
		key := models.DateKey(now.AddDate(0, 0, -i), loc)
		breakdown = append(breakdown, models.DayCount{Date: key, Count: perDay[key]})
	}

	return models.WeeklySummary{
		PatientID:        patientID,
		Period:           weeklyPeriod,
		TotalActivities:  len(activities),
		AveragePerDay:    int(math.Round(float64(len(activities)) / weeklyWindowDays)),
		DailyBreakdown:   breakdown,
		MoodCheckins:     moodCheckins(activities),
		MostActivePeriod: mostActivePeriod(activities, loc),
		TopCategories:    topCategories(activities, 3),
		GeneratedAt:      now,
	}
}

// MoodHistory lists the mood check-ins of the last days and the trend
// between the two most recent ones.
func (s *SummaryService) MoodHistory(ctx context.Context, patientID string, days int) models.MoodHistory {
	checkins := moodCheckins(s.Recent(ctx, days, patientID))
	trend := models.TrendStable
	if len(checkins) > 1 {
		trend = moodTrend(checkins[0].Mood, checkins[1].Mood)
	}
	return models.MoodHistory{
		PatientID: patientID,
		Days:      days,
		Checkins:  checkins,
		Trend:     trend,
	}
}

func moodCheckins(activities []models.ActivityRecord) []models.MoodEntry {
	out := []models.MoodEntry{}
	for _, a := range activities {
		if a.Type != models.MoodCheckin {
			continue
		}
		out = append(out, models.MoodEntry{
			Date:      a.Date,
			Mood:      a.Metadata.String("mood"),
			Note:      a.Metadata.String("note"),
			Timestamp: a.Timestamp,
		})
	}
	return out
}

func moodValue(mood string) int {
	if v, ok := moodScale[mood]; ok {
		return v
	}
	return neutralMood
}

func moodTrend(latest, previous string) models.MoodTrend {
	recent, before := moodValue(latest), moodValue(previous)
	switch {
	case recent > before:
		return models.TrendImproving
	case recent < before:
		return models.TrendDeclining
	}
	return models.TrendStable
}

func timeOfDay(t time.Time, loc *time.Location) models.TimeOfDay {
	hour := t.In(loc).Hour()
	switch {
	case hour < 12:
		return models.Morning
	case hour < 17:
		return models.Afternoon
	}
	return models.Evening
}

// mostActivePeriod breaks ties in favour of the earlier part of the day.
func mostActivePeriod(activities []models.ActivityRecord, loc *time.Location) models.TimeOfDay {
	counts := make(map[models.TimeOfDay]int)
	for _, a := range activities {
		counts[timeOfDay(a.Timestamp, loc)]++
	}

	best := models.Morning
	for _, p := range []models.TimeOfDay{models.Morning, models.Afternoon, models.Evening} {
		if counts[p] > counts[best] {
			best = p
		}
	}
	return best
}

// topCategories orders by count, keeping first-seen order on ties.
func topCategories(activities []models.ActivityRecord, limit int) []models.CategoryCount {
	counts := []models.CategoryCount{}
	index := make(map[models.Category]int)
	for _, a := range activities {
		cat := a.TypeInfo.Category
		i, ok := index[cat]
		if !ok {
			i = len(counts)
			index[cat] = i
			counts = append(counts, models.CategoryCount{Category: cat})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

func filterRecords(records []models.ActivityRecord, keep func(models.ActivityRecord) bool) []models.ActivityRecord {
	out := []models.ActivityRecord{}
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func countWhere(records []models.ActivityRecord, match func(models.ActivityRecord) bool) int {
	n := 0
	for _, r := range records {
		if match(r) {
			n++
		}
	}
	return n
}

func isType(t models.ActivityType) func(models.ActivityRecord) bool {
	return func(r models.ActivityRecord) bool { return r.Type == t }
}

func matchesPatient(r models.ActivityRecord, patientID string) bool {
	return patientID == "" || r.PatientID == patientID
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
