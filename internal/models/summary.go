package models

import "time"

type MoodTrend string

const (
	TrendImproving MoodTrend = "improving"
	TrendDeclining MoodTrend = "declining"
	TrendStable    MoodTrend = "stable"
)

type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

// Alert levels
const (
	AlertWarning = "warning"
	AlertAlert   = "alert"
	AlertInfo    = "info"
)

type Alert struct {
	Type    string `json:"type" example:"warning"`
	Message string `json:"message" example:"No medication taken today"`
}

type DailySummary struct {
	Date            string                        `json:"date" example:"2026-10-16"`
	PatientID       string                        `json:"patientId" example:"patient_001"`
	TotalActivities int                           `json:"totalActivities" example:"6"`
	ByCategory      map[Category][]ActivityRecord `json:"byCategory"`
	LatestMood      *string                       `json:"latestMood" example:"good"`
	MoodTrend       MoodTrend                     `json:"moodTrend" example:"stable"`
	EngagementScore int                           `json:"engagementScore" example:"60"`
	Alerts          []Alert                       `json:"alerts"`
	Highlights      []string                      `json:"highlights"`
	GeneratedAt     time.Time                     `json:"generatedAt"`
}

// HasAlert reports whether an alert with message is present.
func (s DailySummary) HasAlert(message string) bool {
	for _, a := range s.Alerts {
		if a.Message == message {
			return true
		}
	}
	return false
}

type DayCount struct {
	Date  string `json:"date" example:"2026-10-16"`
	Count int    `json:"count" example:"6"`
}

type MoodEntry struct {
	Date      string    `json:"date" example:"2026-10-16"`
	Mood      string    `json:"mood" example:"good"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type CategoryCount struct {
	Category Category `json:"category" example:"care"`
	Count    int      `json:"count" example:"13"`
}

type WeeklySummary struct {
	PatientID        string          `json:"patientId" example:"patient_001"`
	Period           string          `json:"period" example:"Last 7 days"`
	TotalActivities  int             `json:"totalActivities" example:"41"`
	AveragePerDay    int             `json:"averagePerDay" example:"6"`
	DailyBreakdown   []DayCount      `json:"dailyBreakdown"`
	MoodCheckins     []MoodEntry     `json:"moodCheckins"`
	MostActivePeriod TimeOfDay       `json:"mostActivePeriod" example:"morning"`
	TopCategories    []CategoryCount `json:"topCategories"`
	GeneratedAt      time.Time       `json:"generatedAt"`
}

type MoodHistory struct {
	PatientID string      `json:"patientId" example:"patient_001"`
	Days      int         `json:"days" example:"7"`
	Checkins  []MoodEntry `json:"checkins"`
	Trend     MoodTrend   `json:"trend" example:"improving"`
}

// Engagement levels of the caregiver report
const (
	EngagementNone     = "none"
	EngagementModerate = "moderate"
	EngagementActive   = "active"
)

// DailyReport is the caregiver-facing narrative of one day. Text is the
// markdown rendering of the other fields.
type DailyReport struct {
	Date              string    `json:"date" example:"2026-10-16"`
	PatientID         string    `json:"patientId" example:"patient_001"`
	EngagementLevel   string    `json:"engagementLevel" example:"active"`
	TotalInteractions int       `json:"totalInteractions" example:"7"`
	CurrentMood       *string   `json:"currentMood" example:"good"`
	MoodEmoji         string    `json:"moodEmoji,omitempty" example:"🙂"`
	Highlights        []string  `json:"highlights"`
	Recommendations   []string  `json:"recommendations"`
	Text              string    `json:"text"`
	GeneratedAt       time.Time `json:"generatedAt"`
}
