package models

import (
	"encoding/json"
	"sort"
	"time"
)

type ActivityType string

const (
	MoodCheckin         ActivityType = "MOOD_CHECKIN"
	DailyCheckin        ActivityType = "DAILY_CHECKIN"
	CognitiveExercise   ActivityType = "COGNITIVE_EXERCISE"
	MemoryGame          ActivityType = "MEMORY_GAME"
	PuzzleCompleted     ActivityType = "PUZZLE_COMPLETED"
	VoiceSession        ActivityType = "VOICE_SESSION"
	ChatMessage         ActivityType = "CHAT_MESSAGE"
	FamilyCall          ActivityType = "FAMILY_CALL"
	MedicationTaken     ActivityType = "MEDICATION_TAKEN"
	MedicationMissed    ActivityType = "MEDICATION_MISSED"
	AppointmentReminder ActivityType = "APPOINTMENT_REMINDER"
	ArticleRead         ActivityType = "ARTICLE_READ"
	VideoWatched        ActivityType = "VIDEO_WATCHED"
	AppOpened           ActivityType = "APP_OPENED"
	PageVisited         ActivityType = "PAGE_VISITED"
)

type Category string

const (
	CategoryWellness      Category = "wellness"
	CategoryCognitive     Category = "cognitive"
	CategoryCommunication Category = "communication"
	CategoryCare          Category = "care"
	CategoryLearning      Category = "learning"
	CategoryEngagement    Category = "engagement"
	CategoryOther         Category = "other"
)

// DefaultPatientID is used when a caller does not identify the patient.
const DefaultPatientID = "default"

const unknownTypeIcon = "📌"

type TypeInfo struct {
	Category Category `json:"category" example:"wellness"`
	Label    string   `json:"label" example:"Mood Check-in"`
	Icon     string   `json:"icon" example:"😊"`
}

var activityTypes = map[ActivityType]TypeInfo{
	MoodCheckin:         {Category: CategoryWellness, Label: "Mood Check-in", Icon: "😊"},
	DailyCheckin:        {Category: CategoryWellness, Label: "Daily Check-in", Icon: "✅"},
	CognitiveExercise:   {Category: CategoryCognitive, Label: "Brain Exercise", Icon: "🧠"},
	MemoryGame:          {Category: CategoryCognitive, Label: "Memory Game", Icon: "🎮"},
	PuzzleCompleted:     {Category: CategoryCognitive, Label: "Puzzle Completed", Icon: "🧩"},
	VoiceSession:        {Category: CategoryCommunication, Label: "Voice Conversation", Icon: "🎤"},
	ChatMessage:         {Category: CategoryCommunication, Label: "Chat Message", Icon: "💬"},
	FamilyCall:          {Category: CategoryCommunication, Label: "Family Call", Icon: "📞"},
	MedicationTaken:     {Category: CategoryCare, Label: "Medication Taken", Icon: "💊"},
	MedicationMissed:    {Category: CategoryCare, Label: "Medication Missed", Icon: "⚠️"},
	AppointmentReminder: {Category: CategoryCare, Label: "Appointment Reminder", Icon: "📅"},
	ArticleRead:         {Category: CategoryLearning, Label: "Article Read", Icon: "📖"},
	VideoWatched:        {Category: CategoryLearning, Label: "Video Watched", Icon: "🎬"},
	AppOpened:           {Category: CategoryEngagement, Label: "App Opened", Icon: "📱"},
	PageVisited:         {Category: CategoryEngagement, Label: "Page Visited", Icon: "👀"},
}

// LookupTypeInfo resolves the descriptor for t. Unknown types fall back to
// the "other" category labelled with the raw type, so new tags never block
// ingestion.
func LookupTypeInfo(t ActivityType) TypeInfo {
	if info, ok := activityTypes[t]; ok {
		return info
	}
	return TypeInfo{Category: CategoryOther, Label: string(t), Icon: unknownTypeIcon}
}

// IsKnown reports whether t is part of the built-in type table.
func (t ActivityType) IsKnown() bool {
	_, ok := activityTypes[t]
	return ok
}

// ActivityTypeEntry is one row of the type table as exposed over the API.
type ActivityTypeEntry struct {
	Type ActivityType `json:"type"`
	TypeInfo
}

// ActivityTypes returns the built-in type table sorted by type name.
func ActivityTypes() []ActivityTypeEntry {
	entries := make([]ActivityTypeEntry, 0, len(activityTypes))
	for t, info := range activityTypes {
		entries = append(entries, ActivityTypeEntry{Type: t, TypeInfo: info})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Type < entries[j].Type })
	return entries
}

// ActivityRecord is one logged event. Records are never mutated after creation.
type ActivityRecord struct {
	ID        string       `json:"id" example:"1760600000000_3f1c2a9e"`
	Type      ActivityType `json:"type" example:"MOOD_CHECKIN"`
	TypeInfo  TypeInfo     `json:"typeInfo"`
	Metadata  Metadata     `json:"metadata"`
	PatientID string       `json:"patientId" example:"patient_001"`
	Timestamp time.Time    `json:"timestamp" example:"2026-10-16T08:35:00Z"`
	Date      string       `json:"date" example:"2026-10-16"`
}

// DateKey is the calendar-day bucket used for same-day grouping.
func DateKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateLayout)
}

// DateLayout is the layout of ActivityRecord.Date.
const DateLayout = "2006-01-02"

// Metadata holds coarse behavioural tags for an activity. Values are scalars only.
type Metadata map[string]interface{}

// String returns the value under key when it is a string.
func (m Metadata) String(key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// Sanitize returns a copy of m without non-scalar values.
func (m Metadata) Sanitize() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		if IsScalar(v) {
			out[k] = v
		}
	}
	return out
}

// IsScalar reports whether v may be stored in Metadata.
func IsScalar(v interface{}) bool {
	switch v.(type) {
	case nil, string, bool, json.Number,
		float32, float64,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}
