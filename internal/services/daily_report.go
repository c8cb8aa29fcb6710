package services

import (
	"carecompanion/internal/models"
	"context"
	"fmt"
	"strings"
	"time"
)

const activeEngagementCutoff = 5

// Recommendation texts of the caregiver report
const (
	RecommendMoodCheckin  = "No mood check-in today - consider asking how they're feeling"
	RecommendVoiceSession = "Encourage a voice session for social engagement"
	RecommendBrainGame    = "Suggest a brain game or puzzle"
)

var moodEmoji = map[string]string{
	"great":      "😊",
	"good":       "🙂",
	"okay":       "😐",
	"low":        "😔",
	"struggling": "😢",
}

const unknownMoodEmoji = "❓"

// DailyReport renders the caregiver report for the calendar day of date.
func (s *SummaryService) DailyReport(ctx context.Context, patientID string, date time.Time) models.DailyReport {
	activities := s.ForDate(ctx, date, patientID)
	dateKey := models.DateKey(date, s.tracker.Location())

	report := models.DailyReport{
		Date:              dateKey,
		PatientID:         patientID,
		EngagementLevel:   models.EngagementNone,
		TotalInteractions: len(activities),
		Highlights:        []string{},
		Recommendations:   []string{},
		GeneratedAt:       s.tracker.Now(),
	}

	if len(activities) > 0 {
		report.EngagementLevel = models.EngagementModerate
		if len(activities) >= activeEngagementCutoff {
			report.EngagementLevel = models.EngagementActive
		}

		for _, a := range activities {
			if a.Type != models.MoodCheckin {
				continue
			}
			if mood := a.Metadata.String("mood"); mood != "" {
				report.CurrentMood = &mood
				report.MoodEmoji = unknownMoodEmoji
				if e, ok := moodEmoji[mood]; ok {
					report.MoodEmoji = e
				}
			}
			break
		}

		voice := countWhere(activities, isType(models.VoiceSession))
		cognitive := countWhere(activities, func(r models.ActivityRecord) bool {
			return r.TypeInfo.Category == models.CategoryCognitive
		})
		if voice > 0 {
			report.Highlights = append(report.Highlights, fmt.Sprintf("Had %d %s", voice, plural(voice, "voice conversation", "voice conversations")))
		}
		if cognitive > 0 {
			report.Highlights = append(report.Highlights, fmt.Sprintf("Completed %d %s", cognitive, plural(cognitive, "brain exercise", "brain exercises")))
		}
		if countWhere(activities, isType(models.MedicationTaken)) > 0 {
			report.Highlights = append(report.Highlights, "Medication taken ✓")
		}

		if report.CurrentMood == nil {
			report.Recommendations = append(report.Recommendations, RecommendMoodCheckin)
		}
		if voice == 0 {
			report.Recommendations = append(report.Recommendations, RecommendVoiceSession)
		}
		if cognitive == 0 {
			report.Recommendations = append(report.Recommendations, RecommendBrainGame)
		}
	}

	report.Text = renderReport(report, dateKey == models.DateKey(s.tracker.Now(), s.tracker.Location()))
	return report
}

func renderReport(r models.DailyReport, today bool) string {
	name := r.PatientID
	if name == "" {
		name = "the patient"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 **Daily Report for %s** (%s)\n\n", name, r.Date)

	if r.TotalInteractions == 0 {
		if today {
			b.WriteString("No activities recorded yet today. ")
		} else {
			fmt.Fprintf(&b, "No activities recorded on %s. ", r.Date)
		}
		fmt.Fprintf(&b, "Consider checking in with %s.\n", name)
		return b.String()
	}

	level := "Moderate"
	if r.EngagementLevel == models.EngagementActive {
		level = "Active"
	}
	fmt.Fprintf(&b, "**Engagement Level:** %s\n", level)
	fmt.Fprintf(&b, "**Total Interactions:** %d\n\n", r.TotalInteractions)

	if r.CurrentMood != nil {
		fmt.Fprintf(&b, "**Current Mood:** %s %s\n\n", r.MoodEmoji, *r.CurrentMood)
	}

	if len(r.Highlights) > 0 {
		b.WriteString("**Today's Highlights:**\n")
		for _, h := range r.Highlights {
			fmt.Fprintf(&b, "• %s\n", h)
		}
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\n**Recommendations:**\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "• %s\n", rec)
		}
	}
	return b.String()
}
