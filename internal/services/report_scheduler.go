package services

import (
	"carecompanion/internal/models"
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const DefaultReportSchedule = "0 21 * * *"

// ReportScheduler produces the nightly caregiver report: one daily summary
// per patient seen in today's log.
type ReportScheduler struct {
	cron     *cron.Cron
	summary  *SummaryService
	schedule string
	timeout  time.Duration
}

func NewReportScheduler(summary *SummaryService, schedule string) (*ReportScheduler, error) {
	if schedule == "" {
		schedule = DefaultReportSchedule
	}
	s := &ReportScheduler{
		cron:     cron.New(cron.WithLocation(summary.tracker.Location())),
		summary:  summary,
		schedule: schedule,
		timeout:  30 * time.Second,
	}

	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid report schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *ReportScheduler) Start() {
	log.Info().Str("schedule", s.schedule).Msg("Report scheduler started")
	s.cron.Start()
}

func (s *ReportScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Report scheduler stopped")
}

// PatientReport pairs the numeric summary of one patient's day with the
// caregiver narrative.
type PatientReport struct {
	Summary models.DailySummary
	Report  models.DailyReport
}

// RunOnce builds and logs today's report for every patient in the log.
func (s *ReportScheduler) RunOnce(ctx context.Context) []PatientReport {
	today := s.summary.tracker.Now()

	var patients []string
	seen := make(map[string]bool)
	for _, a := range s.summary.Today(ctx, "") {
		if !seen[a.PatientID] {
			seen[a.PatientID] = true
			patients = append(patients, a.PatientID)
		}
	}

	reports := make([]PatientReport, 0, len(patients))
	for _, patientID := range patients {
		daily := s.summary.DailySummary(ctx, patientID, today)
		narrative := s.summary.DailyReport(ctx, patientID, today)
		reports = append(reports, PatientReport{Summary: daily, Report: narrative})

		event := log.Info()
		if len(daily.Alerts) > 0 {
			event = log.Warn()
		}
		event.Str("patient_id", patientID).
			Str("date", daily.Date).
			Int("total_activities", daily.TotalActivities).
			Int("engagement_score", daily.EngagementScore).
			Str("engagement_level", narrative.EngagementLevel).
			Str("mood_trend", string(daily.MoodTrend)).
			Interface("alerts", daily.Alerts).
			Strs("recommendations", narrative.Recommendations).
			Str("report", narrative.Text).
			Msg("Daily caregiver report")
	}

	log.Info().Int("patients", len(reports)).Msg("Daily caregiver reports generated")
	return reports
}
