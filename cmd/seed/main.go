package main

import (
	"carecompanion/database"
	"carecompanion/internal/config"
	"carecompanion/internal/services"
	"carecompanion/internal/utils"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadEnv(".env", "../../.env")

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedPatient := seedCmd.String("patient", "", "Patient ID for the demo history (default: DEMO_PATIENT_ID)")

	statsCmd := flag.NewFlagSet("stats", flag.ExitOnError)
	statsPatient := statsCmd.String("patient", "", "Only count this patient's activities")

	reportCmd := flag.NewFlagSet("report", flag.ExitOnError)

	clearCmd := flag.NewFlagSet("clear", flag.ExitOnError)
	clearYes := clearCmd.Bool("yes", false, "Confirm removing every activity for every patient")

	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	config.SetupLogging(cfg)

	mustOpenTracker := func() (*services.ActivityTracker, func()) {
		tracker, closeStore, err := openTracker(cfg)
		if err != nil {
			log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to open activity store")
		}
		return tracker, closeStore
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "seed":
		seedCmd.Parse(os.Args[2:])
		patientID := *seedPatient
		if patientID == "" {
			patientID = cfg.DemoPatientID
		}

		tracker, closeStore := mustOpenTracker()
		defer closeStore()

		count, err := utils.SeedDemoActivities(ctx, tracker, patientID)
		if err != nil {
			log.Fatal().Err(err).Msg("Error seeding demo activities")
		}
		log.Info().Int("count", count).Str("patient_id", patientID).Msg("Demo activities seeded")

	case "clear":
		clearCmd.Parse(os.Args[2:])
		if !*clearYes {
			log.Fatal().Msg("Refusing to clear the activity log without --yes")
		}

		tracker, closeStore := mustOpenTracker()
		defer closeStore()

		if err := tracker.Clear(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error clearing activities")
		}
		log.Info().Msg("Activity log cleared")

	case "stats":
		statsCmd.Parse(os.Args[2:])

		tracker, closeStore := mustOpenTracker()
		defer closeStore()

		perPatient := map[string]int{}
		total := 0
		for _, a := range tracker.All(ctx) {
			if *statsPatient != "" && a.PatientID != *statsPatient {
				continue
			}
			perPatient[a.PatientID]++
			total++
		}
		fmt.Printf("Backend: %s\n", cfg.StoreBackend)
		for patientID, n := range perPatient {
			fmt.Printf("   %s: %d activities\n", patientID, n)
		}
		fmt.Printf("   total: %d activities\n", total)

	case "report":
		reportCmd.Parse(os.Args[2:])

		tracker, closeStore := mustOpenTracker()
		defer closeStore()

		scheduler, err := services.NewReportScheduler(services.NewSummaryService(tracker), cfg.ReportSchedule)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create report scheduler")
		}
		reports := scheduler.RunOnce(ctx)
		for _, r := range reports {
			fmt.Println(r.Report.Text)
		}
		fmt.Printf("Generated %d daily report(s)\n", len(reports))

	case "help":
		printHelp()

	default:
		fmt.Printf("Unknown subcommand: %s\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

var errEphemeralBackend = errors.New("the memory backend does not outlive this command; set STORE_BACKEND=postgres or redis, or use POST /demo/seed on a running server")

// openTracker connects the configured persistent backend.
func openTracker(cfg *config.Config) (*services.ActivityTracker, func(), error) {
	if cfg.StoreBackend == config.BackendMemory {
		return nil, nil, errEphemeralBackend
	}
	store, err := database.OpenActivityStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return services.NewActivityTracker(store.Repository, services.TrackerConfig{
		RetentionCap:   cfg.RetentionCap,
		QuotaRetention: cfg.QuotaRetention,
		Location:       cfg.Location,
	}), store.Close, nil
}

func printHelp() {
	fmt.Println("Activity log utility for CareCompanion")
	fmt.Println("\nUsage:")
	fmt.Println("  activity-tool COMMAND [OPTIONS]")
	fmt.Println("\nCommands:")
	fmt.Println("  seed         Replace the activity log with a week of demo history")
	fmt.Println("               Options:")
	fmt.Println("                 --patient=ID    Patient to seed (default: DEMO_PATIENT_ID)")
	fmt.Println("")
	fmt.Println("  clear        Remove every activity for every patient")
	fmt.Println("               Options:")
	fmt.Println("                 --yes           Required confirmation")
	fmt.Println("")
	fmt.Println("  stats        Show activity counts per patient")
	fmt.Println("               Options:")
	fmt.Println("                 --patient=ID    Only count one patient")
	fmt.Println("")
	fmt.Println("  report       Generate today's caregiver report for every patient once")
	fmt.Println("")
	fmt.Println("  help         Show this help message")
	fmt.Println("")
	fmt.Println("Environment variables:")
	fmt.Println("  STORE_BACKEND            postgres or redis; every command refuses the")
	fmt.Println("                           in-process memory backend (the default), whose")
	fmt.Println("                           data would vanish when the command exits")
	fmt.Println("  DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_SSLMODE")
	fmt.Println("  REDIS_URL                Redis connection URL")
	fmt.Println("  ACTIVITY_TIMEZONE        Timezone for calendar days (default: Local)")
}
