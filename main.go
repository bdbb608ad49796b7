package main

import (
	"context"
	"os"

	"classhawk-scraper/config"
	"classhawk-scraper/models"
	"classhawk-scraper/push"
	"classhawk-scraper/scraper/configs"
	"classhawk-scraper/services"
	"classhawk-scraper/storage"
	"classhawk-scraper/utils"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var targetGym string

func main() {
	rootCmd := &cobra.Command{
		Use:   "classhawk",
		Short: "ClassHawk schedule scraper and waitlist sniper",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), targetGym)
		},
		SilenceUsage: true,
	}
	rootCmd.Flags().StringVar(&targetGym, "gym", services.RunAll, "Run a single named adapter instead of all of them")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, target string) error {
	// ================== Bootstrap ====================
	_ = godotenv.Load() // .env is optional

	cfg := config.Load(config.NewViper())

	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	logger.Infow("Initializing ClassHawk scraper",
		"run_id", uuid.NewString(),
		"target", target,
		"retries", cfg.RetryAttempts,
		"backoff", cfg.RetryBackoff,
		"adapter_timeout", cfg.AdapterTimeout,
	)

	// =================== PostgreSQL setup ====================
	store, err := storage.NewPostgresStore(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Errorf("Cannot connect to PostgreSQL: %v", err)
		return err
	}
	defer store.Close()

	if err := store.CreateTables(); err != nil {
		logger.Errorf("Failed to create DB tables: %v", err)
		return err
	}

	// =================== Scraping ====================
	engine := services.NewEngine(cfg, logger, configs.Registry(cfg, logger))
	rawClasses, err := engine.Run(ctx, target)
	if err != nil {
		// Only the shared browser failing gets here; adapters degrade inside.
		logger.Errorf("Engine failed: %v", err)
		return err
	}

	if len(rawClasses) == 0 {
		logger.Warn("No classes scraped — nothing to persist this run")
		return nil
	}

	// ========= CSV: snapshot raw batch (non-fatal) ===========
	csvWriter := storage.NewCSVWriter(cfg.CSVFilePath, logger)
	if err := csvWriter.WriteRawClasses(rawClasses); err != nil {
		logger.Errorf("Failed to write raw CSV snapshot: %v", err)
	}

	// =========== Normalize + dedupe ====================
	normalizer := services.NewNormalizer(services.DefaultTables(), logger)
	classes := services.Dedupe(normalizer.Normalize(rawClasses))

	// ========= Persist (batch failure never crashes the run) ============
	if err := store.UpsertClasses(ctx, classes); err != nil {
		logger.Errorf("Batch persistence failed: %v", err)
		if len(classes) > 0 {
			logger.Errorf("Failed payload sample: %+v", *classes[0])
		}
	}

	// ========= Waitlist sniper (best-effort) ============
	sender := push.NewExpoClient(cfg.ExpoPushURL, logger)
	notifier := services.NewNotifier(store, store, sender, logger)
	notifier.CheckAndNotify(ctx, openOnly(classes))

	// ==== Batch report ============================
	summary := services.NewInsightService(logger).Generate(len(rawClasses), classes)
	services.PrintBatchReport(summary)

	logger.Info("Run complete")
	return nil
}

func openOnly(classes []*models.Class) []*models.Class {
	var open []*models.Class
	for _, c := range classes {
		if c.Status == models.StatusOpen {
			open = append(open, c)
		}
	}
	return open
}
