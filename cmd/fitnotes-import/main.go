package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ReedRawlings/fitnotes-sub003/internal/config"
	"github.com/ReedRawlings/fitnotes-sub003/internal/importer"
	"github.com/ReedRawlings/fitnotes-sub003/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	backupPath := flag.String("backup", "", "path to a FitNotes SQLite backup (required)")
	sourceUnit := flag.String("unit", "kg", "unit weights were exported in (kg or lb)")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *backupPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: fitnotes-import -config config.yaml -backup /path/to/backup.fitnotes [-unit lb] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *sourceUnit != "kg" && *sourceUnit != "lb" {
		log.Error("unit must be kg or lb", "unit", *sourceUnit)
		os.Exit(1)
	}

	if info, err := os.Stat(*backupPath); err != nil || info.IsDir() {
		log.Error("backup path does not exist or is a directory", "path", *backupPath)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode, no data will be written to the database")
	}

	// Connect database
	db, err := storage.New(ctx, dsn, cfg.Tracking.Timezone)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	loc, err := cfg.Tracking.Location()
	if err != nil {
		log.Error("invalid tracking timezone", "error", err)
		os.Exit(1)
	}

	// Run import
	imp := importer.New(db, loc, log, *dryRun)
	stats, err := imp.Import(ctx, *backupPath, *sourceUnit)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"rows_read", stats.RowsRead,
		"rows_skipped", stats.RowsSkipped,
		"exercises", stats.Exercises,
		"sets_inserted", stats.SetsInserted,
		"sets_duplicated", stats.SetsDuplicated,
	)
}
