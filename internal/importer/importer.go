package importer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ReedRawlings/fitnotes-sub003/internal/models"
	"github.com/ReedRawlings/fitnotes-sub003/internal/storage"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

const lbPerKg = 2.20462262185

// setNamespace seeds deterministic set IDs so re-running an import against
// the same backup is a no-op (ON CONFLICT DO NOTHING on the primary key).
var setNamespace = uuid.MustParse("9f2c4f6e-1b7a-4bb1-8f3d-6a0e5c9d2b11")

// Stats tracks import progress.
type Stats struct {
	RowsRead       int
	RowsSkipped    int
	Exercises      int
	SetsInserted   int64
	SetsDuplicated int64
}

// Importer reads a FitNotes SQLite backup and inserts its training log into
// the database.
type Importer struct {
	db     *storage.DB
	loc    *time.Location
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer. loc is the calendar timezone sessions are
// bucketed in.
func New(db *storage.DB, loc *time.Location, log *slog.Logger, dryRun bool) *Importer {
	if loc == nil {
		loc = time.UTC
	}
	return &Importer{db: db, loc: loc, log: log, dryRun: dryRun}
}

// backupRow is one training_log row joined with its exercise name.
type backupRow struct {
	Exercise string
	Date     string
	Weight   float64
	Reps     int
}

// Import reads the backup at path and inserts its sets. sourceUnit names
// the unit weights were exported in ("kg" or "lb"); lb values are converted
// to kg before storage.
func (imp *Importer) Import(ctx context.Context, path, sourceUnit string) (*Stats, error) {
	rows, err := readBackup(ctx, path)
	if err != nil {
		return &imp.stats, err
	}
	imp.stats.RowsRead = len(rows)

	byExercise := buildSets(rows, imp.loc, sourceUnit, &imp.stats)
	imp.stats.Exercises = len(byExercise)

	if imp.dryRun {
		return &imp.stats, nil
	}

	names := make([]string, 0, len(byExercise))
	for name := range byExercise {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ex, err := imp.db.EnsureExercise(ctx, name)
		if err != nil {
			return &imp.stats, fmt.Errorf("ensuring exercise %q: %w", name, err)
		}

		sets := byExercise[name]
		for i := range sets {
			sets[i].ExerciseID = ex.ID
			key := fmt.Sprintf("%s|%s|%d", ex.ID,
				sets[i].LoggedAt.Format("2006-01-02"), sets[i].Order)
			sets[i].ID = uuid.NewSHA1(setNamespace, []byte(key))
		}

		inserted, err := imp.insertBatched(ctx, sets)
		if err != nil {
			return &imp.stats, fmt.Errorf("inserting sets for %q: %w", name, err)
		}
		imp.stats.SetsInserted += inserted
		imp.stats.SetsDuplicated += int64(len(sets)) - inserted
		imp.log.Info("imported exercise", "name", name, "sets", len(sets), "inserted", inserted)
	}

	return &imp.stats, nil
}

const insertBatchSize = 500

func (imp *Importer) insertBatched(ctx context.Context, sets []models.LoggedSet) (int64, error) {
	var total int64
	for start := 0; start < len(sets); start += insertBatchSize {
		end := min(start+insertBatchSize, len(sets))
		n, err := imp.db.InsertSets(ctx, sets[start:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// readBackup opens the SQLite backup read-only and returns the training log
// in recording order.
func readBackup(ctx context.Context, path string) ([]backupRow, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening backup %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT e.name, t.date, t.metric_weight, t.reps
		 FROM training_log t
		 JOIN exercise e ON e._id = t.exercise_id
		 ORDER BY t.date ASC, t._id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying training log: %w", err)
	}
	defer rows.Close()

	var result []backupRow
	for rows.Next() {
		var r backupRow
		if err := rows.Scan(&r.Exercise, &r.Date, &r.Weight, &r.Reps); err != nil {
			return nil, fmt.Errorf("scanning training log row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// buildSets converts backup rows into logged sets grouped by exercise name,
// with dense per-day set orders. Rows with an unparseable date or negative
// values are skipped and counted.
func buildSets(rows []backupRow, loc *time.Location, sourceUnit string, stats *Stats) map[string][]models.LoggedSet {
	byExercise := make(map[string][]models.LoggedSet)
	orders := make(map[string]int) // "exercise|date" -> next order

	for _, r := range rows {
		day, err := time.ParseInLocation("2006-01-02", r.Date, loc)
		if err != nil || r.Weight < 0 || r.Reps < 0 {
			stats.RowsSkipped++
			continue
		}

		weight := r.Weight
		if sourceUnit == "lb" {
			weight = LbToKg(weight)
		}

		key := r.Exercise + "|" + r.Date
		order := orders[key]
		orders[key] = order + 1

		// The backup records only the calendar day. Noon keeps the set
		// inside that day regardless of small timezone differences.
		byExercise[r.Exercise] = append(byExercise[r.Exercise], models.LoggedSet{
			LoggedAt:  day.Add(12 * time.Hour),
			Order:     order,
			Weight:    weight,
			Reps:      r.Reps,
			Completed: true,
		})
	}
	return byExercise
}

// LbToKg converts a pound load to kilograms, rounded to two decimals so
// imported weights match what a plate calculator would show.
func LbToKg(lb float64) float64 {
	kg := lb / lbPerKg
	return float64(int(kg*100+0.5)) / 100
}
