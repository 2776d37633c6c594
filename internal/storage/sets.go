package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ReedRawlings/fitnotes-sub003/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned for lookups of rows that do not exist.
var ErrNotFound = errors.New("not found")

const setColumns = `id, exercise_id, logged_at, set_order, weight, reps, rpe, rir, completed, created_at, updated_at`

// LoadSets returns every logged set for one exercise, oldest day first,
// session order within a day.
func (db *DB) LoadSets(ctx context.Context, exerciseID uuid.UUID) ([]models.LoggedSet, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+setColumns+`
		 FROM logged_sets
		 WHERE exercise_id = $1
		 ORDER BY logged_at ASC, set_order ASC`,
		exerciseID)
	if err != nil {
		return nil, fmt.Errorf("querying logged sets: %w", err)
	}
	defer rows.Close()

	return scanSetRows(rows)
}

// InsertSet stores a new logged set. When the caller does not supply a
// position (order < 0), the set is appended to its (exercise, day) session:
// orders stay dense from 0 within one calendar day.
func (db *DB) InsertSet(ctx context.Context, set models.LoggedSet) (models.LoggedSet, error) {
	if set.ID == uuid.Nil {
		set.ID = uuid.New()
	}

	row := db.Pool.QueryRow(ctx,
		`INSERT INTO logged_sets (id, exercise_id, logged_at, set_order, weight, reps, rpe, rir, completed)
		 VALUES ($1, $2, $3,
		         CASE WHEN $4 >= 0 THEN $4 ELSE (
		             SELECT COALESCE(MAX(set_order) + 1, 0) FROM logged_sets
		             WHERE exercise_id = $2
		               AND (logged_at AT TIME ZONE $10)::date = ($3 AT TIME ZONE $10)::date
		         ) END,
		         $5, $6, $7, $8, $9)
		 RETURNING `+setColumns,
		set.ID, set.ExerciseID, set.LoggedAt, set.Order,
		set.Weight, set.Reps, set.RPE, set.RIR, set.Completed, db.tz)

	stored, err := scanSet(row)
	if err != nil {
		return models.LoggedSet{}, fmt.Errorf("inserting logged set: %w", err)
	}
	return stored, nil
}

// UpdateSet mutates weight, reps, effort, and completion of an existing set
// and refreshes updated_at.
func (db *DB) UpdateSet(ctx context.Context, set models.LoggedSet) (models.LoggedSet, error) {
	row := db.Pool.QueryRow(ctx,
		`UPDATE logged_sets
		 SET weight = $2, reps = $3, rpe = $4, rir = $5, completed = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING `+setColumns,
		set.ID, set.Weight, set.Reps, set.RPE, set.RIR, set.Completed)

	stored, err := scanSet(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.LoggedSet{}, ErrNotFound
	}
	if err != nil {
		return models.LoggedSet{}, fmt.Errorf("updating logged set: %w", err)
	}
	return stored, nil
}

// DeleteSet removes a set and renumbers the remaining sets of its
// (exercise, day) session so orders stay dense from 0. Runs in one
// transaction; no other set is otherwise affected.
func (db *DB) DeleteSet(ctx context.Context, id uuid.UUID) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning delete tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var exerciseID uuid.UUID
	err = tx.QueryRow(ctx,
		`DELETE FROM logged_sets WHERE id = $1 RETURNING exercise_id`, id).Scan(&exerciseID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting logged set: %w", err)
	}

	// Renumber every session of the exercise; only the deleted set's day
	// actually changes, and the statement is idempotent for the rest.
	_, err = tx.Exec(ctx,
		`UPDATE logged_sets ls
		 SET set_order = ranked.new_order
		 FROM (
		     SELECT id,
		            ROW_NUMBER() OVER (
		                PARTITION BY (logged_at AT TIME ZONE $2)::date
		                ORDER BY set_order ASC
		            ) - 1 AS new_order
		     FROM logged_sets
		     WHERE exercise_id = $1
		 ) ranked
		 WHERE ls.id = ranked.id AND ls.set_order <> ranked.new_order`,
		exerciseID, db.tz)
	if err != nil {
		return fmt.Errorf("renumbering session orders: %w", err)
	}

	return tx.Commit(ctx)
}

// InsertSets batch-inserts imported sets, skipping duplicates. Returns the
// count inserted.
func (db *DB) InsertSets(ctx context.Context, sets []models.LoggedSet) (int64, error) {
	if len(sets) == 0 {
		return 0, nil
	}

	query := `INSERT INTO logged_sets (id, exercise_id, logged_at, set_order, weight, reps, rpe, rir, completed) VALUES `
	args := make([]any, 0, len(sets)*9)
	valueStrings := make([]string, 0, len(sets))

	for i, s := range sets {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		base := i * 9
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
		))
		args = append(args, s.ID, s.ExerciseID, s.LoggedAt, s.Order,
			s.Weight, s.Reps, s.RPE, s.RIR, s.Completed)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting logged sets: %w", err)
	}
	return tag.RowsAffected(), nil
}

type pgxRow interface {
	Scan(dest ...any) error
}

func scanSet(row pgxRow) (models.LoggedSet, error) {
	var s models.LoggedSet
	err := row.Scan(&s.ID, &s.ExerciseID, &s.LoggedAt, &s.Order,
		&s.Weight, &s.Reps, &s.RPE, &s.RIR, &s.Completed, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func scanSetRows(rows pgx.Rows) ([]models.LoggedSet, error) {
	var result []models.LoggedSet
	for rows.Next() {
		s, err := scanSet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning logged set: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
