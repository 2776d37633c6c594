package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ReedRawlings/fitnotes-sub003/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const exerciseColumns = `id, name, target_rep_min, target_rep_max, increment, auto_progress, default_weight, created_at, updated_at`

// ListExercises returns the exercise library ordered by name.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+exerciseColumns+` FROM exercises ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, ex)
	}
	return result, rows.Err()
}

// GetExercise retrieves one exercise by ID.
func (db *DB) GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = $1`, id)
	ex, err := scanExercise(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying exercise: %w", err)
	}
	return &ex, nil
}

// EnsureExercise returns the exercise with the given name, creating it when
// absent. Used by the importer and by first-time set logging.
func (db *DB) EnsureExercise(ctx context.Context, name string) (*models.Exercise, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (id, name)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING `+exerciseColumns,
		uuid.New(), name)
	ex, err := scanExercise(row)
	if err != nil {
		return nil, fmt.Errorf("ensuring exercise %q: %w", name, err)
	}
	return &ex, nil
}

// UpdateProgressionConfig replaces the per-exercise progression settings.
// Passing nil target bounds disables analysis for the exercise.
func (db *DB) UpdateProgressionConfig(ctx context.Context, id uuid.UUID, targetRepMin, targetRepMax *int, increment float64, autoProgress bool) (*models.Exercise, error) {
	row := db.Pool.QueryRow(ctx,
		`UPDATE exercises
		 SET target_rep_min = $2, target_rep_max = $3, increment = $4,
		     auto_progress = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+exerciseColumns,
		id, targetRepMin, targetRepMax, increment, autoProgress)
	ex, err := scanExercise(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating progression config: %w", err)
	}
	return &ex, nil
}

// SetExerciseDefaultWeight records the suggested working weight for the
// next session (the auto-progress write-back).
func (db *DB) SetExerciseDefaultWeight(ctx context.Context, id uuid.UUID, weight float64) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE exercises SET default_weight = $2, updated_at = now() WHERE id = $1`,
		id, weight)
	if err != nil {
		return fmt.Errorf("updating default weight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanExercise(row pgxRow) (models.Exercise, error) {
	var ex models.Exercise
	err := row.Scan(&ex.ID, &ex.Name, &ex.TargetRepMin, &ex.TargetRepMax,
		&ex.Increment, &ex.AutoProgress, &ex.DefaultWeight, &ex.CreatedAt, &ex.UpdatedAt)
	return ex, err
}
