package mcp

import (
	"context"
	"time"

	"github.com/ReedRawlings/fitnotes-sub003/internal/models"
	"github.com/ReedRawlings/fitnotes-sub003/internal/storage"
	"github.com/google/uuid"
)

// DataSource abstracts the storage layer for MCP tools; *storage.DB
// satisfies it. Session and progression queries go through the workout
// service so MCP and REST share one set of semantics.
type DataSource interface {
	ListExercises(ctx context.Context) ([]models.Exercise, error)
	GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error)
	GetTrainingSummary(ctx context.Context, start, end time.Time, bucket string) ([]storage.VolumePeriodSummary, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
