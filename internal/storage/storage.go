package storage

import (
	"context"

	"github.com/google/uuid"

	"resume-matcher/internal/models"
	"resume-matcher/internal/scoring"
)

type AnalysisCreator interface {
	Create(ctx context.Context, analysis *models.Analysis) error
}

type AnalysisUpdater interface {
	ByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error
	SaveResult(ctx context.Context, id uuid.UUID, resumeText string, result *scoring.Result, embedding []float32) error
	Fail(ctx context.Context, id uuid.UUID, message string) error
}

type AnalysisStore interface {
	AnalysisCreator
	AnalysisUpdater
}
