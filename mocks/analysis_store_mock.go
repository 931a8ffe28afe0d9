package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"resume-matcher/internal/models"
	"resume-matcher/internal/scoring"
)

type MockAnalysisStore struct {
	mock.Mock
}

func (m *MockAnalysisStore) Create(ctx context.Context, analysis *models.Analysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockAnalysisStore) ByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Analysis), args.Error(1)
}

func (m *MockAnalysisStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockAnalysisStore) SaveResult(ctx context.Context, id uuid.UUID, resumeText string, result *scoring.Result, embedding []float32) error {
	args := m.Called(ctx, id, resumeText, result, embedding)
	return args.Error(0)
}

func (m *MockAnalysisStore) Fail(ctx context.Context, id uuid.UUID, message string) error {
	args := m.Called(ctx, id, message)
	return args.Error(0)
}
