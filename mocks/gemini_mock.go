package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"resume-matcher/internal/scoring"
)

type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, document []byte) (string, error) {
	args := m.Called(ctx, document)
	return args.String(0), args.Error(1)
}

type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) EmbedChunks(ctx context.Context, chunks []string) ([][]float32, error) {
	args := m.Called(ctx, chunks)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([][]float32), args.Error(1)
}

type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Compute(ctx context.Context, resumeText, jdText string) (*scoring.Result, error) {
	args := m.Called(ctx, resumeText, jdText)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*scoring.Result), args.Error(1)
}
