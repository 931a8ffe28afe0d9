package processor

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"resume-matcher/internal/apperrors"
	"resume-matcher/internal/models"
	"resume-matcher/internal/scoring"
	"resume-matcher/mocks"
)

type processorMocks struct {
	db        *mocks.MockAnalysisStore
	queue     *mocks.MockConsumer
	store     *mocks.MockFileStorer
	extractor *mocks.MockTextExtractor
	embedder  *mocks.MockEmbedder
	scorer    *mocks.MockScorer
}

func newTestProcessor() (*AnalysisProcessor, *processorMocks) {
	m := &processorMocks{
		db:        new(mocks.MockAnalysisStore),
		queue:     new(mocks.MockConsumer),
		store:     new(mocks.MockFileStorer),
		extractor: new(mocks.MockTextExtractor),
		embedder:  new(mocks.MockEmbedder),
		scorer:    new(mocks.MockScorer),
	}

	p := NewAnalysisProcessor(m.db, m.queue, m.store, m.extractor, m.embedder, m.scorer, "test-bucket", zap.NewNop())
	return p, m
}

func TestProcessAnalysis_PlainTextSuccess(t *testing.T) {
	p, m := newTestProcessor()

	id := uuid.New()
	analysis := &models.Analysis{
		ID:       id,
		Status:   models.StatusQueued,
		FileName: id.String() + ".txt",
		JDText:   "python and spark required",
	}

	resumeBytes := []byte("Built Spark pipelines in Python. Cut runtime by 40%.")
	result := &scoring.Result{TotalScore: 81.3}
	docVec := [][]float32{{0.1, 0.2, 0.3}}

	m.db.On("ByID", mock.Anything, id).Return(analysis, nil)
	m.db.On("UpdateStatus", mock.Anything, id, models.StatusProcessing).Return(nil)
	m.store.On("Download", mock.Anything, "test-bucket", analysis.FileName).Return(resumeBytes, nil)
	m.scorer.On("Compute", mock.Anything, mock.Anything, analysis.JDText).Return(result, nil)
	m.embedder.On("EmbedChunks", mock.Anything, mock.Anything).Return(docVec, nil)
	m.db.On("SaveResult", mock.Anything, id, mock.Anything, result, docVec[0]).Return(nil)

	p.processAnalysis(context.Background(), id)

	m.db.AssertExpectations(t)
	m.store.AssertExpectations(t)
	m.scorer.AssertExpectations(t)
	m.embedder.AssertExpectations(t)

	// plain text never goes through the extraction model
	m.extractor.AssertNotCalled(t, "ExtractText", mock.Anything, mock.Anything)
}

func TestProcessAnalysis_PDFUsesExtractor(t *testing.T) {
	p, m := newTestProcessor()

	id := uuid.New()
	analysis := &models.Analysis{
		ID:       id,
		Status:   models.StatusQueued,
		FileName: id.String() + ".pdf",
		JDText:   "go developer wanted",
	}

	pdfBytes := []byte("%PDF-1.4\nbinary resume\n%%EOF")
	extracted := "Designed Go services. Reduced costs by $50k."
	result := &scoring.Result{TotalScore: 70}
	docVec := [][]float32{{0.5, 0.5}}

	m.db.On("ByID", mock.Anything, id).Return(analysis, nil)
	m.db.On("UpdateStatus", mock.Anything, id, models.StatusProcessing).Return(nil)
	m.store.On("Download", mock.Anything, "test-bucket", analysis.FileName).Return(pdfBytes, nil)
	m.extractor.On("ExtractText", mock.Anything, pdfBytes).Return(extracted, nil)
	m.scorer.On("Compute", mock.Anything, extracted, analysis.JDText).Return(result, nil)
	m.embedder.On("EmbedChunks", mock.Anything, []string{extracted}).Return(docVec, nil)
	m.db.On("SaveResult", mock.Anything, id, extracted, result, docVec[0]).Return(nil)

	p.processAnalysis(context.Background(), id)

	m.db.AssertExpectations(t)
	m.extractor.AssertExpectations(t)
}

func TestProcessAnalysis_PermanentFailureDoesNotRetry(t *testing.T) {
	p, m := newTestProcessor()

	id := uuid.New()
	analysis := &models.Analysis{
		ID:       id,
		Status:   models.StatusQueued,
		FileName: id.String() + ".pdf",
		JDText:   "go developer wanted",
	}

	pdfBytes := []byte("%PDF-1.4\nbinary resume\n%%EOF")
	permanentErr := fmt.Errorf("gemini authentication failed: %w", apperrors.ErrPermanentFailure)

	m.db.On("ByID", mock.Anything, id).Return(analysis, nil)
	m.db.On("UpdateStatus", mock.Anything, id, models.StatusProcessing).Return(nil)
	m.store.On("Download", mock.Anything, "test-bucket", analysis.FileName).Return(pdfBytes, nil).Once()
	m.extractor.On("ExtractText", mock.Anything, pdfBytes).Return("", permanentErr).Once()
	m.db.On("Fail", mock.Anything, id, mock.Anything).Return(nil).Once()

	p.processAnalysis(context.Background(), id)

	m.db.AssertExpectations(t)
	m.store.AssertExpectations(t)
	m.extractor.AssertExpectations(t)
	m.db.AssertNotCalled(t, "SaveResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessAnalysis_EmptyResumeIsPermanent(t *testing.T) {
	p, m := newTestProcessor()

	id := uuid.New()
	analysis := &models.Analysis{
		ID:       id,
		Status:   models.StatusQueued,
		FileName: id.String() + ".txt",
		JDText:   "go developer wanted",
	}

	m.db.On("ByID", mock.Anything, id).Return(analysis, nil)
	m.db.On("UpdateStatus", mock.Anything, id, models.StatusProcessing).Return(nil)
	m.store.On("Download", mock.Anything, "test-bucket", analysis.FileName).Return([]byte("   \n  "), nil).Once()
	m.db.On("Fail", mock.Anything, id, mock.Anything).Return(nil).Once()

	p.processAnalysis(context.Background(), id)

	m.db.AssertExpectations(t)
	m.scorer.AssertNotCalled(t, "Compute", mock.Anything, mock.Anything, mock.Anything)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, isRetryable(fmt.Errorf("wrapped: %w", apperrors.ErrPermanentFailure)))
	assert.True(t, isRetryable(assert.AnError))
}
