package processor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-matcher/internal/apperrors"
	"resume-matcher/internal/gemini"
	"resume-matcher/internal/models"
	"resume-matcher/internal/objectstore"
	"resume-matcher/internal/scoring"
	"resume-matcher/internal/storage"
)

const (
	maxAttempts = 3

	consumeRetryDelay = 5 * time.Second
)

type Consumer interface {
	Dequeue(ctx context.Context) (string, error)
}

type Scorer interface {
	Compute(ctx context.Context, resumeText, jdText string) (*scoring.Result, error)
}

type AnalysisProcessor struct {
	db        storage.AnalysisStore
	queue     Consumer
	store     objectstore.FileStorer
	extractor gemini.TextExtractor
	embedder  gemini.Embedder
	scorer    Scorer
	s3Bucket  string
	logger    *zap.Logger
}

func NewAnalysisProcessor(
	db storage.AnalysisStore,
	queue Consumer,
	store objectstore.FileStorer,
	extractor gemini.TextExtractor,
	embedder gemini.Embedder,
	scorer Scorer,
	s3Bucket string,
	logger *zap.Logger,
) *AnalysisProcessor {
	return &AnalysisProcessor{
		db:        db,
		queue:     queue,
		store:     store,
		extractor: extractor,
		embedder:  embedder,
		scorer:    scorer,
		s3Bucket:  s3Bucket,
		logger:    logger,
	}
}

// Run consumes analysis IDs from the queue until the context is cancelled.
// A failure to consume waits and retries; a bad ID is skipped.
func (p *AnalysisProcessor) Run(ctx context.Context) {

	p.logger.Info("analysis processor started, waiting for work")

	for {
		if ctx.Err() != nil {
			p.logger.Info("analysis processor stopping", zap.Error(ctx.Err()))
			return
		}

		idStr, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Error("error consuming analysis from queue", zap.Error(err))
			time.Sleep(consumeRetryDelay)
			continue
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			p.logger.Warn("invalid analysis id on queue, skipping", zap.String("raw", idStr))
			continue
		}

		p.processAnalysis(ctx, id)
	}
}

func (p *AnalysisProcessor) processAnalysis(ctx context.Context, id uuid.UUID) {

	log := p.logger.With(zap.String("analysis_id", id.String()))
	log.Info("processing analysis")

	analysis, err := p.fetchWithRetry(ctx, id)
	if err != nil {
		log.Error("giving up on analysis", zap.Error(err))
		return
	}

	if err := p.db.UpdateStatus(ctx, id, models.StatusProcessing); err != nil {
		log.Error("failed to mark analysis as processing", zap.Error(err))
		return
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = p.runPipeline(ctx, id, analysis)
		if lastErr == nil {
			log.Info("analysis completed")
			return
		}

		if !isRetryable(lastErr) {
			break
		}

		log.Warn("retrying analysis", zap.Int("attempt", attempt), zap.Error(lastErr))

		// exponential backoff between attempts
		time.Sleep(time.Duration(1<<attempt) * time.Second)
	}

	log.Error("analysis failed", zap.Error(lastErr))

	if err := p.db.Fail(ctx, id, lastErr.Error()); err != nil {
		log.Error("failed to record analysis failure", zap.Error(err))
	}
}

// runPipeline downloads the resume, extracts its text, scores it against the
// stored job description, and saves the result together with a document
// embedding.
func (p *AnalysisProcessor) runPipeline(ctx context.Context, id uuid.UUID, analysis *models.Analysis) error {

	fileBytes, err := p.store.Download(ctx, p.s3Bucket, analysis.FileName)
	if err != nil {
		return fmt.Errorf("downloading resume %s: %w", analysis.FileName, err)
	}

	resumeText, err := p.extractResumeText(ctx, fileBytes)
	if err != nil {
		return fmt.Errorf("extracting resume text: %w", err)
	}

	resumeText = scoring.CleanText(resumeText)
	if resumeText == "" {
		return fmt.Errorf("resume contains no extractable text: %w", apperrors.ErrPermanentFailure)
	}

	result, err := p.scorer.Compute(ctx, resumeText, analysis.JDText)
	if err != nil {
		return fmt.Errorf("scoring resume: %w", err)
	}

	vectors, err := p.embedder.EmbedChunks(ctx, []string{resumeText})
	if err != nil {
		return fmt.Errorf("embedding resume document: %w", err)
	}

	if err := p.db.SaveResult(ctx, id, resumeText, result, vectors[0]); err != nil {
		return fmt.Errorf("saving result: %w", err)
	}

	return nil
}

// extractResumeText sends PDFs through the extraction model and treats
// anything else as plain text.
func (p *AnalysisProcessor) extractResumeText(ctx context.Context, fileBytes []byte) (string, error) {
	if http.DetectContentType(fileBytes) == "application/pdf" {
		return p.extractor.ExtractText(ctx, fileBytes)
	}

	return strings.ToValidUTF8(string(fileBytes), ""), nil
}

func (p *AnalysisProcessor) fetchWithRetry(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {

	for attempt := 0; attempt < maxAttempts; attempt++ {

		analysis, err := p.db.ByID(ctx, id)
		if err == nil {
			return analysis, nil
		}

		p.logger.Warn("retrying analysis fetch",
			zap.String("analysis_id", id.String()),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		time.Sleep(time.Duration(1<<attempt) * time.Second)
	}

	return nil, fmt.Errorf("failed to fetch analysis %s after %d retries", id, maxAttempts)
}

func isRetryable(err error) bool {
	return !errors.Is(err, apperrors.ErrPermanentFailure)
}
