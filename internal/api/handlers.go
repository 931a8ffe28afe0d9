package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-matcher/internal/models"
	"resume-matcher/internal/scoring"
)

const (
	maxUploadBytes = 10 << 20 // 10 MB

	scoreCacheTTL = time.Hour
)

type APIHandler struct {
	analyses AnalysisStore
	queue    Producer
	uploader Uploader
	scorer   Scorer
	cache    ScoreCache
	s3Bucket string
	logger   *zap.Logger
}

type AnalysisStore interface {
	Create(ctx context.Context, analysis *models.Analysis) error
	ByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error)
}

type Producer interface {
	Enqueue(ctx context.Context, analysisID string) error
}

type Uploader interface {
	Upload(ctx context.Context, file io.Reader, bucket, key, contentType string) (string, error)
}

type Scorer interface {
	Compute(ctx context.Context, resumeText, jdText string) (*scoring.Result, error)
}

type ScoreCache interface {
	CacheResult(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	CachedResult(ctx context.Context, key string) ([]byte, error)
}

func NewAPIHandler(db AnalysisStore, queue Producer, store Uploader, scorer Scorer, cache ScoreCache, s3Bucket string, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		analyses: db,
		queue:    queue,
		uploader: store,
		scorer:   scorer,
		cache:    cache,
		s3Bucket: s3Bucket,
		logger:   logger,
	}
}

type scoreRequest struct {
	ResumeText string `json:"resume_text"`
	JDText     string `json:"jd_text"`
}

// HandleScore computes the ensemble score for two text blobs synchronously.
// Results are cached keyed by a digest of the cleaned inputs.
func (h *APIHandler) HandleScore(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()

	var req scoreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return
	}

	resumeText := scoring.CleanText(req.ResumeText)
	jdText := scoring.CleanText(req.JDText)

	if resumeText == "" || jdText == "" {
		writeError(w, http.StatusUnprocessableEntity, "both resume_text and jd_text are required")
		return
	}

	cacheKey := scoreKey(resumeText, jdText)

	if h.cache != nil {
		cached, err := h.cache.CachedResult(r.Context(), cacheKey)
		if err != nil {
			h.logger.Warn("score cache lookup failed", zap.Error(err))
		}
		if cached != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
	}

	result, err := h.scorer.Compute(r.Context(), resumeText, jdText)
	if err != nil {
		h.logger.Error("scoring failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "failed to score the provided documents")
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		h.logger.Error("failed to encode score result", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to encode result")
		return
	}

	if h.cache != nil {
		if err := h.cache.CacheResult(r.Context(), cacheKey, payload, scoreCacheTTL); err != nil {
			h.logger.Warn("score cache write failed", zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// HandleCreateAnalysis accepts a multipart resume file plus a job_description
// field, uploads the file to S3, records the analysis and queues it for the
// worker.
func (h *APIHandler) HandleCreateAnalysis(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, fileHeader, err := r.FormFile("resume")
	if err != nil {
		writeError(w, http.StatusBadRequest, "a resume file is required")
		return
	}
	defer file.Close()

	jdText := scoring.CleanText(r.FormValue("job_description"))
	if jdText == "" {
		writeError(w, http.StatusUnprocessableEntity, "a non-empty job_description field is required")
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read the uploaded file")
		return
	}

	contentType, ok := resumeContentType(fileBytes)
	if !ok {
		writeError(w, http.StatusUnsupportedMediaType, "only PDF and plain text resumes are supported")
		return
	}

	newID, err := uuid.NewV7()
	if err != nil {
		h.logger.Error("failed to generate analysis id", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "an error occurred while processing your resume")
		return
	}

	uniqueFileName := fmt.Sprintf("%s%s", newID.String(), filepath.Ext(fileHeader.Filename))

	if _, err := h.uploader.Upload(r.Context(), bytes.NewReader(fileBytes), h.s3Bucket, uniqueFileName, contentType); err != nil {
		h.logger.Error("failed to upload resume", zap.Error(err), zap.String("key", uniqueFileName))
		writeError(w, http.StatusInternalServerError, "failed to store the uploaded file")
		return
	}

	newAnalysis := &models.Analysis{
		ID:        newID,
		FileName:  uniqueFileName,
		JDText:    jdText,
		Status:    models.StatusQueued,
		CreatedAt: time.Now(),
	}

	if err := h.analyses.Create(r.Context(), newAnalysis); err != nil {
		h.logger.Error("failed to insert analysis", zap.Error(err), zap.String("analysis_id", newID.String()))
		writeError(w, http.StatusInternalServerError, "an error occurred while processing your resume")
		return
	}

	if err := h.queue.Enqueue(r.Context(), newID.String()); err != nil {
		h.logger.Error("failed to enqueue analysis", zap.Error(err), zap.String("analysis_id", newID.String()))
		writeError(w, http.StatusInternalServerError, "an error occurred while processing your resume")
		return
	}

	h.logger.Info("analysis queued",
		zap.String("analysis_id", newID.String()),
		zap.String("file", uniqueFileName),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"id":     newID.String(),
		"status": newAnalysis.Status.String(),
	}); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// HandleViewAnalysis returns the current state of an analysis, including the
// result once the worker has finished.
func (h *APIHandler) HandleViewAnalysis(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()

	idString := r.PathValue("id")

	id, err := uuid.Parse(idString)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis id format")
		return
	}

	analysis, err := h.analyses.ByID(r.Context(), id)
	if err != nil {
		h.logger.Warn("analysis lookup failed", zap.String("analysis_id", idString), zap.Error(err))
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(analysis); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *APIHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func resumeContentType(fileBytes []byte) (string, bool) {
	detected := http.DetectContentType(fileBytes)

	switch {
	case detected == "application/pdf":
		return "application/pdf", true
	case strings.HasPrefix(detected, "text/plain"):
		return "text/plain", true
	default:
		return "", false
	}
}

func scoreKey(resumeText, jdText string) string {
	sum := sha256.Sum256([]byte(resumeText + "\x00" + jdText))
	return "score:" + hex.EncodeToString(sum[:])
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
