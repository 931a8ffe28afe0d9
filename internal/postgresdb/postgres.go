package postgresdb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"resume-matcher/internal/models"
	"resume-matcher/internal/scoring"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*Store, error) {
	if connString == "" {
		return nil, fmt.Errorf("database connection string is required")
	}

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	// embedding column needs the vector type registered on every connection
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Create(ctx context.Context, analysis *models.Analysis) error {

	sql := `
		INSERT INTO analyses (id, file_name, jd_text, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		`

	_, err := s.Pool.Exec(
		ctx,
		sql,
		analysis.ID,
		analysis.FileName,
		analysis.JDText,
		analysis.Status.String(),
		analysis.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert analysis %s: %w", analysis.ID, err)
	}

	return nil
}

func (s *Store) ByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {

	var analysis models.Analysis

	// convert to string before sending back
	var statusString string
	var resultJSON []byte

	sql := `
        SELECT id, status, file_name, jd_text, resume_text, result, error_message, created_at
        FROM analyses
        WHERE id = $1
        `

	err := s.Pool.QueryRow(
		ctx,
		sql,
		id,
	).Scan(
		&analysis.ID,
		&statusString,
		&analysis.FileName,
		&analysis.JDText,
		&analysis.ResumeText,
		&resultJSON,
		&analysis.ErrorMessage,
		&analysis.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve analysis %s: %w", id, err)
	}

	status, err := models.ParseStatus(statusString)
	if err != nil {
		return nil, fmt.Errorf("database contains invalid analysis status: %w", err)
	}
	analysis.Status = status

	if resultJSON != nil {
		var result scoring.Result
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return nil, fmt.Errorf("database contains invalid result payload for %s: %w", id, err)
		}
		analysis.Result = &result
	}

	return &analysis, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error {

	sql := `
		UPDATE analyses
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		`

	tag, err := s.Pool.Exec(ctx, sql, status.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update status for analysis %s: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("analysis %s not found", id)
	}

	return nil
}

func (s *Store) SaveResult(ctx context.Context, id uuid.UUID, resumeText string, result *scoring.Result, embedding []float32) error {

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result for analysis %s: %w", id, err)
	}

	sql := `
		UPDATE analyses
		SET status = $1, resume_text = $2, result = $3, embedding = $4, updated_at = NOW()
		WHERE id = $5
		`

	tag, err := s.Pool.Exec(
		ctx,
		sql,
		models.StatusCompleted.String(),
		resumeText,
		resultJSON,
		pgvector.NewVector(embedding),
		id,
	)

	if err != nil {
		return fmt.Errorf("failed to save result for analysis %s: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("analysis %s not found", id)
	}

	return nil
}

func (s *Store) Fail(ctx context.Context, id uuid.UUID, message string) error {

	sql := `
		UPDATE analyses
		SET status = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3
		`

	tag, err := s.Pool.Exec(ctx, sql, models.StatusFailed.String(), message, id)
	if err != nil {
		return fmt.Errorf("failed to mark analysis %s as failed: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("analysis %s not found", id)
	}

	return nil
}
