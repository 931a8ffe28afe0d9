package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"resume-matcher/internal/gemini"
	"resume-matcher/internal/geministore"
	"resume-matcher/internal/ontology"
	"resume-matcher/internal/s3"
	"resume-matcher/internal/scoring"
)

// buildScorer wires the gemini client, the skills ontology and the configured
// weights into an ensemble scorer. The returned client also serves as the
// worker's text extractor and document embedder.
func buildScorer(ctx context.Context, config *Config) (*scoring.Ensemble, *geministore.GeminiClient, error) {
	if config.Gemini == nil || config.Gemini.APIKey == "" {
		return nil, nil, fmt.Errorf("gemini api key is required (set GEMINI_API_KEY or gemini.api-key)")
	}

	client, err := geministore.New(ctx, config.Gemini.APIKey, config.Gemini.ExtractionModel, config.Gemini.EmbeddingModel)
	if err != nil {
		return nil, nil, fmt.Errorf("creating gemini client: %w", err)
	}

	ont, err := ontology.Load(config.OntologyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading skills ontology: %w", err)
	}

	ensemble := scoring.NewEnsemble(client, ont, *config.Weights)

	return ensemble, client, nil
}

var _ gemini.Embedder = (*geministore.GeminiClient)(nil)
var _ gemini.TextExtractor = (*geministore.GeminiClient)(nil)

// buildFileStore creates the S3 store and returns it with the bucket name.
func buildFileStore(ctx context.Context, config *Config, logger *zap.Logger) (*s3.FileStore, string, error) {
	if config.S3 == nil {
		return nil, "", fmt.Errorf("s3 configuration is required")
	}

	s3Conf := s3.S3Config{
		EndpointURL: config.S3.EndpointURL,
		Region:      config.S3.Region,
		AccessKey:   config.S3.AccessKey,
		SecretKey:   config.S3.SecretKey,
	}

	store, err := s3.NewFileStore(ctx, s3Conf)
	if err != nil {
		return nil, "", fmt.Errorf("creating s3 filestore: %w", err)
	}

	if config.S3.Bucket == "" {
		return nil, "", fmt.Errorf("s3 bucket is required (set S3_BUCKET_NAME or s3.bucket)")
	}

	logger.Info("s3 filestore initialized", zap.String("bucket", config.S3.Bucket))

	return store, config.S3.Bucket, nil
}
