package geministore

import (
	"context"
	"fmt"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"resume-matcher/internal/apperrors"
)

const (
	DefaultExtractionModel = "gemini-2.5-flash"
	DefaultEmbeddingModel  = "gemini-embedding-001"
)

type GeminiClient struct {
	Client          *genai.Client
	extractionModel string
	embeddingModel  string
}

func New(ctx context.Context, apiKey, extractionModel, embeddingModel string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})

	if err != nil {
		return nil, fmt.Errorf("API key error: %w", err)
	}

	if extractionModel == "" {
		extractionModel = DefaultExtractionModel
	}
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}

	return &GeminiClient{
		Client:          client,
		extractionModel: extractionModel,
		embeddingModel:  embeddingModel,
	}, nil
}

// ExtractText asks the model to read a PDF document and return its plain text.
func (g *GeminiClient) ExtractText(ctx context.Context, document []byte) (string, error) {

	contents := []*genai.Content{
		genai.NewContentFromBytes(document, "application/pdf", genai.RoleUser),
	}

	result, err := g.Client.Models.GenerateContent(
		ctx,
		g.extractionModel,
		contents,
		nil,
	)

	if err != nil {
		return "", classify("extract text from resume", err)
	}

	return result.Text(), nil
}

// EmbedChunks embeds every chunk in one request and returns the vectors in
// chunk order.
func (g *GeminiClient) EmbedChunks(ctx context.Context, chunks []string) ([][]float32, error) {

	contents := make([]*genai.Content, 0, len(chunks))
	for _, chunk := range chunks {
		contents = append(contents, genai.NewContentFromText(chunk, genai.RoleUser))
	}

	result, err := g.Client.Models.EmbedContent(ctx,
		g.embeddingModel,
		contents,
		nil,
	)
	if err != nil {
		return nil, classify("embed content", err)
	}

	if len(result.Embeddings) != len(chunks) {
		return nil, fmt.Errorf("gemini returned %d embeddings for %d chunks", len(result.Embeddings), len(chunks))
	}

	vectors := make([][]float32, 0, len(chunks))
	for _, emb := range result.Embeddings {
		if len(emb.Values) == 0 {
			return nil, fmt.Errorf("gemini returned empty embedding result")
		}
		vectors = append(vectors, emb.Values)
	}

	return vectors, nil
}

// classify maps auth and bad-input failures onto ErrPermanentFailure so the
// worker knows not to retry them.
func classify(op string, err error) error {
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unauthenticated, codes.PermissionDenied:
			return fmt.Errorf("gemini authentication failed: %w", apperrors.ErrPermanentFailure)
		case codes.InvalidArgument:
			return fmt.Errorf("gemini invalid input (400): %w", apperrors.ErrPermanentFailure)
		}
	}

	return fmt.Errorf("failed to %s with: %w", op, err)
}
