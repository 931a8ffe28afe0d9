package gemini

import (
	"context"
)

// TextExtractor pulls plain text out of an uploaded resume document.
type TextExtractor interface {
	ExtractText(ctx context.Context, document []byte) (string, error)
}

// Embedder produces one fixed-length vector per text chunk.
type Embedder interface {
	EmbedChunks(ctx context.Context, chunks []string) ([][]float32, error)
}
