package types

import (
	"context"

	"github.com/campusml/tabot/internal/models"
)

// Match is a raw vector-index hit. Distance is the normalized cosine
// distance reported by the index; the dense retriever converts it to a
// similarity score.
type Match struct {
	Text     string
	Source   string
	DocType  string
	Module   string
	Distance float32
}

// Core interfaces. All external collaborators are injected through these so
// tests can substitute fakes.

// VectorIndex is the similarity-search collaborator. A zero-match result is
// a normal outcome, not an error; errors are reserved for transport failures.
type VectorIndex interface {
	Query(ctx context.Context, text string, k int) ([]Match, error)
}

// TextGenerator produces text from a system directive and a user prompt.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Embedder turns text into fixed-length vectors.
type Embedder interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// ChunkStore persists ingested chunks.
type ChunkStore interface {
	Store(ctx context.Context, chunks []models.Chunk) error
	Close()
}

// Processor turns raw documents into chunks with metadata.
type Processor interface {
	Process(docs []models.Document) ([]models.Chunk, error)
}
