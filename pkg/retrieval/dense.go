package retrieval

import (
	"context"
	"fmt"

	"github.com/campusml/tabot/internal/models"
	"github.com/campusml/tabot/internal/types"
)

// moduleUnknown stands in when the index reports no module metadata.
const moduleUnknown = "?"

// Dense runs similarity search against the vector index and converts matches
// to scored chunks with score = 1 - distance. An empty result is a normal
// outcome; errors are transport failures only.
func Dense(ctx context.Context, index types.VectorIndex, query string, k int) ([]models.ScoredChunk, error) {
	if k < 1 {
		return nil, fmt.Errorf("dense retrieval: k must be at least 1, got %d", k)
	}

	matches, err := index.Query(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("dense retrieval: %w", err)
	}

	chunks := make([]models.ScoredChunk, 0, len(matches))
	for _, m := range matches {
		module := m.Module
		if module == "" {
			module = moduleUnknown
		}
		chunks = append(chunks, models.ScoredChunk{
			Chunk: models.Chunk{
				ID:      models.ChunkID(m.Source, m.Text),
				Text:    m.Text,
				Source:  m.Source,
				DocType: m.DocType,
				Module:  module,
			},
			Score:  1.0 - float64(m.Distance),
			Method: models.MethodDense,
		})
	}
	return chunks, nil
}
