package store

import (
	"context"
	"fmt"

	"github.com/campusml/tabot/internal/types"
)

// SearchIndex adapts the vector store into the core's VectorIndex: it embeds
// the query text and runs a nearest-neighbour search, so the core never
// touches embeddings directly.
type SearchIndex struct {
	store    *VectorStore
	embedder types.Embedder
}

func NewSearchIndex(store *VectorStore, embedder types.Embedder) *SearchIndex {
	return &SearchIndex{store: store, embedder: embedder}
}

func (s *SearchIndex) Query(ctx context.Context, text string, k int) ([]types.Match, error) {
	vectors, err := s.embedder.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("query embedding: empty response")
	}
	return s.store.Search(ctx, vectors[0], k)
}
