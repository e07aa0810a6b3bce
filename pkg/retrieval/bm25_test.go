package retrieval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusml/tabot/internal/models"
	"github.com/campusml/tabot/pkg/retrieval"
)

func poolChunk(id, text string) models.ScoredChunk {
	return models.ScoredChunk{
		Chunk:  models.Chunk{ID: id, Text: text, Source: id + ".pdf"},
		Score:  0.5,
		Method: models.MethodDense,
	}
}

func TestBM25_EmptyPool(t *testing.T) {
	assert.Empty(t, retrieval.BM25(nil, "for loop", 5))
	assert.Empty(t, retrieval.BM25([]models.ScoredChunk{}, "for loop", 5))
}

func TestBM25_RanksMatchingChunkFirst(t *testing.T) {
	pool := []models.ScoredChunk{
		poolChunk("a", "dictionaries map keys to values and support lookup"),
		poolChunk("b", "a for loop repeats a block for each element"),
		poolChunk("c", "classes bundle data and behaviour together"),
	}

	ranked := retrieval.BM25(pool, "for loop", 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, "b", ranked[0].ID)
	assert.Equal(t, models.MethodLexical, ranked[0].Method)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestBM25_TruncatesToK(t *testing.T) {
	pool := []models.ScoredChunk{
		poolChunk("a", "loop one"),
		poolChunk("b", "loop two"),
		poolChunk("c", "loop three"),
	}

	ranked := retrieval.BM25(pool, "loop", 2)
	assert.Len(t, ranked, 2)
}

func TestBM25_NoOverlapScoresZero(t *testing.T) {
	pool := []models.ScoredChunk{
		poolChunk("a", "tuples are immutable sequences"),
	}

	ranked := retrieval.BM25(pool, "numpy broadcasting", 1)
	require.Len(t, ranked, 1)
	assert.Zero(t, ranked[0].Score)
}
