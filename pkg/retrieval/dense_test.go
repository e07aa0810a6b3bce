package retrieval_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusml/tabot/internal/models"
	"github.com/campusml/tabot/internal/types"
	"github.com/campusml/tabot/pkg/retrieval"
)

type fakeIndex struct {
	matches []types.Match
	err     error
	calls   int
	lastK   int
}

func (f *fakeIndex) Query(ctx context.Context, text string, k int) ([]types.Match, error) {
	f.calls++
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

func TestDense_ScoresAndMetadata(t *testing.T) {
	index := &fakeIndex{matches: []types.Match{
		{Text: "a for loop repeats a block", Source: "module3_loops.pdf", DocType: "concept", Module: "module3", Distance: 0.2},
		{Text: "while loops run until false", Source: "module3_loops.pdf", DocType: "concept", Distance: 0.4},
	}}

	chunks, err := retrieval.Dense(context.Background(), index, "for loop", 5)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 5, index.lastK)

	assert.InDelta(t, 0.8, chunks[0].Score, 1e-6)
	assert.InDelta(t, 0.6, chunks[1].Score, 1e-6)
	assert.Equal(t, models.MethodDense, chunks[0].Method)
	assert.Equal(t, "module3", chunks[0].Module)
	// Missing module metadata defaults instead of failing.
	assert.Equal(t, "?", chunks[1].Module)
	assert.Equal(t, models.ChunkID("module3_loops.pdf", "a for loop repeats a block"), chunks[0].ID)
}

func TestDense_EmptyIndexIsNotAnError(t *testing.T) {
	chunks, err := retrieval.Dense(context.Background(), &fakeIndex{}, "for loop", 5)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDense_InvalidK(t *testing.T) {
	_, err := retrieval.Dense(context.Background(), &fakeIndex{}, "for loop", 0)
	assert.Error(t, err)
}

func TestDense_TransportErrorPropagates(t *testing.T) {
	index := &fakeIndex{err: errors.New("index unreachable")}
	_, err := retrieval.Dense(context.Background(), index, "for loop", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index unreachable")
}
