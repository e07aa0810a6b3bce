package retrieval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusml/tabot/internal/models"
	"github.com/campusml/tabot/pkg/retrieval"
)

func TestReciprocalRankFusion_Empty(t *testing.T) {
	assert.Empty(t, retrieval.ReciprocalRankFusion(nil, 5))
	assert.Empty(t, retrieval.ReciprocalRankFusion([][]string{{}, {}}, 5))
}

func TestReciprocalRankFusion_TopOfEveryListWins(t *testing.T) {
	runs := [][]string{
		{"a", "b", "c"},
		{"a", "c", "b"},
	}

	fused := retrieval.ReciprocalRankFusion(runs, 3)
	require.NotEmpty(t, fused)
	assert.Equal(t, "a", fused[0])
}

func TestReciprocalRankFusion_CrossListPresenceBeatsSingleList(t *testing.T) {
	// "b" appears mid-rank in both lists; "x" tops one list only. Two
	// reciprocal contributions outweigh one.
	runs := [][]string{
		{"x", "b", "c"},
		{"b", "y", "z"},
	}

	fused := retrieval.ReciprocalRankFusion(runs, 1)
	assert.Equal(t, []string{"b"}, fused)
}

func TestReciprocalRankFusion_TiesKeepInputOrder(t *testing.T) {
	// Same ranks in disjoint lists produce equal scores; first-seen order
	// breaks the tie.
	runs := [][]string{
		{"a", "b"},
		{"c", "d"},
	}

	fused := retrieval.ReciprocalRankFusion(runs, 4)
	assert.Equal(t, []string{"a", "c", "b", "d"}, fused)
}

func TestReciprocalRankFusion_Truncates(t *testing.T) {
	runs := [][]string{{"a", "b", "c", "d"}}
	assert.Len(t, retrieval.ReciprocalRankFusion(runs, 2), 2)
}

func TestFuseHybrid_EmptyDenseShortCircuits(t *testing.T) {
	lexical := []models.ScoredChunk{poolChunk("a", "some text")}
	assert.Empty(t, retrieval.FuseHybrid(nil, lexical, 5))
}

func TestFuseHybrid_DeduplicatesByID(t *testing.T) {
	dense := []models.ScoredChunk{
		poolChunk("a", "for loops"),
		poolChunk("b", "while loops"),
	}
	lexical := []models.ScoredChunk{
		poolChunk("b", "while loops"),
		poolChunk("a", "for loops"),
	}

	fused := retrieval.FuseHybrid(dense, lexical, 10)
	require.Len(t, fused, 2)

	seen := make(map[string]bool)
	for _, c := range fused {
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
		assert.Equal(t, models.MethodFused, c.Method)
	}
}

func TestFuseHybrid_OrderAndTruncation(t *testing.T) {
	dense := []models.ScoredChunk{
		poolChunk("a", "one"),
		poolChunk("b", "two"),
		poolChunk("c", "three"),
	}
	lexical := []models.ScoredChunk{
		poolChunk("a", "one"),
		poolChunk("c", "three"),
	}

	fused := retrieval.FuseHybrid(dense, lexical, 2)
	require.Len(t, fused, 2)
	// "a" leads both lists; "c" collects two contributions against "b"'s one.
	assert.Equal(t, "a", fused[0].ID)
	assert.Equal(t, "c", fused[1].ID)
	assert.Greater(t, fused[0].Score, fused[1].Score)
}
