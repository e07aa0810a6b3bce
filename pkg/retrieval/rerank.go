package retrieval

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/campusml/tabot/internal/models"
	"github.com/campusml/tabot/internal/types"
)

const rerankSystem = "You are selecting the most educationally useful passages for answering the student's exact question."

// candidatePreviewLen bounds how much of each chunk the judge sees.
const candidatePreviewLen = 550

// Reranker asks a generative judge to pick the most pertinent subset of the
// fused candidates. The judge is a best-effort oracle: any malformed output
// or transport failure degrades to the first candidates in fused order, so
// reranking never fails the overall request.
type Reranker struct {
	gen types.TextGenerator
}

func NewReranker(gen types.TextGenerator) *Reranker {
	return &Reranker{gen: gen}
}

// Rerank returns up to topN candidates chosen by the judge, or the first
// topN candidates in their existing order when the judge cannot be used.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []models.ScoredChunk, topN int) []models.ScoredChunk {
	if len(candidates) == 0 {
		return nil
	}
	if topN < 1 {
		topN = 1
	}
	if topN > len(candidates) {
		topN = len(candidates)
	}

	out, err := r.gen.Generate(ctx, rerankSystem, buildRerankPrompt(query, candidates, topN))
	if err != nil {
		return candidates[:topN]
	}

	picks := parsePicks(out, len(candidates))
	if len(picks) == 0 {
		return candidates[:topN]
	}
	if len(picks) > topN {
		picks = picks[:topN]
	}

	selected := make([]models.ScoredChunk, 0, len(picks))
	for _, p := range picks {
		selected = append(selected, candidates[p])
	}
	return selected
}

func buildRerankPrompt(query string, candidates []models.ScoredChunk, topN int) string {
	var joined strings.Builder
	for i, c := range candidates {
		text := c.Text
		if len(text) > candidatePreviewLen {
			text = text[:candidatePreviewLen]
		}
		if i > 0 {
			joined.WriteString("\n\n")
		}
		fmt.Fprintf(&joined, "[%d] %s :: %s", i, c.Source, text)
	}

	return fmt.Sprintf(`Question: %s

Below are candidate snippets. Pick up to %d indices that best answer the question and come from authoritative material.
Return a comma-separated list of indices only (e.g., 0,2,3).

CANDIDATES:
%s
`, query, topN, joined.String())
}

// parsePicks accepts only well-formed integer indices inside [0, n); anything
// else is dropped. Duplicate indices are kept once, in first-seen order.
func parsePicks(out string, n int) []int {
	var picks []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(strings.TrimSpace(out), ",") {
		p, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || p < 0 || p >= n || seen[p] {
			continue
		}
		seen[p] = true
		picks = append(picks, p)
	}
	return picks
}
