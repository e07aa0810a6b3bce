package retrieval

import (
	"sort"

	"github.com/campusml/tabot/internal/models"
)

// rrfC smooths reciprocal-rank scores so small rank differences among top
// results count for little.
const rrfC = 60.0

// fuseScores sums 1/(C+rank) per list for every identifier and returns the
// score table plus identifiers in first-seen order.
func fuseScores(runs [][]string) (map[string]float64, []string) {
	scores := make(map[string]float64)
	var order []string
	seen := make(map[string]bool)

	for _, run := range runs {
		for i, id := range run {
			rank := float64(i + 1)
			scores[id] += 1.0 / (rrfC + rank)
			if !seen[id] {
				seen[id] = true
				order = append(order, id)
			}
		}
	}
	return scores, order
}

// ReciprocalRankFusion merges two or more ranked identifier lists into one
// ordering. Identifiers absent from a list contribute nothing for that list.
// Ties keep stable first-seen order across the input runs. k <= 0 means no
// truncation. Rank fusion operates purely on ranks, so it needs no tuning of
// per-method score scales.
func ReciprocalRankFusion(runs [][]string, k int) []string {
	scores, order := fuseScores(runs)

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	if k > 0 && len(order) > k {
		order = order[:k]
	}
	return order
}

// FuseHybrid merges the dense and lexical result sets with reciprocal-rank
// fusion and resolves the fused identifiers back to deduplicated chunks,
// preserving fused order and truncating to k. An empty dense set
// short-circuits to nil: the lexical pool is seeded from dense results, so
// there is nothing meaningful to fuse without them.
func FuseHybrid(dense, lexical []models.ScoredChunk, k int) []models.ScoredChunk {
	if len(dense) == 0 {
		return nil
	}

	runs := [][]string{identifiers(dense), identifiers(lexical)}
	scores, order := fuseScores(runs)
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	byID := make(map[string]models.ScoredChunk, len(dense)+len(lexical))
	for _, c := range dense {
		if _, ok := byID[c.ID]; !ok {
			byID[c.ID] = c
		}
	}
	for _, c := range lexical {
		if _, ok := byID[c.ID]; !ok {
			byID[c.ID] = c
		}
	}

	fused := make([]models.ScoredChunk, 0, k)
	for _, id := range order {
		c, ok := byID[id]
		if !ok {
			continue
		}
		c.Score = scores[id]
		c.Method = models.MethodFused
		fused = append(fused, c)
		if len(fused) == k {
			break
		}
	}
	return fused
}

func identifiers(chunks []models.ScoredChunk) []string {
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID
	}
	return ids
}
