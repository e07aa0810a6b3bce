package retrieval

import (
	"math"
	"sort"
	"strings"

	"github.com/campusml/tabot/internal/models"
)

// Okapi BM25 parameters tuned to short course-material chunks.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// BM25 scores the candidate pool against the query with Okapi BM25 and
// returns the top k chunks in descending score order. The pool is whatever
// dense retrieval already pulled, which bounds the cost; this is a pure
// function of (pool, query) with no I/O.
func BM25(pool []models.ScoredChunk, query string, k int) []models.ScoredChunk {
	if len(pool) == 0 || k < 1 {
		return nil
	}

	docs := make([][]string, len(pool))
	var totalLen float64
	for i, c := range pool {
		docs[i] = tokenize(c.Text)
		totalLen += float64(len(docs[i]))
	}
	avgLen := totalLen / float64(len(docs))
	if avgLen == 0 {
		avgLen = 1
	}

	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, term := range doc {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	n := float64(len(docs))
	queryTerms := tokenize(query)

	scored := make([]models.ScoredChunk, len(pool))
	for i, c := range pool {
		tf := make(map[string]float64, len(docs[i]))
		for _, term := range docs[i] {
			tf[term]++
		}
		docLen := float64(len(docs[i]))

		var score float64
		for _, term := range queryTerms {
			f := tf[term]
			if f == 0 {
				continue
			}
			d := float64(df[term])
			idf := math.Log((n-d+0.5)/(d+0.5) + 1)
			score += idf * (f * (bm25K1 + 1)) / (f + bm25K1*(1-bm25B+bm25B*docLen/avgLen))
		}

		sc := c
		sc.Score = score
		sc.Method = models.MethodLexical
		scored[i] = sc
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
