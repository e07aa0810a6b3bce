package safety

import (
	"regexp"
	"strings"

	"github.com/campusml/tabot/internal/models"
)

// allowedTopics is the course scope. A query mentioning none of these terms
// is refused before any retrieval happens.
var allowedTopics = []string{
	"variables", "data types", "casting", "conditionals", "if", "else", "loops", "for", "while",
	"functions", "lists", "tuples", "dictionaries", "sets", "file", "io", "read", "write",
	"exceptions", "try", "except", "oop", "class", "object", "inheritance", "modules", "packages",
	"numpy", "pandas", "series", "dataframe", "groupby", "filter", "indexing",
}

// IsOnTopic reports whether the query mentions at least one allow-listed
// course term. Matching is case-insensitive substring containment.
func IsOnTopic(query string) bool {
	q := strings.ToLower(query)
	for _, tok := range allowedTopics {
		if strings.Contains(q, tok) {
			return true
		}
	}
	return false
}

// assignmentPatterns match requests for graded work.
var assignmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bassignment\b`),
	regexp.MustCompile(`\bquestion\s*\d+\b`),
	regexp.MustCompile(`\bdue\b`),
	regexp.MustCompile(`\bsubmit\b`),
	regexp.MustCompile(`\bsolve\b`),
	regexp.MustCompile(`\bcomplete\b`),
	regexp.MustCompile(`\bwrite code that\b`),
	regexp.MustCompile(`\bcode for\b`),
	regexp.MustCompile(`\bimplement\b`),
	regexp.MustCompile(`\bredesign\b`),
	regexp.MustCompile(`\bproject\b`),
}

// IsAssignmentIntent reports whether the query reads like a request to do
// graded coursework for the student.
func IsAssignmentIntent(query string) bool {
	q := strings.ToLower(query)
	for _, p := range assignmentPatterns {
		if p.MatchString(q) {
			return true
		}
	}
	return false
}

// ContainsAssignmentDocs reports whether any retrieved chunk came from an
// assignment document. Assignment material never reaches generation even when
// the query itself looked harmless.
func ContainsAssignmentDocs(chunks []models.ScoredChunk) bool {
	for _, c := range chunks {
		if c.DocType == models.DocTypeAssignment {
			return true
		}
	}
	return false
}
