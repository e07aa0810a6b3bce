package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusml/tabot/internal/types"
)

const rewriteSystem = "You rewrite student questions into SHORT, focused search queries for course materials."

// QueryRewriter condenses a conversational question into retrieval keywords.
type QueryRewriter struct {
	gen types.TextGenerator
}

func NewQueryRewriter(gen types.TextGenerator) *QueryRewriter {
	return &QueryRewriter{gen: gen}
}

// Rewrite returns a one-line keyword query for the given question. A blank
// rewrite falls back to the original question; transport failures propagate.
func (r *QueryRewriter) Rewrite(ctx context.Context, query string) (string, error) {
	user := fmt.Sprintf("Student question:\n%s\n\nReturn ONE line of keywords (topic + concept).", query)

	out, err := r.gen.Generate(ctx, rewriteSystem, user)
	if err != nil {
		return "", fmt.Errorf("query rewrite: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return query, nil
	}
	return out, nil
}
