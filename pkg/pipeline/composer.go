package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusml/tabot/internal/models"
	"github.com/campusml/tabot/pkg/safety"
)

// answerSystem is the fixed directive for grounded answers. It restates the
// assignment refusal so a request that slipped past the gates still gets
// declined at generation time.
const answerSystem = `You are a teaching assistant for an undergraduate programming course.
Strict rules:
- Only use the provided context from course documents.
- If the question is outside the course scope, say so and redirect.
- If the user asks for an assignment solution, DO NOT provide a full solution. Explain concepts and give hints, but not final answers.
- Cite sources at the end as (source: filename, module).
- If no relevant context was found, say you could not find it in the course materials and suggest related topics.`

// buildContextBlock tags each chunk with its source and module so citations
// can be checked against the prompt.
func buildContextBlock(chunks []models.ScoredChunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = fmt.Sprintf("[%s | module %s]\n%s", c.Source, c.Module, c.Text)
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// compose produces the final grounded answer. An empty chunk list
// short-circuits to the canned nothing-found message without invoking the
// generator.
func (p *Pipeline) compose(ctx context.Context, query string, chunks []models.ScoredChunk) (string, error) {
	if len(chunks) == 0 {
		return safety.NothingFoundReply, nil
	}

	user := fmt.Sprintf(
		"Question:\n%s\n\nContext:\n%s\n\nAnswer in a friendly, step-by-step way for undergraduates, and add 1-2 short code examples if useful.",
		query, buildContextBlock(chunks))

	out, err := p.gen.Generate(ctx, answerSystem, user)
	if err != nil {
		return "", fmt.Errorf("answer generation: %w", err)
	}
	return out, nil
}
