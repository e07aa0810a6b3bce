package pipeline

import (
	"context"

	"github.com/campusml/tabot/internal/models"
	"github.com/campusml/tabot/internal/types"
	"github.com/campusml/tabot/pkg/retrieval"
	"github.com/campusml/tabot/pkg/safety"
)

// Config controls the retrieval fan-out of one query.
type Config struct {
	DenseK     int // nearest neighbours pulled from the vector index
	PoolK      int // lexical results kept from the dense candidate pool
	FuseK      int // fused, deduplicated chunks kept after rank fusion
	RerankTopN int // chunks the judge may keep for answer composition
}

func (c *Config) applyDefaults() {
	if c.DenseK == 0 {
		c.DenseK = 12
	}
	if c.PoolK == 0 {
		c.PoolK = 12
	}
	if c.FuseK == 0 {
		c.FuseK = 8
	}
	if c.RerankTopN == 0 {
		c.RerankTopN = 3
	}
}

// Pipeline is the hybrid retrieval and defensive answer-composition core.
// It owns no persistent state; everything it touches is scoped to one query.
type Pipeline struct {
	index    types.VectorIndex
	gen      types.TextGenerator
	rewriter *retrieval.QueryRewriter
	reranker *retrieval.Reranker
	config   Config
}

// New wires the pipeline with its two external collaborators. Both are
// injected so tests can substitute fakes.
func New(index types.VectorIndex, gen types.TextGenerator, config Config) *Pipeline {
	config.applyDefaults()
	return &Pipeline{
		index:    index,
		gen:      gen,
		rewriter: retrieval.NewQueryRewriter(gen),
		reranker: retrieval.NewReranker(gen),
		config:   config,
	}
}

// Answer takes a raw student question through the full gate-retrieve-compose
// sequence and returns the policy decision alongside the response text.
// Refusals and empty-result conditions are first-class outcomes, never
// errors; an error means the index or the generator failed and the caller
// decides on retry policy.
func (p *Pipeline) Answer(ctx context.Context, query string) (models.Answer, error) {
	if v := safety.CheckPromptInjection(query); v.Flagged {
		return models.Answer{
			Decision: models.DecisionRefuseInjection,
			Text:     safety.InjectionRefusal(v.Reason),
		}, nil
	}

	clean := safety.Sanitize(query)

	// Assignment intent is checked before the topic gate: "solve question 3"
	// deserves the assignment reply even when it names no course term.
	if safety.IsAssignmentIntent(clean) {
		return models.Answer{
			Decision: models.DecisionRefuseAssignment,
			Text:     safety.SafeAssignmentReply,
		}, nil
	}

	if !safety.IsOnTopic(clean) {
		return models.Answer{
			Decision: models.DecisionRefuseOffTopic,
			Text:     safety.OffTopicReply,
		}, nil
	}

	rewritten, err := p.rewriter.Rewrite(ctx, clean)
	if err != nil {
		return models.Answer{}, err
	}

	dense, err := retrieval.Dense(ctx, p.index, rewritten, p.config.DenseK)
	if err != nil {
		return models.Answer{}, err
	}
	if len(dense) == 0 {
		return models.Answer{
			Decision: models.DecisionRefuseNoResults,
			Text:     safety.NoResultsReply,
		}, nil
	}

	lexical := retrieval.BM25(dense, rewritten, p.config.PoolK)
	fused := retrieval.FuseHybrid(dense, lexical, p.config.FuseK)
	if len(fused) == 0 {
		return models.Answer{
			Decision: models.DecisionRefuseNoResults,
			Text:     safety.NoResultsReply,
		}, nil
	}

	if safety.ContainsAssignmentDocs(fused) {
		return models.Answer{
			Decision: models.DecisionRefuseAssignment,
			Text:     safety.SafeAssignmentReply,
		}, nil
	}
	if v := safety.CheckChunkInjection(fused); v.Flagged {
		// The whole retrieved set is discarded; keeping the clean chunks
		// would leak partially-compromised context into the prompt.
		return models.Answer{
			Decision: models.DecisionRefuseInjection,
			Text:     safety.ChunkInjectionRefusal(v.Reason),
		}, nil
	}

	top := p.reranker.Rerank(ctx, clean, fused, p.config.RerankTopN)

	text, err := p.compose(ctx, clean, top)
	if err != nil {
		return models.Answer{}, err
	}

	sources := make([]string, len(top))
	for i, c := range top {
		sources[i] = c.ID
	}
	return models.Answer{
		Decision: models.DecisionAllow,
		Text:     text,
		Sources:  sources,
	}, nil
}
