package models

import (
	"crypto/sha256"
	"encoding/hex"
)

// Document type labels assigned during ingestion.
const (
	DocTypeAssignment = "assignment"
	DocTypeConcept    = "concept"
)

// Retrieval methods recorded on a ScoredChunk.
const (
	MethodDense   = "dense"
	MethodLexical = "lexical"
	MethodFused   = "fused"
)

// Chunk is a retrievable unit of course material. Chunks are created once
// during ingestion and read-only afterwards.
type Chunk struct {
	ID        string
	Text      string
	Source    string
	DocType   string
	Module    string
	Embedding []float32
}

// idPrefixLen bounds how much text feeds the identifier digest.
const idPrefixLen = 200

// ChunkID derives a stable identifier from the source name and a prefix of
// the chunk text. The same chunk retrieved through different paths (dense or
// lexical) always maps to the same identifier, which is what deduplication
// after rank fusion relies on.
func ChunkID(source, text string) string {
	prefix := text
	if len(prefix) > idPrefixLen {
		prefix = prefix[:idPrefixLen]
	}
	sum := sha256.Sum256([]byte(source + "::" + prefix))
	return hex.EncodeToString(sum[:8])
}

// ScoredChunk pairs a chunk with the relevance score and the retrieval method
// that produced it. Instances live only for the duration of one query.
type ScoredChunk struct {
	Chunk
	Score  float64
	Method string
}
