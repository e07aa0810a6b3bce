package processor

import (
	"path"
	"regexp"
	"strings"

	"github.com/campusml/tabot/internal/models"
)

type ProcessorConfig struct {
	ChunkSize      int // words per chunk
	ChunkOverlap   int // words carried over between adjacent chunks
	MinChunkLength int // characters below which a chunk is dropped
}

// Processor cleans raw course documents and splits them into chunks with
// source, doc_type and module metadata.
type Processor struct {
	config ProcessorConfig
}

func NewWithConfig(config ProcessorConfig) Processor {
	if config.ChunkSize == 0 {
		config.ChunkSize = 350
	}
	if config.ChunkOverlap == 0 {
		config.ChunkOverlap = 40
	}
	if config.ChunkOverlap >= config.ChunkSize {
		config.ChunkOverlap = config.ChunkSize / 4
	}
	if config.MinChunkLength == 0 {
		config.MinChunkLength = 80
	}

	return Processor{
		config: config,
	}
}

// Process turns raw documents into chunks. Chunk identifiers are derived
// from the source name and text, so re-ingesting the same material upserts
// rather than duplicates.
func (p *Processor) Process(docs []models.Document) ([]models.Chunk, error) {
	var chunks []models.Chunk

	for _, doc := range docs {
		text := cleanText(doc.Content)
		if text == "" {
			continue
		}

		name := documentName(doc)
		for _, part := range p.splitIntoChunks(text) {
			if len(part) < p.config.MinChunkLength {
				continue
			}
			chunks = append(chunks, models.Chunk{
				ID:      models.ChunkID(name, part),
				Text:    part,
				Source:  name,
				DocType: docTypeFor(name),
				Module:  moduleFor(name),
			})
		}
	}

	return chunks, nil
}

var (
	spaceRunRe = regexp.MustCompile(`[ \t]+`)
	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\x00", " ")
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// splitIntoChunks windows the text by word count with overlap between
// adjacent windows.
func (p *Processor) splitIntoChunks(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := p.config.ChunkSize - p.config.ChunkOverlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + p.config.ChunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

func documentName(doc models.Document) string {
	if doc.Name != "" {
		return doc.Name
	}
	if doc.URL != "" {
		return path.Base(doc.URL)
	}
	return doc.Title
}

func docTypeFor(name string) string {
	if strings.Contains(strings.ToLower(name), "assignment") {
		return models.DocTypeAssignment
	}
	return models.DocTypeConcept
}

// moduleFor takes the grouping label from the document name prefix, e.g.
// "module3_loops.pdf" belongs to module "module3".
func moduleFor(name string) string {
	base := strings.TrimSuffix(name, path.Ext(name))
	if i := strings.Index(base, "_"); i > 0 {
		return base[:i]
	}
	return base
}
