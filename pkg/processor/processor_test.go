package processor_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusml/tabot/internal/models"
	"github.com/campusml/tabot/pkg/processor"
)

func TestProcessor_Process(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:      50,
		ChunkOverlap:   10,
		MinChunkLength: 20,
	})

	docs := []models.Document{
		{
			Name:    "module3_loops.pdf",
			Content: "A for loop repeats a block of statements once for every element in a sequence. It is the most common iteration construct in the course.",
		},
	}

	chunks, err := p.Process(docs)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	c := chunks[0]
	assert.Contains(t, c.Text, "for loop")
	assert.Equal(t, "module3_loops.pdf", c.Source)
	assert.Equal(t, models.DocTypeConcept, c.DocType)
	assert.Equal(t, "module3", c.Module)
	assert.Equal(t, models.ChunkID(c.Source, c.Text), c.ID)
}

func TestProcessor_AssignmentDocType(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{MinChunkLength: 10})

	chunks, err := p.Process([]models.Document{
		{Name: "module2_assignment1.pdf", Content: "Question 1: compute the running total of a list of numbers."},
	})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, models.DocTypeAssignment, chunks[0].DocType)
	assert.Equal(t, "module2", chunks[0].Module)
}

func TestProcessor_ChunkingWithOverlap(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:      10,
		ChunkOverlap:   2,
		MinChunkLength: 1,
	})

	words := make([]string, 24)
	for i := range words {
		words[i] = "word"
	}

	chunks, err := p.Process([]models.Document{
		{Name: "module1_intro.pdf", Content: strings.Join(words, " ")},
	})
	require.NoError(t, err)

	// 24 words windowed by 10 with step 8: [0,10) [8,18) [16,24).
	require.Len(t, chunks, 3)
	assert.Len(t, strings.Fields(chunks[0].Text), 10)
	assert.Len(t, strings.Fields(chunks[2].Text), 8)
}

func TestProcessor_DropsShortAndEmpty(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{MinChunkLength: 50})

	chunks, err := p.Process([]models.Document{
		{Name: "module1_intro.pdf", Content: "too short"},
		{Name: "module1_blank.pdf", Content: "   \n\n  "},
	})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestProcessor_CleansControlAndWhitespace(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{MinChunkLength: 10})

	chunks, err := p.Process([]models.Document{
		{Name: "module5_files.pdf", Content: "reading\x00files   uses\tthe open function"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.NotContains(t, chunks[0].Text, "\x00")
	assert.NotContains(t, chunks[0].Text, "\t")
}
