package main

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/campusml/tabot/internal/models"
	"github.com/campusml/tabot/pkg/pipeline"
	"github.com/campusml/tabot/pkg/store"
)

// runChat is the interactive loop: one query processed start-to-finish at a
// time, refusals printed like any other answer.
func runChat(qa *pipeline.Pipeline, vectorStore *store.VectorStore) error {
	ctx := context.Background()

	if count, err := vectorStore.Count(ctx); err == nil {
		color.Blue("Indexed chunks: %d", count)
		if count == 0 {
			color.Yellow("The index is empty; run with -docs-url to ingest course materials first.")
		}
	}

	color.Cyan("\nAsk about the course materials (type 'exit' to quit)")

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.ToLower(query) == "exit" {
			break
		}

		spinner := getSpinner(" Thinking...")
		answer, err := qa.Answer(ctx, query)
		spinner.Finish()

		if err != nil {
			color.Red("Error: %v\n", err)
			continue
		}

		assistantPrompt("\nAssistant: %s\n", answer.Text)
		if answer.Decision != models.DecisionAllow {
			color.Yellow("(%s)\n", answer.Decision)
		} else if len(answer.Sources) > 0 {
			color.Blue("sources: %s\n", strings.Join(answer.Sources, ", "))
		}
	}

	return nil
}
