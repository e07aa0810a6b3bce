package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	cfgPkg "github.com/campusml/tabot/pkg/config"
	"github.com/campusml/tabot/pkg/llm"
	"github.com/campusml/tabot/pkg/pipeline"
	"github.com/campusml/tabot/pkg/processor"
	"github.com/campusml/tabot/pkg/scraper"
	"github.com/campusml/tabot/pkg/store"
	"github.com/campusml/tabot/server"
)

type Config struct {
	BaseURL        string
	DBUrl          string
	DocsURL        string
	Model          string
	EmbeddingModel string
	MaxDepth       int
	ChunkSize      int
	VectorDim      int
	TableName      string
	BatchSize      int
	RateLimit      float64
	MaxTokens      int
	Temperature    float64
	DenseK         int
	PoolK          int
	FuseK          int
	RerankTopN     int
	Serve          bool
	Port           string
}

func main() {
	config := parseFlags()

	if err := run(config); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() Config {
	var config Config
	var configPath string

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&config.BaseURL, "ollama-url", os.Getenv("OLLAMA_BASE_URL"), "Ollama server URL")
	flag.StringVar(&config.DBUrl, "db-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flag.StringVar(&config.DocsURL, "docs-url", "", "Course materials URL to ingest")
	flag.StringVar(&config.Model, "model", "mistral", "LLM model to use")
	flag.StringVar(&config.EmbeddingModel, "embedding-model", "nomic-embed-text:latest", "Embedding model to use")
	flag.IntVar(&config.MaxDepth, "max-depth", 3, "Maximum depth for ingestion crawling")
	flag.IntVar(&config.ChunkSize, "chunk-size", 350, "Size of text chunks in words")
	flag.IntVar(&config.VectorDim, "vector-dim", 768, "Vector dimension")
	flag.StringVar(&config.TableName, "table", "course_chunks", "PostgreSQL table name")
	flag.IntVar(&config.BatchSize, "batch-size", 100, "Batch size for database operations")
	flag.Float64Var(&config.RateLimit, "rate-limit", 2.0, "Rate limit for ingestion crawling")
	flag.IntVar(&config.MaxTokens, "max-tokens", 2000, "Maximum tokens for LLM response")
	flag.Float64Var(&config.Temperature, "temperature", 0.3, "Set the LLM temperature")
	flag.IntVar(&config.DenseK, "dense-k", 12, "Nearest neighbours pulled per query")
	flag.IntVar(&config.PoolK, "pool-k", 12, "Lexical results kept from the candidate pool")
	flag.IntVar(&config.FuseK, "fuse-k", 8, "Fused chunks kept after rank fusion")
	flag.IntVar(&config.RerankTopN, "rerank-top-n", 3, "Chunks kept after reranking")
	flag.BoolVar(&config.Serve, "serve", false, "Run the WebSocket server instead of the chat loop")
	flag.StringVar(&config.Port, "port", "8080", "Port for the WebSocket server")
	flag.Parse()

	// Load config file if specified
	if configPath == "" {
		return config
	}
	if cfg, err := cfgPkg.LoadConfig(configPath); err == nil {
		config.BaseURL = cfg.LLM.BaseURL
		config.Model = cfg.LLM.Model
		config.EmbeddingModel = cfg.LLM.EmbeddingModel
		config.MaxTokens = cfg.LLM.MaxTokens
		config.Temperature = cfg.LLM.Temperature
		config.DBUrl = cfg.Database.URL
		config.TableName = cfg.Database.TableName
		config.VectorDim = cfg.Database.VectorDim
		config.BatchSize = cfg.Database.BatchSize
		config.DenseK = cfg.Retrieval.DenseK
		config.PoolK = cfg.Retrieval.PoolK
		config.FuseK = cfg.Retrieval.FuseK
		config.RerankTopN = cfg.Retrieval.RerankTopN
		config.MaxDepth = cfg.Scraper.MaxDepth
		config.RateLimit = cfg.Scraper.RateLimit
		config.ChunkSize = cfg.Processor.ChunkSize
	}

	return config
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("items"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(config Config) error {
	chatEngine, err := llm.NewWithConfig(llm.ChatConfig{
		Model:       config.Model,
		MaxTokens:   config.MaxTokens,
		BaseURL:     config.BaseURL,
		Temperature: config.Temperature,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize chat engine: %v", err)
	}

	embedder, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Model:   config.EmbeddingModel,
		BaseURL: config.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %v", err)
	}

	vectorStore, err := store.NewWithConfig(store.VectorStoreConfig{
		ConnString: config.DBUrl,
		TableName:  config.TableName,
		VectorDim:  config.VectorDim,
		BatchSize:  config.BatchSize,
	}, embedder)
	if err != nil {
		return fmt.Errorf("failed to initialize vector store: %v", err)
	}
	defer vectorStore.Close()

	if config.DocsURL != "" {
		if err := ingest(config, vectorStore); err != nil {
			return err
		}
	}

	index := store.NewSearchIndex(vectorStore, embedder)
	qa := pipeline.New(index, chatEngine, pipeline.Config{
		DenseK:     config.DenseK,
		PoolK:      config.PoolK,
		FuseK:      config.FuseK,
		RerankTopN: config.RerankTopN,
	})

	if config.Serve {
		return server.New(qa).ListenAndServe(":" + config.Port)
	}

	return runChat(qa, vectorStore)
}

func ingest(config Config, vectorStore *store.VectorStore) error {
	color.Blue("\nStarting ingestion pipeline for %s\n", config.DocsURL)

	var scrapedCount int32
	s, err := scraper.NewWithConfig(scraper.ScraperConfig{
		BaseURL:   config.DocsURL,
		MaxDepth:  config.MaxDepth,
		RateLimit: config.RateLimit,
		OnProgress: func(url string) {
			atomic.AddInt32(&scrapedCount, 1)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize scraper: %v", err)
	}

	scrapingBar := getProgressBar(-1, "Fetching course materials...")
	startTime := time.Now()
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(100 * time.Millisecond):
			}
			count := atomic.LoadInt32(&scrapedCount)
			scrapingBar.Set(int(count))

			elapsed := time.Since(startTime).Seconds()
			if elapsed > 0 {
				scrapingBar.Describe(color.BlueString(
					"Fetching course materials (%.1f pages/sec)", float64(count)/elapsed))
			}
		}
	}()

	docs, err := s.Scrape(config.DocsURL)
	close(done)
	scrapingBar.Finish()
	if err != nil {
		return fmt.Errorf("failed to fetch course materials: %v", err)
	}
	color.Green("\n✓ Fetched %d documents\n", len(docs))

	proc := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize: config.ChunkSize,
	})
	chunks, err := proc.Process(docs)
	if err != nil {
		return fmt.Errorf("failed to process documents: %v", err)
	}
	color.Green("✓ Processed into %d chunks\n", len(chunks))

	storageBar := getProgressBar(len(chunks), "Storing in vector database...")
	startTime = time.Now()
	batchSize := config.BatchSize
	ctx := context.Background()

	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		if err := vectorStore.Store(ctx, batch); err != nil {
			return fmt.Errorf("failed to store batch: %v", err)
		}
		storageBar.Add(len(batch))

		elapsed := time.Since(startTime).Seconds()
		if elapsed > 0 {
			storageBar.Describe(color.BlueString(
				"Storing in vector database (%.1f chunks/sec)", float64(i+len(batch))/elapsed))
		}
	}
	storageBar.Finish()
	color.Green("\n✓ Ingestion complete\n")

	return nil
}
