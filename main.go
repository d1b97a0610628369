package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"jlpt-tutor/config"
	"jlpt-tutor/llm/providers"
	"jlpt-tutor/llm/rag"
	"jlpt-tutor/llm/tutor"
	"jlpt-tutor/llm/vector"
	"jlpt-tutor/logging"
	"jlpt-tutor/tui/chat"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// Load .env file if exists
	_ = godotenv.Load()
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := logging.Setup(cfg.LogFile, cfg.LogLevel); err != nil {
		return err
	}

	embedder, err := providers.NewEmbeddingModel(ctx, &providers.EmbeddingConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.EmbeddingModel,
	})
	if err != nil {
		return fmt.Errorf("creating embedding model: %w", err)
	}

	chatModel, err := providers.NewChatModel(ctx, &providers.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.ChatModel,
	})
	if err != nil {
		return fmt.Errorf("creating chat model: %w", err)
	}

	var store vector.VectorStore
	switch cfg.Store {
	case "memory":
		store, err = vector.NewMemoryStore(embedder, cfg.EmbeddingDim)
	default:
		store, err = vector.NewRedisStore(ctx, embedder, vector.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			IndexName: cfg.IndexName,
			VectorDim: cfg.EmbeddingDim,
		})
	}
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}
	defer store.Close()

	ingestor := rag.NewIngestor(store, cfg.CorpusPath)
	if err := ingestor.EnsureIngested(ctx, cfg.ForceReset); err != nil {
		// The tutor still runs; searches just come back empty until the
		// corpus is fixed and the index rebuilt.
		logrus.WithError(err).Error("corpus ingestion failed, continuing with empty index")
	}

	runtime := tutor.NewRuntime(ctx, chatModel, rag.NewRetriever(store), ingestor, cfg.TopK)
	defer runtime.Close()

	program := tea.NewProgram(
		chat.InitialModel(runtime, cfg.ChatModel),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}
