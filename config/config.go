// Package config loads process configuration from an optional YAML file with
// TUTOR_-prefixed environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "tutor.yaml"

// Config holds all process-level settings.
type Config struct {
	// Corpus and index
	CorpusPath string `koanf:"corpus_path"`
	IndexName  string `koanf:"index_name"`
	ForceReset bool   `koanf:"force_reset"`

	// Vector store backend: "redis" or "memory"
	Store         string `koanf:"store"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// Models, served by the local engine's OpenAI-compatible endpoint
	BaseURL        string `koanf:"base_url"`
	APIKey         string `koanf:"api_key"`
	ChatModel      string `koanf:"chat_model"`
	EmbeddingModel string `koanf:"embedding_model"`
	EmbeddingDim   int    `koanf:"embedding_dim"`

	// Retrieval
	TopK int `koanf:"top_k"`

	// Logging (file-based; stdout belongs to the TUI)
	LogFile  string `koanf:"log_file"`
	LogLevel string `koanf:"log_level"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		CorpusPath:     "data/genki1.json",
		IndexName:      "genki",
		Store:          "redis",
		RedisAddr:      "localhost:6379",
		BaseURL:        "http://localhost:11434/v1",
		ChatModel:      "qwen3:1.7b",
		EmbeddingModel: "nomic-embed-text",
		EmbeddingDim:   768,
		TopK:           3,
		LogFile:        "tutor.log",
		LogLevel:       "info",
	}
}

// Load reads path (YAML, optional) and applies TUTOR_* environment overrides
// on top of the defaults, e.g. TUTOR_REDIS_ADDR=redis:6379 or
// TUTOR_FORCE_RESET=true.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider("TUTOR_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "TUTOR_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env config: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Store != "redis" && cfg.Store != "memory" {
		return nil, fmt.Errorf("unknown store backend %q (want redis or memory)", cfg.Store)
	}
	if cfg.TopK < 1 {
		return nil, fmt.Errorf("top_k must be at least 1, got %d", cfg.TopK)
	}
	return &cfg, nil
}
