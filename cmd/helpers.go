package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/hyunwoo-dev/paperlens/internal/config"
	"github.com/hyunwoo-dev/paperlens/internal/embeddings"
	"github.com/hyunwoo-dev/paperlens/internal/llm"
	"github.com/hyunwoo-dev/paperlens/internal/pipeline"
	"github.com/hyunwoo-dev/paperlens/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `paperlens init` to create a config file", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}
	model := cfg.EmbeddingModel

	switch provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model)), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(model, config.EmbeddingDimensions(model), ""), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

// createLLMProviderFromConfig creates an LLM provider based on config
// settings, wrapped with transient-failure retries.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	if cfg.RateLimitRPM > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RateLimitRPM)
	}
	return llm.NewRetryingProvider(provider, cfg.MaxRetries, time.Second), nil
}

// buildPipeline assembles the analysis pipeline from config.
func buildPipeline(cfg *config.Config, retrieverCache pipeline.Cache) (*pipeline.Pipeline, error) {
	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	indexer := vectordb.NewChromemIndexer(embedder, vectordb.Options{
		TopK:      cfg.Retrieval.TopK,
		MMRLambda: cfg.Retrieval.MMRLambda,
	})

	pcfg := pipeline.DefaultConfig()
	pcfg.Model = cfg.Model
	pcfg.Chunking.Size = cfg.Chunk.Size
	pcfg.Chunking.Overlap = cfg.Chunk.Overlap
	pcfg.TopK = cfg.Retrieval.TopK
	pcfg.SummaryMaxChars = cfg.SummaryMaxChars
	pcfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSec) * time.Second

	return pipeline.New(provider, indexer, retrieverCache, pcfg), nil
}
