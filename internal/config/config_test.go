package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.Provider)
	}
	if cfg.Chunk.Size != 1000 {
		t.Errorf("expected default chunk size 1000, got %d", cfg.Chunk.Size)
	}
	if cfg.Chunk.Overlap != 120 {
		t.Errorf("expected default chunk overlap 120, got %d", cfg.Chunk.Overlap)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("expected default top_k 5, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.MMRLambda != 0.5 {
		t.Errorf("expected default mmr_lambda 0.5, got %f", cfg.Retrieval.MMRLambda)
	}
	if cfg.SummaryMaxChars != 5000 {
		t.Errorf("expected default summary_max_chars 5000, got %d", cfg.SummaryMaxChars)
	}
	if cfg.RateLimitRPM != 60 {
		t.Errorf("expected default rate_limit_rpm 60, got %d", cfg.RateLimitRPM)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.paperlens.yml")

	original := DefaultConfig()
	original.Provider = ProviderOllama
	original.Model = "llama3"
	original.EmbeddingModel = "nomic-embed-text"
	original.Retrieval.TopK = 8
	original.Server.Port = 9000

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.EmbeddingModel != original.EmbeddingModel {
		t.Errorf("embedding_model: got %q, want %q", loaded.EmbeddingModel, original.EmbeddingModel)
	}
	if loaded.Retrieval.TopK != original.Retrieval.TopK {
		t.Errorf("top_k: got %d, want %d", loaded.Retrieval.TopK, original.Retrieval.TopK)
	}
	if loaded.Server.Port != original.Server.Port {
		t.Errorf("port: got %d, want %d", loaded.Server.Port, original.Server.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load of missing file should not error, got %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected defaults for missing file, got provider %q", cfg.Provider)
	}
}

func TestEnvOverride(t *testing.T) {
	os.Setenv("PAPERLENS_MODEL", "gpt-4o")
	defer os.Unsetenv("PAPERLENS_MODEL")

	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "none.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("expected env override to set model gpt-4o, got %q", cfg.Model)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"missing provider", func(c *Config) { c.Provider = "" }, true},
		{"unknown provider", func(c *Config) { c.Provider = "azure" }, true},
		{"missing model", func(c *Config) { c.Model = "" }, true},
		{"zero chunk size", func(c *Config) { c.Chunk.Size = 0 }, true},
		{"overlap >= size", func(c *Config) { c.Chunk.Overlap = c.Chunk.Size }, true},
		{"zero top_k", func(c *Config) { c.Retrieval.TopK = 0 }, true},
		{"lambda out of range", func(c *Config) { c.Retrieval.MMRLambda = 1.5 }, true},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, true},
		{"negative rate limit", func(c *Config) { c.RateLimitRPM = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
