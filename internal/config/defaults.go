package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o-mini",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-large",
		Chunk: ChunkConfig{
			Size:    1000,
			Overlap: 120,
		},
		Retrieval: RetrievalConfig{
			TopK:      5,
			MMRLambda: 0.5,
		},
		SummaryMaxChars:   5000,
		RequestTimeoutSec: 60,
		MaxRetries:        3,
		RateLimitRPM:      60,
		CacheMaxEntries:   32,
		Server: ServerConfig{
			Port:      8000,
			DataDir:   ".paperlens",
			UploadDir: "uploaded_docs",
		},
	}
}

// EmbeddingDimensions maps known embedding models to their vector sizes.
// Unknown models fall back to 1536.
func EmbeddingDimensions(model string) int {
	switch model {
	case "text-embedding-3-large":
		return 3072
	case "text-embedding-3-small", "text-embedding-ada-002":
		return 1536
	case "nomic-embed-text":
		return 768
	default:
		return 1536
	}
}
