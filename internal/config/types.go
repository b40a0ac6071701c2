package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level paperlens configuration, corresponding to .paperlens.yml.
type Config struct {
	Provider          ProviderType    `yaml:"provider" koanf:"provider"`
	Model             string          `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType    `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string          `yaml:"embedding_model" koanf:"embedding_model"`
	Chunk             ChunkConfig     `yaml:"chunk" koanf:"chunk"`
	Retrieval         RetrievalConfig `yaml:"retrieval" koanf:"retrieval"`
	SummaryMaxChars   int             `yaml:"summary_max_chars" koanf:"summary_max_chars"`
	RequestTimeoutSec int             `yaml:"request_timeout_sec" koanf:"request_timeout_sec"`
	MaxRetries        int             `yaml:"max_retries" koanf:"max_retries"`
	// RateLimitRPM caps LLM requests per minute. 0 disables the limiter.
	RateLimitRPM    int          `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
	CacheMaxEntries int          `yaml:"cache_max_entries" koanf:"cache_max_entries"`
	Server          ServerConfig `yaml:"server" koanf:"server"`
}

// ChunkConfig controls how extracted text is split before embedding.
type ChunkConfig struct {
	Size    int `yaml:"size" koanf:"size"`
	Overlap int `yaml:"overlap" koanf:"overlap"`
}

// RetrievalConfig controls how chunks are selected for question answering.
type RetrievalConfig struct {
	TopK int `yaml:"top_k" koanf:"top_k"`
	// MMRLambda balances relevance against diversity: 1 is pure relevance,
	// 0 is pure diversity.
	MMRLambda float64 `yaml:"mmr_lambda" koanf:"mmr_lambda"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port      int    `yaml:"port" koanf:"port"`
	DataDir   string `yaml:"data_dir" koanf:"data_dir"`
	UploadDir string `yaml:"upload_dir" koanf:"upload_dir"`
	AllowAll  bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
