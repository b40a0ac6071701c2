package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. The caller is responsible for saving it.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to paperlens! Let's configure your setup.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)
	cfg.EmbeddingProvider = cfg.Provider

	// 2. Model.
	defaultModel := "gpt-4o-mini"
	defaultEmbedding := "text-embedding-3-large"
	if cfg.Provider == ProviderOllama {
		defaultModel = "llama3"
		defaultEmbedding = "nomic-embed-text"
	}
	modelPrompt := promptui.Prompt{
		Label:   "Chat model",
		Default: defaultModel,
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	embeddingPrompt := promptui.Prompt{
		Label:   "Embedding model",
		Default: defaultEmbedding,
	}
	if cfg.EmbeddingModel, err = embeddingPrompt.Run(); err != nil {
		return nil, fmt.Errorf("embedding model: %w", err)
	}

	// 3. Retrieval depth.
	topKPrompt := promptui.Prompt{
		Label:    "Chunks retrieved per question (top-k)",
		Default:  strconv.Itoa(cfg.Retrieval.TopK),
		Validate: validatePositiveInt,
	}
	topKStr, err := topKPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("top-k: %w", err)
	}
	cfg.Retrieval.TopK, _ = strconv.Atoi(strings.TrimSpace(topKStr))

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP server port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePositiveInt,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	// 5. Upload directory.
	uploadPrompt := promptui.Prompt{
		Label:   "Directory for uploaded documents",
		Default: cfg.Server.UploadDir,
	}
	if cfg.Server.UploadDir, err = uploadPrompt.Run(); err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}
