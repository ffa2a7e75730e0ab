package llm

import (
	"context"
	"fmt"
	"os"

	"code-reviewer/src/config"
)

// NewProvider builds the provider named in cfg.Provider. With an empty
// provider the first backend that has a key wins: OpenAI, then Gemini.
func NewProvider(ctx context.Context, cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai: %w", ErrNoProvider)
		}
		return NewClient(cfg), nil
	case "gemini":
		return NewGeminiProvider(ctx, geminiKey(cfg), cfg.Model)
	case "":
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}

	if cfg.APIKey != "" {
		return NewClient(cfg), nil
	}
	if key := geminiKey(cfg); key != "" {
		return NewGeminiProvider(ctx, key, cfg.Model)
	}
	return nil, ErrNoProvider
}

func geminiKey(cfg config.LLMConfig) string {
	if cfg.GeminiAPIKey != "" {
		return cfg.GeminiAPIKey
	}
	return os.Getenv("GEMINI_API_KEY")
}
