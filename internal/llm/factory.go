package llm

import (
	"fmt"
	"os"

	"goalkeep/internal/config"
)

// Provider identifies a completion backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// NewClient builds a Client from config. Priority: config file > env vars
// (OPENAI_API_KEY, then GEMINI_API_KEY).
func NewClient(cfg config.LLMConfig) (Client, error) {
	provider := Provider(cfg.Provider)
	apiKey := cfg.APIKey

	if apiKey == "" {
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			provider, apiKey = ProviderOpenAI, key
		} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			provider, apiKey = ProviderGemini, key
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key configured (set llm.api_key or OPENAI_API_KEY/GEMINI_API_KEY)")
	}

	switch provider {
	case ProviderGemini:
		gc := DefaultGeminiConfig(apiKey)
		if cfg.BaseURL != "" {
			gc.BaseURL = cfg.BaseURL
		}
		if cfg.Model != "" {
			gc.Model = cfg.Model
		}
		return NewGeminiClientWithConfig(gc), nil
	case ProviderOpenAI, "":
		oc := DefaultOpenAIConfig(apiKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		if cfg.Model != "" {
			oc.Model = cfg.Model
		}
		return NewOpenAIClientWithConfig(oc), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
