// Package llm implements the text-generation collaborator clients.
// Two providers are supported: an OpenAI-compatible REST API (which also
// covers OpenRouter-style gateways via base_url) and Google Gemini through
// the genai SDK.
//
// Per the system's failure model, every call is attempted exactly once; the
// caller converts errors to user-facing text instead of retrying.
package llm

import (
	"fmt"

	"workforce/internal/config"
	"workforce/internal/types"
)

// NewClient creates an LLM client from configuration.
func NewClient(cfg config.LLMConfig) (types.LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured; set OPENAI_API_KEY or GEMINI_API_KEY")
	}

	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case "gemini":
		return NewGeminiClient(cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (use 'openai' or 'gemini')", cfg.Provider)
	}
}
