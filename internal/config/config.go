// Package config loads workforce configuration from .workforce/config.json,
// with environment variable overrides for API keys and paths.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all workforce configuration.
type Config struct {
	// Core settings
	Name    string `json:"name"`
	Version string `json:"version"`

	// LLM configuration (classification + specialist calls)
	LLM LLMConfig `json:"llm"`

	// Embedding engine configuration
	Embedding EmbeddingConfig `json:"embedding"`

	// Conversation history store
	History HistoryConfig `json:"history"`

	// Document rendering
	Render RenderConfig `json:"render"`

	// Logging
	Logging LoggingConfig `json:"logging"`
}

// LLMConfig configures the text-generation collaborator.
type LLMConfig struct {
	Provider string `json:"provider"` // openai, gemini
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
	BaseURL  string `json:"base_url"`
	Timeout  string `json:"timeout"`
}

// EmbeddingConfig configures the embedding collaborator.
type EmbeddingConfig struct {
	Provider       string `json:"provider"` // ollama, genai
	OllamaEndpoint string `json:"ollama_endpoint"`
	OllamaModel    string `json:"ollama_model"`
	GenAIAPIKey    string `json:"genai_api_key"`
	GenAIModel     string `json:"genai_model"`
}

// HistoryConfig configures the conversation history store.
type HistoryConfig struct {
	// Directory holding the persisted record and vector files.
	Dir string `json:"dir"`

	// Collection name used as the file prefix.
	Collection string `json:"collection"`

	// RecentWindow is how many past conversations are injected as
	// historical context before each specialist call.
	RecentWindow int `json:"recent_window"`

	// DecisionWindow is how many past routing decisions the classifier
	// sees when choosing a specialist.
	DecisionWindow int `json:"decision_window"`
}

// RenderConfig configures document rendering.
type RenderConfig struct {
	OutputDir string `json:"output_dir"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Level      string          `json:"level"` // debug, info, warn, error
	Categories map[string]bool `json:"categories"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "workforce",
		Version: "1.0.0",

		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
			BaseURL:  "https://api.openai.com/v1",
			Timeout:  "120s",
		},

		Embedding: EmbeddingConfig{
			Provider:       "ollama",
			OllamaEndpoint: "http://localhost:11434",
			OllamaModel:    "embeddinggemma",
			GenAIModel:     "gemini-embedding-001",
		},

		History: HistoryConfig{
			Dir:            "vector_db",
			Collection:     "chat_history",
			RecentWindow:   50,
			DecisionWindow: 20,
		},

		Render: RenderConfig{
			OutputDir: ".",
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	return filepath.Join(workspace, ".workforce", "config.json")
}

// Load loads configuration for a workspace, falling back to defaults when the
// config file does not exist.
func Load(workspace string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to the workspace config path.
func (c *Config) Save(workspace string) error {
	path := Path(workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// LLMTimeout parses the configured LLM timeout, with a sane fallback.
func (c *Config) LLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// API keys in priority order: an explicit provider key wins.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		if c.LLM.Provider == "" {
			c.LLM.Provider = "openai"
		}
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		if c.LLM.Provider == "gemini" || c.LLM.APIKey == "" {
			c.LLM.APIKey = key
			c.LLM.Provider = "gemini"
		}
		if c.Embedding.GenAIAPIKey == "" {
			c.Embedding.GenAIAPIKey = key
		}
	}

	if url := os.Getenv("WORKFORCE_LLM_BASE_URL"); url != "" {
		c.LLM.BaseURL = url
	}
	if model := os.Getenv("WORKFORCE_LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if dir := os.Getenv("WORKFORCE_HISTORY_DIR"); dir != "" {
		c.History.Dir = dir
	}
	if dir := os.Getenv("WORKFORCE_OUTPUT_DIR"); dir != "" {
		c.Render.OutputDir = dir
	}
	if endpoint := os.Getenv("OLLAMA_HOST"); endpoint != "" {
		c.Embedding.OllamaEndpoint = endpoint
	}
}
