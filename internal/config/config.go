// Package config holds all goalkeep configuration, loaded from a YAML file
// under the data directory with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all goalkeep configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM completion service
	LLM LLMConfig `yaml:"llm"`

	// Signal engine tuning
	Analysis AnalysisConfig `yaml:"analysis"`

	// Storage
	Storage StorageConfig `yaml:"storage"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the external text-completion service.
type LLMConfig struct {
	Provider string `yaml:"provider"` // openai, gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// AnalysisConfig is the single named surface for every tuned constant in the
// signal engine. The same constants were historically re-derived ad hoc at
// each call site; keeping them here prevents silent divergence between
// equivalent-seeming behaviors (momentum smoothing and profile blending use
// the same SmoothingKeep/SmoothingBlend pair on purpose).
type AnalysisConfig struct {
	// Drift detection
	DriftThreshold       float64 `yaml:"drift_threshold"`        // matchRatio below this => drifting (0.15)
	DriftHighSensitivity float64 `yaml:"drift_high_sensitivity"` // high-sensitivity override ratio (0.35)
	DriftMinMessages     int     `yaml:"drift_min_messages"`     // below this the check is vacuously aligned (6)
	DriftWindow          int     `yaml:"drift_window"`           // recent messages scanned for keyword overlap (4)

	// LLM analyzer throttles, in user messages between invocations
	DriftCheckInterval    int `yaml:"drift_check_interval"`
	InsightCheckInterval  int `yaml:"insight_check_interval"`
	ActionCheckInterval   int `yaml:"action_check_interval"`
	UnifiedCheckInterval  int `yaml:"unified_check_interval"`

	// Confidence gates. The single-analyzer and unified paths intentionally
	// differ; the combined prompt runs over a longer window and needs the
	// stricter gate.
	InsightConfidenceMin        float64 `yaml:"insight_confidence_min"`         // strict > (0.6)
	UnifiedInsightConfidenceMin float64 `yaml:"unified_insight_confidence_min"` // strict > (0.7)

	// Action item text bounds after trimming, half-open [min, max)
	ActionTextMinLen int `yaml:"action_text_min_len"`
	ActionTextMaxLen int `yaml:"action_text_max_len"`

	// Shared exponential smoothing pair. Used by both the momentum estimator
	// and the cognitive profile blender.
	SmoothingKeep  float64 `yaml:"smoothing_keep"`  // weight on the existing value (0.7)
	SmoothingBlend float64 `yaml:"smoothing_blend"` // weight on the new observation (0.3)

	// Prompt budgeting
	PromptWindowMessages int `yaml:"prompt_window_messages"` // transcript tail included in prompts
	PromptMessageMaxLen  int `yaml:"prompt_message_max_len"` // per-message truncation in chars

	// Behavioral inference
	TraitMinSamples     int     `yaml:"trait_min_samples"`     // samples before a trait goes active (5)
	TraitConfidenceMin  float64 `yaml:"trait_confidence_min"`  // confidence gate for hints (0.3)
	ObservationCooldown string  `yaml:"observation_cooldown"`  // global cooldown between observations (30m)

	// Insight history bound, newest first
	InsightHistoryMax int `yaml:"insight_history_max"`
}

// StorageConfig configures the key-value store.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures categorized debug logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	JSONFormat bool            `yaml:"json_format"`
	Categories map[string]bool `yaml:"categories"`
}

// DefaultDataDir returns the goalkeep data directory (~/.goalkeep).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".goalkeep"
	}
	return filepath.Join(home, ".goalkeep")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "goalkeep",
		Version: "0.3.0",

		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
			BaseURL:  "https://api.openai.com/v1",
			Timeout:  "60s",
		},

		Analysis: AnalysisConfig{
			DriftThreshold:       0.15,
			DriftHighSensitivity: 0.35,
			DriftMinMessages:     6,
			DriftWindow:          4,

			DriftCheckInterval:   4,
			InsightCheckInterval: 3,
			ActionCheckInterval:  2,
			UnifiedCheckInterval: 8,

			InsightConfidenceMin:        0.6,
			UnifiedInsightConfidenceMin: 0.7,

			ActionTextMinLen: 5,
			ActionTextMaxLen: 200,

			SmoothingKeep:  0.7,
			SmoothingBlend: 0.3,

			PromptWindowMessages: 10,
			PromptMessageMaxLen:  500,

			TraitMinSamples:     5,
			TraitConfidenceMin:  0.3,
			ObservationCooldown: "30m",

			InsightHistoryMax: 50,
		},

		Storage: StorageConfig{
			DatabasePath: filepath.Join(DefaultDataDir(), "goalkeep.db"),
		},

		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Env overrides apply on a fresh install too.
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
// API keys are checked in priority order; the last match wins.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		if c.LLM.Provider == "" {
			c.LLM.Provider = "openai"
		}
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
	}
	if key := os.Getenv("GOALKEEP_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if path := os.Getenv("GOALKEEP_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// GetObservationCooldown returns the behavioral observation cooldown as a duration.
func (c *Config) GetObservationCooldown() time.Duration {
	d, err := time.ParseDuration(c.Analysis.ObservationCooldown)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}
