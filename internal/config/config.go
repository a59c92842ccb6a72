package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PathsConfig holds the filesystem locations the pipeline works with.
type PathsConfig struct {
	TranscriptsDir string `yaml:"transcripts_dir"`
	IndexPath      string `yaml:"index_path"`
	MemoryPath     string `yaml:"memory_path"`
	EvalSamples    string `yaml:"eval_samples"`
	EvalReport     string `yaml:"eval_report"`
}

// GeminiConfig holds the shared Gemini API settings. The key itself comes
// from the environment, never the config file.
type GeminiConfig struct {
	APIKeyEnv     string `yaml:"api_key_env"`
	EmbedModel    string `yaml:"embed_model"`
	GenerateModel string `yaml:"generate_model"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how transcripts are split into windows.
type ChunkerConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// RetrievalConfig tunes candidate filtering.
type RetrievalConfig struct {
	// FiscalQuarters switches the filename quarter map from calendar to
	// fiscal-year alignment.
	FiscalQuarters bool `yaml:"fiscal_quarters"`
	// AllowUntrustedIndex skips index manifest verification at load time.
	AllowUntrustedIndex bool `yaml:"allow_untrusted_index"`
}

// SummarizerConfig configures the corpus summary printed after indexing.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Paths      PathsConfig      `yaml:"paths"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Chunker    ChunkerConfig    `yaml:"chunker"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/mnc-insights/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mnc-insights", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Paths: PathsConfig{
			TranscriptsDir: "data/transcripts",
			IndexPath:      "data/outputs/mnc_index.jsonl",
			MemoryPath:     "data/outputs/chat_memory.json",
			EvalSamples:    "evaluation_samples.json",
			EvalReport:     "evaluation_results.csv",
		},
		Embedder:   EmbedderConfig{Type: "gemini"},
		Chunker:    ChunkerConfig{ChunkSize: 500, ChunkOverlap: 50},
		Summarizer: SummarizerConfig{MaxSentences: 5},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Paths.TranscriptsDir == "" {
		cfg.Paths.TranscriptsDir = "data/transcripts"
	}
	if cfg.Paths.IndexPath == "" {
		cfg.Paths.IndexPath = "data/outputs/mnc_index.jsonl"
	}
	if cfg.Paths.MemoryPath == "" {
		cfg.Paths.MemoryPath = "data/outputs/chat_memory.json"
	}
	if cfg.Paths.EvalSamples == "" {
		cfg.Paths.EvalSamples = "evaluation_samples.json"
	}
	if cfg.Paths.EvalReport == "" {
		cfg.Paths.EvalReport = "evaluation_results.csv"
	}
	if cfg.Gemini.APIKeyEnv == "" {
		cfg.Gemini.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.Gemini.EmbedModel == "" {
		cfg.Gemini.EmbedModel = "text-embedding-004"
	}
	if cfg.Gemini.GenerateModel == "" {
		cfg.Gemini.GenerateModel = "gemini-2.0-flash"
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "gemini"
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 500
	}
	if cfg.Chunker.ChunkOverlap == 0 {
		cfg.Chunker.ChunkOverlap = 50
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 5
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
}
