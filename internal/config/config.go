package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CorpusConfig points at the FAQ knowledge base file (.csv, .yaml or .json).
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// DefaultThreshold is used when retrieval.threshold is absent.
const DefaultThreshold = 0.2

// RetrievalConfig tunes the lexical matcher. Threshold is a pointer so an
// explicit 0 is kept.
type RetrievalConfig struct {
	Threshold *float64 `yaml:"threshold,omitempty"`
}

// ThresholdValue returns the configured threshold or DefaultThreshold.
func (r RetrievalConfig) ThresholdValue() float64 {
	if r.Threshold == nil {
		return DefaultThreshold
	}
	return *r.Threshold
}

// Float returns a pointer to v, for building configs in code.
func Float(v float64) *float64 { return &v }

// DialogueConfig holds the customer-facing wording of the policy.
type DialogueConfig struct {
	CompanyName       string `yaml:"company_name"`
	AgentContextLimit int    `yaml:"agent_context_limit"`
}

// OpenAIGeneratorConfig holds configuration for the OpenAI-compatible chat provider.
type OpenAIGeneratorConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	Temperature float64 `yaml:"temperature"`
}

// GeneratorConfig selects the answer generator. "none" runs the policy in
// fallback mode with raw FAQ answers.
type GeneratorConfig struct {
	Type   string                 `yaml:"type"`
	OpenAI *OpenAIGeneratorConfig `yaml:"openai,omitempty"`
}

// SQLiteHandoffConfig locates the transfer queue database.
type SQLiteHandoffConfig struct {
	Path string `yaml:"path"`
}

// HandoffConfig selects where transfer tickets go: "log" or "sqlite".
type HandoffConfig struct {
	Type   string               `yaml:"type"`
	SQLite *SQLiteHandoffConfig `yaml:"sqlite,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Dialogue  DialogueConfig  `yaml:"dialogue"`
	Generator GeneratorConfig `yaml:"generator"`
	Handoff   HandoffConfig   `yaml:"handoff"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(&cfg)
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/faqbot/config.yaml.
// If neither exists, it writes defaults to ~/.config/faqbot/config.yaml and returns them.
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
	applyEnvOverrides(cfg)
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
	return filepath.Join(home, ".config", "faqbot", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Corpus:    CorpusConfig{Path: "data/faq.csv"},
		Retrieval: RetrievalConfig{Threshold: Float(DefaultThreshold)},
		Dialogue:  DialogueConfig{CompanyName: "nuestra empresa", AgentContextLimit: 220},
		Generator: GeneratorConfig{Type: "none"},
		Handoff:   HandoffConfig{Type: "log"},
		Server:    ServerConfig{Addr: ":8080"},
		Logging:   LoggingConfig{Mode: "development", Level: "info"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	d := defaultConfig()
	if cfg.Corpus.Path == "" {
		cfg.Corpus.Path = d.Corpus.Path
	}
	if cfg.Retrieval.Threshold == nil {
		cfg.Retrieval.Threshold = d.Retrieval.Threshold
	}
	if cfg.Dialogue.CompanyName == "" {
		cfg.Dialogue.CompanyName = d.Dialogue.CompanyName
	}
	if cfg.Dialogue.AgentContextLimit <= 0 {
		cfg.Dialogue.AgentContextLimit = d.Dialogue.AgentContextLimit
	}
	if cfg.Generator.Type == "" {
		cfg.Generator.Type = d.Generator.Type
	}
	if cfg.Generator.Type == "openai" {
		if cfg.Generator.OpenAI == nil {
			cfg.Generator.OpenAI = &OpenAIGeneratorConfig{}
		}
		if cfg.Generator.OpenAI.BaseURL == "" {
			cfg.Generator.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Generator.OpenAI.APIKeyEnv == "" {
			cfg.Generator.OpenAI.APIKeyEnv = "FAQBOT_API_KEY"
		}
		if cfg.Generator.OpenAI.Model == "" {
			cfg.Generator.OpenAI.Model = "gpt-4o-mini"
		}
		if cfg.Generator.OpenAI.TimeoutSecs == 0 {
			cfg.Generator.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Handoff.Type == "" {
		cfg.Handoff.Type = d.Handoff.Type
	}
	if cfg.Handoff.Type == "sqlite" {
		if cfg.Handoff.SQLite == nil {
			cfg.Handoff.SQLite = &SQLiteHandoffConfig{}
		}
		if cfg.Handoff.SQLite.Path == "" {
			cfg.Handoff.SQLite.Path = "faqbot-handoff.db"
		}
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = d.Server.Addr
	}
	if cfg.Logging.Mode == "" {
		cfg.Logging.Mode = d.Logging.Mode
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
}

// applyEnvOverrides lets deployments switch model, endpoint and corpus
// without editing the YAML file. Setting a model or API base selects the
// openai generator.
func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("FAQBOT_CORPUS")); v != "" {
		cfg.Corpus.Path = v
	}
	model := strings.TrimSpace(os.Getenv("FAQBOT_MODEL"))
	base := strings.TrimSpace(os.Getenv("FAQBOT_API_BASE"))
	if model == "" && base == "" {
		return
	}
	cfg.Generator.Type = "openai"
	if cfg.Generator.OpenAI == nil {
		cfg.Generator.OpenAI = &OpenAIGeneratorConfig{}
	}
	if model != "" {
		cfg.Generator.OpenAI.Model = model
	}
	if base != "" {
		cfg.Generator.OpenAI.BaseURL = base
	}
	applyConfigDefaults(cfg)
}
