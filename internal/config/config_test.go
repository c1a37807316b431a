package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"FAQBOT_CORPUS", "FAQBOT_MODEL", "FAQBOT_API_BASE"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
	assert.Equal(t, 0.2, cfg.Retrieval.ThresholdValue())
	assert.Equal(t, "none", cfg.Generator.Type)
}

func TestLoad_FillsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
corpus:
  path: faq.yaml
dialogue:
  company_name: ACME
generator:
  type: openai
handoff:
  type: sqlite
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "faq.yaml", cfg.Corpus.Path)
	assert.Equal(t, "ACME", cfg.Dialogue.CompanyName)
	assert.Equal(t, 220, cfg.Dialogue.AgentContextLimit)
	assert.Equal(t, 0.2, cfg.Retrieval.ThresholdValue())
	require.NotNil(t, cfg.Generator.OpenAI)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Generator.OpenAI.BaseURL)
	assert.Equal(t, "FAQBOT_API_KEY", cfg.Generator.OpenAI.APIKeyEnv)
	assert.Equal(t, 30, cfg.Generator.OpenAI.TimeoutSecs)
	require.NotNil(t, cfg.Handoff.SQLite)
	assert.Equal(t, "faqbot-handoff.db", cfg.Handoff.SQLite.Path)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corpus: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FAQBOT_CORPUS", "/srv/faq.json")
	t.Setenv("FAQBOT_MODEL", "llama3")
	t.Setenv("FAQBOT_API_BASE", "http://localhost:11434/v1")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/faq.json", cfg.Corpus.Path)
	assert.Equal(t, "openai", cfg.Generator.Type)
	require.NotNil(t, cfg.Generator.OpenAI)
	assert.Equal(t, "llama3", cfg.Generator.OpenAI.Model)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Generator.OpenAI.BaseURL)
	assert.Equal(t, "FAQBOT_API_KEY", cfg.Generator.OpenAI.APIKeyEnv)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Dialogue.CompanyName = "ACME"
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoad_ExplicitZeroThresholdIsKept(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retrieval:\n  threshold: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Retrieval.Threshold)
	assert.Equal(t, 0.0, cfg.Retrieval.ThresholdValue())

	require.NoError(t, os.WriteFile(path, []byte("retrieval:\n  threshold: 0.35\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.35, cfg.Retrieval.ThresholdValue())

	assert.Equal(t, DefaultThreshold, RetrievalConfig{}.ThresholdValue())
}
