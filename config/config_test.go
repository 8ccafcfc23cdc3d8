package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server_addr: ":9090"
catalog_path: site/products.json
watch_catalog: true
llm:
  provider: deepseek
  model: deepseek-chat
  base_url: https://api.deepseek.example/v1
  timeout: 15s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, "site/products.json", cfg.CatalogPath)
	assert.True(t, cfg.WatchCatalog)
	assert.Equal(t, "deepseek", cfg.LLM.Provider)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "OPENAI_API_KEY", cfg.LLM.APIKeyEnv, "unset keys keep defaults")
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"server_addr": ":7070", "llm": {"provider": "mock"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.ServerAddr)
	assert.Equal(t, "mock", cfg.LLM.Provider)
}

func TestLoadRejectsInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"deepseek without base_url": "llm:\n  provider: deepseek\n",
		"unknown provider":          "llm:\n  provider: llama\n",
		"empty provider":            "llm:\n  provider: \"\"\n",
		"bad yaml":                  "llm: [",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "c.yaml", body))
			assert.Error(t, err)
		})
	}
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("COMPLY_TEST_KEY", "from-env")

	assert.Equal(t, "explicit", LLMConfig{APIKey: "explicit", APIKeyEnv: "COMPLY_TEST_KEY"}.ResolveAPIKey())
	assert.Equal(t, "from-env", LLMConfig{APIKeyEnv: "COMPLY_TEST_KEY"}.ResolveAPIKey())

	t.Setenv("OPENAI_API_KEY", "")
	assert.Equal(t, "", LLMConfig{}.ResolveAPIKey())
}
