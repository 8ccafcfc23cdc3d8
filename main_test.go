package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comply_desk/catalog"
	"comply_desk/config"
	"comply_desk/generator"
	"comply_desk/server"
)

func TestBuildLLM(t *testing.T) {
	cfg := config.Default()

	llm, err := buildLLM(cfg)
	require.NoError(t, err)
	assert.IsType(t, &generator.OpenAILLM{}, llm)

	cfg.LLM.Provider = "mock"
	llm, err = buildLLM(cfg)
	require.NoError(t, err)
	assert.IsType(t, generator.MockLLM{}, llm)

	cfg.LLM.Provider = "deepseek"
	_, err = buildLLM(cfg)
	assert.Error(t, err)

	cfg.LLM.BaseURL = "https://deepseek.example/v1"
	_, err = buildLLM(cfg)
	assert.NoError(t, err)

	cfg.LLM.Provider = "other"
	_, err = buildLLM(cfg)
	assert.Error(t, err)
}

func TestGenerateAndInspectCommands(t *testing.T) {
	agent, err := generator.NewAgent(generator.MockLLM{}, nil)
	require.NoError(t, err)
	store, err := catalog.NewStore(catalog.Default())
	require.NoError(t, err)
	srv, err := server.New(agent, store, server.Options{})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "outline.html")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"generate",
		"--config", filepath.Join(dir, "none.yaml"),
		"--endpoint", ts.URL + "/generateKit",
		"--product", "osha-essentials-kit",
		"--business", "Acme Co",
		"--industry", "Retail",
		"--state", "CA",
		"--out", dir,
		"--html", htmlPath,
	})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "OSHA Compliance Essentials Kit")
	assert.Contains(t, out.String(), "Policy statement")

	docPath := filepath.Join(dir, "comply-desk-osha-essentials-kit.docx")
	_, err = os.Stat(docPath)
	require.NoError(t, err)

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h2>Summary</h2>")

	out.Reset()
	rootCmd.SetArgs([]string{"inspect", docPath})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Notes & disclaimer")
	assert.Contains(t, out.String(), "For: Acme Co")
}
