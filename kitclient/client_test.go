package kitclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comply_desk/catalog"
	"comply_desk/document"
	"comply_desk/generator"
	"comply_desk/server"
)

type cannedLLM struct{ reply string }

func (c cannedLLM) Complete(context.Context, generator.Prompt) (string, error) {
	return c.reply, nil
}

func acmeForm() Form {
	return Form{BusinessName: "  Acme Co ", Industry: "Retail", State: "CA"}
}

func newController(t *testing.T, endpoint string) *Controller {
	t.Helper()
	c, err := New(catalog.Default(), Config{Endpoint: endpoint})
	require.NoError(t, err)
	return c
}

func TestSubmitAgainstService(t *testing.T) {
	agent, err := generator.NewAgent(cannedLLM{reply: `{"summary":"S","sections":[{"title":"<script>x</script>","items":["a","b"]}],"disclaimer":"D"}`}, nil)
	require.NoError(t, err)
	store, err := catalog.NewStore(catalog.Default())
	require.NoError(t, err)
	srv, err := server.New(agent, store, server.Options{})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	c := newController(t, ts.URL+"/generateKit")
	res, err := c.Submit(context.Background(), "osha-essentials-kit", acmeForm(), true)
	require.NoError(t, err)
	require.Nil(t, res.DownloadErr)

	assert.Equal(t, "S", res.Plan.Summary)
	assert.Equal(t, "comply-desk-osha-essentials-kit.docx", res.Filename)
	assert.NotContains(t, res.HTML, "<script>")
	assert.Contains(t, res.HTML, "&lt;script&gt;")

	dir := t.TempDir()
	path, err := res.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "comply-desk-osha-essentials-kit.docx"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	paras, err := document.ReadParagraphs(data)
	require.NoError(t, err)
	assert.Equal(t, "For: Acme Co", paras[1].Text, "form fields are trimmed")
	assert.Equal(t, StateIdle, c.State())
}

func TestSubmitValidationSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer ts.Close()
	c := newController(t, ts.URL)

	for _, form := range []Form{
		{Industry: "Retail", State: "CA"},
		{BusinessName: "Acme", Industry: "   ", State: "CA"},
		{BusinessName: "Acme", Industry: "Retail"},
	} {
		_, err := c.Submit(context.Background(), "osha-essentials-kit", form, false)
		var se *SubmitError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, KindValidation, se.Kind)
		assert.Equal(t, DefaultMessages().Validation, se.Message)
	}

	_, err := c.Submit(context.Background(), "no-such-kit", acmeForm(), false)
	var se *SubmitError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindUnknownProduct, se.Kind)

	assert.Equal(t, int32(0), hits.Load())
}

func TestSubmitSurfacesErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Error: OpenAI error: quota exceeded", http.StatusInternalServerError)
	}))
	defer ts.Close()
	c := newController(t, ts.URL)

	_, err := c.Submit(context.Background(), "osha-essentials-kit", acmeForm(), false)
	var se *SubmitError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindGeneration, se.Kind)
	assert.Contains(t, se.Error(), "Error: OpenAI error: quota exceeded")
	assert.Equal(t, StateIdle, c.State(), "state restored after failure")
}

func TestSubmitDownloadFailureKeepsOutline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"summary":"S","docxBase64":"%%%not-base64","filename":"x.docx"}`))
	}))
	defer ts.Close()
	c := newController(t, ts.URL)

	res, err := c.Submit(context.Background(), "osha-essentials-kit", acmeForm(), false)
	require.NoError(t, err)
	assert.Equal(t, "S", res.Plan.Summary)
	assert.Contains(t, res.HTML, "<h2>Summary</h2>")
	require.NotNil(t, res.DownloadErr)
	assert.Equal(t, KindDownload, res.DownloadErr.Kind)
	assert.Equal(t, DefaultMessages().DownloadFailed, res.DownloadErr.Message)

	_, err = res.Save(t.TempDir())
	assert.Error(t, err)
}

func TestSubmitFallbackFilenameAndSanitizedSave(t *testing.T) {
	for name, body := range map[string]string{
		"no filename":   `{"summary":"S","docxBase64":"UEsFBg=="}`,
		"path filename": `{"summary":"S","docxBase64":"UEsFBg==","filename":"../../evil.docx"}`,
	} {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer ts.Close()
			c := newController(t, ts.URL)

			res, err := c.Submit(context.Background(), "osha-essentials-kit", acmeForm(), false)
			require.NoError(t, err)
			require.Nil(t, res.DownloadErr)

			dir := t.TempDir()
			path, err := res.Save(dir)
			require.NoError(t, err)
			assert.Equal(t, dir, filepath.Dir(path))
		})
	}
}

func TestSubmitMissingDocument(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"summary":"S"}`))
	}))
	defer ts.Close()
	c := newController(t, ts.URL)

	res, err := c.Submit(context.Background(), "osha-essentials-kit", acmeForm(), false)
	require.NoError(t, err)
	require.NotNil(t, res.DownloadErr)
	assert.Equal(t, DefaultMessages().MissingDownload, res.DownloadErr.Message)
}

func TestSubmitOneInFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		_, _ = w.Write([]byte(`{"summary":"S"}`))
	}))
	defer ts.Close()
	c := newController(t, ts.URL)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), "osha-essentials-kit", acmeForm(), false)
		done <- err
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first submission never reached the server")
	}
	assert.Equal(t, StateSubmitting, c.State())
	_, err := c.Submit(context.Background(), "osha-essentials-kit", acmeForm(), false)
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, c.State())
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(nil, Config{Endpoint: "http://x"})
	assert.Error(t, err)
	_, err = New(catalog.Default(), Config{})
	assert.Error(t, err)
}
