package integrations

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeminiServer(t *testing.T, status int, body string) (*httptest.Server, <-chan string) {
	t.Helper()
	prompts := make(chan string, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.Unmarshal(raw, &req); err == nil && len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			prompts <- req.Contents[0].Parts[0].Text
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, prompts
}

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}

func TestGeminiGenerate(t *testing.T) {
	srv, prompt := newGeminiServer(t, http.StatusOK, `{
		"candidates": [{
			"content": {"role": "model", "parts": [{"text": "{\"title\": \"Paper pickup\"}"}]},
			"finishReason": "STOP"
		}]
	}`)

	gen, err := NewGeminiGenerator(context.Background(), GeminiConfig{
		APIKey:  "test",
		BaseURL: srv.URL + "/",
	})
	require.NoError(t, err)

	out, err := gen.Generate(context.Background(), "extract this")
	require.NoError(t, err)
	assert.Equal(t, `{"title": "Paper pickup"}`, out)
	assert.Equal(t, "extract this", <-prompt)
}

func TestGeminiGenerateServerError(t *testing.T) {
	srv, _ := newGeminiServer(t, http.StatusInternalServerError, `{"error": {"code": 500, "message": "internal", "status": "INTERNAL"}}`)

	gen, err := NewGeminiGenerator(context.Background(), GeminiConfig{APIKey: "test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "extract this")
	assert.Error(t, err)
}
