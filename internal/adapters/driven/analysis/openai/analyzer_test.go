package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analysisServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), "Bearer ")

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		messages, ok := req["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 2)

		w.WriteHeader(status)
		if status == http.StatusOK {
			resp := map[string]any{
				"choices": []any{
					map[string]any{"message": map[string]any{"content": content}},
				},
			}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
			return
		}
		fmt.Fprint(w, `{"error":{"message":"rate limited","type":"rate_limit"}}`)
	}))
	t.Cleanup(server.Close)
	return server
}

func testAnalyzer(t *testing.T, server *httptest.Server) *Analyzer {
	t.Helper()

	analyzer, err := New(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return analyzer
}

func TestAnalyzer_Analyze(t *testing.T) {
	ctx := context.Background()
	metadata := map[string]any{"document_id": "DOC_1"}

	t.Run("parses the structured analysis", func(t *testing.T) {
		content := `{
			"document_type": "invoice",
			"supplier": "ACME Corp",
			"date": "2026-03-01",
			"key_info": {"total": "42.00"},
			"confidence": 0.92,
			"anomalies": ["total does not match line items"]
		}`
		analyzer := testAnalyzer(t, analysisServer(t, content, http.StatusOK))

		analysis, err := analyzer.Analyze(ctx, "Invoice from ACME Corp", metadata)
		require.NoError(t, err)

		assert.Equal(t, "invoice", analysis.DocumentType)
		assert.Equal(t, "ACME Corp", analysis.Supplier)
		assert.Equal(t, "2026-03-01", analysis.Date)
		assert.Equal(t, "42.00", analysis.KeyInfo["total"])
		assert.InDelta(t, 0.92, analysis.Confidence, 0.001)
		assert.Equal(t, []string{"total does not match line items"}, analysis.Anomalies)
	})

	t.Run("API error surfaces", func(t *testing.T) {
		analyzer := testAnalyzer(t, analysisServer(t, "", http.StatusTooManyRequests))

		_, err := analyzer.Analyze(ctx, "text", metadata)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("non-JSON content is an error", func(t *testing.T) {
		analyzer := testAnalyzer(t, analysisServer(t, "I could not analyze this.", http.StatusOK))

		_, err := analyzer.Analyze(ctx, "text", metadata)
		assert.Error(t, err)
	})

	t.Run("long documents are truncated in the prompt", func(t *testing.T) {
		var gotPrompt string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Messages []struct {
					Content string `json:"content"`
				} `json:"messages"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			gotPrompt = req.Messages[1].Content
			fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"document_type\":\"letter\",\"confidence\":0.5}"}}]}`)
		}))
		defer server.Close()

		analyzer := testAnalyzer(t, server)
		_, err := analyzer.Analyze(ctx, strings.Repeat("x", 10*maxDocumentChars), metadata)
		require.NoError(t, err)
		assert.Less(t, len(gotPrompt), 2*maxDocumentChars)
	})
}

func TestNew_Defaults(t *testing.T) {
	t.Run("requires API key", func(t *testing.T) {
		_, err := New(Config{})
		assert.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		analyzer, err := New(Config{APIKey: "key"})
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, analyzer.ModelName())
		assert.Equal(t, DefaultBaseURL, analyzer.baseURL)
	})
}
