// Package openai provides a document analysis adapter using the OpenAI
// chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/core/ports/driven"
	"github.com/custodia-labs/docmill/internal/logger"
)

// Ensure Analyzer implements the interface.
var _ driven.Analyzer = (*Analyzer)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 120 * time.Second

	// maxDocumentChars bounds how much document text goes into the prompt.
	maxDocumentChars = 3000
)

// Config holds configuration for the OpenAI analyzer.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Analyzer extracts structured findings from document text.
type Analyzer struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Model          string              `json:"model"`
	Messages       []chatCompletionMsg `json:"messages"`
	Temperature    float64             `json:"temperature,omitempty"`
	ResponseFormat *responseFormat     `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatCompletionMsg is the OpenAI chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// New creates a new OpenAI analyzer.
func New(cfg Config) (*Analyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Analyzer{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// analysisSystemPrompt frames the model as a document analyst.
const analysisSystemPrompt = "You are an expert document analyzer. " +
	"Analyze documents and extract structured information."

// analysisPromptTemplate asks for the fixed JSON shape the domain expects.
const analysisPromptTemplate = `Analyze the following document and provide:
1. Document type (invoice, contract, receipt, letter, etc.)
2. Supplier/vendor name (if applicable)
3. Date (if found)
4. Key information extracted
5. Confidence score (0-1)
6. Any anomalies detected

Document text:
%s

Provide your analysis in JSON format with keys: document_type, supplier, date, key_info, confidence, anomalies.
`

// Analyze inspects the document text and returns structured findings.
func (a *Analyzer) Analyze(ctx context.Context, text string, metadata map[string]any) (*domain.Analysis, error) {
	if id, ok := metadata["document_id"]; ok {
		logger.Debug("analyzing document %v", id)
	}
	if len(text) > maxDocumentChars {
		text = text[:maxDocumentChars]
	}

	reqBody := chatCompletionRequest{
		Model: a.model,
		Messages: []chatCompletionMsg{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(analysisPromptTemplate, text)},
		},
		Temperature:    0.3,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		a.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if chatResp.Error != nil {
		return nil, fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("openai: no response choices returned")
	}

	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &analysis); err != nil {
		return nil, fmt.Errorf("parsing analysis: %w", err)
	}

	logger.Info("document analysis complete: type=%s confidence=%.2f",
		analysis.DocumentType, analysis.Confidence)
	return &analysis, nil
}

// ModelName returns the name of the model being used.
func (a *Analyzer) ModelName() string {
	return a.model
}
