// Package cloudocr provides an OCR enrichment adapter using the
// CloudConvert job API: create a job, upload the document, poll until the
// job settles, download the exported PDF with its text layer.
package cloudocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/core/ports/driven"
	"github.com/custodia-labs/docmill/internal/logger"
)

// Ensure Enricher implements the interface.
var _ driven.Enricher = (*Enricher)(nil)

// Default configuration values.
const (
	DefaultBaseURL      = "https://api.cloudconvert.com/v2"
	DefaultLanguage     = "eng"
	DefaultTimeout      = 5 * time.Minute
	DefaultPollInterval = 2 * time.Second
)

// Task names within the OCR job.
const (
	taskImport = "import-my-file"
	taskOCR    = "ocr-my-file"
	taskExport = "export-my-file"
)

// Config holds configuration for the CloudConvert OCR enricher.
type Config struct {
	// APIKey is the CloudConvert API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.cloudconvert.com/v2).
	BaseURL string

	// Language is the OCR language code (default: eng).
	Language string

	// OutputDir is where enriched documents are written (required).
	OutputDir string

	// Timeout bounds one whole enrichment, upload and polling included
	// (default: 5m).
	Timeout time.Duration

	// PollInterval is the delay between job status checks (default: 2s).
	PollInterval time.Duration
}

// Enricher runs documents through the CloudConvert OCR pipeline.
type Enricher struct {
	client       *http.Client
	baseURL      string
	apiKey       string
	language     string
	outputDir    string
	timeout      time.Duration
	pollInterval time.Duration
}

// New creates a CloudConvert OCR enricher.
func New(cfg Config) (*Enricher, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cloudocr: API key is required")
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("cloudocr: output directory is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if err := os.MkdirAll(cfg.OutputDir, 0700); err != nil {
		return nil, fmt.Errorf("cloudocr: creating output directory: %w", err)
	}

	return &Enricher{
		client:       &http.Client{},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
		outputDir:    cfg.OutputDir,
		timeout:      cfg.Timeout,
		pollInterval: cfg.PollInterval,
	}, nil
}

// job is the subset of the CloudConvert job document we consume.
type job struct {
	Data struct {
		ID     string    `json:"id"`
		Status string    `json:"status"`
		Tasks  []jobTask `json:"tasks"`
	} `json:"data"`
}

type jobTask struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Result struct {
		Form *struct {
			URL        string            `json:"url"`
			Parameters map[string]string `json:"parameters"`
		} `json:"form"`
		Files []struct {
			Filename string `json:"filename"`
			URL      string `json:"url"`
		} `json:"files"`
	} `json:"result"`
}

// Enrich uploads the document at path, waits for the OCR job and writes
// the enriched PDF next to the other enriched artifacts.
func (e *Enricher) Enrich(ctx context.Context, path string) (driven.EnrichmentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	failed := driven.EnrichmentResult{Status: domain.EnrichmentFailed}

	logger.Info("starting OCR for %s", filepath.Base(path))

	created, err := e.createJob(ctx)
	if err != nil {
		return failed, err
	}

	importTask := findTask(created.Data.Tasks, taskImport)
	if importTask == nil || importTask.Result.Form == nil {
		return failed, fmt.Errorf("cloudocr: job %s has no upload form", created.Data.ID)
	}
	if err := e.upload(ctx, importTask.Result.Form.URL, importTask.Result.Form.Parameters, path); err != nil {
		return failed, err
	}

	finished, err := e.waitForJob(ctx, created.Data.ID)
	if err != nil {
		return failed, err
	}

	export := findTask(finished.Data.Tasks, taskExport)
	if export == nil || export.Status != "finished" || len(export.Result.Files) == 0 {
		return failed, fmt.Errorf("cloudocr: job %s produced no export", created.Data.ID)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(e.outputDir, stem+"_ocr.pdf")
	if err := e.download(ctx, export.Result.Files[0].URL, outPath); err != nil {
		return failed, err
	}

	logger.Info("OCR completed: %s", filepath.Base(outPath))
	return driven.EnrichmentResult{
		Status:     domain.EnrichmentCompleted,
		OutputPath: outPath,
	}, nil
}

// createJob registers the three-task OCR job.
func (e *Enricher) createJob(ctx context.Context) (*job, error) {
	payload := map[string]any{
		"tasks": map[string]any{
			taskImport: map[string]any{
				"operation": "import/upload",
			},
			taskOCR: map[string]any{
				"operation":     "ocr",
				"input":         taskImport,
				"language":      e.language,
				"output_format": "pdf",
			},
			taskExport: map[string]any{
				"operation": "export/url",
				"input":     taskOCR,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("cloudocr: marshal job: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/jobs", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("cloudocr: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	return e.doJob(req)
}

// waitForJob polls until the job reaches a terminal status.
func (e *Enricher) waitForJob(ctx context.Context, id string) (*job, error) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/jobs/"+id, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("cloudocr: create poll request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+e.apiKey)

		j, err := e.doJob(req)
		if err != nil {
			return nil, err
		}

		switch j.Data.Status {
		case "finished":
			return j, nil
		case "error":
			return nil, fmt.Errorf("cloudocr: job %s failed", id)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("cloudocr: waiting for job %s: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}

// doJob executes a request expecting a job document back.
func (e *Enricher) doJob(req *http.Request) (*job, error) {
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudocr: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cloudocr: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("cloudocr: API returned status %d: %s", resp.StatusCode, string(body))
	}

	var j job
	if err := json.Unmarshal(body, &j); err != nil {
		return nil, fmt.Errorf("cloudocr: decode response: %w", err)
	}
	return &j, nil
}

// upload posts the file to the import task's signed form.
func (e *Enricher) upload(ctx context.Context, formURL string, params map[string]string, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cloudocr: opening %s: %w", path, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("cloudocr: writing form field: %w", err)
		}
	}
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("cloudocr: creating form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("cloudocr: buffering %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("cloudocr: closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, formURL, &buf)
	if err != nil {
		return fmt.Errorf("cloudocr: create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("cloudocr: upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("cloudocr: upload returned status %d", resp.StatusCode)
	}
	return nil
}

// download fetches the exported file to outPath.
func (e *Enricher) download(ctx context.Context, url, outPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("cloudocr: create download request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("cloudocr: download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cloudocr: download returned status %d", resp.StatusCode)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("cloudocr: creating %s: %w", outPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(outPath)
		return fmt.Errorf("cloudocr: writing %s: %w", outPath, err)
	}
	return nil
}

// findTask returns the named task, or nil.
func findTask(tasks []jobTask, name string) *jobTask {
	for i := range tasks {
		if tasks[i].Name == name {
			return &tasks[i]
		}
	}
	return nil
}
