// Package gsuite records pipeline results in a Google spreadsheet and
// archives enriched documents to a Drive folder. Both are optional
// destinations configured with a service account.
package gsuite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/core/ports/driven"
	"github.com/custodia-labs/docmill/internal/logger"
)

// Scopes required for appending rows and uploading files.
var scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive",
}

// Worksheet names within the spreadsheet.
const (
	indexSheet = "Document Index"
	errorSheet = "Error Log"
)

// Config holds configuration for the Google recorder.
type Config struct {
	// CredentialsFile is the path to the service account JSON key (required).
	CredentialsFile string

	// SpreadsheetID is the target spreadsheet (required).
	SpreadsheetID string

	// DriveFolderID is the Drive folder receiving enriched documents.
	// Empty disables uploads; rows are still appended.
	DriveFolderID string
}

// Recorder appends one spreadsheet row per result and uploads the
// enriched artifact when a Drive folder is configured.
type Recorder struct {
	sheets        *sheets.Service
	drive         *drive.Service
	spreadsheetID string
	driveFolderID string
}

// Ensure Recorder implements the interface.
var _ driven.ResultRecorder = (*Recorder)(nil)

// NewRecorder builds the recorder from a service account key file.
func NewRecorder(ctx context.Context, cfg Config) (*Recorder, error) {
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("gsuite: credentials file is required")
	}
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("gsuite: spreadsheet ID is required")
	}

	key, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("gsuite: reading credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, key, scopes...)
	if err != nil {
		return nil, fmt.Errorf("gsuite: parsing credentials: %w", err)
	}

	sheetsService, err := sheets.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("gsuite: creating sheets service: %w", err)
	}
	driveService, err := drive.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("gsuite: creating drive service: %w", err)
	}

	return &Recorder{
		sheets:        sheetsService,
		drive:         driveService,
		spreadsheetID: cfg.SpreadsheetID,
		driveFolderID: cfg.DriveFolderID,
	}, nil
}

// Record appends the result row. Failed results additionally land in the
// error log worksheet. A Drive upload failure downgrades to a row without
// a link; the row itself still goes out.
func (r *Recorder) Record(ctx context.Context, result *domain.PipelineResult) error {
	driveLink := r.uploadArtifact(ctx, result)

	if err := r.appendIndexRow(ctx, result, driveLink); err != nil {
		return err
	}
	if result.Status.Failed() {
		if err := r.appendErrorRow(ctx, result); err != nil {
			return err
		}
	}
	return nil
}

// uploadArtifact pushes the best available artifact to Drive and returns
// its web link, or empty when nothing to upload.
func (r *Recorder) uploadArtifact(ctx context.Context, result *domain.PipelineResult) string {
	if r.driveFolderID == "" {
		return ""
	}
	path := result.EnrichedPath
	if path == "" {
		path = result.CleanedPath
	}
	if path == "" {
		return ""
	}

	file, err := os.Open(path)
	if err != nil {
		logger.Warn("opening %s for Drive upload: %v", path, err)
		return ""
	}
	defer file.Close()

	meta := &drive.File{
		Name:    filepath.Base(path),
		Parents: []string{r.driveFolderID},
	}
	created, err := r.drive.Files.Create(meta).
		Media(file).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		logger.Warn("uploading %s to Drive: %v", filepath.Base(path), err)
		return ""
	}

	logger.Info("uploaded to Drive: %s (ID: %s)", meta.Name, created.Id)
	return created.WebViewLink
}

// appendIndexRow writes the document bookkeeping row.
func (r *Recorder) appendIndexRow(ctx context.Context, result *domain.PipelineResult, driveLink string) error {
	supplier, docType := "", ""
	if result.Analysis != nil {
		supplier = result.Analysis.Supplier
		docType = result.Analysis.DocumentType
	}

	row := []any{
		result.DocumentID,
		result.FileName,
		result.ArrivalTime.Format(time.RFC3339),
		result.OriginalPages,
		result.RetainedPages,
		string(result.EnrichmentStatus),
		supplier,
		docType,
		fmt.Sprintf("%t", result.Duplicate),
		driveLink,
		string(result.Status),
	}
	return r.appendRow(ctx, indexSheet, row)
}

// appendErrorRow writes the failure bookkeeping row.
func (r *Recorder) appendErrorRow(ctx context.Context, result *domain.PipelineResult) error {
	row := []any{
		time.Now().Format(time.RFC3339),
		result.DocumentID,
		result.FileName,
		result.Error,
		string(result.Status),
	}
	return r.appendRow(ctx, errorSheet, row)
}

func (r *Recorder) appendRow(ctx context.Context, sheet string, row []any) error {
	_, err := r.sheets.Spreadsheets.Values.Append(
		r.spreadsheetID,
		sheet+"!A1",
		&sheets.ValueRange{Values: [][]any{row}},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gsuite: appending to %s: %w", sheet, err)
	}
	logger.Debug("appended row to %s", sheet)
	return nil
}
