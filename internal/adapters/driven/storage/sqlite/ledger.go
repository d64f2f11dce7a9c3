// Package sqlite records finished pipeline results in a local SQLite
// ledger. The ledger is append-only: one row per processed document,
// failures included.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docmill/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docmill/internal/core/domain"
	"github.com/custodia-labs/docmill/internal/core/ports/driven"
)

// Ledger is a SQLite-backed result recorder.
type Ledger struct {
	db   *sql.DB
	path string
}

// Ensure Ledger implements the interface.
var _ driven.ResultRecorder = (*Ledger)(nil)

// NewLedger opens (or creates) the ledger database in dataDir. If dataDir
// is empty, defaults to ~/.docmill/data/ledger.db.
func NewLedger(dataDir string) (*Ledger, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docmill", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ledger.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	l := &Ledger{
		db:   db,
		path: dbPath,
	}

	if err := l.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return l, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Path returns the database file path.
func (l *Ledger) Path() string {
	return l.path
}

// Record appends one result row.
func (l *Ledger) Record(ctx context.Context, result *domain.PipelineResult) error {
	matches, err := json.Marshal(result.Matches)
	if err != nil {
		return fmt.Errorf("marshalling matches: %w", err)
	}
	splitPaths, err := json.Marshal(result.SplitPaths)
	if err != nil {
		return fmt.Errorf("marshalling split paths: %w", err)
	}
	analysis, err := json.Marshal(result.Analysis)
	if err != nil {
		return fmt.Errorf("marshalling analysis: %w", err)
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO results (
			document_id, file_name, arrival_time, status, error,
			fingerprint, duplicate, matches, original_pages, retained_pages,
			original_path, cleaned_path, split_paths,
			enrichment_status, enriched_path, analysis
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, result.DocumentID, result.FileName, result.ArrivalTime.UTC(), string(result.Status), result.Error,
		result.Fingerprint, result.Duplicate, string(matches), result.OriginalPages, result.RetainedPages,
		result.OriginalPath, result.CleanedPath, string(splitPaths),
		string(result.EnrichmentStatus), result.EnrichedPath, string(analysis))
	if err != nil {
		return fmt.Errorf("inserting result: %w", err)
	}
	return nil
}

// Recent returns the most recently recorded results, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]domain.PipelineResult, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT document_id, file_name, arrival_time, status, error,
			fingerprint, duplicate, matches, original_pages, retained_pages,
			original_path, cleaned_path, split_paths,
			enrichment_status, enriched_path, analysis
		FROM results
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var results []domain.PipelineResult
	for rows.Next() {
		var (
			r          domain.PipelineResult
			status     string
			enrichment string
			matches    string
			splitPaths string
			analysis   string
		)
		if err := rows.Scan(
			&r.DocumentID, &r.FileName, &r.ArrivalTime, &status, &r.Error,
			&r.Fingerprint, &r.Duplicate, &matches, &r.OriginalPages, &r.RetainedPages,
			&r.OriginalPath, &r.CleanedPath, &splitPaths,
			&enrichment, &r.EnrichedPath, &analysis,
		); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.Status = domain.Status(status)
		r.EnrichmentStatus = domain.EnrichmentStatus(enrichment)
		if err := json.Unmarshal([]byte(matches), &r.Matches); err != nil {
			return nil, fmt.Errorf("parsing matches: %w", err)
		}
		if err := json.Unmarshal([]byte(splitPaths), &r.SplitPaths); err != nil {
			return nil, fmt.Errorf("parsing split paths: %w", err)
		}
		if err := json.Unmarshal([]byte(analysis), &r.Analysis); err != nil {
			return nil, fmt.Errorf("parsing analysis: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}
	return results, nil
}

// migrate runs all pending migrations.
func (l *Ledger) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := l.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := l.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := l.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := l.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
