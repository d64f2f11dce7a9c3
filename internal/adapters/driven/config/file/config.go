// Package file loads the docmill configuration from a TOML file.
// Missing file and missing keys fall back to defaults, so a bare
// `docmill watch <folder>` works without any configuration at all.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full docmill configuration.
type Config struct {
	Folders  FoldersConfig  `toml:"folders"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Webhook  WebhookConfig  `toml:"webhook"`
	OCR      OCRConfig      `toml:"ocr"`
	Analysis AnalysisConfig `toml:"analysis"`
	Google   GoogleConfig   `toml:"google"`
}

// Duration parses TOML values like "2s" or "500ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the plain time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// FoldersConfig names the watched and produced directories.
type FoldersConfig struct {
	// Inbox is the watched input folder.
	Inbox string `toml:"inbox"`

	// Output is the artifact root (originals, cleaned, split, enriched).
	Output string `toml:"output"`

	// Data holds the duplicate index and ledger. Defaults to
	// ~/.docmill/data.
	Data string `toml:"data"`
}

// PipelineConfig tunes the core stages.
type PipelineConfig struct {
	// BlankThreshold is the non-white ratio below which a page is blank.
	BlankThreshold float64 `toml:"blank_threshold"`

	// DuplicateThreshold is the similarity at or above which documents
	// are flagged as duplicates.
	DuplicateThreshold float64 `toml:"duplicate_threshold"`

	// SettleDelay is how long a new file must sit unchanged before it is
	// picked up.
	SettleDelay Duration `toml:"settle_delay"`

	// MaxFileSize rejects larger files, in bytes. Zero means no limit.
	MaxFileSize int64 `toml:"max_file_size"`
}

// WebhookConfig configures the outbound event notifier.
type WebhookConfig struct {
	// URL is the event receiver. Empty disables notifications.
	URL string `toml:"url"`

	// RatePerSecond is the sustained delivery rate.
	RatePerSecond float64 `toml:"rate_per_second"`

	// Burst is the delivery burst size.
	Burst int `toml:"burst"`
}

// OCRConfig configures the enrichment collaborator.
type OCRConfig struct {
	// APIKey enables OCR when set.
	APIKey string `toml:"api_key"`

	// Language is the OCR language code.
	Language string `toml:"language"`
}

// AnalysisConfig configures the analysis collaborator.
type AnalysisConfig struct {
	// APIKey enables analysis when set.
	APIKey string `toml:"api_key"`

	// Model is the model name.
	Model string `toml:"model"`
}

// GoogleConfig configures the optional Sheets/Drive recorder.
type GoogleConfig struct {
	// CredentialsFile is the service account JSON key path.
	CredentialsFile string `toml:"credentials_file"`

	// SpreadsheetID is the bookkeeping spreadsheet.
	SpreadsheetID string `toml:"spreadsheet_id"`

	// DriveFolderID receives enriched documents.
	DriveFolderID string `toml:"drive_folder_id"`
}

// Default values applied to zero fields after load.
const (
	DefaultBlankThreshold     = 0.05
	DefaultDuplicateThreshold = 0.95
	DefaultSettleDelay        = Duration(2 * time.Second)
	DefaultWebhookRate        = 5.0
	DefaultWebhookBurst       = 10
)

// DefaultPath returns ~/.docmill/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docmill", "config.toml"), nil
}

// Load reads the config at path. A missing file yields pure defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Pipeline.BlankThreshold <= 0 {
		c.Pipeline.BlankThreshold = DefaultBlankThreshold
	}
	if c.Pipeline.DuplicateThreshold <= 0 {
		c.Pipeline.DuplicateThreshold = DefaultDuplicateThreshold
	}
	if c.Pipeline.SettleDelay <= 0 {
		c.Pipeline.SettleDelay = DefaultSettleDelay
	}
	if c.Webhook.RatePerSecond <= 0 {
		c.Webhook.RatePerSecond = DefaultWebhookRate
	}
	if c.Webhook.Burst <= 0 {
		c.Webhook.Burst = DefaultWebhookBurst
	}
	if c.Folders.Data == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Folders.Data = filepath.Join(home, ".docmill", "data")
		}
	}
}
