package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/docmill/cgo/mupdf"
	"github.com/custodia-labs/docmill/internal/adapters/driven/analysis/openai"
	"github.com/custodia-labs/docmill/internal/adapters/driven/codec"
	"github.com/custodia-labs/docmill/internal/adapters/driven/codec/imagefile"
	"github.com/custodia-labs/docmill/internal/adapters/driven/codec/pdf"
	"github.com/custodia-labs/docmill/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docmill/internal/adapters/driven/enrich/cloudocr"
	"github.com/custodia-labs/docmill/internal/adapters/driven/notify/webhook"
	"github.com/custodia-labs/docmill/internal/adapters/driven/storage/fsartifacts"
	"github.com/custodia-labs/docmill/internal/adapters/driven/storage/gsuite"
	"github.com/custodia-labs/docmill/internal/adapters/driven/storage/jsonindex"
	"github.com/custodia-labs/docmill/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docmill/internal/core/ports/driven"
	"github.com/custodia-labs/docmill/internal/core/services"
	"github.com/custodia-labs/docmill/internal/logger"
)

// indexFileName is the duplicate index file under the data directory.
const indexFileName = "duplicate_index.json"

// pipeline bundles the wired services a command needs.
type pipeline struct {
	orchestrator *services.IngestOrchestrator
	index        *services.DuplicateIndex
	ledger       *sqlite.Ledger
}

func (p *pipeline) close() {
	if p.ledger != nil {
		p.ledger.Close()
	}
}

// buildPipeline wires the full service graph from the loaded config.
// outputDir overrides cfg.Folders.Output when non-empty.
func buildPipeline(ctx context.Context, cfg *file.Config, outputDir string) (*pipeline, error) {
	if outputDir == "" {
		outputDir = cfg.Folders.Output
	}
	if outputDir == "" {
		outputDir = filepath.Join(cfg.Folders.Data, "processed")
	}

	artifacts, err := fsartifacts.NewStore(outputDir)
	if err != nil {
		return nil, err
	}

	indexStore, err := jsonindex.NewStore(filepath.Join(cfg.Folders.Data, indexFileName))
	if err != nil {
		return nil, err
	}
	index, err := services.NewDuplicateIndex(ctx, indexStore, cfg.Pipeline.DuplicateThreshold)
	if err != nil {
		return nil, err
	}

	ledger, err := sqlite.NewLedger(cfg.Folders.Data)
	if err != nil {
		return nil, err
	}
	recorders := []driven.ResultRecorder{ledger}

	if cfg.Google.CredentialsFile != "" && cfg.Google.SpreadsheetID != "" {
		recorder, err := gsuite.NewRecorder(ctx, gsuite.Config{
			CredentialsFile: cfg.Google.CredentialsFile,
			SpreadsheetID:   cfg.Google.SpreadsheetID,
			DriveFolderID:   cfg.Google.DriveFolderID,
		})
		if err != nil {
			ledger.Close()
			return nil, fmt.Errorf("configuring Google recorder: %w", err)
		}
		recorders = append(recorders, recorder)
	}

	var notifier driven.Notifier
	if cfg.Webhook.URL != "" {
		notifier, err = webhook.New(cfg.Webhook.URL,
			webhook.WithRateLimit(cfg.Webhook.RatePerSecond, cfg.Webhook.Burst))
		if err != nil {
			ledger.Close()
			return nil, fmt.Errorf("configuring webhook: %w", err)
		}
	}

	var enricher driven.Enricher
	if cfg.OCR.APIKey != "" {
		enricher, err = cloudocr.New(cloudocr.Config{
			APIKey:    cfg.OCR.APIKey,
			Language:  cfg.OCR.Language,
			OutputDir: filepath.Join(outputDir, "enriched"),
		})
		if err != nil {
			ledger.Close()
			return nil, fmt.Errorf("configuring OCR: %w", err)
		}
	} else {
		logger.Debug("OCR not configured, enrichment disabled")
	}

	var analyzer driven.Analyzer
	if cfg.Analysis.APIKey != "" {
		analyzer, err = openai.New(openai.Config{
			APIKey: cfg.Analysis.APIKey,
			Model:  cfg.Analysis.Model,
		})
		if err != nil {
			ledger.Close()
			return nil, fmt.Errorf("configuring analysis: %w", err)
		}
	}

	registry := codec.NewRegistry(
		imagefile.New(),
		pdf.New(mupdf.New()),
	)
	classifier := services.NewPageClassifier(cfg.Pipeline.BlankThreshold)

	orchestrator := services.NewIngestOrchestrator(
		registry,
		services.NewBlankPageFilter(classifier),
		services.NewPageSplitter(artifacts),
		index,
		artifacts,
		enricher,
		analyzer,
		recorders,
		notifier,
	)

	return &pipeline{
		orchestrator: orchestrator,
		index:        index,
		ledger:       ledger,
	}, nil
}
