package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docmill/internal/core/domain"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()

	ledger, err := NewLedger(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })
	return ledger
}

func completedResult(id, name string) *domain.PipelineResult {
	return &domain.PipelineResult{
		DocumentID:       id,
		FileName:         name,
		ArrivalTime:      time.Date(2026, 3, 15, 9, 41, 7, 0, time.UTC),
		Status:           domain.StatusCompleted,
		Fingerprint:      "f0f0f0f0a5a5a5a5",
		OriginalPages:    3,
		RetainedPages:    2,
		OriginalPath:     "/archive/" + name,
		CleanedPath:      "/cleaned/cleaned_" + name,
		SplitPaths:       []string{"/split/p1.pdf", "/split/p2.pdf"},
		EnrichmentStatus: domain.EnrichmentCompleted,
		EnrichedPath:     "/enriched/" + name,
		Analysis: &domain.Analysis{
			DocumentType: "invoice",
			Supplier:     "ACME Corp",
			Confidence:   0.92,
		},
	}
}

func TestLedger_RecordAndRecent(t *testing.T) {
	ledger := testLedger(t)
	ctx := context.Background()

	t.Run("round trips a completed result", func(t *testing.T) {
		want := completedResult("DOC_1", "invoice.pdf")
		require.NoError(t, ledger.Record(ctx, want))

		got, err := ledger.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)

		assert.Equal(t, want.DocumentID, got[0].DocumentID)
		assert.Equal(t, want.Status, got[0].Status)
		assert.Equal(t, want.SplitPaths, got[0].SplitPaths)
		assert.Equal(t, want.EnrichmentStatus, got[0].EnrichmentStatus)
		require.NotNil(t, got[0].Analysis)
		assert.Equal(t, "ACME Corp", got[0].Analysis.Supplier)
		assert.True(t, want.ArrivalTime.Equal(got[0].ArrivalTime))
	})

	t.Run("newest first", func(t *testing.T) {
		require.NoError(t, ledger.Record(ctx, completedResult("DOC_2", "a.pdf")))
		require.NoError(t, ledger.Record(ctx, completedResult("DOC_3", "b.pdf")))

		got, err := ledger.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "DOC_3", got[0].DocumentID)
		assert.Equal(t, "DOC_2", got[1].DocumentID)
	})
}

func TestLedger_RecordsFailures(t *testing.T) {
	ledger := testLedger(t)
	ctx := context.Background()

	failed := &domain.PipelineResult{
		FileName:    "contract.docx",
		ArrivalTime: time.Now(),
		Status:      domain.FailedAt(domain.StageFingerprint),
		Error:       `unsupported document type: ".docx"`,
	}
	require.NoError(t, ledger.Record(ctx, failed))

	got, err := ledger.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.True(t, got[0].Status.Failed())
	assert.Empty(t, got[0].DocumentID)
	assert.Contains(t, got[0].Error, ".docx")
	assert.Nil(t, got[0].Analysis)
	assert.Empty(t, got[0].SplitPaths)
}

func TestLedger_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := NewLedger(dir)
	require.NoError(t, err)
	require.NoError(t, first.Record(context.Background(), completedResult("DOC_1", "a.pdf")))
	require.NoError(t, first.Close())

	// Reopening must not re-run migrations or lose rows.
	second, err := NewLedger(dir)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
