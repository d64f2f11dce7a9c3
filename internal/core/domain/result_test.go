package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailedAt(t *testing.T) {
	t.Run("builds stage-tagged status", func(t *testing.T) {
		assert.Equal(t, Status("failed-at-fingerprint"), FailedAt(StageFingerprint))
		assert.Equal(t, Status("failed-at-identity"), FailedAt(StageIdentity))
	})
}

func TestStatus_Failed(t *testing.T) {
	t.Run("processing and completed are not failures", func(t *testing.T) {
		assert.False(t, StatusProcessing.Failed())
		assert.False(t, StatusCompleted.Failed())
	})

	t.Run("stage-tagged statuses are failures", func(t *testing.T) {
		for _, stage := range []Stage{StageIdentity, StageFingerprint, StageFilter, StageSplit, StageRegister} {
			assert.True(t, FailedAt(stage).Failed(), "stage %s", stage)
		}
	})
}

func TestRawDocument_Extension(t *testing.T) {
	t.Run("lowercases the extension", func(t *testing.T) {
		raw := &RawDocument{FileName: "Invoice.PDF"}

		assert.Equal(t, ".pdf", raw.Extension())
	})

	t.Run("empty for files without extension", func(t *testing.T) {
		raw := &RawDocument{FileName: "README"}

		assert.Equal(t, "", raw.Extension())
	})
}

func TestRawDocument_Stem(t *testing.T) {
	t.Run("strips the extension", func(t *testing.T) {
		raw := &RawDocument{FileName: "scan_001.pdf"}

		assert.Equal(t, "scan_001", raw.Stem())
	})
}

func TestPagedDocument_Representative(t *testing.T) {
	t.Run("nil for zero-page documents", func(t *testing.T) {
		doc := &PagedDocument{}

		assert.Nil(t, doc.Representative())
	})
}
