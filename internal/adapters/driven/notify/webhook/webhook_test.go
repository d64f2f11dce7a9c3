package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docmill/internal/core/domain"
)

func sampleEvent() domain.Event {
	return domain.Event{
		Type:      domain.EventDocumentProcessed,
		Timestamp: time.Date(2026, 3, 15, 9, 41, 8, 0, time.UTC),
		Data: map[string]any{
			"document_id": "DOC_20260315_094107_a1b2c3d4e5f6",
			"status":      "completed",
		},
	}
}

func TestNotifier_Notify(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the event envelope as JSON", func(t *testing.T) {
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, &got))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		notifier, err := New(server.URL)
		require.NoError(t, err)
		require.NoError(t, notifier.Notify(ctx, sampleEvent()))

		assert.Equal(t, "document_processed", got["event_type"])
		assert.Contains(t, got, "timestamp")
		data, ok := got["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "completed", data["status"])
	})

	t.Run("non-2xx response is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		notifier, err := New(server.URL)
		require.NoError(t, err)

		err = notifier.Notify(ctx, sampleEvent())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("unreachable endpoint is an error, not a hang", func(t *testing.T) {
		notifier, err := New("http://127.0.0.1:1", WithTimeout(500*time.Millisecond))
		require.NoError(t, err)

		start := time.Now()
		err = notifier.Notify(ctx, sampleEvent())
		assert.Error(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("cancelled context aborts delivery", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		notifier, err := New("http://example.invalid")
		require.NoError(t, err)

		assert.Error(t, notifier.Notify(cancelled, sampleEvent()))
	})
}

func TestNotifier_RateLimit(t *testing.T) {
	var delivered int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		delivered++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// Burst of one and two events per second: the third delivery has to
	// wait for the bucket to refill.
	notifier, err := New(server.URL, WithRateLimit(2.0, 1))
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, notifier.Notify(context.Background(), sampleEvent()))
	}
	assert.Equal(t, 3, delivered)
	assert.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
}

func TestNew_EmptyURL(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
