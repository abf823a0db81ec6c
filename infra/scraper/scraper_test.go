package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curbsignal/curbsignal/core/civiltime"
	"github.com/curbsignal/curbsignal/infra/logger"
	"github.com/curbsignal/curbsignal/internal/retry"
)

func testZone(t *testing.T) *civiltime.Zone {
	t.Helper()
	zone, err := civiltime.NewZone("America/New_York", civiltime.SystemClock{})
	require.NoError(t, err)
	return zone
}

func page(body string) string {
	return "<html><head><title>ASP Status</title></head><body><main>" + body + "</main></body></html>"
}

func TestParseStatus_SuspensionDetected(t *testing.T) {
	s := New(Config{}, testZone(t), logger.NopLogger{})

	tests := []struct {
		name   string
		body   string
		reason string
	}{
		{"snow", "<p>ASP is suspended due to snow removal operations.</p>", "snow"},
		{"weather", "<p>Alternate side parking is suspended for severe weather.</p>", "weather"},
		{"holiday", "<p>Parking rules are suspended for the holiday.</p>", "holiday"},
		{"no reason stated", "<p>ASP suspended today.</p>", "emergency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := s.ParseStatus(page(tt.body))
			require.NoError(t, err)
			assert.True(t, status.SuspendedToday)
			assert.Equal(t, tt.reason, status.Reason)
			assert.False(t, status.CheckedAt.IsZero())
		})
	}
}

func TestParseStatus_InEffect(t *testing.T) {
	s := New(Config{}, testZone(t), logger.NopLogger{})

	status, err := s.ParseStatus(page("<p>Alternate side parking is in effect today.</p>"))
	require.NoError(t, err)
	assert.False(t, status.SuspendedToday)
	assert.Empty(t, status.Reason)
}

func TestParseStatus_PhraseInScriptDoesNotCount(t *testing.T) {
	s := New(Config{}, testZone(t), logger.NopLogger{})

	// Phrases only count inside the rendered body text.
	html := "<html><head><title>asp is suspended</title></head><body><p>In effect.</p></body></html>"
	status, err := s.ParseStatus(html)
	require.NoError(t, err)
	assert.False(t, status.SuspendedToday)
}

func TestCheck_FetchesAndParses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page("<p>ASP is suspended due to snow.</p>")))
	}))
	defer srv.Close()

	s := New(Config{URL: srv.URL}, testZone(t), logger.NopLogger{})
	status, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, status.SuspendedToday)
	assert.Equal(t, "snow", status.Reason)
}

func TestCheck_RetriesOnServerError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(page("<p>In effect.</p>")))
	}))
	defer srv.Close()

	cfg := Config{
		URL:   srv.URL,
		Retry: retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond},
	}
	s := New(cfg, testZone(t), logger.NopLogger{})
	status, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, status.SuspendedToday)
	assert.Equal(t, int32(3), hits.Load())
}

func TestCheck_ExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := Config{
		URL:   srv.URL,
		Retry: retry.Config{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond},
	}
	s := New(cfg, testZone(t), logger.NopLogger{})
	_, err := s.Check(context.Background())
	assert.Error(t, err)
}

func TestParseStatus_CustomPhrases(t *testing.T) {
	cfg := Config{
		SuspensionPhrases: []string{"regeln ausgesetzt"},
		ReasonKeywords:    []string{"schnee"},
	}
	s := New(cfg, testZone(t), logger.NopLogger{})

	status, err := s.ParseStatus(page("<p>Regeln ausgesetzt wegen Schnee.</p>"))
	require.NoError(t, err)
	assert.True(t, status.SuspendedToday)
	assert.Equal(t, "schnee", status.Reason)

	// default phrases are replaced, not appended
	status, err = s.ParseStatus(page("<p>ASP is suspended due to snow.</p>"))
	require.NoError(t, err)
	assert.False(t, status.SuspendedToday)
}
