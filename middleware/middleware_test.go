package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/upiqr/core/logger"
	"github.com/dmitrymomot/upiqr/middleware"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	var captured string
	h := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.GetRequestID(r.Context())
		assert.True(t, ok)
		captured = id
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, captured, 36)
	assert.Equal(t, captured, w.Header().Get("X-Request-ID"))
}

func TestRequestIDWithConfig(t *testing.T) {
	t.Parallel()

	h := middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:   func() string { return "generated" },
		HeaderName:  "X-Trace-ID",
		UseExisting: true,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	t.Run("keeps incoming", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Trace-ID", "incoming")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, "incoming", w.Header().Get("X-Trace-ID"))
	})

	t.Run("generates when absent", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "generated", w.Header().Get("X-Trace-ID"))
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	_, ok := middleware.RequestIDExtractor(context.Background())
	assert.False(t, ok)

	attr, ok := middleware.RequestIDExtractor(middleware.WithRequestID(context.Background(), "abc"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.String())
}

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		level  string
	}{
		{"ok", http.StatusOK, "INFO"},
		{"client error", http.StatusBadRequest, "WARN"},
		{"server error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := logger.New(
				logger.WithOutput(&buf),
				logger.WithJSONFormatter(),
				logger.WithLevel(slog.LevelDebug),
				logger.WithContextExtractors(middleware.RequestIDExtractor),
			)

			h := middleware.RequestID()(middleware.Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			})))

			req := httptest.NewRequest(http.MethodPost, "/decode", nil)
			req.Header.Set("X-Real-IP", "198.51.100.9")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			var rec map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
			assert.Equal(t, tt.level, rec["level"])
			assert.Equal(t, "HTTP request completed", rec["msg"])
			assert.Equal(t, "POST", rec["method"])
			assert.Equal(t, "/decode", rec["path"])
			assert.EqualValues(t, tt.status, rec["status_code"])
			assert.EqualValues(t, 4, rec["bytes_out"])
			assert.Equal(t, "198.51.100.9", rec["client_ip"])
			assert.Equal(t, w.Header().Get("X-Request-ID"), rec["request_id"])
		})
	}
}

func TestLoggingSkip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))
	h := middleware.LoggingWithConfig(middleware.LoggingConfig{
		Logger: log,
		Skip:   func(r *http.Request) bool { return r.URL.Path == "/health" },
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Zero(t, buf.Len())
}

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := io.ReadAll(r.Body)
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	h := middleware.BodyLimit(8)(echo)

	t.Run("within limit", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("12345678")))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("declared too large", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("123456789"))
		req.Header.Set("Content-Length", "9")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "Maximum allowed: 8 bytes")
	})

	t.Run("streamed too large", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader("123456789")))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 bytes", middleware.FormatBytes(512))
	assert.Equal(t, "1.50 KB", middleware.FormatBytes(1536))
	assert.Equal(t, "16.00 MB", middleware.FormatBytes(16*middleware.MB))
	assert.Equal(t, "2.00 GB", middleware.FormatBytes(2*middleware.GB))
}
