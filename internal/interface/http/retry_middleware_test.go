package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-chatbot/internal/infra/config"
)

func TestWithRetry_ReplaysBodyUntilSuccess(t *testing.T) {
	var bodies []string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(data))
		if len(bodies) < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("fail"))
			return
		}
		w.Header().Set("X-Attempt", "2")
		_, _ = w.Write([]byte("ok"))
	})
	cfg := config.RetryConfig{Enabled: true, MaxAttempts: 3, BaseBackoff: time.Millisecond, Include: []string{"/process_message"}}
	handler := withRetry(next, cfg, newTestLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/process_message", strings.NewReader(`{"message":"hola"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.Equal(t, "2", rec.Header().Get("X-Attempt"))
	require.Equal(t, []string{`{"message":"hola"}`, `{"message":"hola"}`}, bodies)
}

func TestWithRetry_SkipsOtherPaths(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})
	cfg := config.RetryConfig{Enabled: true, MaxAttempts: 3, BaseBackoff: time.Millisecond, Include: []string{"/process_message"}}
	handler := withRetry(next, cfg, newTestLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/qa_pairs", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, calls)
}

func TestWithRetry_RejectsLargeBodies(t *testing.T) {
	cfg := config.RetryConfig{Enabled: true, MaxAttempts: 2, BaseBackoff: time.Millisecond, Include: []string{"/process_message"}}
	handler := withRetry(http.NotFoundHandler(), cfg, newTestLogger())

	rec := httptest.NewRecorder()
	body := strings.NewReader(strings.Repeat("a", maxReplayBody+1))
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/process_message", body))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestBackoffDoubles(t *testing.T) {
	require.Equal(t, 100*time.Millisecond, backoff(100*time.Millisecond, 1))
	require.Equal(t, 400*time.Millisecond, backoff(100*time.Millisecond, 3))
}
