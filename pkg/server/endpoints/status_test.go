package endpoints

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleStatus(t *testing.T) {
	t.Run("returns JSON envelope", func(t *testing.T) {
		handler := handleStatus()

		req := httptest.NewRequest("GET", "/", nil)
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		var status StatusResponse
		decodeData(t, w, &status)
		assert.Equal(t, "feedbox", status.Name)
		assert.NotEmpty(t, status.Version)
	})

	t.Run("returns HTML when Accept header is text/html", func(t *testing.T) {
		t.Setenv("FEEDBOX_VERSION_DISPLAY", "9.9.9")
		handler := handleStatus()

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "Your feedbox server is running!")
		assert.Contains(t, w.Body.String(), "9.9.9")
	})
}

func TestHandleHealth(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		env := newTestEnv(t)
		env.health.On("CheckConnectivity").Return(nil).Once()

		w := env.do("GET", "/health", nil, "")

		assert.Equal(t, http.StatusOK, w.Code)
		var health HealthResponse
		decodeData(t, w, &health)
		assert.Equal(t, "ok", health.Database)
	})

	t.Run("database unreachable", func(t *testing.T) {
		env := newTestEnv(t)
		env.health.On("CheckConnectivity").Return(errors.New("dial tcp: connection refused")).Once()

		w := env.do("GET", "/health", nil, "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.False(t, decodeEnvelope(t, w).Success)
	})
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.AllowedOrigins = []string{"https://dash.example.com"}
	handler := env.srv.Handler()

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://dash.example.com")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://dash.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRecoveryHandler(t *testing.T) {
	env := newTestEnv(t)
	env.srv.Router.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	w := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
