package proxy

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProxy(backend string) *gin.Engine {
	return NewForwarder(Config{BackendURL: backend, Timeout: 5 * time.Second, Logger: quietLogger()}).Router()
}

func TestForward_NoBackend(t *testing.T) {
	r := newProxy("")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/categories/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestForward_RelaysRequestAndResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/submit-exam/", r.URL.Path)
		assert.Equal(t, "lang=en", r.URL.RawQuery)
		assert.Equal(t, "keep", r.Header.Get("X-Custom"))
		assert.Empty(t, r.Header.Get("X-Forwarded-For"))
		assert.Empty(t, r.Header.Get("X-Forwarded-Proto"))
		_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		assert.NoError(t, err)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"answers":{}}`, string(body))

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("X-Backend", "django")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer upstream.Close()

	r := newProxy(upstream.URL + "/")
	req := httptest.NewRequest(http.MethodPost, "/api/submit-exam/?lang=en", strings.NewReader(`{"answers":{}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Custom", "keep")
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, "django", w.Header().Get("X-Backend"))
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestForward_PreservesContentLength(t *testing.T) {
	payload := `{"text":"Hola amigo","questionId":5,"category":"writing"}`
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, int64(len(payload)), r.ContentLength)
		assert.Empty(t, r.TransferEncoding)
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, payload, string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"ai_used":false}`))
	}))
	defer upstream.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/detect-ai/", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newProxy(upstream.URL).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestForward_DefaultsContentType(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer upstream.Close()

	w := httptest.NewRecorder()
	newProxy(upstream.URL).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/missing/", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, `{"success":false}`, w.Body.String())
}

func TestForward_UpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	w := httptest.NewRecorder()
	newProxy(url).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/categories/", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
	assert.NotEmpty(t, body["detail"])
}

func TestForward_RedirectRelayed(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/categories/", http.StatusMovedPermanently)
	}))
	defer upstream.Close()

	w := httptest.NewRecorder()
	newProxy(upstream.URL).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/api/categories/", w.Header().Get("Location"))
}

func TestRequestID_ReusesValidIncoming(t *testing.T) {
	id := uuid.NewString()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	newProxy("").ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	newProxy("").ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(RequestIDHeader))
}

func TestTarget(t *testing.T) {
	f := NewForwarder(Config{BackendURL: "https://b.example.com/"})
	assert.Equal(t, "https://b.example.com/api/questions/?category=grammar", f.target("/questions/", "category=grammar"))
	assert.Equal(t, "https://b.example.com/api/", f.target("/", ""))
}
