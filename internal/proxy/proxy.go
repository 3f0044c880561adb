// Package proxy forwards /api/* requests to the exam backend so the client
// and a browser front end can share one origin.
package proxy

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// droppedRequestHeaders are never sent upstream.
var droppedRequestHeaders = []string{
	"Host",
	"Connection",
	"X-Forwarded-For",
	"X-Forwarded-Proto",
	"Content-Length",
}

// Config configures a Forwarder.
type Config struct {
	// BackendURL is the backend origin, e.g. "https://exam.example.com".
	// Empty makes every forwarded request fail with 503.
	BackendURL string
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Forwarder relays requests to the backend.
type Forwarder struct {
	backend string
	client  *http.Client
	logger  *slog.Logger
}

// NewForwarder creates a Forwarder. Redirects are relayed to the caller
// rather than followed.
func NewForwarder(cfg Config) *Forwarder {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Forwarder{
		backend: strings.TrimRight(cfg.BackendURL, "/"),
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}
}

// Router builds the gin engine serving /healthz and /api/*path.
func (f *Forwarder) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(f.logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backend_configured": f.backend != ""})
	})

	api := r.Group("/api")
	{
		api.Any("/*path", f.Forward)
	}
	return r
}

// Forward relays one request. The response status, headers and body are
// passed back unchanged apart from Transfer-Encoding.
func (f *Forwarder) Forward(c *gin.Context) {
	if f.backend == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "BACKEND_URL is not set. Configure proxy.backend_url or the BACKEND_URL environment variable.",
		})
		return
	}

	target := f.target(c.Param("path"), c.Request.URL.RawQuery)

	var body io.Reader
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		body = c.Request.Body
	}
	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, target, body)
	if err != nil {
		f.fail(c, err)
		return
	}
	// Content-Length is dropped from the copied headers; carry the length on
	// the request so the transport does not fall back to chunked encoding.
	req.ContentLength = c.Request.ContentLength
	req.Header = c.Request.Header.Clone()
	for _, h := range droppedRequestHeaders {
		req.Header.Del(h)
	}
	req.Header.Set(RequestIDHeader, c.GetString(requestIDKey))

	resp, err := f.client.Do(req)
	if err != nil {
		f.fail(c, err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	out := c.Writer.Header()
	for k, vs := range resp.Header {
		if strings.EqualFold(k, "Transfer-Encoding") || strings.EqualFold(k, RequestIDHeader) {
			continue
		}
		for _, v := range vs {
			out.Add(k, v)
		}
	}
	if out.Get("Content-Type") == "" {
		out.Set("Content-Type", "application/json")
	}

	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		f.logger.Warn("relay body failed",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("error", err.Error()))
	}
}

// target maps "/x/y" onto "<backend>/api/x/y?<query>".
func (f *Forwarder) target(path, rawQuery string) string {
	u := f.backend + "/api/" + strings.TrimLeft(path, "/")
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	return u
}

func (f *Forwarder) fail(c *gin.Context, err error) {
	f.logger.Error("upstream request failed",
		slog.String("request_id", c.GetString(requestIDKey)),
		slog.String("error", err.Error()))
	c.JSON(http.StatusBadGateway, gin.H{
		"success": false,
		"error":   "Could not reach the exam backend",
		"detail":  err.Error(),
	})
}

// RequestID assigns each request an ID, reusing a well-formed incoming one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger records one line per request.
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := time.Now()
		c.Next()
		logger.Info("proxy",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(t)))
	}
}
