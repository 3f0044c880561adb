package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abhisek/examiz/internal/exam"
)

// Client is the exam backend surface used by the terminal client.
// It satisfies exam.Loader.
type Client interface {
	Categories(ctx context.Context) ([]exam.Category, error)
	Questions(ctx context.Context, category exam.Category) ([]exam.Question, error)
	DetectAI(ctx context.Context, req DetectRequest) (*Detection, error)
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error)
	Health(ctx context.Context) (*Health, error)
	ExamResult(ctx context.Context, examID string) (*SubmitResponse, error)
}

const defaultTimeout = 30 * time.Second

// HTTPClient talks JSON to the backend's /api surface.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	headers http.Header
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.client = c }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) {
		if d > 0 {
			h.client.Timeout = d
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(h *HTTPClient) { h.headers.Set(key, value) }
}

// NewHTTPClient creates a client for baseURL, which must point at the /api
// root, e.g. "http://localhost:8000/api".
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	h := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Categories returns categories in section order.
func (h *HTTPClient) Categories(ctx context.Context) ([]exam.Category, error) {
	var resp categoriesResponse
	if err := h.do(ctx, http.MethodGet, "categories/", nil, nil, categoriesSchema, &resp); err != nil {
		return nil, err
	}
	cats := make([]exam.Category, 0, len(resp.Categories))
	for _, c := range resp.Categories {
		cats = append(cats, toCategory(c))
	}
	return cats, nil
}

// Questions returns the questions of one category in display order.
func (h *HTTPClient) Questions(ctx context.Context, category exam.Category) ([]exam.Question, error) {
	q := url.Values{"category": {category.Slug}}

	var resp questionsResponse
	if err := h.do(ctx, http.MethodGet, "questions/", q, nil, questionsSchema, &resp); err != nil {
		return nil, err
	}
	out := make([]exam.Question, 0, len(resp.Questions))
	for _, d := range resp.Questions {
		qq, err := toQuestion(d, category)
		if err != nil {
			return nil, &ErrMisconfigured{URL: h.url("questions/", q), Err: err}
		}
		out = append(out, qq)
	}
	return out, nil
}

// DetectAI asks the backend to classify a free-text answer.
func (h *HTTPClient) DetectAI(ctx context.Context, req DetectRequest) (*Detection, error) {
	var resp Detection
	if err := h.do(ctx, http.MethodPost, "detect-ai/", nil, req, detectSchema, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Submit posts the finished exam.
func (h *HTTPClient) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	if req.Answers == nil {
		req.Answers = exam.AnswerMap{}
	}
	if req.AIUsage == nil {
		req.AIUsage = exam.FlagMap{}
	}
	var resp SubmitResponse
	if err := h.do(ctx, http.MethodPost, "submit-exam/", nil, req, submitSchema, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health probes the backend.
func (h *HTTPClient) Health(ctx context.Context) (*Health, error) {
	var resp Health
	if err := h.do(ctx, http.MethodGet, "health/", nil, nil, healthSchema, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExamResult fetches the review of a previously submitted exam.
func (h *HTTPClient) ExamResult(ctx context.Context, examID string) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := h.do(ctx, http.MethodGet, examResultPath(examID), nil, nil, submitSchema, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (h *HTTPClient) url(path string, query url.Values) string {
	u := h.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do performs one JSON round trip. No retries: every retry is user-initiated.
func (h *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any, schema *Schema, out any) error {
	u := h.url(path, query)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range h.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return &ErrUnreachable{URL: u, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ErrUnreachable{URL: u, Err: fmt.Errorf("read body: %w", err)}
	}

	var env envelope
	envErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= http.StatusBadRequest {
		if envErr != nil {
			return &ErrMisconfigured{URL: u, Body: raw, Err: fmt.Errorf("HTTP %d with non-JSON body", resp.StatusCode)}
		}
		return &ErrRejected{Status: resp.StatusCode, Message: env.Error}
	}

	if err := validateResponse(schema, raw); err != nil {
		return &ErrMisconfigured{URL: u, Body: raw, Err: err}
	}

	if env.Success != nil && !*env.Success {
		return &ErrRejected{Status: resp.StatusCode, Message: env.Error}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &ErrMisconfigured{URL: u, Body: raw, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
