package api

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/examiz/internal/exam"
)

// ErrNoMockResponse is returned when a MockClient queue is exhausted.
var ErrNoMockResponse = errors.New("mock: no canned response")

// MockDetection is a canned DetectAI result.
type MockDetection struct {
	Detection *Detection
	Err       error
}

// MockSubmit is a canned Submit result.
type MockSubmit struct {
	Response *SubmitResponse
	Err      error
}

// MockClient is a deterministic Client for tests. Bank data is served from
// its fields; DetectAI and Submit answer from FIFO queues and record calls.
type MockClient struct {
	mu sync.Mutex

	CategoryList []exam.Category
	QuestionsBy  map[string][]exam.Question
	LoadErr      error
	HealthReport *Health
	Results      map[string]*SubmitResponse
	DetectCalls  []DetectRequest
	SubmitCalls  []SubmitRequest

	detections []MockDetection
	submits    []MockSubmit
}

// NewMockClient creates a MockClient serving the given bank.
func NewMockClient(bank *exam.Bank) *MockClient {
	m := &MockClient{QuestionsBy: map[string][]exam.Question{}}
	if bank != nil {
		m.CategoryList = bank.Categories
		for _, q := range bank.Questions {
			m.QuestionsBy[q.Category.Slug] = append(m.QuestionsBy[q.Category.Slug], q)
		}
	}
	return m
}

func (m *MockClient) Categories(_ context.Context) ([]exam.Category, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.CategoryList, nil
}

func (m *MockClient) Questions(_ context.Context, category exam.Category) ([]exam.Question, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.QuestionsBy[category.Slug], nil
}

// AddDetection queues a DetectAI result.
func (m *MockClient) AddDetection(d MockDetection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detections = append(m.detections, d)
}

// AddSubmit queues a Submit result.
func (m *MockClient) AddSubmit(s MockSubmit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submits = append(m.submits, s)
}

func (m *MockClient) DetectAI(_ context.Context, req DetectRequest) (*Detection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DetectCalls = append(m.DetectCalls, req)
	if len(m.detections) == 0 {
		return nil, ErrNoMockResponse
	}
	d := m.detections[0]
	m.detections = m.detections[1:]
	return d.Detection, d.Err
}

func (m *MockClient) Submit(_ context.Context, req SubmitRequest) (*SubmitResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SubmitCalls = append(m.SubmitCalls, req)
	if len(m.submits) == 0 {
		return nil, ErrNoMockResponse
	}
	s := m.submits[0]
	m.submits = m.submits[1:]
	return s.Response, s.Err
}

func (m *MockClient) Health(_ context.Context) (*Health, error) {
	if m.HealthReport == nil {
		return nil, ErrNoMockResponse
	}
	return m.HealthReport, nil
}

func (m *MockClient) ExamResult(_ context.Context, examID string) (*SubmitResponse, error) {
	if r, ok := m.Results[examID]; ok {
		return r, nil
	}
	return nil, &ErrRejected{Status: 404, Message: "exam not found"}
}

// DetectCount returns the number of DetectAI calls made.
func (m *MockClient) DetectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.DetectCalls)
}

// SubmitCount returns the number of Submit calls made.
func (m *MockClient) SubmitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SubmitCalls)
}
