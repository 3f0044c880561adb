package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/examiz/internal/exam"
)

// LoggingClient is a decorator that records every backend call.
type LoggingClient struct {
	inner  Client
	logger *slog.Logger
}

// WithLogging wraps a Client with structured call logging.
func WithLogging(c Client, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingClient{inner: c, logger: logger}
}

func (l *LoggingClient) Categories(ctx context.Context) ([]exam.Category, error) {
	start := time.Now()
	cats, err := l.inner.Categories(ctx)
	l.record(ctx, "categories", start, err, slog.Int("count", len(cats)))
	return cats, err
}

func (l *LoggingClient) Questions(ctx context.Context, category exam.Category) ([]exam.Question, error) {
	start := time.Now()
	qs, err := l.inner.Questions(ctx, category)
	l.record(ctx, "questions", start, err,
		slog.String("category", category.Slug),
		slog.Int("count", len(qs)))
	return qs, err
}

func (l *LoggingClient) DetectAI(ctx context.Context, req DetectRequest) (*Detection, error) {
	start := time.Now()
	d, err := l.inner.DetectAI(ctx, req)
	l.record(ctx, "detect-ai", start, err,
		slog.String("category", req.Category),
		slog.Int("question_id", req.QuestionID),
		slog.Int("chars", len([]rune(req.Text))),
		slog.Bool("detected", d.Detected()))
	return d, err
}

func (l *LoggingClient) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	start := time.Now()
	resp, err := l.inner.Submit(ctx, req)
	attrs := []slog.Attr{
		slog.Int("answers", len(req.Answers)),
		slog.Int("ai_flags", len(req.AIUsage)),
	}
	if resp != nil {
		attrs = append(attrs,
			slog.String("exam_id", resp.ExamID),
			slog.Int("correct", resp.Score.Correct),
			slog.Int("total", resp.Score.Total))
	}
	l.record(ctx, "submit-exam", start, err, attrs...)
	return resp, err
}

func (l *LoggingClient) Health(ctx context.Context) (*Health, error) {
	start := time.Now()
	h, err := l.inner.Health(ctx)
	l.record(ctx, "health", start, err)
	return h, err
}

func (l *LoggingClient) ExamResult(ctx context.Context, examID string) (*SubmitResponse, error) {
	start := time.Now()
	resp, err := l.inner.ExamResult(ctx, examID)
	l.record(ctx, "exam-results", start, err, slog.String("exam_id", examID))
	return resp, err
}

func (l *LoggingClient) record(ctx context.Context, op string, start time.Time, err error, attrs ...slog.Attr) {
	attrs = append(attrs,
		slog.String("op", op),
		slog.Int64("latency_ms", time.Since(start).Milliseconds()))
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		l.logger.LogAttrs(ctx, slog.LevelWarn, "backend call failed", attrs...)
		return
	}
	l.logger.LogAttrs(ctx, slog.LevelDebug, "backend call", attrs...)
}
