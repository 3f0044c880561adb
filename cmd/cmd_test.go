package cmd

import (
	"bytes"
	"testing"

	"github.com/abhisek/examiz/internal/api"
	"github.com/abhisek/examiz/internal/review"
	"github.com/stretchr/testify/assert"
)

func TestCompatibility(t *testing.T) {
	assert.Empty(t, compatibility("1.2.0"))
	assert.Empty(t, compatibility("v1.0.0"))
	assert.Contains(t, compatibility("0.9.3"), "older than")
	assert.Contains(t, compatibility("nightly"), "not a semantic version")
}

func TestPrintReport(t *testing.T) {
	yes, no := true, false
	resp := &api.SubmitResponse{
		Success: true,
		ExamID:  "ex-42",
		Score:   api.Score{Correct: 1, Total: 2},
		Review: []api.ReviewItem{
			{Category: "grammar", CategoryName: "Grammar", QuestionText: "Pick one", YourAnswer: "a", IsCorrect: &yes},
			{Category: "grammar", CategoryName: "Grammar", QuestionText: "Pick two", YourAnswer: "b", CorrectAnswer: "c", IsCorrect: &no},
		},
	}

	var buf bytes.Buffer
	printReport(&buf, review.Build(resp, review.Categories(resp), "", 0))
	out := buf.String()

	assert.Contains(t, out, "Exam ex-42")
	assert.Contains(t, out, "Score: 50% (1 / 2 correct)")
	assert.Contains(t, out, "AI usage: none detected")
	assert.Contains(t, out, "== Grammar Review ==")
	assert.Contains(t, out, "✗ 2. Pick two")
	assert.Contains(t, out, "Correct answer: c")
}
