package results

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examiz/internal/api"
	"github.com/abhisek/examiz/internal/exam"
	"github.com/abhisek/examiz/internal/review"
	"github.com/abhisek/examiz/internal/router"
	"github.com/abhisek/examiz/internal/screens"
)

var cats = []exam.Category{
	{Slug: "grammar", Name: "Grammar"},
	{Slug: "writing", Name: "Writing"},
}

func testReport(summary map[string]api.AIUsage) *review.Report {
	ok := true
	return review.Build(&api.SubmitResponse{
		Score: api.Score{Correct: 1, Total: 2},
		Review: []api.ReviewItem{
			{Category: "grammar", QuestionType: "multiple_choice", QuestionText: "She ___ home.", IsCorrect: &ok, YourAnswer: "went"},
		},
		AIUsageSummary: summary,
	}, cats, "Ada", 95*time.Second)
}

func TestResults_CleanReport(t *testing.T) {
	r := New(screens.NewEnv(nil), testReport(nil))
	view := r.View(120, 50)

	for _, want := range []string{"50%", "01:35", "No AI usage", "Grammar Review"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Writing Review") {
		t.Error("sections without review items should have no tab")
	}
	if !strings.Contains(r.Status(), "Ada") {
		t.Errorf("status should name the student, got %q", r.Status())
	}
}

func TestResults_AISummary(t *testing.T) {
	r := New(screens.NewEnv(nil), testReport(map[string]api.AIUsage{
		"writing_6": {Category: "writing", QuestionID: 6, DetectionType: "translation"},
	}))
	view := r.View(120, 50)

	if !strings.Contains(view, "AI usage detected") {
		t.Error("expected the AI summary box")
	}
	if !strings.Contains(view, "Writing · Q6") || !strings.Contains(view, "AI Translation") {
		t.Error("expected the flagged question and its label")
	}
	if strings.Contains(view, "No AI usage") {
		t.Error("clean message must not show when AI usage was reported")
	}
}

func TestResults_EnterOpensReview(t *testing.T) {
	r := New(screens.NewEnv(nil), testReport(nil))

	_, cmd := r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if push.Screen.Title() != "Grammar Review" {
		t.Errorf("expected Grammar Review, got %q", push.Screen.Title())
	}
}

func TestResults_QuitItem(t *testing.T) {
	r := New(screens.NewEnv(nil), testReport(nil))
	r.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	_, cmd := r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}
