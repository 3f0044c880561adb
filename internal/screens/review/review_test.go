package review

import (
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/examiz/internal/exam"
	"github.com/abhisek/examiz/internal/review"
	"github.com/abhisek/examiz/internal/router"
)

func testTab(n int) review.Tab {
	tab := review.Tab{Category: exam.Category{Slug: "grammar", Name: "Grammar"}}
	for i := 1; i <= n; i++ {
		tab.Items = append(tab.Items, review.Item{
			Number:        i,
			Status:        review.StatusIncorrect,
			Question:      fmt.Sprintf("Question %d", i),
			Instruction:   "Choose the correct option",
			YourAnswer:    "go",
			CorrectAnswer: "went",
		})
	}
	return tab
}

func TestReview_RendersItems(t *testing.T) {
	r := New(testTab(1), "Ada")
	view := r.View(100, 40)

	for _, want := range []string{"Grammar Review for Ada", `1. "Question 1"`, "Choose the correct option", "Your answer:", "Correct answer:", "✗"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestReview_EscPops(t *testing.T) {
	r := New(testTab(1), "Ada")
	_, cmd := r.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestReview_ScrollClamped(t *testing.T) {
	r := New(testTab(20), "Ada")
	r.View(100, 20)

	for i := 0; i < 500; i++ {
		r.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	view := r.View(100, 20)
	if !strings.Contains(view, `20. "Question 20"`) {
		t.Error("scrolling to the end should show the last item")
	}

	r.Update(tea.KeyPressMsg{Code: tea.KeyHome})
	if r.offset != 0 {
		t.Errorf("home should scroll to the top, got %d", r.offset)
	}
}
