// Package review turns a submission response into the data shown on the
// results and per-section review screens.
package review

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/abhisek/examiz/internal/api"
	"github.com/abhisek/examiz/internal/exam"
)

// Status is the grading state of one review item.
type Status int

const (
	StatusUngraded Status = iota
	StatusCorrect
	StatusIncorrect
)

// Icon returns the marker for s.
func (s Status) Icon() string {
	switch s {
	case StatusCorrect:
		return "✓"
	case StatusIncorrect:
		return "✗"
	}
	return "—"
}

// NoAnswer is shown when the learner left a question blank.
const NoAnswer = "No answer"

// Item is one rendered review entry.
type Item struct {
	Number        int
	Status        Status
	Question      string
	Instruction   string
	YourAnswer    string
	CorrectAnswer string // empty unless Status is StatusIncorrect
	AILabel       string
}

// Tab groups the review items of one section.
type Tab struct {
	Category exam.Category
	Items    []Item
}

// Title is the tab caption.
func (t Tab) Title() string {
	return t.Category.Name + " Review"
}

// AIEntry is one line of the AI usage summary.
type AIEntry struct {
	Heading string
	Label   string
}

// Report is everything the results screen renders.
type Report struct {
	ExamID    string
	Student   string
	Percent   int
	Correct   int
	Total     int
	Elapsed   time.Duration
	AIEntries []AIEntry
	Tabs      []Tab
}

// Clean reports whether the server flagged no AI usage.
func (r *Report) Clean() bool {
	return len(r.AIEntries) == 0
}

// Build assembles a Report. Tabs follow category order and exist only for
// categories with at least one review item.
func Build(resp *api.SubmitResponse, cats []exam.Category, student string, elapsed time.Duration) *Report {
	r := &Report{
		ExamID:  resp.ExamID,
		Student: student,
		Percent: resp.Score.Percent(),
		Correct: resp.Score.Correct,
		Total:   resp.Score.Total,
		Elapsed: elapsed,
	}

	r.AIEntries = aiEntries(resp.AIUsageSummary, cats)

	for _, c := range cats {
		var items []Item
		for _, ri := range resp.Review {
			if ri.Category != c.Slug {
				continue
			}
			items = append(items, buildItem(len(items)+1, ri))
		}
		if len(items) > 0 {
			r.Tabs = append(r.Tabs, Tab{Category: c, Items: items})
		}
	}
	return r
}

// Categories recovers section order from review items when no bank is
// available, such as when looking up a past exam.
func Categories(resp *api.SubmitResponse) []exam.Category {
	var cats []exam.Category
	seen := make(map[string]bool)
	for _, ri := range resp.Review {
		if seen[ri.Category] {
			continue
		}
		seen[ri.Category] = true
		name := ri.CategoryName
		if name == "" {
			name = capitalize(ri.Category)
		}
		cats = append(cats, exam.Category{Slug: ri.Category, Name: name})
	}
	return cats
}

func buildItem(n int, ri api.ReviewItem) Item {
	item := Item{
		Number:   n,
		Status:   statusOf(ri.IsCorrect),
		Question: ri.QuestionText,
	}

	qt := exam.QuestionType(ri.QuestionType)
	item.Instruction = instruction(qt)

	answer := ri.YourAnswer.String()
	if answer == "" {
		answer = NoAnswer
	}
	if qt.IsFreeText() {
		answer = Preview(answer)
	}
	item.YourAnswer = answer

	if item.Status == StatusIncorrect {
		item.CorrectAnswer = ri.CorrectAnswer.String()
	}
	if ri.AICheck != nil && ri.AICheck.IsAI {
		item.AILabel = ri.AICheck.Label
		if item.AILabel == "" {
			item.AILabel = fmt.Sprintf("AI score %d", ri.AICheck.Score)
		}
	}
	return item
}

func statusOf(isCorrect *bool) Status {
	switch {
	case isCorrect == nil:
		return StatusUngraded
	case *isCorrect:
		return StatusCorrect
	default:
		return StatusIncorrect
	}
}

func instruction(qt exam.QuestionType) string {
	switch qt {
	case exam.TypeMultipleChoice:
		return "Choose the correct option"
	case exam.TypeVocabulary:
		return "Choose the correct definition"
	case exam.TypeTranslation:
		return "Translate to English"
	case exam.TypeWriting:
		return "Essay"
	}
	return ""
}

// Preview bounds a free-text answer to exam.PreviewLength runes.
func Preview(s string) string {
	return exam.Preview(s, exam.PreviewLength)
}

// DetectionLabel names a detection type for the AI summary.
func DetectionLabel(detectionType string) string {
	switch detectionType {
	case "copy":
		return "📋 Copied"
	case "translation":
		return "🌐 AI Translation"
	case "generated":
		return "🤖 AI Generated"
	}
	return "🤖 AI"
}

func aiEntries(summary map[string]api.AIUsage, cats []exam.Category) []AIEntry {
	if len(summary) == 0 {
		return nil
	}

	order := make(map[string]int, len(cats))
	for i, c := range cats {
		order[c.Slug] = i
	}

	usages := make([]api.AIUsage, 0, len(summary))
	for _, u := range summary {
		usages = append(usages, u)
	}
	sort.Slice(usages, func(i, j int) bool {
		oi, iok := order[usages[i].Category]
		oj, jok := order[usages[j].Category]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		if usages[i].Category != usages[j].Category {
			return usages[i].Category < usages[j].Category
		}
		return usages[i].QuestionID < usages[j].QuestionID
	})

	entries := make([]AIEntry, 0, len(usages))
	for _, u := range usages {
		entries = append(entries, AIEntry{
			Heading: fmt.Sprintf("%s · Q%d", capitalize(u.Category), u.QuestionID),
			Label:   DetectionLabel(u.DetectionType),
		})
	}
	return entries
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
