package api

import (
	"encoding/json"
	"net/url"

	"github.com/abhisek/examiz/internal/exam"
)

// categoryDTO and questionDTO mirror the backend's wire shapes.
type categoryDTO struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type categoriesResponse struct {
	Categories []categoryDTO `json:"categories"`
}

type questionDTO struct {
	ID           int      `json:"id"`
	QuestionType string   `json:"question_type"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
	Instructions string   `json:"instructions"`
	MinWords     int      `json:"min_words"`
}

type questionsResponse struct {
	Questions []questionDTO `json:"questions"`
}

// DetectRequest asks the backend whether a free-text answer looks AI-assisted.
type DetectRequest struct {
	Text       string `json:"text"`
	QuestionID int    `json:"questionId"`
	Category   string `json:"category"`
}

// Detection is the backend's verdict for a DetectRequest.
type Detection struct {
	Success       bool   `json:"success"`
	AIUsed        bool   `json:"ai_used"`
	DetectionType string `json:"detection_type"`
}

// Detected reports whether the verdict should raise an AI flag.
func (d *Detection) Detected() bool {
	return d != nil && d.Success && d.AIUsed
}

// SubmitRequest is the complete exam submission.
type SubmitRequest struct {
	Answers     exam.AnswerMap `json:"answers"`
	AIUsage     exam.FlagMap   `json:"aiUsage"`
	Categories  []string       `json:"categories"`
	StudentName string         `json:"studentName"`
}

// Score is the server-computed aggregate.
type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
	Points  int `json:"points"`
}

// Percent returns correct/total as a rounded percentage, 0 when total is 0.
func (s Score) Percent() int {
	if s.Total <= 0 {
		return 0
	}
	return (s.Correct*200 + s.Total) / (s.Total * 2)
}

// AICheck is the per-item detection detail attached to free-text reviews.
type AICheck struct {
	IsAI    bool     `json:"is_ai"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
	Label   string   `json:"label"`
}

// ReviewItem is the server's grading detail for one answered question.
// IsCorrect is nil for items that are not auto-gradable.
type ReviewItem struct {
	QuestionID    int       `json:"questionId"`
	Category      string    `json:"category"`
	CategoryName  string    `json:"categoryName"`
	QuestionType  string    `json:"questionType"`
	QuestionText  string    `json:"questionText"`
	IsCorrect     *bool     `json:"isCorrect"`
	CorrectAnswer LooseText `json:"correctAnswer"`
	YourAnswer    LooseText `json:"yourAnswer"`
	AICheck       *AICheck  `json:"aiCheck,omitempty"`
}

// AIUsage is one entry of the submission's AI usage summary.
type AIUsage struct {
	Category      string `json:"category"`
	QuestionID    int    `json:"questionId"`
	DetectionType string `json:"detection_type"`
}

// SubmitResponse is the backend's answer to a submission or a results lookup.
type SubmitResponse struct {
	Success        bool               `json:"success"`
	ExamID         string             `json:"examId"`
	Score          Score              `json:"score"`
	Review         []ReviewItem       `json:"review"`
	AIUsageSummary map[string]AIUsage `json:"aiUsageSummary"`
}

// Health is the backend's liveness report.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// envelope captures the success/error fields every mutating endpoint returns.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// LooseText decodes a JSON string, number or null into text. Review answers
// arrive as option text from some backends and as raw indices from others.
type LooseText string

func (t *LooseText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = LooseText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*t = LooseText(n.String())
		return nil
	}
	*t = ""
	return nil
}

func (t LooseText) String() string { return string(t) }

func toCategory(d categoryDTO) exam.Category {
	return exam.Category{Slug: d.Slug, Name: d.Name, Icon: d.Icon}
}

func toQuestion(d questionDTO, c exam.Category) (exam.Question, error) {
	qt, err := exam.ParseQuestionType(d.QuestionType)
	if err != nil {
		return exam.Question{}, err
	}
	return exam.Question{
		ID:           d.ID,
		Category:     c,
		Type:         qt,
		Text:         d.QuestionText,
		Options:      d.Options,
		Instructions: d.Instructions,
		MinWords:     d.MinWords,
	}, nil
}

// examResultPath builds the lookup path for a past exam.
func examResultPath(id string) string {
	return "exam-results/" + url.PathEscape(id) + "/"
}
