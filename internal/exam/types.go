package exam

import "fmt"

// Category groups questions sharing a skill. Category order is section order.
type Category struct {
	Slug string
	Name string
	Icon string
}

// QuestionType identifies how a question is rendered and answered.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeVocabulary     QuestionType = "vocabulary"
	TypeTranslation    QuestionType = "translation"
	TypeWriting        QuestionType = "writing"
)

// ParseQuestionType converts the backend's question_type string.
func ParseQuestionType(s string) (QuestionType, error) {
	switch t := QuestionType(s); t {
	case TypeMultipleChoice, TypeVocabulary, TypeTranslation, TypeWriting:
		return t, nil
	}
	return "", fmt.Errorf("unknown question type %q", s)
}

// IsChoice reports whether answers are option indices.
func (t QuestionType) IsChoice() bool {
	return t == TypeMultipleChoice || t == TypeVocabulary
}

// IsFreeText reports whether answers are typed text.
func (t QuestionType) IsFreeText() bool {
	return t == TypeTranslation || t == TypeWriting
}

// Rows is the minimum number of visible editor rows for free-text types.
func (t QuestionType) Rows() int {
	switch t {
	case TypeTranslation:
		return 3
	case TypeWriting:
		return 10
	}
	return 0
}

// Instruction is the default prompt shown above a question of this type.
func (t QuestionType) Instruction() string {
	switch t {
	case TypeMultipleChoice:
		return "Choose the best option to complete the sentence:"
	case TypeVocabulary:
		return "Select the correct definition for the word:"
	case TypeTranslation:
		return "Translate to English"
	case TypeWriting:
		return "Write your response"
	}
	return ""
}

// Question is a single exam item. Immutable once loaded.
type Question struct {
	ID           int
	Category     Category
	Type         QuestionType
	Text         string
	Options      []string
	Instructions string
	MinWords     int
}

// Key returns the answer-map key for this question.
func (q Question) Key() Key {
	return Key{Category: q.Category.Slug, QuestionID: q.ID}
}

// Prompt returns the question's own instructions, or the type default.
func (q Question) Prompt() string {
	if q.Instructions != "" {
		return q.Instructions
	}
	return q.Type.Instruction()
}
