package exam

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Key identifies an answer by category and question. Its wire form is
// "<slug>_<id>".
type Key struct {
	Category   string
	QuestionID int
}

func (k Key) String() string {
	return fmt.Sprintf("%s_%d", k.Category, k.QuestionID)
}

// MarshalText lets Key be used as a JSON object key.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses "<slug>_<id>". Slugs may themselves contain underscores.
func (k *Key) UnmarshalText(b []byte) error {
	s := string(b)
	i := strings.LastIndexByte(s, '_')
	if i <= 0 || i == len(s)-1 {
		return fmt.Errorf("malformed answer key %q", s)
	}
	id, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return fmt.Errorf("malformed answer key %q: %w", s, err)
	}
	k.Category = s[:i]
	k.QuestionID = id
	return nil
}

// Answer is a learner response: an option index for choice questions or
// free text for translation/writing.
type Answer struct {
	choice  int
	text    string
	isIndex bool
}

// Choice returns an answer holding an option index.
func Choice(i int) Answer {
	return Answer{choice: i, isIndex: true}
}

// Text returns an answer holding free text.
func Text(s string) Answer {
	return Answer{text: s}
}

// Index returns the option index and whether the answer holds one.
func (a Answer) Index() (int, bool) {
	return a.choice, a.isIndex
}

// Value returns the free text. Empty for choice answers.
func (a Answer) Value() string {
	return a.text
}

// IsEmpty reports whether the answer carries no content.
func (a Answer) IsEmpty() bool {
	return !a.isIndex && a.text == ""
}

// MarshalJSON encodes a choice as a number and text as a string.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.isIndex {
		return json.Marshal(a.choice)
	}
	return json.Marshal(a.text)
}

// UnmarshalJSON accepts either a number or a string.
func (a *Answer) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*a = Choice(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("answer must be a number or string: %w", err)
	}
	*a = Text(s)
	return nil
}

// AnswerMap holds every response given during a session. Entries are
// overwritten, never deleted: a cleared answer keeps its key with an empty
// value.
type AnswerMap map[Key]Answer

// Answered reports whether the key holds a non-empty answer.
func (m AnswerMap) Answered(k Key) bool {
	a, ok := m[k]
	return ok && !a.IsEmpty()
}

// Clone returns an independent copy.
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// AIFlag marks a free-text answer the detection service judged AI-assisted.
type AIFlag struct {
	Used          bool   `json:"used"`
	DetectionType string `json:"detection_type"`
	Text          string `json:"text"`
}

// FlagMap holds the current AI flag per answer key.
type FlagMap map[Key]AIFlag

// Clone returns an independent copy.
func (m FlagMap) Clone() FlagMap {
	out := make(FlagMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
