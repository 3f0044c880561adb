package exam

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyBank is returned when the backend yields no questions at all.
var ErrEmptyBank = errors.New("no questions available")

// Loader fetches categories and their questions from the backend.
type Loader interface {
	Categories(ctx context.Context) ([]Category, error)
	Questions(ctx context.Context, category Category) ([]Question, error)
}

// Bank is the in-memory question store: categories in load order and every
// question flattened in category order.
type Bank struct {
	Categories []Category
	Questions  []Question
}

// LoadBank fetches all categories and then each category's questions in
// order. Any failure aborts the whole load so no partial bank is returned.
func LoadBank(ctx context.Context, l Loader) (*Bank, error) {
	cats, err := l.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	bank := &Bank{Categories: cats}
	for _, c := range cats {
		qs, err := l.Questions(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("load questions for %s: %w", c.Slug, err)
		}
		for _, q := range qs {
			q.Category = c
			bank.Questions = append(bank.Questions, q)
		}
	}

	if len(bank.Questions) == 0 {
		return nil, ErrEmptyBank
	}
	return bank, nil
}

// NewBank builds a bank from already-loaded data, regrouping questions so
// that categories partition the list in category order.
func NewBank(cats []Category, questions []Question) *Bank {
	b := &Bank{Categories: cats}
	for _, c := range cats {
		for _, q := range questions {
			if q.Category.Slug == c.Slug {
				q.Category = c
				b.Questions = append(b.Questions, q)
			}
		}
	}
	return b
}

// Total returns the number of questions.
func (b *Bank) Total() int {
	return len(b.Questions)
}

// CategoryIndex returns the position of slug in the category order, or -1.
func (b *Bank) CategoryIndex(slug string) int {
	for i, c := range b.Categories {
		if c.Slug == slug {
			return i
		}
	}
	return -1
}

// SectionIndices returns the global indices of the questions in category
// slug, in order.
func (b *Bank) SectionIndices(slug string) []int {
	var out []int
	for i, q := range b.Questions {
		if q.Category.Slug == slug {
			out = append(out, i)
		}
	}
	return out
}

// SectionCount returns how many questions category slug holds.
func (b *Bank) SectionCount(slug string) int {
	return len(b.SectionIndices(slug))
}

// Slugs returns category slugs in order.
func (b *Bank) Slugs() []string {
	out := make([]string, len(b.Categories))
	for i, c := range b.Categories {
		out[i] = c.Slug
	}
	return out
}
