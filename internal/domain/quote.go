package domain

import "strings"

// Quote is an attributed quotation with an optional reflection.
type Quote struct {
	ID         string
	Text       string
	Author     string
	Reflection string
}

// Validate checks the fields every stored quote must have.
func (q Quote) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return NewValidationError("id", "is required")
	}

	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("quote_text", "is required")
	}

	if strings.TrimSpace(q.Author) == "" {
		return NewValidationError("author", "is required")
	}

	return nil
}

// QuotePatch carries the mutable quote fields of an update.
type QuotePatch struct {
	Text       *string
	Author     *string
	Reflection *string
}

// Apply returns q updated by p under the given mode.
func (p QuotePatch) Apply(q Quote, mode UpdateMode) Quote {
	q.Text = mode.pick(q.Text, p.Text)
	q.Author = mode.pick(q.Author, p.Author)
	q.Reflection = mode.pick(q.Reflection, p.Reflection)

	return q
}
