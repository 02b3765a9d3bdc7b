package domain

import "strings"

// Topic is one article in a topic section.
type Topic struct {
	ID      string
	Section Section
	Title   string
	Photo   string
	Preview string
	Content string
}

// Validate checks the fields every stored topic must have.
func (t Topic) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return NewValidationError("id", "is required")
	}

	if !t.Section.IsTopic() {
		return NewValidationError("section", "must be countries, outdoors or guides")
	}

	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "is required")
	}

	return nil
}

// Body returns the long-form text, falling back to the preview.
func (t Topic) Body() string {
	if t.Content != "" {
		return t.Content
	}

	return t.Preview
}

// TopicPatch carries the mutable topic fields of an update.
// A nil field was not supplied by the caller.
type TopicPatch struct {
	Title   *string
	Photo   *string
	Preview *string
	Content *string
}

// Apply returns t updated by p under the given mode.
func (p TopicPatch) Apply(t Topic, mode UpdateMode) Topic {
	t.Title = mode.pick(t.Title, p.Title)
	t.Photo = mode.pick(t.Photo, p.Photo)
	t.Preview = mode.pick(t.Preview, p.Preview)
	t.Content = mode.pick(t.Content, p.Content)

	return t
}
