package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Dataset is the complete content of a store: every topic and every quote,
// in insertion order.
type Dataset struct {
	Topics []Topic
	Quotes []Quote
}

// Validate rejects rows a store would refuse and duplicate identities.
// Topic identity is (section, id); quote identity is id.
func (d Dataset) Validate() error {
	type topicKey struct {
		section Section
		id      string
	}

	seenTopics := make(map[topicKey]struct{}, len(d.Topics))
	for i, t := range d.Topics {
		if t.ID == "" {
			return NewValidationError(fmt.Sprintf("topics[%d].id", i), "is required")
		}

		if !t.Section.IsTopic() {
			return NewValidationError(fmt.Sprintf("topics[%d].section", i), "must be countries, outdoors or guides")
		}

		k := topicKey{t.Section, t.ID}
		if _, dup := seenTopics[k]; dup {
			return NewValidationError(fmt.Sprintf("topics[%d].id", i), "duplicate id "+t.ID)
		}

		seenTopics[k] = struct{}{}
	}

	seenQuotes := make(map[string]struct{}, len(d.Quotes))
	for i, q := range d.Quotes {
		if q.ID == "" {
			return NewValidationError(fmt.Sprintf("quotes[%d].id", i), "is required")
		}

		if _, dup := seenQuotes[q.ID]; dup {
			return NewValidationError(fmt.Sprintf("quotes[%d].id", i), "duplicate id "+q.ID)
		}

		seenQuotes[q.ID] = struct{}{}
	}

	return nil
}

// Snapshot is a full-replace serialization of a Dataset stamped with the
// millisecond time it was taken.
type Snapshot struct {
	Dataset
	Version int64
}

// NewSnapshot stamps d with at.
func NewSnapshot(d Dataset, at time.Time) Snapshot {
	return Snapshot{Dataset: d, Version: at.UnixMilli()}
}

type snapshotTopic struct {
	ID      string `json:"id"`
	Section string `json:"section"`
	Title   string `json:"title"`
	Photo   string `json:"photo"`
	Preview string `json:"preview"`
	Content string `json:"content"`
}

type snapshotQuote struct {
	ID         string `json:"id"`
	QuoteText  string `json:"quote_text"`
	Author     string `json:"author"`
	Reflection string `json:"reflection"`
}

type snapshotDocument struct {
	Topics  []snapshotTopic `json:"topics"`
	Quotes  []snapshotQuote `json:"quotes"`
	Version int64           `json:"version"`
}

// EncodeSnapshot writes s in the interchange format, indented by two spaces.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	doc := snapshotDocument{
		Topics:  make([]snapshotTopic, 0, len(s.Topics)),
		Quotes:  make([]snapshotQuote, 0, len(s.Quotes)),
		Version: s.Version,
	}

	for _, t := range s.Topics {
		doc.Topics = append(doc.Topics, snapshotTopic{
			ID:      t.ID,
			Section: t.Section.String(),
			Title:   t.Title,
			Photo:   t.Photo,
			Preview: t.Preview,
			Content: t.Content,
		})
	}

	for _, q := range s.Quotes {
		doc.Quotes = append(doc.Quotes, snapshotQuote{
			ID:         q.ID,
			QuoteText:  q.Text,
			Author:     q.Author,
			Reflection: q.Reflection,
		})
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DecodeSnapshot parses the interchange format. Missing optional fields
// decode as empty strings and a null array as no rows.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var doc snapshotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Snapshot{}, NewValidationError("snapshot", "invalid JSON: "+err.Error())
	}

	s := Snapshot{
		Dataset: Dataset{
			Topics: make([]Topic, 0, len(doc.Topics)),
			Quotes: make([]Quote, 0, len(doc.Quotes)),
		},
		Version: doc.Version,
	}

	for i, t := range doc.Topics {
		sec, err := ParseTopicSection(t.Section)
		if err != nil {
			return Snapshot{}, fmt.Errorf("topics[%d]: %w", i, err)
		}

		s.Topics = append(s.Topics, Topic{
			ID:      t.ID,
			Section: sec,
			Title:   t.Title,
			Photo:   t.Photo,
			Preview: t.Preview,
			Content: t.Content,
		})
	}

	for _, q := range doc.Quotes {
		s.Quotes = append(s.Quotes, Quote{
			ID:         q.ID,
			Text:       q.QuoteText,
			Author:     q.Author,
			Reflection: q.Reflection,
		})
	}

	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}

	return s, nil
}
