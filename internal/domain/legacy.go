package domain

import (
	"encoding/json"
	"fmt"
)

// legacyDocument is the flat per-section layout used before content moved
// into tables. Field names vary between revisions, hence the aliases.
type legacyDocument struct {
	Countries []legacyTopic `json:"countries"`
	Outdoors  []legacyTopic `json:"outdoors"`
	Guides    []legacyTopic `json:"guides"`
	Quotes    []legacyQuote `json:"quotes"`
}

type legacyTopic struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Image   string `json:"image"`
	Photo   string `json:"photo"`
	Preview string `json:"preview"`
	Content string `json:"content"`
}

type legacyQuote struct {
	ID          string `json:"id"`
	Quote       string `json:"quote"`
	QuoteText   string `json:"quote_text"`
	Attribution string `json:"attribution"`
	Author      string `json:"author"`
	Reflection  string `json:"reflection"`
}

// DecodeLegacy converts a legacy per-section document into a Dataset.
// Rows without an id receive a fresh one.
func DecodeLegacy(data []byte) (Dataset, error) {
	var doc legacyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Dataset{}, NewValidationError("document", "invalid JSON: "+err.Error())
	}

	var d Dataset

	for _, group := range []struct {
		section Section
		rows    []legacyTopic
	}{
		{SectionCountries, doc.Countries},
		{SectionOutdoors, doc.Outdoors},
		{SectionGuides, doc.Guides},
	} {
		for _, t := range group.rows {
			d.Topics = append(d.Topics, Topic{
				ID:      idOrNew(t.ID),
				Section: group.section,
				Title:   t.Title,
				Photo:   firstNonEmpty(t.Image, t.Photo),
				Preview: t.Preview,
				Content: t.Content,
			})
		}
	}

	for _, q := range doc.Quotes {
		d.Quotes = append(d.Quotes, Quote{
			ID:         idOrNew(q.ID),
			Text:       firstNonEmpty(q.Quote, q.QuoteText),
			Author:     firstNonEmpty(q.Attribution, q.Author),
			Reflection: q.Reflection,
		})
	}

	if err := d.Validate(); err != nil {
		return Dataset{}, fmt.Errorf("legacy document: %w", err)
	}

	return d, nil
}

func idOrNew(id string) string {
	if id == "" {
		return NewID()
	}

	return id
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
