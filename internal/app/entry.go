package app

import "github.com/askadit/content-service/internal/domain"

// Entry is the section-agnostic input of create and update. Callers may use
// any of the accepted field names; a nil field was not supplied.
//
// When several names of one field are sent, the first non-empty one wins:
// Image before Photo for topics; Quote before QuoteText, and Attribution
// before Author before Title for quotes. An empty value only counts when no
// other name carries text.
type Entry struct {
	ID string

	Title   *string
	Photo   *string
	Image   *string
	Preview *string
	Content *string

	Quote       *string
	QuoteText   *string
	Attribution *string
	Author      *string
	Reflection  *string
}

func (e Entry) topicPatch() domain.TopicPatch {
	return domain.TopicPatch{
		Title:   e.Title,
		Photo:   firstSet(e.Image, e.Photo),
		Preview: e.Preview,
		Content: e.Content,
	}
}

func (e Entry) quotePatch() domain.QuotePatch {
	return domain.QuotePatch{
		Text:       firstSet(e.Quote, e.QuoteText),
		Author:     firstSet(e.Attribution, e.Author, e.Title),
		Reflection: e.Reflection,
	}
}

func firstSet(values ...*string) *string {
	var supplied *string

	for _, v := range values {
		switch {
		case v == nil:
		case *v != "":
			return v
		case supplied == nil:
			supplied = v
		}
	}

	return supplied
}
