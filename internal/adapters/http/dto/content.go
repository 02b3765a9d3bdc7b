package dto

import (
	"time"

	"github.com/askadit/content-service/internal/app"
	"github.com/askadit/content-service/internal/domain"
)

// EntryRequest is the admin create/update body. Both topics and quotes use
// it; each accepts the field aliases listed on app.Entry.
type EntryRequest struct {
	ID      string `json:"id"      validate:"omitempty,max=128,contentid"`
	Section string `json:"section" validate:"omitempty,max=32"`

	Title   *string `json:"title"   validate:"omitempty,max=300"`
	Photo   *string `json:"photo"   validate:"omitempty,max=2048"`
	Image   *string `json:"image"   validate:"omitempty,max=2048"`
	Preview *string `json:"preview" validate:"omitempty,max=2000"`
	Content *string `json:"content" validate:"omitempty,max=100000"`

	Quote       *string `json:"quote"       validate:"omitempty,max=4000"`
	QuoteText   *string `json:"quote_text"  validate:"omitempty,max=4000"`
	Attribution *string `json:"attribution" validate:"omitempty,max=300"`
	Author      *string `json:"author"      validate:"omitempty,max=300"`
	Reflection  *string `json:"reflection"  validate:"omitempty,max=20000"`
}

// Entry converts the request to the facade input.
func (r *EntryRequest) Entry() app.Entry {
	return app.Entry{
		ID:          r.ID,
		Title:       r.Title,
		Photo:       r.Photo,
		Image:       r.Image,
		Preview:     r.Preview,
		Content:     r.Content,
		Quote:       r.Quote,
		QuoteText:   r.QuoteText,
		Attribution: r.Attribution,
		Author:      r.Author,
		Reflection:  r.Reflection,
	}
}

// LoginRequest is the static gate login body.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=200"`
	Password string `json:"password" validate:"required,max=200"`
}

// ProvisionRequest carries the token a new remote document is created with.
type ProvisionRequest struct {
	Token string `json:"token" validate:"required,notempty"`
}

// TopicResponse is a topic on the wire.
type TopicResponse struct {
	ID      string `json:"id"`
	Section string `json:"section"`
	Title   string `json:"title"`
	Photo   string `json:"photo"`
	Preview string `json:"preview"`
	Content string `json:"content"`
}

// NewTopicResponse converts a domain topic.
func NewTopicResponse(t domain.Topic) TopicResponse {
	return TopicResponse{
		ID:      t.ID,
		Section: t.Section.String(),
		Title:   t.Title,
		Photo:   t.Photo,
		Preview: t.Preview,
		Content: t.Content,
	}
}

// QuoteResponse is a quote on the wire.
type QuoteResponse struct {
	ID         string `json:"id"`
	QuoteText  string `json:"quote_text"`
	Author     string `json:"author"`
	Reflection string `json:"reflection"`
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:         q.ID,
		QuoteText:  q.Text,
		Author:     q.Author,
		Reflection: q.Reflection,
	}
}

// TopicListResponse lists one section.
type TopicListResponse struct {
	Section string          `json:"section"`
	Topics  []TopicResponse `json:"topics"`
}

// NewTopicListResponse converts a listing. The topics array is never null.
func NewTopicListResponse(section domain.Section, topics []domain.Topic) TopicListResponse {
	resp := TopicListResponse{Section: section.String(), Topics: make([]TopicResponse, 0, len(topics))}
	for _, t := range topics {
		resp.Topics = append(resp.Topics, NewTopicResponse(t))
	}

	return resp
}

// QuoteListResponse lists all quotes.
type QuoteListResponse struct {
	Quotes []QuoteResponse `json:"quotes"`
}

// NewQuoteListResponse converts quotes. The array is never null.
func NewQuoteListResponse(quotes []domain.Quote) QuoteListResponse {
	resp := QuoteListResponse{Quotes: make([]QuoteResponse, 0, len(quotes))}
	for _, q := range quotes {
		resp.Quotes = append(resp.Quotes, NewQuoteResponse(q))
	}

	return resp
}

// SyncOutcomeResponse reports the write-through push after a change.
type SyncOutcomeResponse struct {
	Result  string `json:"result"`
	Message string `json:"message,omitempty"`
}

func newSyncOutcome(o domain.SyncOutcome) SyncOutcomeResponse {
	return SyncOutcomeResponse{Result: string(o.Result), Message: o.Message}
}

// MutationResponse reports a committed change.
type MutationResponse struct {
	Section string              `json:"section,omitempty"`
	ID      string              `json:"id"`
	Updated bool                `json:"updated"`
	Sync    SyncOutcomeResponse `json:"sync"`
}

// NewMutationResponse converts a facade mutation.
func NewMutationResponse(m *app.Mutation) MutationResponse {
	section := ""
	if m.Section != domain.SectionUnknown {
		section = m.Section.String()
	}

	return MutationResponse{
		Section: section,
		ID:      m.ID,
		Updated: m.Updated,
		Sync:    newSyncOutcome(m.Sync),
	}
}

// ImportResponse reports a snapshot or legacy import.
type ImportResponse struct {
	Topics  int                 `json:"topics"`
	Quotes  int                 `json:"quotes"`
	Skipped int                 `json:"skipped"`
	Sync    SyncOutcomeResponse `json:"sync"`
}

// NewImportResponse converts an import result.
func NewImportResponse(r *app.ImportResult) ImportResponse {
	return ImportResponse{
		Topics:  r.Topics,
		Quotes:  r.Quotes,
		Skipped: r.Skipped,
		Sync:    newSyncOutcome(r.Sync),
	}
}

// SyncStatusResponse describes the remote backup. Zero times are omitted.
type SyncStatusResponse struct {
	State      string     `json:"state"`
	DocumentID string     `json:"gistId,omitempty"`
	FileName   string     `json:"fileName"`
	Dirty      bool       `json:"dirty"`
	LastPush   *time.Time `json:"lastPush,omitempty"`
	LastPull   *time.Time `json:"lastPull,omitempty"`
	LastError  string     `json:"lastError,omitempty"`
}

// NewSyncStatusResponse converts a sync status.
func NewSyncStatusResponse(s domain.SyncStatus) SyncStatusResponse {
	return SyncStatusResponse{
		State:      string(s.State),
		DocumentID: s.DocumentID,
		FileName:   s.FileName,
		Dirty:      s.Dirty,
		LastPush:   timeOrNil(s.LastPush),
		LastPull:   timeOrNil(s.LastPull),
		LastError:  s.LastError,
	}
}

// PullResponse reports a pull.
type PullResponse struct {
	Topics  int   `json:"topics"`
	Quotes  int   `json:"quotes"`
	Version int64 `json:"version"`
}

// ProvisionResponse returns the new document id.
type ProvisionResponse struct {
	DocumentID string `json:"gistId"`
}

// SessionResponse describes the caller's admin session.
type SessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	Mode          string     `json:"mode"`
	Subject       string     `json:"subject,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	t = t.UTC()

	return &t
}
