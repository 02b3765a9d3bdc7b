// Package ports defines the contracts between the content service and its
// infrastructure. Adapters implement them; the application layer depends
// only on these interfaces and on domain types.
package ports

import (
	"context"

	"github.com/askadit/content-service/internal/domain"
)

// ContentStore is durable CRUD over topics and quotes.
//
// Listing preserves insertion order. Updates overwrite every mutable field
// of the matched row and report whether a row matched; a miss is not an
// error. Deletes are idempotent.
type ContentStore interface {
	TopicStore
	QuoteStore

	// Export returns every row of both tables.
	Export(ctx context.Context) (domain.Dataset, error)

	// Replace deletes every topic and quote, then inserts d. A failure leaves
	// the previous content in place.
	Replace(ctx context.Context, d domain.Dataset) error
}

// TopicStore is the topic half of ContentStore.
type TopicStore interface {
	// ListTopics returns the topics of one section. Returns an empty slice when none exist.
	ListTopics(ctx context.Context, section domain.Section) ([]domain.Topic, error)

	// GetTopic returns domain.ErrNotFound when (section, id) is absent.
	GetTopic(ctx context.Context, section domain.Section, id string) (*domain.Topic, error)

	// InsertTopic returns domain.ErrConflict when the id is taken.
	InsertTopic(ctx context.Context, t domain.Topic) error

	UpdateTopic(ctx context.Context, t domain.Topic) (bool, error)

	DeleteTopic(ctx context.Context, section domain.Section, id string) error
}

// QuoteStore is the quote half of ContentStore.
type QuoteStore interface {
	ListQuotes(ctx context.Context) ([]domain.Quote, error)

	// GetQuote returns domain.ErrNotFound when id is absent.
	GetQuote(ctx context.Context, id string) (*domain.Quote, error)

	// InsertQuote returns domain.ErrConflict when the id is taken.
	InsertQuote(ctx context.Context, q domain.Quote) error

	UpdateQuote(ctx context.Context, q domain.Quote) (bool, error)

	DeleteQuote(ctx context.Context, id string) error
}
