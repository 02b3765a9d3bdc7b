// Package app contains the application services: the content facade that
// routes section-addressed requests to the store, and the sync service that
// keeps a remote copy of the store.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/askadit/content-service/internal/domain"
	"github.com/askadit/content-service/internal/platform/logging"
	"github.com/askadit/content-service/internal/ports"
)

// Listing is the content of one section. Exactly one of Topics and Quotes
// is set, depending on whether the section is a topic section.
type Listing struct {
	Section domain.Section
	Topics  []domain.Topic
	Quotes  []domain.Quote
}

// Item is a single record of any section.
type Item struct {
	Section domain.Section
	Topic   *domain.Topic
	Quote   *domain.Quote
}

// Mutation reports a committed change and what happened to the remote copy.
type Mutation struct {
	Section domain.Section
	ID      string

	// Updated is false when an update matched no record. Nothing was
	// written and no push was attempted.
	Updated bool

	Sync domain.SyncOutcome
}

// ImportResult reports a snapshot or legacy import.
type ImportResult struct {
	Topics  int
	Quotes  int
	Skipped int
	Sync    domain.SyncOutcome
}

// ContentServiceConfig holds the dependencies of a ContentService.
type ContentServiceConfig struct {
	Store ports.ContentStore

	// Replicator receives every committed mutation. Nil disables write-through.
	Replicator ports.Replicator

	// UpdateMode is used when a caller does not choose one.
	UpdateMode domain.UpdateMode

	Logger *slog.Logger
	Now    func() time.Time
}

// ContentService is the content facade.
type ContentService struct {
	store      ports.ContentStore
	replicator ports.Replicator
	mode       domain.UpdateMode
	logger     *slog.Logger
	now        func() time.Time
}

// NewContentService creates the facade.
func NewContentService(cfg ContentServiceConfig) *ContentService {
	if cfg.Store == nil {
		panic("app: content store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	replicator := cfg.Replicator
	if replicator == nil {
		replicator = noReplication{}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &ContentService{
		store:      cfg.Store,
		replicator: replicator,
		mode:       cfg.UpdateMode,
		logger:     logger.With(slog.String("component", "app.ContentService")),
		now:        now,
	}
}

// DefaultUpdateMode is the mode used when a request names none.
func (s *ContentService) DefaultUpdateMode() domain.UpdateMode {
	return s.mode
}

// SetReplicator replaces the write-through target. It must be called before
// the service handles requests.
func (s *ContentService) SetReplicator(r ports.Replicator) {
	if r == nil {
		r = noReplication{}
	}

	s.replicator = r
}

// List returns the records of a section in insertion order.
func (s *ContentService) List(ctx context.Context, section domain.Section) (*Listing, error) {
	if section == domain.SectionQuotes {
		quotes, err := s.store.ListQuotes(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing quotes: %w", err)
		}

		return &Listing{Section: section, Quotes: quotes}, nil
	}

	if !section.IsTopic() {
		return nil, domain.NewValidationError("section", "unknown section")
	}

	topics, err := s.store.ListTopics(ctx, section)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", section, err)
	}

	return &Listing{Section: section, Topics: topics}, nil
}

// Get returns one record. A missing record yields domain.ErrNotFound.
func (s *ContentService) Get(ctx context.Context, section domain.Section, id string) (*Item, error) {
	if id == "" {
		return nil, domain.NewValidationError("id", "is required")
	}

	if section == domain.SectionQuotes {
		q, err := s.store.GetQuote(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("getting quote: %w", err)
		}

		return &Item{Section: section, Quote: q}, nil
	}

	if !section.IsTopic() {
		return nil, domain.NewValidationError("section", "unknown section")
	}

	t, err := s.store.GetTopic(ctx, section, id)
	if err != nil {
		return nil, fmt.Errorf("getting topic: %w", err)
	}

	return &Item{Section: section, Topic: t}, nil
}

// Create inserts a record, generating an id when the entry has none.
func (s *ContentService) Create(ctx context.Context, section domain.Section, e Entry) (*Mutation, error) {
	id := e.ID
	if id == "" {
		id = domain.NewID()
	}

	ctx = logging.WithOperation(ctx, "content.create")

	switch {
	case section == domain.SectionQuotes:
		q := e.quotePatch().Apply(domain.Quote{ID: id}, domain.UpdateReplace)
		if err := q.Validate(); err != nil {
			return nil, err
		}

		if err := s.store.InsertQuote(ctx, q); err != nil {
			return nil, fmt.Errorf("inserting quote: %w", err)
		}
	case section.IsTopic():
		t := e.topicPatch().Apply(domain.Topic{ID: id, Section: section}, domain.UpdateReplace)
		if err := t.Validate(); err != nil {
			return nil, err
		}

		if err := s.store.InsertTopic(ctx, t); err != nil {
			return nil, fmt.Errorf("inserting topic: %w", err)
		}
	default:
		return nil, domain.NewValidationError("section", "unknown section")
	}

	s.log(ctx).InfoContext(ctx, "content created",
		slog.String("section", section.String()),
		slog.String("id", id),
	)

	return s.committed(ctx, &Mutation{Section: section, ID: id, Updated: true}), nil
}

// Update changes a record under mode. Updating an absent record succeeds
// with Updated false.
func (s *ContentService) Update(
	ctx context.Context,
	section domain.Section,
	id string,
	e Entry,
	mode domain.UpdateMode,
) (*Mutation, error) {
	if id == "" {
		return nil, domain.NewValidationError("id", "is required")
	}

	ctx = logging.WithOperation(ctx, "content.update")

	var (
		updated bool
		err     error
	)

	switch {
	case section == domain.SectionQuotes:
		updated, err = s.updateQuote(ctx, id, e.quotePatch(), mode)
	case section.IsTopic():
		updated, err = s.updateTopic(ctx, section, id, e.topicPatch(), mode)
	default:
		return nil, domain.NewValidationError("section", "unknown section")
	}

	if err != nil {
		return nil, err
	}

	m := &Mutation{Section: section, ID: id, Updated: updated}
	if !updated {
		s.log(ctx).DebugContext(ctx, "update matched nothing",
			slog.String("section", section.String()),
			slog.String("id", id),
		)

		m.Sync = domain.SyncOutcome{Result: domain.SyncSkipped, Message: "nothing changed"}

		return m, nil
	}

	s.log(ctx).InfoContext(ctx, "content updated",
		slog.String("section", section.String()),
		slog.String("id", id),
		slog.String("mode", mode.String()),
	)

	return s.committed(ctx, m), nil
}

func (s *ContentService) updateTopic(
	ctx context.Context,
	section domain.Section,
	id string,
	p domain.TopicPatch,
	mode domain.UpdateMode,
) (bool, error) {
	base := domain.Topic{ID: id, Section: section}

	if mode == domain.UpdateMerge {
		current, err := s.store.GetTopic(ctx, section, id)
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}

		if err != nil {
			return false, fmt.Errorf("loading topic: %w", err)
		}

		base = *current
	}

	t := p.Apply(base, mode)
	if err := t.Validate(); err != nil {
		return false, err
	}

	updated, err := s.store.UpdateTopic(ctx, t)
	if err != nil {
		return false, fmt.Errorf("updating topic: %w", err)
	}

	return updated, nil
}

func (s *ContentService) updateQuote(ctx context.Context, id string, p domain.QuotePatch, mode domain.UpdateMode) (bool, error) {
	base := domain.Quote{ID: id}

	if mode == domain.UpdateMerge {
		current, err := s.store.GetQuote(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}

		if err != nil {
			return false, fmt.Errorf("loading quote: %w", err)
		}

		base = *current
	}

	q := p.Apply(base, mode)
	if err := q.Validate(); err != nil {
		return false, err
	}

	updated, err := s.store.UpdateQuote(ctx, q)
	if err != nil {
		return false, fmt.Errorf("updating quote: %w", err)
	}

	return updated, nil
}

// Delete removes a record. Deleting an absent record succeeds.
func (s *ContentService) Delete(ctx context.Context, section domain.Section, id string) (*Mutation, error) {
	if id == "" {
		return nil, domain.NewValidationError("id", "is required")
	}

	ctx = logging.WithOperation(ctx, "content.delete")

	switch {
	case section == domain.SectionQuotes:
		if err := s.store.DeleteQuote(ctx, id); err != nil {
			return nil, fmt.Errorf("deleting quote: %w", err)
		}
	case section.IsTopic():
		if err := s.store.DeleteTopic(ctx, section, id); err != nil {
			return nil, fmt.Errorf("deleting topic: %w", err)
		}
	default:
		return nil, domain.NewValidationError("section", "unknown section")
	}

	s.log(ctx).InfoContext(ctx, "content deleted",
		slog.String("section", section.String()),
		slog.String("id", id),
	)

	return s.committed(ctx, &Mutation{Section: section, ID: id, Updated: true}), nil
}

// DeleteTopicByID removes id from every topic section, for callers that
// address topics by id alone. Deleting an absent id succeeds.
func (s *ContentService) DeleteTopicByID(ctx context.Context, id string) (*Mutation, error) {
	if id == "" {
		return nil, domain.NewValidationError("id", "is required")
	}

	ctx = logging.WithOperation(ctx, "content.delete")

	for _, section := range domain.TopicSections() {
		if err := s.store.DeleteTopic(ctx, section, id); err != nil {
			return nil, fmt.Errorf("deleting topic from %s: %w", section, err)
		}
	}

	s.log(ctx).InfoContext(ctx, "topic deleted from all sections", slog.String("id", id))

	return s.committed(ctx, &Mutation{ID: id, Updated: true}), nil
}

// ExportSnapshot returns the whole store stamped with the current time.
func (s *ContentService) ExportSnapshot(ctx context.Context) (domain.Snapshot, error) {
	d, err := s.store.Export(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("exporting content: %w", err)
	}

	return domain.NewSnapshot(d, s.now()), nil
}

// ImportSnapshot replaces the whole store with snap.
func (s *ContentService) ImportSnapshot(ctx context.Context, snap domain.Snapshot) (*ImportResult, error) {
	ctx = logging.WithOperation(ctx, "content.import")

	if err := snap.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Replace(ctx, snap.Dataset); err != nil {
		return nil, fmt.Errorf("replacing content: %w", err)
	}

	s.log(ctx).InfoContext(ctx, "snapshot imported",
		slog.Int("topics", len(snap.Topics)),
		slog.Int("quotes", len(snap.Quotes)),
		slog.Int64("version", snap.Version),
	)

	return &ImportResult{
		Topics: len(snap.Topics),
		Quotes: len(snap.Quotes),
		Sync:   s.replicator.AfterCommit(ctx),
	}, nil
}

// ImportLegacy inserts the rows of a legacy document whose ids are not yet
// taken. Existing rows are left as they are.
func (s *ContentService) ImportLegacy(ctx context.Context, d domain.Dataset) (*ImportResult, error) {
	ctx = logging.WithOperation(ctx, "content.import_legacy")

	if err := d.Validate(); err != nil {
		return nil, err
	}

	res := &ImportResult{}

	for _, t := range d.Topics {
		err := s.store.InsertTopic(ctx, t)

		switch {
		case errors.Is(err, domain.ErrConflict):
			res.Skipped++
		case err != nil:
			return nil, fmt.Errorf("inserting topic %s: %w", t.ID, err)
		default:
			res.Topics++
		}
	}

	for _, q := range d.Quotes {
		err := s.store.InsertQuote(ctx, q)

		switch {
		case errors.Is(err, domain.ErrConflict):
			res.Skipped++
		case err != nil:
			return nil, fmt.Errorf("inserting quote %s: %w", q.ID, err)
		default:
			res.Quotes++
		}
	}

	s.log(ctx).InfoContext(ctx, "legacy document imported",
		slog.Int("topics", res.Topics),
		slog.Int("quotes", res.Quotes),
		slog.Int("skipped", res.Skipped),
	)

	if res.Topics+res.Quotes == 0 {
		res.Sync = domain.SyncOutcome{Result: domain.SyncSkipped, Message: "nothing changed"}
		return res, nil
	}

	res.Sync = s.replicator.AfterCommit(ctx)

	return res, nil
}

func (s *ContentService) committed(ctx context.Context, m *Mutation) *Mutation {
	m.Sync = s.replicator.AfterCommit(ctx)

	if m.Sync.Result == domain.SyncFailed {
		s.log(ctx).WarnContext(ctx, "remote copy is stale",
			slog.String("reason", m.Sync.Message),
		)
	}

	return m
}

func (s *ContentService) log(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

type noReplication struct{}

func (noReplication) AfterCommit(context.Context) domain.SyncOutcome {
	return domain.SyncOutcome{Result: domain.SyncSkipped, Message: "remote backup not configured"}
}
