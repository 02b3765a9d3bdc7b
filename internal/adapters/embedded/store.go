// Package embedded implements ports.ContentStore as in-memory tables whose
// full image is written to a ports.BlobStore after every change.
package embedded

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/askadit/content-service/internal/domain"
	"github.com/askadit/content-service/internal/ports"
)

// DefaultKey is the blob key holding the store image.
const DefaultKey = "content/db.json"

// Config holds the dependencies of a Store.
type Config struct {
	// Blobs persists the image. Required.
	Blobs ports.BlobStore

	// Key defaults to DefaultKey.
	Key string

	Logger *slog.Logger

	// Now stamps image versions. Defaults to time.Now.
	Now func() time.Time
}

// Store holds topics and quotes in insertion order. Mutations build the new
// tables, persist them, and only then become visible, so a failed write
// leaves the previous state in place.
type Store struct {
	mu     sync.RWMutex
	topics []domain.Topic
	quotes []domain.Quote

	blobs  ports.BlobStore
	key    string
	now    func() time.Time
	logger *slog.Logger
}

// Open loads the image stored under cfg.Key. When no image exists yet the
// store is seeded with domain.DefaultDataset and the seeded image is written
// immediately; an existing image is never reseeded, even when empty.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Blobs == nil {
		panic("embedded: Blobs is required")
	}

	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Store{
		blobs:  cfg.Blobs,
		key:    cfg.Key,
		now:    cfg.Now,
		logger: cfg.Logger.With(slog.String("component", "store.embedded")),
	}

	data, err := s.blobs.Get(ctx, s.key)

	switch {
	case domain.IsNotFound(err):
		seed := domain.DefaultDataset()
		if err := s.persist(ctx, seed.Topics, seed.Quotes); err != nil {
			return nil, fmt.Errorf("seeding store: %w", err)
		}

		s.topics, s.quotes = seed.Topics, seed.Quotes
		s.logger.InfoContext(ctx, "seeded new store",
			slog.Int("topics", len(seed.Topics)),
			slog.Int("quotes", len(seed.Quotes)),
		)
	case err != nil:
		return nil, fmt.Errorf("loading store image: %w", err)
	default:
		snap, err := domain.DecodeSnapshot(data)
		if err != nil {
			return nil, fmt.Errorf("decoding store image: %w", err)
		}

		s.topics, s.quotes = snap.Topics, snap.Quotes
		s.logger.DebugContext(ctx, "loaded store image",
			slog.Int("topics", len(s.topics)),
			slog.Int("quotes", len(s.quotes)),
		)
	}

	return s, nil
}

func (s *Store) persist(ctx context.Context, topics []domain.Topic, quotes []domain.Quote) error {
	data, err := domain.EncodeSnapshot(domain.NewSnapshot(domain.Dataset{Topics: topics, Quotes: quotes}, s.now()))
	if err != nil {
		return err
	}

	if err := s.blobs.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("persisting store image: %w", err)
	}

	return nil
}

func (s *Store) topicIndex(section domain.Section, id string) int {
	return slices.IndexFunc(s.topics, func(t domain.Topic) bool {
		return t.Section == section && t.ID == id
	})
}

func (s *Store) quoteIndex(id string) int {
	return slices.IndexFunc(s.quotes, func(q domain.Quote) bool { return q.ID == id })
}

func (s *Store) ListTopics(_ context.Context, section domain.Section) ([]domain.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Topic, 0)
	for _, t := range s.topics {
		if t.Section == section {
			out = append(out, t)
		}
	}

	return out, nil
}

func (s *Store) GetTopic(_ context.Context, section domain.Section, id string) (*domain.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.topicIndex(section, id)
	if i < 0 {
		return nil, domain.NewNotFoundError("topic", id)
	}

	t := s.topics[i]

	return &t, nil
}

func (s *Store) InsertTopic(ctx context.Context, t domain.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.topicIndex(t.Section, t.ID) >= 0 {
		return domain.NewConflictError("topic", t.ID)
	}

	topics := append(slices.Clip(s.topics), t)
	if err := s.persist(ctx, topics, s.quotes); err != nil {
		return err
	}

	s.topics = topics

	return nil
}

func (s *Store) UpdateTopic(ctx context.Context, t domain.Topic) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.topicIndex(t.Section, t.ID)
	if i < 0 {
		return false, nil
	}

	topics := slices.Clone(s.topics)
	topics[i] = t

	if err := s.persist(ctx, topics, s.quotes); err != nil {
		return false, err
	}

	s.topics = topics

	return true, nil
}

func (s *Store) DeleteTopic(ctx context.Context, section domain.Section, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.topicIndex(section, id)
	if i < 0 {
		return nil
	}

	topics := slices.Delete(slices.Clone(s.topics), i, i+1)
	if err := s.persist(ctx, topics, s.quotes); err != nil {
		return err
	}

	s.topics = topics

	return nil
}

func (s *Store) ListQuotes(context.Context) ([]domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]domain.Quote, 0, len(s.quotes)), s.quotes...), nil
}

func (s *Store) GetQuote(_ context.Context, id string) (*domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.quoteIndex(id)
	if i < 0 {
		return nil, domain.NewNotFoundError("quote", id)
	}

	q := s.quotes[i]

	return &q, nil
}

func (s *Store) InsertQuote(ctx context.Context, q domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quoteIndex(q.ID) >= 0 {
		return domain.NewConflictError("quote", q.ID)
	}

	quotes := append(slices.Clip(s.quotes), q)
	if err := s.persist(ctx, s.topics, quotes); err != nil {
		return err
	}

	s.quotes = quotes

	return nil
}

func (s *Store) UpdateQuote(ctx context.Context, q domain.Quote) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.quoteIndex(q.ID)
	if i < 0 {
		return false, nil
	}

	quotes := slices.Clone(s.quotes)
	quotes[i] = q

	if err := s.persist(ctx, s.topics, quotes); err != nil {
		return false, err
	}

	s.quotes = quotes

	return true, nil
}

func (s *Store) DeleteQuote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.quoteIndex(id)
	if i < 0 {
		return nil
	}

	quotes := slices.Delete(slices.Clone(s.quotes), i, i+1)
	if err := s.persist(ctx, s.topics, quotes); err != nil {
		return err
	}

	s.quotes = quotes

	return nil
}

func (s *Store) Export(context.Context) (domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Dataset{
		Topics: slices.Clone(s.topics),
		Quotes: slices.Clone(s.quotes),
	}, nil
}

func (s *Store) Replace(ctx context.Context, d domain.Dataset) error {
	if err := d.Validate(); err != nil {
		return err
	}

	topics := append(make([]domain.Topic, 0, len(d.Topics)), d.Topics...)
	quotes := append(make([]domain.Quote, 0, len(d.Quotes)), d.Quotes...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, topics, quotes); err != nil {
		return err
	}

	s.topics, s.quotes = topics, quotes

	return nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "content-store" }

// Check verifies the image is still readable from the blob store.
func (s *Store) Check(ctx context.Context) error {
	if _, err := s.blobs.Get(ctx, s.key); err != nil {
		return fmt.Errorf("store image: %w", err)
	}

	return nil
}
