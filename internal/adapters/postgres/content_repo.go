package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/askadit/content-service/internal/domain"
)

var (
	psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	topicColumns = []string{"id", "section", "title", "photo", "preview", "content"}
	quoteColumns = []string{"id", "quote_text", "author", "reflection"}
)

// ContentRepo stores topics and quotes in two tables. Topic ids are unique
// across sections.
type ContentRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewContentRepo creates a repository over an open pool.
func NewContentRepo(pool *pgxpool.Pool, logger *slog.Logger) *ContentRepo {
	if pool == nil {
		panic("postgres: pool is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ContentRepo{
		pool:   pool,
		logger: logger.With(slog.String("component", "store.postgres")),
	}
}

// SeedIfEmpty inserts domain.DefaultDataset when the topics table has no
// rows at the moment of the call.
func (r *ContentRepo) SeedIfEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM topics`).Scan(&count); err != nil {
		return false, fmt.Errorf("counting topics: %w", err)
	}

	if count > 0 {
		return false, nil
	}

	seed := domain.DefaultDataset()

	err := runInTx(ctx, r.pool, func(ctx context.Context) error {
		return r.insertAll(ctx, seed)
	})
	if err != nil {
		return false, fmt.Errorf("seeding content: %w", err)
	}

	r.logger.InfoContext(ctx, "seeded empty database",
		slog.Int("topics", len(seed.Topics)),
		slog.Int("quotes", len(seed.Quotes)),
	)

	return true, nil
}

func scanTopic(row pgx.Row) (domain.Topic, error) {
	var (
		t       domain.Topic
		section string
	)

	if err := row.Scan(&t.ID, &section, &t.Title, &t.Photo, &t.Preview, &t.Content); err != nil {
		return t, err
	}

	sec, err := domain.ParseTopicSection(section)
	if err != nil {
		return t, fmt.Errorf("topic %s: %w", t.ID, err)
	}

	t.Section = sec

	return t, nil
}

func scanQuote(row pgx.Row) (domain.Quote, error) {
	var q domain.Quote
	err := row.Scan(&q.ID, &q.Text, &q.Author, &q.Reflection)

	return q, err
}

func (r *ContentRepo) queryTopics(ctx context.Context, b squirrel.SelectBuilder) ([]domain.Topic, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := querier(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	defer rows.Close()

	topics := make([]domain.Topic, 0)
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}

		topics = append(topics, t)
	}

	return topics, rows.Err()
}

func (r *ContentRepo) queryQuotes(ctx context.Context, b squirrel.SelectBuilder) ([]domain.Quote, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := querier(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]domain.Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning quote: %w", err)
		}

		quotes = append(quotes, q)
	}

	return quotes, rows.Err()
}

func (r *ContentRepo) ListTopics(ctx context.Context, section domain.Section) ([]domain.Topic, error) {
	if !section.IsTopic() {
		return []domain.Topic{}, nil
	}

	return r.queryTopics(ctx, psql.Select(topicColumns...).
		From("topics").
		Where(squirrel.Eq{"section": section.String()}).
		OrderBy("seq"))
}

func (r *ContentRepo) GetTopic(ctx context.Context, section domain.Section, id string) (*domain.Topic, error) {
	query, args, err := psql.Select(topicColumns...).
		From("topics").
		Where(squirrel.Eq{"section": section.String(), "id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	t, err := scanTopic(querier(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "topic", id)
	}

	return &t, nil
}

func (r *ContentRepo) InsertTopic(ctx context.Context, t domain.Topic) error {
	query, args, err := psql.Insert("topics").
		Columns(topicColumns...).
		Values(t.ID, t.Section.String(), t.Title, t.Photo, t.Preview, t.Content).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	if _, err := querier(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return mapError(err, "topic", t.ID)
	}

	return nil
}

func (r *ContentRepo) UpdateTopic(ctx context.Context, t domain.Topic) (bool, error) {
	query, args, err := psql.Update("topics").
		Set("title", t.Title).
		Set("photo", t.Photo).
		Set("preview", t.Preview).
		Set("content", t.Content).
		Where(squirrel.Eq{"section": t.Section.String(), "id": t.ID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building query: %w", err)
	}

	tag, err := querier(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return false, mapError(err, "topic", t.ID)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *ContentRepo) DeleteTopic(ctx context.Context, section domain.Section, id string) error {
	query, args, err := psql.Delete("topics").
		Where(squirrel.Eq{"section": section.String(), "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	if _, err := querier(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return mapError(err, "topic", id)
	}

	return nil
}

func (r *ContentRepo) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	return r.queryQuotes(ctx, psql.Select(quoteColumns...).From("quotes").OrderBy("seq"))
}

func (r *ContentRepo) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	query, args, err := psql.Select(quoteColumns...).
		From("quotes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	q, err := scanQuote(querier(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "quote", id)
	}

	return &q, nil
}

func (r *ContentRepo) InsertQuote(ctx context.Context, q domain.Quote) error {
	query, args, err := psql.Insert("quotes").
		Columns(quoteColumns...).
		Values(q.ID, q.Text, q.Author, q.Reflection).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	if _, err := querier(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return mapError(err, "quote", q.ID)
	}

	return nil
}

func (r *ContentRepo) UpdateQuote(ctx context.Context, q domain.Quote) (bool, error) {
	query, args, err := psql.Update("quotes").
		Set("quote_text", q.Text).
		Set("author", q.Author).
		Set("reflection", q.Reflection).
		Where(squirrel.Eq{"id": q.ID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building query: %w", err)
	}

	tag, err := querier(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return false, mapError(err, "quote", q.ID)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *ContentRepo) DeleteQuote(ctx context.Context, id string) error {
	query, args, err := psql.Delete("quotes").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	if _, err := querier(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return mapError(err, "quote", id)
	}

	return nil
}

// Export reads both tables concurrently.
func (r *ContentRepo) Export(ctx context.Context) (domain.Dataset, error) {
	var d domain.Dataset

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		topics, err := r.queryTopics(gctx, psql.Select(topicColumns...).From("topics").OrderBy("seq"))
		d.Topics = topics

		return err
	})

	g.Go(func() error {
		quotes, err := r.ListQuotes(gctx)
		d.Quotes = quotes

		return err
	})

	if err := g.Wait(); err != nil {
		return domain.Dataset{}, fmt.Errorf("exporting content: %w", err)
	}

	return d, nil
}

// Replace swaps both tables inside one transaction.
func (r *ContentRepo) Replace(ctx context.Context, d domain.Dataset) error {
	if err := d.Validate(); err != nil {
		return err
	}

	return runInTx(ctx, r.pool, func(ctx context.Context) error {
		q := querier(ctx, r.pool)

		if _, err := q.Exec(ctx, `DELETE FROM topics`); err != nil {
			return fmt.Errorf("clearing topics: %w", err)
		}

		if _, err := q.Exec(ctx, `DELETE FROM quotes`); err != nil {
			return fmt.Errorf("clearing quotes: %w", err)
		}

		return r.insertAll(ctx, d)
	})
}

func (r *ContentRepo) insertAll(ctx context.Context, d domain.Dataset) error {
	batch := &pgx.Batch{}

	for _, t := range d.Topics {
		query, args, err := psql.Insert("topics").
			Columns(topicColumns...).
			Values(t.ID, t.Section.String(), t.Title, t.Photo, t.Preview, t.Content).
			ToSql()
		if err != nil {
			return fmt.Errorf("building query: %w", err)
		}

		batch.Queue(query, args...)
	}

	for _, q := range d.Quotes {
		query, args, err := psql.Insert("quotes").
			Columns(quoteColumns...).
			Values(q.ID, q.Text, q.Author, q.Reflection).
			ToSql()
		if err != nil {
			return fmt.Errorf("building query: %w", err)
		}

		batch.Queue(query, args...)
	}

	if batch.Len() == 0 {
		return nil
	}

	if err := querier(ctx, r.pool).SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, "content", "batch")
	}

	return nil
}

// Name implements ports.HealthChecker.
func (r *ContentRepo) Name() string { return "postgres" }

// Check pings the pool.
func (r *ContentRepo) Check(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
