package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/askadit/content-service/internal/adapters/blob"
	"github.com/askadit/content-service/internal/adapters/embedded"
	"github.com/askadit/content-service/internal/app"
	"github.com/askadit/content-service/internal/domain"
	"github.com/askadit/content-service/internal/mocks"
)

func ptr(s string) *string { return &s }

func newContentService(t *testing.T, replicator *mocks.MockReplicator) (*app.ContentService, *embedded.Store) {
	t.Helper()

	store, err := embedded.Open(context.Background(), embedded.Config{Blobs: blob.NewMemoryStore()})
	require.NoError(t, err)

	cfg := app.ContentServiceConfig{Store: store, UpdateMode: domain.UpdateReplace}
	if replicator != nil {
		cfg.Replicator = replicator
	}

	return app.NewContentService(cfg), store
}

var pushed = domain.SyncOutcome{Result: domain.SyncPushed}

func TestContentService_ListSeededSections(t *testing.T) {
	svc, _ := newContentService(t, nil)
	ctx := context.Background()

	countries, err := svc.List(ctx, domain.SectionCountries)
	require.NoError(t, err)
	assert.NotEmpty(t, countries.Topics)
	assert.Nil(t, countries.Quotes)

	for _, topic := range countries.Topics {
		assert.Equal(t, domain.SectionCountries, topic.Section)
	}

	quotes, err := svc.List(ctx, domain.SectionQuotes)
	require.NoError(t, err)
	assert.NotEmpty(t, quotes.Quotes)
	assert.Nil(t, quotes.Topics)
}

func TestContentService_GetMissing(t *testing.T) {
	svc, _ := newContentService(t, nil)

	_, err := svc.Get(context.Background(), domain.SectionGuides, "nope")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))

	_, err = svc.Get(context.Background(), domain.SectionGuides, "")
	assert.True(t, domain.IsValidation(err))
}

func TestContentService_CreateTopicPushes(t *testing.T) {
	replicator := mocks.NewMockReplicator(t)
	replicator.EXPECT().AfterCommit(mock.Anything).Return(pushed).Once()

	svc, store := newContentService(t, replicator)
	ctx := context.Background()

	m, err := svc.Create(ctx, domain.SectionOutdoors, app.Entry{
		ID:      "dunes",
		Title:   ptr("Dunes"),
		Image:   ptr("https://example.com/dunes.jpg"),
		Preview: ptr("Sand."),
	})
	require.NoError(t, err)
	assert.True(t, m.Updated)
	assert.Equal(t, domain.SyncPushed, m.Sync.Result)

	got, err := store.GetTopic(ctx, domain.SectionOutdoors, "dunes")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/dunes.jpg", got.Photo)
}

func TestContentService_CreateGeneratesID(t *testing.T) {
	svc, store := newContentService(t, nil)
	ctx := context.Background()

	m, err := svc.Create(ctx, domain.SectionQuotes, app.Entry{
		Quote:       ptr("Not all those who wander are lost."),
		Attribution: ptr("Tolkien"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, m.ID)
	assert.Equal(t, domain.SyncSkipped, m.Sync.Result)

	q, err := store.GetQuote(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Not all those who wander are lost.", q.Text)
	assert.Equal(t, "Tolkien", q.Author)
}

func TestContentService_CreateValidation(t *testing.T) {
	replicator := mocks.NewMockReplicator(t)
	svc, _ := newContentService(t, replicator)

	tests := []struct {
		name    string
		section domain.Section
		entry   app.Entry
		field   string
	}{
		{name: "topic without title", section: domain.SectionCountries, entry: app.Entry{ID: "x"}, field: "title"},
		{name: "quote without text", section: domain.SectionQuotes, entry: app.Entry{ID: "x", Author: ptr("a")}, field: "quote_text"},
		{name: "quote without author", section: domain.SectionQuotes, entry: app.Entry{ID: "x", QuoteText: ptr("t")}, field: "author"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.section, tt.entry)

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestContentService_CreateDuplicateConflicts(t *testing.T) {
	svc, _ := newContentService(t, nil)

	_, err := svc.Create(context.Background(), domain.SectionCountries, app.Entry{ID: "iceland", Title: ptr("Again")})
	assert.True(t, domain.IsConflict(err))
}

func TestContentService_UpdateModes(t *testing.T) {
	tests := []struct {
		name        string
		mode        domain.UpdateMode
		wantPreview string
	}{
		{name: "replace clears omitted fields", mode: domain.UpdateReplace, wantPreview: ""},
		{name: "merge keeps omitted fields", mode: domain.UpdateMerge, wantPreview: "Sakura."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replicator := mocks.NewMockReplicator(t)
			replicator.EXPECT().AfterCommit(mock.Anything).Return(pushed).Twice()

			svc, store := newContentService(t, replicator)
			ctx := context.Background()

			_, err := svc.Create(ctx, domain.SectionCountries, app.Entry{
				ID:      "japan",
				Title:   ptr("Japan"),
				Preview: ptr("Sakura."),
			})
			require.NoError(t, err)

			m, err := svc.Update(ctx, domain.SectionCountries, "japan", app.Entry{Title: ptr("日本")}, tt.mode)
			require.NoError(t, err)
			assert.True(t, m.Updated)

			got, err := store.GetTopic(ctx, domain.SectionCountries, "japan")
			require.NoError(t, err)
			assert.Equal(t, "日本", got.Title)
			assert.Equal(t, tt.wantPreview, got.Preview)
		})
	}
}

func TestContentService_UpdateAbsentSkipsPush(t *testing.T) {
	replicator := mocks.NewMockReplicator(t)
	svc, _ := newContentService(t, replicator)

	for _, mode := range []domain.UpdateMode{domain.UpdateReplace, domain.UpdateMerge} {
		m, err := svc.Update(context.Background(), domain.SectionGuides, "ghost", app.Entry{Title: ptr("Ghost")}, mode)
		require.NoError(t, err)
		assert.False(t, m.Updated)
		assert.Equal(t, domain.SyncSkipped, m.Sync.Result)
	}

	replicator.AssertNotCalled(t, "AfterCommit", mock.Anything)
}

func TestContentService_AliasPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		section    domain.Section
		entry      app.Entry
		wantPhoto  string
		wantText   string
		wantAuthor string
	}{
		{
			name:      "image before photo",
			section:   domain.SectionOutdoors,
			entry:     app.Entry{Title: ptr("Dunes"), Image: ptr("from-image"), Photo: ptr("from-photo")},
			wantPhoto: "from-image",
		},
		{
			name:      "empty photo falls through to image",
			section:   domain.SectionOutdoors,
			entry:     app.Entry{Title: ptr("Dunes"), Image: ptr("from-image"), Photo: ptr("")},
			wantPhoto: "from-image",
		},
		{
			name:      "empty image falls through to photo",
			section:   domain.SectionOutdoors,
			entry:     app.Entry{Title: ptr("Dunes"), Image: ptr(""), Photo: ptr("from-photo")},
			wantPhoto: "from-photo",
		},
		{
			name:    "quote and attribution before quote_text and author",
			section: domain.SectionQuotes,
			entry: app.Entry{
				Quote: ptr("from-quote"), QuoteText: ptr("from-quote_text"),
				Attribution: ptr("from-attribution"), Author: ptr("from-author"),
			},
			wantText:   "from-quote",
			wantAuthor: "from-attribution",
		},
		{
			name:    "empty attribution falls through to author",
			section: domain.SectionQuotes,
			entry: app.Entry{
				QuoteText: ptr("from-quote_text"), Attribution: ptr(""), Author: ptr("from-author"),
			},
			wantText:   "from-quote_text",
			wantAuthor: "from-author",
		},
		{
			name:       "title is the last author alias",
			section:    domain.SectionQuotes,
			entry:      app.Entry{Quote: ptr("from-quote"), Title: ptr("from-title")},
			wantText:   "from-quote",
			wantAuthor: "from-title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newContentService(t, nil)
			ctx := context.Background()

			tt.entry.ID = "aliased"
			_, err := svc.Create(ctx, tt.section, tt.entry)
			require.NoError(t, err)

			if tt.section == domain.SectionQuotes {
				q, err := store.GetQuote(ctx, "aliased")
				require.NoError(t, err)
				assert.Equal(t, tt.wantText, q.Text)
				assert.Equal(t, tt.wantAuthor, q.Author)

				return
			}

			tp, err := store.GetTopic(ctx, tt.section, "aliased")
			require.NoError(t, err)
			assert.Equal(t, tt.wantPhoto, tp.Photo)
		})
	}
}

func TestContentService_UpdateQuoteAliases(t *testing.T) {
	svc, store := newContentService(t, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.SectionQuotes, app.Entry{ID: "q", QuoteText: ptr("old"), Author: ptr("me")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, domain.SectionQuotes, "q", app.Entry{
		Quote:     ptr("new"),
		QuoteText: ptr("ignored"),
		Title:     ptr("Seneca"),
	}, domain.UpdateMerge)
	require.NoError(t, err)

	q, err := store.GetQuote(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, "new", q.Text)
	assert.Equal(t, "Seneca", q.Author)
}

func TestContentService_FailedPushKeepsLocalChange(t *testing.T) {
	replicator := mocks.NewMockReplicator(t)
	replicator.EXPECT().AfterCommit(mock.Anything).
		Return(domain.SyncOutcome{Result: domain.SyncFailed, Message: "remote down"})

	svc, store := newContentService(t, replicator)
	ctx := context.Background()

	m, err := svc.Delete(ctx, domain.SectionCountries, "iceland")
	require.NoError(t, err)
	assert.Equal(t, domain.SyncFailed, m.Sync.Result)

	_, err = store.GetTopic(ctx, domain.SectionCountries, "iceland")
	assert.True(t, domain.IsNotFound(err))
}

func TestContentService_SnapshotRoundTrip(t *testing.T) {
	replicator := mocks.NewMockReplicator(t)
	replicator.EXPECT().AfterCommit(mock.Anything).Return(pushed).Once()

	svc, store := newContentService(t, replicator)
	ctx := context.Background()

	snap, err := svc.ExportSnapshot(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, snap.Topics)

	snap.Topics = snap.Topics[:1]

	res, err := svc.ImportSnapshot(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Topics)
	assert.Equal(t, domain.SyncPushed, res.Sync.Result)

	d, err := store.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, d.Topics, 1)
}

func TestContentService_ImportSnapshotRejectsInvalid(t *testing.T) {
	replicator := mocks.NewMockReplicator(t)
	svc, store := newContentService(t, replicator)
	ctx := context.Background()

	before, err := store.Export(ctx)
	require.NoError(t, err)

	bad := domain.Snapshot{Dataset: domain.Dataset{Topics: []domain.Topic{{Section: domain.SectionGuides, Title: "No id"}}}}

	_, err = svc.ImportSnapshot(ctx, bad)
	assert.True(t, domain.IsValidation(err))

	after, err := store.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestContentService_ImportLegacySkipsExisting(t *testing.T) {
	replicator := mocks.NewMockReplicator(t)
	replicator.EXPECT().AfterCommit(mock.Anything).Return(pushed).Once()

	svc, _ := newContentService(t, replicator)
	ctx := context.Background()

	d := domain.Dataset{
		Topics: []domain.Topic{
			{ID: "iceland", Section: domain.SectionCountries, Title: "Duplicate"},
			{ID: "peru", Section: domain.SectionCountries, Title: "Peru"},
		},
		Quotes: []domain.Quote{{ID: "legacy-q", Text: "Go.", Author: "Anon"}},
	}

	res, err := svc.ImportLegacy(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Topics)
	assert.Equal(t, 1, res.Quotes)
	assert.Equal(t, 1, res.Skipped)

	item, err := svc.Get(ctx, domain.SectionCountries, "iceland")
	require.NoError(t, err)
	assert.Equal(t, "Iceland", item.Topic.Title)

	again, err := svc.ImportLegacy(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Skipped)
	assert.Equal(t, domain.SyncSkipped, again.Sync.Result)
}

func TestContentService_DeleteTopicByID(t *testing.T) {
	replicator := mocks.NewMockReplicator(t)
	replicator.EXPECT().AfterCommit(mock.Anything).Return(pushed).Times(3)

	svc, store := newContentService(t, replicator)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.SectionGuides, app.Entry{ID: "shared", Title: ptr("Guide")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.SectionOutdoors, app.Entry{ID: "shared", Title: ptr("Trail")})
	require.NoError(t, err)

	m, err := svc.DeleteTopicByID(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "shared", m.ID)

	for _, section := range domain.TopicSections() {
		_, err := store.GetTopic(ctx, section, "shared")
		assert.True(t, domain.IsNotFound(err))
	}
}
