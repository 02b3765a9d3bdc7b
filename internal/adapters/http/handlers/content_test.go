package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/askadit/content-service/internal/adapters/blob"
	"github.com/askadit/content-service/internal/adapters/embedded"
	"github.com/askadit/content-service/internal/adapters/http/dto"
	"github.com/askadit/content-service/internal/app"
	"github.com/askadit/content-service/internal/domain"
	"github.com/askadit/content-service/internal/mocks"
)

var pushedOutcome = domain.SyncOutcome{Result: domain.SyncPushed}

type contentFixture struct {
	service *app.ContentService
	store   *embedded.Store
	router  *gin.Engine
}

// newContentFixture serves the real facade over an in-memory embedded
// store. Every commit reports a successful push.
func newContentFixture(t *testing.T) *contentFixture {
	t.Helper()

	store, err := embedded.Open(context.Background(), embedded.Config{Blobs: blob.NewMemoryStore()})
	require.NoError(t, err)

	replicator := mocks.NewMockReplicator(t)
	replicator.EXPECT().AfterCommit(mock.Anything).Return(pushedOutcome).Maybe()

	svc := app.NewContentService(app.ContentServiceConfig{
		Store:      store,
		Replicator: replicator,
		UpdateMode: domain.UpdateReplace,
	})

	h := NewContentHandler(svc)

	router := gin.New()
	api := router.Group("/api/v1")
	h.RegisterPublicRoutes(api)
	h.RegisterAdminRoutes(api.Group("/admin"))

	return &contentFixture{service: svc, store: store, router: router}
}

func (f *contentFixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	return serve(t, f.router, method, target, body)
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func TestContentHandler_ListTopics(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedCode   string
		expectedIDs    []string
	}{
		{
			name:           "countries",
			query:          "?section=countries",
			expectedStatus: http.StatusOK,
			expectedIDs:    []string{"usa", "iceland"},
		},
		{
			name:           "section is case insensitive",
			query:          "?section=Guides",
			expectedStatus: http.StatusOK,
			expectedIDs:    []string{"packing", "multi-day-hike"},
		},
		{
			name:           "missing section",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeValidation,
		},
		{
			name:           "quotes are not a topic section",
			query:          "?section=quotes",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeValidation,
		},
		{
			name:           "unknown section",
			query:          "?section=poems",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newContentFixture(t)

			w := f.do(t, http.MethodGet, "/api/v1/topics"+tt.query, "")

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedCode != "" {
				resp := decodeBody[dto.ErrorResponse](t, w)
				assert.Equal(t, tt.expectedCode, resp.Error.Code)

				return
			}

			resp := decodeBody[dto.TopicListResponse](t, w)

			ids := make([]string, 0, len(resp.Topics))
			for _, topic := range resp.Topics {
				ids = append(ids, topic.ID)
			}

			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}

func TestContentHandler_ListTopicsEmptySectionIsArray(t *testing.T) {
	f := newContentFixture(t)

	for _, id := range []string{"getting-lost", "rain-hiking"} {
		_, err := f.service.Delete(context.Background(), domain.SectionOutdoors, id)
		require.NoError(t, err)
	}

	w := f.do(t, http.MethodGet, "/api/v1/topics?section=outdoors", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"section":"outdoors","topics":[]}`, w.Body.String())
}

// failingLister fails every listing. Other methods are not served.
type failingLister struct {
	ContentService
}

func (failingLister) List(context.Context, domain.Section) (*app.Listing, error) {
	return nil, domain.NewUnavailableError("content-store", "disk unreadable")
}

func TestContentHandler_ListsDegradeToEmpty(t *testing.T) {
	router := gin.New()
	NewContentHandler(failingLister{}).RegisterPublicRoutes(router.Group("/api/v1"))

	tests := []struct {
		name         string
		target       string
		expectedBody string
	}{
		{name: "topics", target: "/api/v1/topics?section=guides", expectedBody: `{"section":"guides","topics":[]}`},
		{name: "quotes", target: "/api/v1/quotes", expectedBody: `{"quotes":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, router, http.MethodGet, tt.target, "")

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}

	t.Run("unknown section is still rejected", func(t *testing.T) {
		w := serve(t, router, http.MethodGet, "/api/v1/topics?section=poems", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestContentHandler_GetTopic(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedTitle  string
	}{
		{name: "found", path: "/api/v1/topics/countries/iceland", expectedStatus: http.StatusOK, expectedTitle: "Iceland"},
		{name: "wrong section", path: "/api/v1/topics/guides/iceland", expectedStatus: http.StatusNotFound},
		{name: "missing id", path: "/api/v1/topics/countries/atlantis", expectedStatus: http.StatusNotFound},
		{name: "bad section", path: "/api/v1/topics/planets/mars", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newContentFixture(t)

			w := f.do(t, http.MethodGet, tt.path, "")

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedTitle != "" {
				assert.Equal(t, tt.expectedTitle, decodeBody[dto.TopicResponse](t, w).Title)
			}
		})
	}
}

func TestContentHandler_Quotes(t *testing.T) {
	f := newContentFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/quotes", "")
	require.Equal(t, http.StatusOK, w.Code)

	list := decodeBody[dto.QuoteListResponse](t, w)
	require.NotEmpty(t, list.Quotes)
	assert.Equal(t, "lao-tzu", list.Quotes[0].ID)

	w = f.do(t, http.MethodGet, "/api/v1/quotes/tolkien", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "J.R.R. Tolkien", decodeBody[dto.QuoteResponse](t, w).Author)

	w = f.do(t, http.MethodGet, "/api/v1/quotes/nobody", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrorCodeNotFound, decodeBody[dto.ErrorResponse](t, w).Error.Code)
}

func TestContentHandler_CreateTopic(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		body           string
		expectedStatus int
		expectedCode   string
		check          func(t *testing.T, f *contentFixture, resp dto.MutationResponse)
	}{
		{
			name:           "section in body with image alias",
			target:         "/api/v1/admin/topics",
			body:           `{"id":"peru","section":"countries","title":"Peru","image":"peru.jpg"}`,
			expectedStatus: http.StatusCreated,
			check: func(t *testing.T, f *contentFixture, resp dto.MutationResponse) {
				assert.Equal(t, "peru", resp.ID)
				assert.Equal(t, "countries", resp.Section)
				assert.Equal(t, "pushed", resp.Sync.Result)

				got, err := f.store.GetTopic(context.Background(), domain.SectionCountries, "peru")
				require.NoError(t, err)
				assert.Equal(t, "peru.jpg", got.Photo)
			},
		},
		{
			name:           "section name is trimmed and case-insensitive",
			target:         "/api/v1/admin/topics",
			body:           `{"id":"chile","section":" Countries ","title":"Chile"}`,
			expectedStatus: http.StatusCreated,
			check: func(t *testing.T, f *contentFixture, resp dto.MutationResponse) {
				assert.Equal(t, "countries", resp.Section)

				got, err := f.store.GetTopic(context.Background(), domain.SectionCountries, "chile")
				require.NoError(t, err)
				assert.Equal(t, "Chile", got.Title)
			},
		},
		{
			name:           "unknown section",
			target:         "/api/v1/admin/topics",
			body:           `{"id":"ode","section":"poems","title":"Ode"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeValidation,
		},
		{
			name:           "section in query and generated id",
			target:         "/api/v1/admin/topics?section=guides",
			body:           `{"title":"Layering"}`,
			expectedStatus: http.StatusCreated,
			check: func(t *testing.T, f *contentFixture, resp dto.MutationResponse) {
				assert.NotEmpty(t, resp.ID)

				got, err := f.store.GetTopic(context.Background(), domain.SectionGuides, resp.ID)
				require.NoError(t, err)
				assert.Equal(t, "Layering", got.Title)
			},
		},
		{
			name:           "quotes section routes to the quote table",
			target:         "/api/v1/admin/topics",
			body:           `{"id":"seneca","section":"quotes","title":"Seneca","quote":"Luck is what happens when preparation meets opportunity."}`,
			expectedStatus: http.StatusCreated,
			check: func(t *testing.T, f *contentFixture, resp dto.MutationResponse) {
				assert.Equal(t, "quotes", resp.Section)

				got, err := f.store.GetQuote(context.Background(), "seneca")
				require.NoError(t, err)
				assert.Equal(t, "Seneca", got.Author)
			},
		},
		{
			name:           "missing section",
			target:         "/api/v1/admin/topics",
			body:           `{"title":"Nowhere"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeValidation,
		},
		{
			name:           "missing title",
			target:         "/api/v1/admin/topics",
			body:           `{"section":"outdoors"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeValidation,
		},
		{
			name:           "bad id characters",
			target:         "/api/v1/admin/topics",
			body:           `{"id":"a b","section":"outdoors","title":"Spaces"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeValidation,
		},
		{
			name:           "duplicate id",
			target:         "/api/v1/admin/topics",
			body:           `{"id":"iceland","section":"countries","title":"Iceland again"}`,
			expectedStatus: http.StatusConflict,
			expectedCode:   dto.ErrorCodeConflict,
		},
		{
			name:           "malformed body",
			target:         "/api/v1/admin/topics",
			body:           `{"title":`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrorCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newContentFixture(t)

			w := f.do(t, http.MethodPost, tt.target, tt.body)

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeBody[dto.ErrorResponse](t, w).Error.Code)
				return
			}

			tt.check(t, f, decodeBody[dto.MutationResponse](t, w))
		})
	}
}

func TestContentHandler_UpdateTopic(t *testing.T) {
	tests := []struct {
		name            string
		method          string
		target          string
		body            string
		expectedStatus  int
		expectedUpdated bool
		expectedTitle   string
		expectedPreview string
	}{
		{
			name:            "replace clears omitted fields",
			target:          "/api/v1/admin/topics",
			body:            `{"id":"iceland","section":"countries","title":"Ísland"}`,
			expectedStatus:  http.StatusOK,
			expectedUpdated: true,
			expectedTitle:   "Ísland",
			expectedPreview: "",
		},
		{
			name:            "merge keeps omitted fields",
			target:          "/api/v1/admin/topics?mode=merge",
			body:            `{"id":"iceland","section":"countries","title":"Ísland"}`,
			expectedStatus:  http.StatusOK,
			expectedUpdated: true,
			expectedTitle:   "Ísland",
			expectedPreview: "keep",
		},
		{
			name:            "path addressing",
			target:          "/api/v1/admin/topics/countries/iceland?mode=merge",
			body:            `{"preview":"fresh"}`,
			expectedStatus:  http.StatusOK,
			expectedUpdated: true,
			expectedTitle:   "Iceland",
			expectedPreview: "fresh",
		},
		{
			name:            "absent id reports not updated",
			target:          "/api/v1/admin/topics",
			body:            `{"id":"atlantis","section":"countries","title":"Atlantis"}`,
			expectedStatus:  http.StatusOK,
			expectedUpdated: false,
			expectedTitle:   "Iceland",
			expectedPreview: "keep",
		},
		{
			name:           "missing id",
			target:         "/api/v1/admin/topics",
			body:           `{"section":"countries","title":"Who"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown mode",
			target:         "/api/v1/admin/topics?mode=patch",
			body:           `{"id":"iceland","section":"countries","title":"Ísland"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newContentFixture(t)
			ctx := context.Background()

			_, err := f.service.Update(ctx, domain.SectionCountries, "iceland",
				app.Entry{Preview: ptrTo("keep")}, domain.UpdateMerge)
			require.NoError(t, err)

			w := f.do(t, http.MethodPut, tt.target, tt.body)

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus != http.StatusOK {
				return
			}

			resp := decodeBody[dto.MutationResponse](t, w)
			assert.Equal(t, tt.expectedUpdated, resp.Updated)

			if !tt.expectedUpdated {
				assert.Equal(t, "skipped", resp.Sync.Result)
			}

			got, err := f.store.GetTopic(ctx, domain.SectionCountries, "iceland")
			require.NoError(t, err)
			assert.Equal(t, tt.expectedTitle, got.Title)
			assert.Equal(t, tt.expectedPreview, got.Preview)
		})
	}
}

func TestContentHandler_DeleteTopic(t *testing.T) {
	tests := []struct {
		name            string
		target          string
		expectedSection string
	}{
		{name: "section and id in query", target: "/api/v1/admin/topics?section=countries&id=iceland", expectedSection: "countries"},
		{name: "path addressing", target: "/api/v1/admin/topics/countries/iceland", expectedSection: "countries"},
		{name: "id only removes from every section", target: "/api/v1/admin/topics?id=iceland"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newContentFixture(t)

			w := f.do(t, http.MethodDelete, tt.target, "")

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			resp := decodeBody[dto.MutationResponse](t, w)
			assert.Equal(t, "iceland", resp.ID)
			assert.Equal(t, tt.expectedSection, resp.Section)

			_, err := f.store.GetTopic(context.Background(), domain.SectionCountries, "iceland")
			assert.True(t, domain.IsNotFound(err))
		})
	}
}

func TestContentHandler_DeleteTopicIsIdempotent(t *testing.T) {
	f := newContentFixture(t)

	for range 2 {
		w := f.do(t, http.MethodDelete, "/api/v1/admin/topics/guides/packing", "")
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := f.do(t, http.MethodDelete, "/api/v1/admin/topics", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContentHandler_QuoteLifecycle(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	w := f.do(t, http.MethodPost, "/api/v1/admin/quotes",
		`{"id":"muir","quote":"The mountains are calling and I must go.","attribution":"John Muir"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	got, err := f.store.GetQuote(ctx, "muir")
	require.NoError(t, err)
	assert.Equal(t, "The mountains are calling and I must go.", got.Text)
	assert.Equal(t, "John Muir", got.Author)

	w = f.do(t, http.MethodPut, "/api/v1/admin/quotes/muir?mode=merge", `{"reflection":"Every trailhead."}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decodeBody[dto.MutationResponse](t, w).Updated)

	got, err = f.store.GetQuote(ctx, "muir")
	require.NoError(t, err)
	assert.Equal(t, "John Muir", got.Author)
	assert.Equal(t, "Every trailhead.", got.Reflection)

	w = f.do(t, http.MethodPut, "/api/v1/admin/quotes", `{"id":"muir","quote_text":"Going to the mountains is going home.","author":"Muir"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got, err = f.store.GetQuote(ctx, "muir")
	require.NoError(t, err)
	assert.Equal(t, "Muir", got.Author)
	assert.Empty(t, got.Reflection)

	w = f.do(t, http.MethodDelete, "/api/v1/admin/quotes?id=muir", "")
	require.Equal(t, http.StatusOK, w.Code)

	_, err = f.store.GetQuote(ctx, "muir")
	assert.True(t, domain.IsNotFound(err))
}

func TestContentHandler_CreateQuoteRequiresText(t *testing.T) {
	f := newContentFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/admin/quotes", `{"author":"Nobody"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidation, decodeBody[dto.ErrorResponse](t, w).Error.Code)
}

func ptrTo(s string) *string { return &s }
