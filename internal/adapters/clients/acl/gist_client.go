package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/askadit/content-service/internal/adapters/clients"
	"github.com/askadit/content-service/internal/domain"
)

// GitHubAccept selects the v3 JSON representation of the REST API.
const GitHubAccept = "application/vnd.github.v3+json"

const gistService = "gist"

// gistFile is one file part of a gist. Content is truncated by the API for
// files over one megabyte, in which case RawURL holds the full content.
type gistFile struct {
	Filename  string `json:"filename,omitempty"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated,omitempty"`
	RawURL    string `json:"raw_url,omitempty"`
}

type gistResponse struct {
	ID    string              `json:"id"`
	Files map[string]gistFile `json:"files"`
}

type gistUpdateRequest struct {
	Files map[string]gistFile `json:"files"`
}

type gistCreateRequest struct {
	Description string              `json:"description"`
	Public      bool                `json:"public"`
	Files       map[string]gistFile `json:"files"`
}

// GistClient implements ports.RemoteDocuments on the GitHub Gists API.
type GistClient struct {
	client *clients.Client
	logger *slog.Logger
}

// NewGistClient wraps an instrumented client whose base URL points at the
// GitHub REST API.
func NewGistClient(client *clients.Client, logger *slog.Logger) *GistClient {
	if client == nil {
		panic("acl: client is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &GistClient{
		client: client,
		logger: logger.With(slog.String("component", "acl.GistClient")),
	}
}

func gistPath(ref string) string {
	return "/gists/" + url.PathEscape(ref)
}

// Read fetches a gist and the content of every file part.
func (g *GistClient) Read(ctx context.Context, ref, token string) (*domain.RemoteDocument, error) {
	resp, err := g.client.Get(ctx, gistPath(ref), clients.WithBearerToken(token))
	if err != nil {
		return nil, mapClientError(err, gistService, "read gist")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, mapStatus(resp, gistService, "read gist", "remote document", ref)
	}

	var body gistResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.NewUnavailableError(gistService, "decoding gist: "+err.Error())
	}

	doc := &domain.RemoteDocument{ID: body.ID, Files: make(map[string]string, len(body.Files))}

	for name, f := range body.Files {
		content := f.Content
		if f.Truncated && f.RawURL != "" {
			content, err = g.readRaw(ctx, f.RawURL, token)
			if err != nil {
				return nil, err
			}
		}

		doc.Files[name] = content
	}

	g.logger.DebugContext(ctx, "read gist", slog.String("gist_id", ref), slog.Int("files", len(doc.Files)))

	return doc, nil
}

func (g *GistClient) readRaw(ctx context.Context, rawURL, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating raw request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return "", mapClientError(err, gistService, "read gist file")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", mapStatus(resp, gistService, "read gist file", "remote file", rawURL)
	}

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewUnavailableError(gistService, "reading gist file: "+err.Error())
	}

	return string(buf), nil
}

// Update overwrites one file part of the gist.
func (g *GistClient) Update(ctx context.Context, ref, token, file, content string) error {
	body, err := json.Marshal(gistUpdateRequest{
		Files: map[string]gistFile{file: {Content: content}},
	})
	if err != nil {
		return fmt.Errorf("encoding gist update: %w", err)
	}

	resp, err := g.client.Patch(ctx, gistPath(ref), body, clients.WithBearerToken(token))
	if err != nil {
		return mapClientError(err, gistService, "update gist")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return mapStatus(resp, gistService, "update gist", "remote document", ref)
	}

	g.logger.DebugContext(ctx, "updated gist", slog.String("gist_id", ref), slog.Int("bytes", len(content)))

	return nil
}

// Create makes a private gist holding one file and returns its id.
func (g *GistClient) Create(ctx context.Context, token, description, file, content string) (string, error) {
	body, err := json.Marshal(gistCreateRequest{
		Description: description,
		Public:      false,
		Files:       map[string]gistFile{file: {Content: content}},
	})
	if err != nil {
		return "", fmt.Errorf("encoding gist: %w", err)
	}

	resp, err := g.client.Post(ctx, "/gists", body, clients.WithBearerToken(token))
	if err != nil {
		return "", mapClientError(err, gistService, "create gist")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", mapStatus(resp, gistService, "create gist", "remote document", "")
	}

	var created gistResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", domain.NewUnavailableError(gistService, "decoding created gist: "+err.Error())
	}

	if created.ID == "" {
		return "", domain.NewUnavailableError(gistService, "created gist has no id")
	}

	g.logger.InfoContext(ctx, "created gist", slog.String("gist_id", created.ID))

	return created.ID, nil
}
