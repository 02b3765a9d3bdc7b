package ports

import (
	"context"

	"github.com/askadit/content-service/internal/domain"
)

// RemoteDocuments is a token-authenticated store of single documents with
// named file parts, such as a GitHub gist.
//
// Implementations map transport failures to domain errors: a missing
// document to domain.ErrNotFound, rejected tokens to domain.ErrRemoteUnauthorized
// or domain.ErrForbidden, and network or server failures to domain.ErrUnavailable.
type RemoteDocuments interface {
	Read(ctx context.Context, ref, token string) (*domain.RemoteDocument, error)

	// Update replaces the content of one file part of the document.
	Update(ctx context.Context, ref, token, file, content string) error

	// Create makes a new private document holding one file part and returns its reference.
	Create(ctx context.Context, token, description, file, content string) (string, error)
}

// Replicator propagates committed local changes to the remote copy.
type Replicator interface {
	// AfterCommit is called once per successful local mutation. It never
	// fails the mutation; the outcome describes the remote copy.
	AfterCommit(ctx context.Context) domain.SyncOutcome
}
