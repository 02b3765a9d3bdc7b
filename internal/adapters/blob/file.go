package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/askadit/content-service/internal/domain"
)

// FileStore keeps each blob in its own file below a root directory.
// Writes go to a temporary file that is renamed over the target, so a
// reader never observes a partial value.
type FileStore struct {
	root   string
	logger *slog.Logger
}

// NewFileStore creates root if needed.
func NewFileStore(root string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}

	return &FileStore{
		root:   root,
		logger: logger.With(slog.String("component", "blob.file")),
	}, nil
}

func (s *FileStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, "..") {
		return "", domain.NewValidationError("key", fmt.Sprintf("invalid blob key %q", key))
	}

	return filepath.Join(s.root, clean), nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.NewNotFoundError("blob", key)
	}

	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", key, err)
	}

	return data, nil
}

func (s *FileStore) Put(_ context.Context, key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating blob directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(p)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpName := tmp.Name()
	defer func() {
		// Removing after a successful rename fails harmlessly.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing blob %s: %w", key, err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing blob %s: %w", key, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing blob %s: %w", key, err)
	}

	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("replacing blob %s: %w", key, err)
	}

	s.logger.Debug("blob written", slog.String("key", key), slog.Int("bytes", len(data)))

	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting blob %s: %w", key, err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (s *FileStore) Name() string { return "blob-store" }

// Check verifies the root directory is still present.
func (s *FileStore) Check(context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("blob directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("blob directory %s is not a directory", s.root)
	}

	return nil
}
