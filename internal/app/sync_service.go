package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/askadit/content-service/internal/domain"
	"github.com/askadit/content-service/internal/platform/logging"
	"github.com/askadit/content-service/internal/ports"
)

const (
	// DefaultSettingsKey is the blob key of the stored sync settings.
	DefaultSettingsKey = "sync/settings.json"

	// DefaultFileName is the remote file part holding the snapshot.
	DefaultFileName = "askadit-db.json"

	// DefaultDescription labels documents created by Provision.
	DefaultDescription = "AskAdit Database"
)

// Sync operation names, used in logs and metrics.
const (
	OpPush      = "push"
	OpPull      = "pull"
	OpProvision = "provision"
)

// Sync operation results, as recorded by SyncMetrics.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// SyncMetrics records sync activity.
type SyncMetrics interface {
	ObserveSync(operation, result string, d time.Duration)
	SetDirty(dirty bool)
}

// SyncServiceConfig holds the dependencies of a SyncService.
type SyncServiceConfig struct {
	Store  ports.ContentStore
	Blobs  ports.BlobStore
	Remote ports.RemoteDocuments

	// DocumentID and Token configure the remote when no settings are stored.
	DocumentID string
	Token      string

	FileName    string
	Description string
	SettingsKey string

	Metrics SyncMetrics
	Logger  *slog.Logger
	Now     func() time.Time
}

// syncSettings is the stored remote reference. A stored record with empty
// fields means the remote was disconnected and config must not re-apply.
type syncSettings struct {
	DocumentID string    `json:"gist_id"`
	Token      string    `json:"token"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s syncSettings) configured() bool {
	return s.DocumentID != "" && s.Token != ""
}

// PullResult reports a pull.
type PullResult struct {
	Topics  int
	Quotes  int
	Version int64
}

// SyncService keeps a remote document in step with the local store.
//
// Remote calls are serialized: a push never interleaves with a pull. Every
// remote call is made once; failures are returned and the dirty flag stays
// set until a later push or pull succeeds.
type SyncService struct {
	store  ports.ContentStore
	blobs  ports.BlobStore
	remote ports.RemoteDocuments

	fileName    string
	description string
	settingsKey string

	metrics  SyncMetrics
	logger   *slog.Logger
	now      func() time.Time
	executor *Executor

	// op serializes remote operations.
	op sync.Mutex

	mu       sync.RWMutex
	settings syncSettings
	dirty    bool
	lastPush time.Time
	lastPull time.Time
	lastErr  string
}

// NewSyncService loads the stored settings, falling back to the configured
// document id and token when nothing is stored.
func NewSyncService(ctx context.Context, cfg SyncServiceConfig) (*SyncService, error) {
	if cfg.Store == nil || cfg.Blobs == nil || cfg.Remote == nil {
		return nil, errors.New("sync service requires a store, a blob store and a remote")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "app.SyncService"))

	s := &SyncService{
		store:       cfg.Store,
		blobs:       cfg.Blobs,
		remote:      cfg.Remote,
		fileName:    valueOr(cfg.FileName, DefaultFileName),
		description: valueOr(cfg.Description, DefaultDescription),
		settingsKey: valueOr(cfg.SettingsKey, DefaultSettingsKey),
		metrics:     cfg.Metrics,
		logger:      logger,
		now:         cfg.Now,
		executor:    NewExecutor(logger),
	}

	if s.metrics == nil {
		s.metrics = noMetrics{}
	}

	if s.now == nil {
		s.now = time.Now
	}

	stored, err := s.loadSettings(ctx)

	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.settings = syncSettings{DocumentID: cfg.DocumentID, Token: cfg.Token}
	case err != nil:
		return nil, err
	default:
		s.settings = stored
	}

	logger.InfoContext(ctx, "remote backup initialized",
		slog.String("state", string(s.state())),
		slog.String("gist_id", s.settings.DocumentID),
	)

	return s, nil
}

func (s *SyncService) loadSettings(ctx context.Context) (syncSettings, error) {
	data, err := s.blobs.Get(ctx, s.settingsKey)
	if err != nil {
		return syncSettings{}, fmt.Errorf("reading sync settings: %w", err)
	}

	var settings syncSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return syncSettings{}, fmt.Errorf("decoding sync settings: %w", err)
	}

	return settings, nil
}

func (s *SyncService) saveSettings(ctx context.Context, settings syncSettings) error {
	settings.UpdatedAt = s.now().UTC()

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding sync settings: %w", err)
	}

	if err := s.blobs.Put(ctx, s.settingsKey, data); err != nil {
		return fmt.Errorf("saving sync settings: %w", err)
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	return nil
}

func (s *SyncService) state() domain.SyncState {
	if s.settings.configured() {
		return domain.SyncConfigured
	}

	return domain.SyncUnconfigured
}

func (s *SyncService) current() syncSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings
}

// Status describes the remote backup. The token is never included.
func (s *SyncService) Status(context.Context) domain.SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.SyncStatus{
		State:      s.state(),
		DocumentID: s.settings.DocumentID,
		FileName:   s.fileName,
		Dirty:      s.dirty,
		LastPush:   s.lastPush,
		LastPull:   s.lastPull,
		LastError:  s.lastErr,
	}
}

// Push uploads the whole local store as the remote snapshot file.
func (s *SyncService) Push(ctx context.Context) error {
	s.op.Lock()
	defer s.op.Unlock()

	return s.push(ctx)
}

func (s *SyncService) push(ctx context.Context) error {
	ctx = logging.WithOperation(ctx, "sync.push")
	start := s.now()

	settings := s.current()
	if !settings.configured() {
		return domain.NewConfigurationError("push", "a document id and token")
	}

	content, err := s.encodeLocal(ctx)
	if err != nil {
		return s.finish(ctx, OpPush, start, err)
	}

	if err := s.remote.Update(ctx, settings.DocumentID, settings.Token, s.fileName, content); err != nil {
		return s.finish(ctx, OpPush, start, fmt.Errorf("pushing snapshot: %w", err))
	}

	s.mu.Lock()
	s.lastPush = s.now()
	s.mu.Unlock()

	return s.finish(ctx, OpPush, start, nil)
}

// Pull replaces the local store with the remote snapshot. The local store is
// left untouched when the document, its snapshot file or the snapshot itself
// is missing or invalid.
func (s *SyncService) Pull(ctx context.Context) (*PullResult, error) {
	s.op.Lock()
	defer s.op.Unlock()

	ctx = logging.WithOperation(ctx, "sync.pull")
	start := s.now()

	op := Operation[syncSettings, *domain.RemoteDocument, domain.Snapshot, *PullResult]{
		Name: "sync pull",
		Validate: func(_ context.Context, in syncSettings) error {
			if !in.configured() {
				return domain.NewConfigurationError("pull", "a document id and token")
			}

			return nil
		},
		Perform: func(ctx context.Context, in syncSettings) (*domain.RemoteDocument, error) {
			return s.remote.Read(ctx, in.DocumentID, in.Token)
		},
		Verify: func(_ context.Context, _ syncSettings, doc *domain.RemoteDocument) (domain.Snapshot, error) {
			content, ok := doc.File(s.fileName)
			if !ok {
				return domain.Snapshot{}, domain.NewNotFoundError("snapshot file", s.fileName)
			}

			return domain.DecodeSnapshot([]byte(content))
		},
		Archive: func(ctx context.Context, _ syncSettings, snap domain.Snapshot) error {
			return s.store.Replace(ctx, snap.Dataset)
		},
		Respond: func(_ context.Context, _ syncSettings, snap domain.Snapshot) (*PullResult, error) {
			return &PullResult{Topics: len(snap.Topics), Quotes: len(snap.Quotes), Version: snap.Version}, nil
		},
	}

	settings := s.current()

	result, err := Execute(ctx, s.executor, op, settings)
	if err != nil {
		if step, _ := GetExecutionStep(err); step == StepValidate {
			return nil, err
		}

		return nil, s.finish(ctx, OpPull, start, err)
	}

	s.mu.Lock()
	s.lastPull = s.now()
	s.mu.Unlock()

	s.log(ctx).InfoContext(ctx, "pulled remote snapshot",
		slog.Int("topics", result.Topics),
		slog.Int("quotes", result.Quotes),
		slog.Int64("version", result.Version),
	)

	return result, s.finish(ctx, OpPull, start, nil)
}

// Provision creates a private remote document holding the current local
// snapshot and stores its id with token.
func (s *SyncService) Provision(ctx context.Context, token string) (string, error) {
	s.op.Lock()
	defer s.op.Unlock()

	ctx = logging.WithOperation(ctx, "sync.provision")
	start := s.now()

	op := Operation[string, string, string, string]{
		Name: "sync provision",
		Validate: func(_ context.Context, token string) error {
			if token == "" {
				return domain.NewValidationError("token", "is required")
			}

			return nil
		},
		Perform: func(ctx context.Context, token string) (string, error) {
			content, err := s.encodeLocal(ctx)
			if err != nil {
				return "", err
			}

			return s.remote.Create(ctx, token, s.description, s.fileName, content)
		},
		Verify: func(_ context.Context, _ string, id string) (string, error) {
			if id == "" {
				return "", domain.NewUnavailableError("remote", "created document has no id")
			}

			return id, nil
		},
		Archive: func(ctx context.Context, token string, id string) error {
			return s.saveSettings(ctx, syncSettings{DocumentID: id, Token: token})
		},
		Respond: func(_ context.Context, _ string, id string) (string, error) {
			return id, nil
		},
	}

	id, err := Execute(ctx, s.executor, op, token)
	if err != nil {
		if step, _ := GetExecutionStep(err); step == StepValidate {
			return "", err
		}

		return "", s.finish(ctx, OpProvision, start, err)
	}

	s.mu.Lock()
	s.lastPush = s.now()
	s.mu.Unlock()

	s.log(ctx).InfoContext(ctx, "provisioned remote backup", slog.String("gist_id", id))

	return id, s.finish(ctx, OpProvision, start, nil)
}

// Disconnect forgets the remote reference. The remote document is kept.
func (s *SyncService) Disconnect(ctx context.Context) error {
	s.op.Lock()
	defer s.op.Unlock()

	if err := s.saveSettings(ctx, syncSettings{}); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	s.log(ctx).InfoContext(ctx, "remote backup disconnected")

	return nil
}

// AfterCommit marks local state dirty and pushes it when the remote is
// configured. It never fails: the outcome says whether the remote copy is
// current.
func (s *SyncService) AfterCommit(ctx context.Context) domain.SyncOutcome {
	s.op.Lock()
	defer s.op.Unlock()

	s.setDirty(true)

	if !s.current().configured() {
		return domain.SyncOutcome{Result: domain.SyncSkipped, Message: "remote backup not configured"}
	}

	if err := s.push(ctx); err != nil {
		return domain.SyncOutcome{Result: domain.SyncFailed, Message: err.Error()}
	}

	return domain.SyncOutcome{Result: domain.SyncPushed}
}

// PullOnStart pulls when configured. Failures are logged and local state is
// kept, so startup never blocks on the remote.
func (s *SyncService) PullOnStart(ctx context.Context) {
	if !s.current().configured() {
		return
	}

	if _, err := s.Pull(ctx); err != nil {
		s.log(ctx).WarnContext(ctx, "startup pull failed, serving local content", slog.Any("error", err))
	}
}

// finish records the outcome of a remote operation and returns err.
func (s *SyncService) finish(ctx context.Context, operation string, start time.Time, err error) error {
	result := ResultOK
	if err != nil {
		result = ResultError
	}

	s.metrics.ObserveSync(operation, result, s.now().Sub(start))

	s.mu.Lock()
	if err != nil {
		s.lastErr = err.Error()
	} else {
		s.lastErr = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.log(ctx).WarnContext(ctx, "remote operation failed",
			slog.String("sync_operation", operation),
			slog.Any("error", err),
		)

		return err
	}

	s.setDirty(false)

	return nil
}

func (s *SyncService) setDirty(dirty bool) {
	s.mu.Lock()
	s.dirty = dirty
	s.mu.Unlock()

	s.metrics.SetDirty(dirty)
}

func (s *SyncService) encodeLocal(ctx context.Context) (string, error) {
	d, err := s.store.Export(ctx)
	if err != nil {
		return "", fmt.Errorf("exporting content: %w", err)
	}

	data, err := domain.EncodeSnapshot(domain.NewSnapshot(d, s.now()))
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	return string(data), nil
}

func (s *SyncService) log(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

// Name identifies the service in readiness checks.
func (s *SyncService) Name() string {
	return "sync"
}

// Check reports whether the settings store is readable. The remote is not probed.
func (s *SyncService) Check(ctx context.Context) error {
	_, err := s.blobs.Get(ctx, s.settingsKey)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	return nil
}

type noMetrics struct{}

func (noMetrics) ObserveSync(string, string, time.Duration) {}
func (noMetrics) SetDirty(bool)                              {}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}

	return v
}
