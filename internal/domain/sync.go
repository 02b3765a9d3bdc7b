package domain

import "time"

// SyncState is the configuration state of remote backup.
type SyncState string

const (
	SyncUnconfigured SyncState = "unconfigured"
	SyncConfigured   SyncState = "configured"
)

// SyncResult classifies what happened to the remote copy after a local mutation.
type SyncResult string

const (
	// SyncSkipped means remote backup is not configured.
	SyncSkipped SyncResult = "skipped"
	// SyncPushed means the remote copy now matches local state.
	SyncPushed SyncResult = "pushed"
	// SyncFailed means the remote copy is stale; local state is kept.
	SyncFailed SyncResult = "failed"
)

// SyncOutcome reports the write-through push that followed a mutation.
type SyncOutcome struct {
	Result  SyncResult
	Message string
}

// SyncStatus describes the remote backup as seen by this process.
type SyncStatus struct {
	State      SyncState
	DocumentID string
	FileName   string
	Dirty      bool
	LastPush   time.Time
	LastPull   time.Time
	LastError  string
}

// RemoteDocument is a remote single-document store entry: an id and its
// named file parts.
type RemoteDocument struct {
	ID    string
	Files map[string]string
}

// File returns the content of the named part.
func (d RemoteDocument) File(name string) (string, bool) {
	content, ok := d.Files[name]
	return content, ok
}
