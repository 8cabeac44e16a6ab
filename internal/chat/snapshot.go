package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/okian/classmatch/pkg/metrics"
)

// Snapshot file layout inside the snapshot directory.
const (
	snapshotFile = "index.json"
	lockFile     = "index.lock"
	lockTimeout  = 3 * time.Second
	lockRetry    = 100 * time.Millisecond
)

// snapshot is the on-disk form of the index. Vectors are not persisted; the
// embedder is refit from the document texts on restore.
type snapshot struct {
	CreatedAt string       `json:"created_at"`
	Docs      []IndexedDoc `json:"docs"`
}

// saveSnapshot writes the indexed documents to disk under a file lock so
// concurrent processes sharing the directory never interleave writes.
func (a *Assistant) saveSnapshot(docs []IndexedDoc) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("cannot create snapshot dir %s: %w", a.dir, err)
	}

	unlock, err := acquireLock(filepath.Join(a.dir, lockFile))
	if err != nil {
		return err
	}
	defer unlock()

	body, err := json.MarshalIndent(snapshot{
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Docs:      docs,
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(a.dir, snapshotFile), body, 0o644); err != nil {
		return fmt.Errorf("cannot write snapshot: %w", err)
	}
	return nil
}

// RestoreSnapshot rebuilds the index from the last persisted snapshot.
// Returns how many documents were restored, or ErrNoSnapshot when the
// directory holds none.
func (a *Assistant) RestoreSnapshot() (int, error) {
	if a.dir == "" {
		return 0, ErrNoSnapshot
	}

	unlock, err := acquireLock(filepath.Join(a.dir, lockFile))
	if err != nil {
		return 0, err
	}
	defer unlock()

	body, err := os.ReadFile(filepath.Join(a.dir, snapshotFile))
	if os.IsNotExist(err) {
		return 0, ErrNoSnapshot
	}
	if err != nil {
		return 0, fmt.Errorf("cannot read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return 0, fmt.Errorf("corrupt snapshot: %w", err)
	}
	if len(snap.Docs) == 0 {
		return 0, ErrNoSnapshot
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.rebuild(snap.Docs)
	metrics.UpdateChatIndexedDocs(len(snap.Docs))
	return len(snap.Docs), nil
}

// acquireLock takes the snapshot file lock, retrying briefly before giving up.
func acquireLock(path string) (func(), error) {
	l := flock.New(path)
	deadline := time.Now().Add(lockTimeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return nil, fmt.Errorf("cannot acquire snapshot lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("snapshot lock held elsewhere (lock: %s)", path)
		}
		time.Sleep(lockRetry)
	}
}
