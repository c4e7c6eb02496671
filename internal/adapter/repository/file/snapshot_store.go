// Package file stores snapshots as JSON files in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/iho/kasa/internal/adapter/repository"
)

const backendName = "file"

// SnapshotStore writes one <key>.json file per snapshot key. Each file is
// replaced atomically; a batch is not.
type SnapshotStore struct {
	dir      string
	observer repository.Observer
}

// NewSnapshotStore creates the directory if needed and returns a store over it.
func NewSnapshotStore(dir string, observer repository.Observer) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if observer == nil {
		observer = repository.NopObserver{}
	}

	return &SnapshotStore{dir: dir, observer: observer}, nil
}

func (s *SnapshotStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load returns the file contents for key, or nil if the file does not exist.
func (s *SnapshotStore) Load(_ context.Context, key string) (blob []byte, err error) {
	defer func(started time.Time) {
		s.observer.ObserveSnapshot(backendName, "load", started, err)
	}(time.Now())

	blob, err = os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	return blob, nil
}

// SaveBatch writes every blob. It stops at the first failure.
func (s *SnapshotStore) SaveBatch(ctx context.Context, blobs map[string][]byte) (err error) {
	defer func(started time.Time) {
		s.observer.ObserveSnapshot(backendName, "save", started, err)
	}(time.Now())

	for key, blob := range blobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.write(key, blob); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}

	return nil
}

func (s *SnapshotStore) write(key string, blob []byte) error {
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path(key))
}

// Ping reports whether the data directory is still usable.
func (s *SnapshotStore) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}
