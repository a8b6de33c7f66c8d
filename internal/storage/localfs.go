package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/sdp-dev/tech-audit-scraper/internal/apperrors"
	"github.com/sdp-dev/tech-audit-scraper/internal/models"
)

// NewLocalFS creates a snapshot store backed by a local filesystem. It is
// intended for development runs and tests; pass nil to write under
// .snapshots in the working directory.
func NewLocalFS(fs afero.Fs) SnapshotStore {
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), ".snapshots")
	}
	return &localFS{fs: fs}
}

type localFS struct {
	fs afero.Fs
}

func (l *localFS) ReadSnapshot(ctx context.Context, key string) (*models.Snapshot, error) {
	data, err := afero.ReadFile(l.fs, key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, apperrors.NewStorage("failed to read snapshot file "+key, err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, apperrors.NewStorage("failed to decode stored snapshot", err)
	}
	return &snapshot, nil
}

func (l *localFS) WriteSnapshot(ctx context.Context, key string, snapshot *models.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return apperrors.NewStorage("failed to encode snapshot", err)
	}

	if dir := filepath.Dir(key); dir != "." {
		if err := l.fs.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewStorage("failed to create snapshot directory", err)
		}
	}
	if err := afero.WriteFile(l.fs, key, data, 0644); err != nil {
		return apperrors.NewStorage("failed to write snapshot file "+key, err)
	}
	return nil
}
