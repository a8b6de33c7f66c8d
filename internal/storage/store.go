// Package storage persists snapshots to a K/V style object store.
//
// Implementations are assumed to be fairly simple: S3 for production, a
// local filesystem for development and tests.
package storage

import (
	"context"

	"github.com/sdp-dev/tech-audit-scraper/internal/models"
)

type errString string

func (e errString) Error() string { return string(e) }

// ErrNotFound is returned by ReadSnapshot when no prior snapshot exists
// at the given key. First runs treat it as an empty prior set.
const ErrNotFound errString = "snapshot not found"

// SnapshotStore reads and writes whole snapshot documents. WriteSnapshot
// replaces any existing object at the key; there is no partial write.
type SnapshotStore interface {
	ReadSnapshot(ctx context.Context, key string) (*models.Snapshot, error)
	WriteSnapshot(ctx context.Context, key string, snapshot *models.Snapshot) error
}
