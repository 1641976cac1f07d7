package repositories

import (
	"context"

	"github.com/campusware/gitread/internal/domain/entities"
)

// TreeRepository answers structural and content queries against a fetched
// mirror. Every query is pinned to the handle's head so a caller never
// mixes results from two different fetches within one call.
type TreeRepository interface {
	// List returns the entries of the directory at path; empty path is
	// the repository root. Malformed records are skipped, not fatal.
	List(ctx context.Context, handle entities.MirrorHandle, path string) ([]entities.DirectoryEntry, error)
	// Read returns the raw bytes of the file at path.
	Read(ctx context.Context, handle entities.MirrorHandle, path string) ([]byte, error)
	// ChangedSince reports whether any path under path differs between
	// since and the handle's head.
	ChangedSince(ctx context.Context, handle entities.MirrorHandle, path string, since entities.CommitID) (bool, error)
}
