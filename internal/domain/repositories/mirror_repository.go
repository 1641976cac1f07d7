package repositories

import (
	"context"

	"github.com/campusware/gitread/internal/domain/entities"
)

// MirrorRepository owns the per-repository, per-branch bare mirrors.
// EnsureFetched guarantees that, on success, the returned handle points at
// a mirror whose shallow fetch of the requested branch has completed; the
// handle's head is the reference every subsequent read must query.
// Concurrent callers for the same (url, branch) share one in-flight fetch.
type MirrorRepository interface {
	EnsureFetched(ctx context.Context, location entities.Location) (entities.MirrorHandle, error)
	// Head returns the head reached by the last successful fetch of this
	// location, without triggering a fetch. The second result is false
	// when no fetch has ever completed.
	Head(location entities.Location) (entities.CommitID, bool)
}
