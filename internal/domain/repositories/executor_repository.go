package repositories

import (
	"context"
	"time"

	"github.com/campusware/gitread/internal/domain/entities"
)

// RunOptions describes a single external version-control invocation.
type RunOptions struct {
	// Args are the arguments passed to the tool, without the binary name.
	Args []string
	// Dir is the working directory; empty runs in the process directory.
	Dir string
	// Target, when non-nil, supplies the authenticated connection overlay
	// (environment entries and key material) for this one invocation.
	Target *entities.ConnectionTarget
	// Timeout overrides the configured per-invocation deadline when > 0.
	Timeout time.Duration
}

// ExecutorRepository runs one external version-control operation with a
// bounded timeout and a non-interactive environment, returning the tool's
// stdout or a classified error. It has no side effects beyond the external
// process and its scoped temporary files; it never touches the mirror
// layout or the cache.
type ExecutorRepository interface {
	Run(ctx context.Context, opts RunOptions) ([]byte, error)
}
