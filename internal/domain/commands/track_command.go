package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/campusware/gitread/internal/domain/entities"
	"github.com/campusware/gitread/internal/domain/repositories"
)

// Track answers "has this path changed since commit X" so callers can
// decide when to drop cached views. Both operations are advisory: a
// failure is reported as absence of a signal, never as an error.
type Track interface {
	// HeadCommit returns the head reached by the last successful fetch,
	// or false when no fetch has ever completed. It never fetches.
	HeadCommit(location entities.Location) (entities.CommitID, bool)
	// ChangedSince ensures a fresh fetch, then compares since against the
	// new head restricted to path. A nil result means the signal is
	// unavailable (missing argument or failed query).
	ChangedSince(ctx context.Context, location entities.Location, path string, since entities.CommitID) *bool
}

// TrackCommand implements Track on top of the mirror and tree layers.
type TrackCommand struct {
	credentials repositories.CredentialsRepository
	mirrors     repositories.MirrorRepository
	trees       repositories.TreeRepository
}

// NewTrackCommand creates a new TrackCommand.
func NewTrackCommand(
	credentials repositories.CredentialsRepository,
	mirrors repositories.MirrorRepository,
	trees repositories.TreeRepository,
) *TrackCommand {
	return &TrackCommand{
		credentials: credentials,
		mirrors:     mirrors,
		trees:       trees,
	}
}

// HeadCommit returns the most recently fetched head without fetching.
func (it *TrackCommand) HeadCommit(location entities.Location) (entities.CommitID, bool) {
	return it.mirrors.Head(location)
}

// ChangedSince reports whether path changed between since and the current
// remote head, or nil when the question cannot be answered.
func (it *TrackCommand) ChangedSince(
	ctx context.Context,
	location entities.Location,
	path string,
	since entities.CommitID,
) *bool {
	if since == "" {
		return nil
	}

	resolved, err := it.credentials.Resolve(ctx, location)
	if err != nil {
		logger.Debugf("Change signal unavailable for %s: %v", location, err)
		return nil
	}

	handle, err := it.mirrors.EnsureFetched(ctx, resolved)
	if err != nil {
		logger.Debugf("Change signal unavailable for %s: %v", location, err)
		return nil
	}

	changed, err := it.trees.ChangedSince(ctx, handle, path, since)
	if err != nil {
		logger.Debugf("Change signal unavailable for %s: %v", location, err)
		return nil
	}
	return &changed
}
