package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/campusware/gitread/internal/domain/entities"
	"github.com/campusware/gitread/internal/domain/repositories"
)

// SpyMirrorRepository implements repositories.MirrorRepository as a
// configurable spy.
type SpyMirrorRepository struct {
	Handle     entities.MirrorHandle
	EnsureErr  error
	HeadResult entities.CommitID
	HeadOK     bool

	// spy: call tracking
	EnsureCallCount int
	LastLocation    entities.Location
}

var _ repositories.MirrorRepository = (*SpyMirrorRepository)(nil)

func (s *SpyMirrorRepository) EnsureFetched(
	_ context.Context,
	location entities.Location,
) (entities.MirrorHandle, error) {
	s.EnsureCallCount++
	s.LastLocation = location
	if s.EnsureErr != nil {
		return entities.MirrorHandle{}, s.EnsureErr
	}
	return s.Handle, nil
}

func (s *SpyMirrorRepository) Head(_ entities.Location) (entities.CommitID, bool) {
	return s.HeadResult, s.HeadOK
}
