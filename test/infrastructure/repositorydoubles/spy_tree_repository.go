package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/campusware/gitread/internal/domain/entities"
	"github.com/campusware/gitread/internal/domain/repositories"
)

// SpyTreeRepository implements repositories.TreeRepository as a
// configurable spy. Listings and contents are keyed by path so one double
// can serve a whole directory hierarchy.
type SpyTreeRepository struct {
	Listings map[string][]entities.DirectoryEntry // path -> entries
	ListErr  error
	Contents map[string][]byte // path -> bytes
	ReadErr  error
	Changed  bool
	DiffErr  error

	// spy: call tracking
	ListCallCount int
	ReadCallCount int
	ListedPaths   []string
	ReadPaths     []string
}

var _ repositories.TreeRepository = (*SpyTreeRepository)(nil)

func (s *SpyTreeRepository) List(
	_ context.Context,
	_ entities.MirrorHandle,
	path string,
) ([]entities.DirectoryEntry, error) {
	s.ListCallCount++
	s.ListedPaths = append(s.ListedPaths, path)
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return s.Listings[path], nil
}

func (s *SpyTreeRepository) Read(
	_ context.Context,
	_ entities.MirrorHandle,
	path string,
) ([]byte, error) {
	s.ReadCallCount++
	s.ReadPaths = append(s.ReadPaths, path)
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	if content, ok := s.Contents[path]; ok {
		return content, nil
	}
	return nil, entities.NewClassifiedError(
		entities.ErrorKindNotFound,
		"path not scripted: "+path,
		"The repository, branch or path could not be found.",
	)
}

func (s *SpyTreeRepository) ChangedSince(
	_ context.Context,
	_ entities.MirrorHandle,
	_ string,
	_ entities.CommitID,
) (bool, error) {
	if s.DiffErr != nil {
		return false, s.DiffErr
	}
	return s.Changed, nil
}
