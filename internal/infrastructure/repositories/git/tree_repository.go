package git

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/campusware/gitread/internal/domain/entities"
	"github.com/campusware/gitread/internal/domain/repositories"
)

// TreeRepository translates logical paths into object queries against a
// fetched mirror and parses the structured output. Every query names the
// handle's head explicitly so results are pinned to one fetch.
type TreeRepository struct {
	executor repositories.ExecutorRepository
}

var _ repositories.TreeRepository = (*TreeRepository)(nil)

// NewTreeRepository creates a new TreeRepository.
func NewTreeRepository(executor repositories.ExecutorRepository) *TreeRepository {
	return &TreeRepository{executor: executor}
}

// List returns the entries of the directory at path at the handle's head.
func (it *TreeRepository) List(
	ctx context.Context,
	handle entities.MirrorHandle,
	path string,
) ([]entities.DirectoryEntry, error) {
	output, err := it.executor.Run(ctx, repositories.RunOptions{
		Args: []string{"ls-tree", "-l", "-z", revisionSpec(handle.Head, path)},
		Dir:  handle.Path,
	})
	if err != nil {
		return nil, err
	}
	return parseTreeListing(output), nil
}

// Read returns the raw bytes of the blob at path at the handle's head.
func (it *TreeRepository) Read(
	ctx context.Context,
	handle entities.MirrorHandle,
	path string,
) ([]byte, error) {
	return it.executor.Run(ctx, repositories.RunOptions{
		Args: []string{"cat-file", "blob", revisionSpec(handle.Head, path)},
		Dir:  handle.Path,
	})
}

// ChangedSince reports whether anything under path differs between since
// and the handle's head.
func (it *TreeRepository) ChangedSince(
	ctx context.Context,
	handle entities.MirrorHandle,
	path string,
	since entities.CommitID,
) (bool, error) {
	args := []string{"diff", "--name-only", string(since), string(handle.Head)}
	if path != "" {
		args = append(args, "--", path)
	}
	output, err := it.executor.Run(ctx, repositories.RunOptions{
		Args: args,
		Dir:  handle.Path,
	})
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(output)) > 0, nil
}

// revisionSpec builds the rev:path object name; an empty path addresses
// the root tree.
func revisionSpec(head entities.CommitID, path string) string {
	if path == "" {
		return string(head)
	}
	return string(head) + ":" + path
}

// parseTreeListing parses NUL-terminated `ls-tree -l` records:
//
//	<mode> <type> <object> <size>\t<name>
//
// Malformed records are skipped, not fatal. Ordering is preserved as
// produced by the tool.
func parseTreeListing(output []byte) []entities.DirectoryEntry {
	entries := make([]entities.DirectoryEntry, 0)
	for _, record := range bytes.Split(output, []byte{0}) {
		if len(bytes.TrimSpace(record)) == 0 {
			continue
		}
		entry, ok := parseTreeRecord(string(record))
		if !ok {
			logger.Warnf("Skipping malformed listing record: %q", string(record))
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func parseTreeRecord(record string) (entities.DirectoryEntry, bool) {
	meta, name, found := strings.Cut(record, "\t")
	if !found || name == "" {
		return entities.DirectoryEntry{}, false
	}

	fields := strings.Fields(meta)
	if len(fields) != 4 {
		return entities.DirectoryEntry{}, false
	}
	mode, objectType, objectID, rawSize := fields[0], fields[1], fields[2], fields[3]

	entry := entities.DirectoryEntry{
		Name:     name,
		Mode:     mode,
		ObjectID: objectID,
	}
	switch objectType {
	case "tree":
		entry.Kind = entities.EntryKindDirectory
	case "blob":
		entry.Kind = entities.EntryKindFile
		size, err := strconv.ParseInt(rawSize, 10, 64)
		if err != nil {
			return entities.DirectoryEntry{}, false
		}
		entry.Size = size
	case "commit":
		// Submodule pointer; presented as a directory with no content.
		entry.Kind = entities.EntryKindDirectory
	default:
		return entities.DirectoryEntry{}, false
	}
	return entry, true
}
