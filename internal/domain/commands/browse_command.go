package commands

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/korean"

	"github.com/campusware/gitread/internal/domain/entities"
	"github.com/campusware/gitread/internal/domain/repositories"
)

const (
	opListing = "ls"
	opContent = "cat"
)

// Browse is the read surface exposed to the application's course and
// assignment services. All operations are idempotent under a stable remote
// head; the write-style operations exist only to fail fast.
type Browse interface {
	ListDirectory(ctx context.Context, location entities.Location, path string) ([]entities.DirectoryEntry, error)
	ReadFile(ctx context.Context, location entities.Location, path string) ([]byte, error)
	FileExists(ctx context.Context, location entities.Location, path string) bool
	DirectoryExists(ctx context.Context, location entities.Location, path string) bool
	// Invalidate clears cached entries for one path, or for the whole
	// repository branch when path is empty and blanket is true.
	Invalidate(ctx context.Context, location entities.Location, path string) error
	InvalidateAll(ctx context.Context, location entities.Location) error

	// The layer is read-only; these always fail with a read-only error
	// and perform zero remote side effects.
	WriteFile(ctx context.Context, location entities.Location, path string, content []byte) error
	CreateDirectory(ctx context.Context, location entities.Location, path string) error
	DeleteFile(ctx context.Context, location entities.Location, path string) error
}

// BrowseCommand wires the cache fast path in front of the mirror and tree
// layers: lookup -> on miss ensure fetch -> query -> populate -> return.
type BrowseCommand struct {
	settings    *entities.Settings
	credentials repositories.CredentialsRepository
	mirrors     repositories.MirrorRepository
	trees       repositories.TreeRepository
	cache       repositories.CacheRepository
}

// NewBrowseCommand creates a new BrowseCommand.
func NewBrowseCommand(
	settings *entities.Settings,
	credentials repositories.CredentialsRepository,
	mirrors repositories.MirrorRepository,
	trees repositories.TreeRepository,
	cache repositories.CacheRepository,
) *BrowseCommand {
	return &BrowseCommand{
		settings:    settings,
		credentials: credentials,
		mirrors:     mirrors,
		trees:       trees,
		cache:       cache,
	}
}

// ListDirectory returns the entries of the directory at path; empty path is
// the repository root. Ordering is whatever the underlying listing
// preserves; callers requiring a specific order must sort.
func (it *BrowseCommand) ListDirectory(
	ctx context.Context,
	location entities.Location,
	path string,
) ([]entities.DirectoryEntry, error) {
	path = normalizePath(path)
	key := location.CacheKey(opListing, path)

	if payload, hit, err := it.cache.Get(ctx, key); err != nil {
		logger.Warnf("Cache lookup failed for %s: %v", location, err)
	} else if hit {
		var entries []entities.DirectoryEntry
		if unmarshalErr := json.Unmarshal(payload, &entries); unmarshalErr == nil {
			logger.Debugf("Listing cache hit for %s %q", location, path)
			return entries, nil
		}
		// Unreadable payloads are treated as a miss and overwritten below.
		logger.Warnf("Discarding unreadable cached listing for %s %q", location, path)
	}

	entries, err := it.fetchListing(ctx, location, path)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(entries); marshalErr == nil {
		if setErr := it.cache.Set(ctx, key, payload, it.settings.ListingTTL()); setErr != nil {
			logger.Warnf("Cache populate failed for %s: %v", location, setErr)
		}
	}

	return entries, nil
}

// ReadFile returns the raw bytes of the file at path. Path must be
// non-empty; an empty path is a caller mistake, not a missing file.
func (it *BrowseCommand) ReadFile(
	ctx context.Context,
	location entities.Location,
	path string,
) ([]byte, error) {
	path = normalizePath(path)
	if path == "" {
		return nil, entities.NewValidationError("read_file requires a non-empty path")
	}

	key := location.CacheKey(opContent, path)
	if payload, hit, err := it.cache.Get(ctx, key); err != nil {
		logger.Warnf("Cache lookup failed for %s: %v", location, err)
	} else if hit {
		logger.Debugf("Content cache hit for %s %q", location, path)
		return payload, nil
	}

	handle, err := it.ensureFetched(ctx, location)
	if err != nil {
		return nil, err
	}

	content, err := it.trees.Read(ctx, handle, path)
	if err != nil {
		return nil, entities.AsClassified(err)
	}
	content = normalizeText(content)

	if setErr := it.cache.Set(ctx, key, content, it.settings.ContentTTL()); setErr != nil {
		logger.Warnf("Cache populate failed for %s: %v", location, setErr)
	}

	return content, nil
}

// FileExists reports whether path names a file; every failure collapses to
// false, this is a convenience probe, not an error surface.
func (it *BrowseCommand) FileExists(
	ctx context.Context,
	location entities.Location,
	path string,
) bool {
	path = normalizePath(path)
	if path == "" {
		return false
	}
	entries, err := it.ListDirectory(ctx, location, parentOf(path))
	if err != nil {
		return false
	}
	name := baseOf(path)
	for _, entry := range entries {
		if entry.Name == name {
			return !entry.IsDir()
		}
	}
	return false
}

// DirectoryExists reports whether path names a directory; the root always
// exists once the repository is reachable.
func (it *BrowseCommand) DirectoryExists(
	ctx context.Context,
	location entities.Location,
	path string,
) bool {
	path = normalizePath(path)
	if path == "" {
		_, err := it.ListDirectory(ctx, location, "")
		return err == nil
	}
	entries, err := it.ListDirectory(ctx, location, parentOf(path))
	if err != nil {
		return false
	}
	name := baseOf(path)
	for _, entry := range entries {
		if entry.Name == name {
			return entry.IsDir()
		}
	}
	return false
}

// Invalidate clears the cached listing and content for one path.
func (it *BrowseCommand) Invalidate(
	ctx context.Context,
	location entities.Location,
	path string,
) error {
	path = normalizePath(path)
	for _, op := range []string{opListing, opContent} {
		if err := it.cache.Delete(ctx, location.CacheKey(op, path)); err != nil {
			return entities.AsClassified(err)
		}
	}
	return nil
}

// InvalidateAll clears every cached entry of the repository branch. The
// fingerprint prefix makes the keys enumerable, so a blanket clear is a
// first-class operation rather than a best-effort one.
func (it *BrowseCommand) InvalidateAll(
	ctx context.Context,
	location entities.Location,
) error {
	keys, err := it.cache.Keys(ctx, location.CacheKeyPrefix())
	if err != nil {
		return entities.AsClassified(err)
	}
	for _, key := range keys {
		if deleteErr := it.cache.Delete(ctx, key); deleteErr != nil {
			return entities.AsClassified(deleteErr)
		}
	}
	logger.Debugf("Invalidated %d cached entries for %s", len(keys), location)
	return nil
}

// WriteFile always fails: the layer never mutates the remote repository.
func (it *BrowseCommand) WriteFile(
	_ context.Context,
	_ entities.Location,
	_ string,
	_ []byte,
) error {
	return entities.NewReadOnlyError("write_file")
}

// CreateDirectory always fails: the layer never mutates the remote repository.
func (it *BrowseCommand) CreateDirectory(
	_ context.Context,
	_ entities.Location,
	_ string,
) error {
	return entities.NewReadOnlyError("create_directory")
}

// DeleteFile always fails: the layer never mutates the remote repository.
func (it *BrowseCommand) DeleteFile(
	_ context.Context,
	_ entities.Location,
	_ string,
) error {
	return entities.NewReadOnlyError("delete_file")
}

func (it *BrowseCommand) fetchListing(
	ctx context.Context,
	location entities.Location,
	path string,
) ([]entities.DirectoryEntry, error) {
	handle, err := it.ensureFetched(ctx, location)
	if err != nil {
		return nil, err
	}
	entries, err := it.trees.List(ctx, handle, path)
	if err != nil {
		return nil, entities.AsClassified(err)
	}
	return entries, nil
}

func (it *BrowseCommand) ensureFetched(
	ctx context.Context,
	location entities.Location,
) (entities.MirrorHandle, error) {
	resolved, err := it.credentials.Resolve(ctx, location)
	if err != nil {
		return entities.MirrorHandle{}, entities.AsClassified(err)
	}
	handle, err := it.mirrors.EnsureFetched(ctx, resolved)
	if err != nil {
		return entities.MirrorHandle{}, entities.AsClassified(err)
	}
	return handle, nil
}

// normalizeText keeps binary payloads untouched and re-encodes legacy
// EUC-KR text as UTF-8 so later consumers can treat content as valid
// UTF-8. Bytes that decode under neither encoding are returned raw.
func normalizeText(content []byte) []byte {
	if utf8.Valid(content) {
		return content
	}
	decoded, err := korean.EUCKR.NewDecoder().Bytes(content)
	if err != nil || !utf8.Valid(decoded) {
		return content
	}
	return decoded
}

func normalizePath(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}

func parentOf(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[:idx]
	}
	return ""
}

func baseOf(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
