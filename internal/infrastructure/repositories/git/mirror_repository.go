package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/campusware/gitread/internal/domain/entities"
	"github.com/campusware/gitread/internal/domain/repositories"
)

// MirrorRepository owns the bare, metadata-only mirrors under the
// configured root. Each (url, branch) maps to one content-hash-named
// directory that is created lazily, healed in place and never torn down.
// Concurrent fetches of the same key are coalesced: every simultaneous
// caller waits on one in-flight fetch and shares its result or its error.
type MirrorRepository struct {
	settings *entities.Settings
	executor repositories.ExecutorRepository

	flight singleflight.Group

	mu    sync.RWMutex
	heads map[string]entities.FetchResult
}

var _ repositories.MirrorRepository = (*MirrorRepository)(nil)

// NewMirrorRepository creates a new MirrorRepository.
func NewMirrorRepository(
	settings *entities.Settings,
	executor repositories.ExecutorRepository,
) *MirrorRepository {
	return &MirrorRepository{
		settings: settings,
		executor: executor,
		heads:    make(map[string]entities.FetchResult),
	}
}

// EnsureFetched guarantees the mirror exists, its remote points at the
// authenticated target and a depth-1 fetch of the requested branch has
// completed. Configuration and fetch are strictly sequenced within one
// call; a caller never observes a half-configured remote.
func (it *MirrorRepository) EnsureFetched(
	ctx context.Context,
	location entities.Location,
) (entities.MirrorHandle, error) {
	fingerprint := location.Fingerprint()
	result, err, shared := it.flight.Do(fingerprint, func() (any, error) {
		return it.ensureFetched(ctx, location, fingerprint)
	})
	if err != nil {
		return entities.MirrorHandle{}, err
	}
	if shared {
		logger.Debugf("Fetch for %s shared with a concurrent caller", location)
	}
	return result.(entities.MirrorHandle), nil
}

// Head returns the head reached by the last successful fetch, if any.
func (it *MirrorRepository) Head(location entities.Location) (entities.CommitID, bool) {
	it.mu.RLock()
	defer it.mu.RUnlock()
	fetched, ok := it.heads[location.Fingerprint()]
	if !ok {
		return "", false
	}
	return fetched.Head, true
}

func (it *MirrorRepository) ensureFetched(
	ctx context.Context,
	location entities.Location,
	fingerprint string,
) (entities.MirrorHandle, error) {
	target, err := BuildConnectionTarget(location)
	if err != nil {
		return entities.MirrorHandle{}, err
	}

	dir := filepath.Join(it.settings.MirrorsRoot, fingerprint)
	if initErr := it.ensureInitialized(ctx, dir); initErr != nil {
		return entities.MirrorHandle{}, initErr
	}
	if remoteErr := it.ensureRemote(ctx, dir, target); remoteErr != nil {
		return entities.MirrorHandle{}, remoteErr
	}

	head, fetchErr := it.fetch(ctx, dir, location, target)
	if fetchErr != nil {
		return entities.MirrorHandle{}, fetchErr
	}

	it.mu.Lock()
	it.heads[fingerprint] = entities.FetchResult{Head: head, FetchedAt: time.Now()}
	it.mu.Unlock()

	return entities.MirrorHandle{Path: dir, Head: head}, nil
}

// ensureInitialized creates the bare mirror on first access. The metadata
// marker is the HEAD file git writes during init.
func (it *MirrorRepository) ensureInitialized(ctx context.Context, dir string) error {
	if _, err := os.Stat(filepath.Join(dir, "HEAD")); err == nil {
		return nil
	}
	// 0700: the configured remote may embed rotating credentials.
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return entities.NewClassifiedError(
			entities.ErrorKindUnknown,
			fmt.Sprintf("cannot create mirror directory %q: %v", dir, err),
			msgUnknown,
		)
	}
	logger.Infof("Initializing bare mirror at %s", dir)
	_, err := it.executor.Run(ctx, repositories.RunOptions{
		Args: []string{"init", "--bare", "--quiet", dir},
	})
	return err
}

// ensureRemote registers or re-points the origin remote. The URL (not the
// name) may legitimately change across calls as credentials rotate.
func (it *MirrorRepository) ensureRemote(
	ctx context.Context,
	dir string,
	target entities.ConnectionTarget,
) error {
	remotes, err := it.executor.Run(ctx, repositories.RunOptions{
		Args: []string{"remote"},
		Dir:  dir,
	})
	if err != nil {
		return err
	}

	args := []string{"remote", "add", "origin", target.URL}
	if containsRemote(remotes, "origin") {
		args = []string{"remote", "set-url", "origin", target.URL}
	}
	_, err = it.executor.Run(ctx, repositories.RunOptions{Args: args, Dir: dir})
	return err
}

// fetch performs the shallow fetch with the local recovery ladder:
// shallow corruption and lock contention get one corrective forced retry,
// network failures get the configured attempt budget with exponential
// backoff, everything else surfaces immediately.
func (it *MirrorRepository) fetch(
	ctx context.Context,
	dir string,
	location entities.Location,
	target entities.ConnectionTarget,
) (entities.CommitID, error) {
	delay := &backoff.Backoff{
		Min:    it.settings.BackoffMin(),
		Max:    it.settings.BackoffMax(),
		Factor: 2,
		Jitter: true,
	}

	attempts := 0
	forced := false
	healed := false
	for {
		attempts++
		err := it.runFetch(ctx, dir, location.Branch, target, forced)
		if err == nil {
			return it.resolveHead(ctx, dir)
		}

		switch entities.KindOf(err) {
		case entities.ErrorKindShallowCorruption:
			if healed {
				return "", err
			}
			healed = true
			forced = true
			it.healShallowMarker(dir)
			logger.Warnf("Shallow state for %s was stale; retrying with a forced fetch", location)

		case entities.ErrorKindLockContention:
			if healed {
				return "", err
			}
			healed = true
			forced = true
			it.removeStaleLocks(dir)
			logger.Warnf("Stale fetch lock for %s removed; retrying with a forced fetch", location)

		case entities.ErrorKindNetwork:
			if attempts >= it.settings.FetchRetries {
				classified := entities.AsClassified(err)
				return "", entities.NewClassifiedError(
					entities.ErrorKindNetwork,
					fmt.Sprintf(
						"fetch of %s failed after %d attempts: %s",
						location, attempts, classified.Detail,
					),
					classified.UserMessage,
				)
			}
			wait := delay.Duration()
			logger.Warnf(
				"Fetch attempt %d/%d for %s failed; retrying in %s",
				attempts, it.settings.FetchRetries, location, wait,
			)
			select {
			case <-ctx.Done():
				return "", entities.AsClassified(err)
			case <-time.After(wait):
			}

		default:
			// Authentication, not-found and tool-missing cannot be
			// retried into success.
			return "", err
		}
	}
}

func (it *MirrorRepository) runFetch(
	ctx context.Context,
	dir string,
	branch string,
	target entities.ConnectionTarget,
	forced bool,
) error {
	args := []string{"fetch", "--depth", "1"}
	if forced {
		args = append(args, "--force")
	}
	args = append(args, "origin", branch)

	_, err := it.executor.Run(ctx, repositories.RunOptions{
		Args:   args,
		Dir:    dir,
		Target: &target,
	})
	return err
}

func (it *MirrorRepository) resolveHead(ctx context.Context, dir string) (entities.CommitID, error) {
	output, err := it.executor.Run(ctx, repositories.RunOptions{
		Args: []string{"rev-parse", "FETCH_HEAD"},
		Dir:  dir,
	})
	if err != nil {
		return "", err
	}
	return entities.CommitID(strings.TrimSpace(string(output))), nil
}

// healShallowMarker removes the stale shallow depth marker so the forced
// retry rebuilds it.
func (it *MirrorRepository) healShallowMarker(dir string) {
	marker := filepath.Join(dir, "shallow")
	if err := os.Remove(marker); err != nil && !os.IsNotExist(err) {
		logger.Warnf("Cannot remove shallow marker %q: %v", marker, err)
	}
}

// removeStaleLocks clears lock markers a crashed or concurrent fetch left
// behind.
func (it *MirrorRepository) removeStaleLocks(dir string) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.lock"))
	if err != nil {
		return
	}
	if shallowLock := filepath.Join(dir, "shallow.lock"); !contains(matches, shallowLock) {
		matches = append(matches, shallowLock)
	}
	for _, lock := range matches {
		if removeErr := os.Remove(lock); removeErr != nil && !os.IsNotExist(removeErr) {
			logger.Warnf("Cannot remove lock marker %q: %v", lock, removeErr)
		}
	}
}

func containsRemote(output []byte, name string) bool {
	for _, line := range strings.Split(string(output), "\n") {
		if strings.TrimSpace(line) == name {
			return true
		}
	}
	return false
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
