package git_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusware/gitread/internal/domain/entities"
	"github.com/campusware/gitread/internal/infrastructure/repositories/git"
	"github.com/campusware/gitread/test/domain/entitybuilders"
	"github.com/campusware/gitread/test/infrastructure/repositorydoubles"
)

func mirrorSettings(t *testing.T) *entities.Settings {
	t.Helper()
	return &entities.Settings{
		MirrorsRoot:           t.TempDir(),
		GitBinary:             "git",
		CommandTimeoutSeconds: 5,
		FetchRetries:          3,
		BackoffMinMS:          1,
		BackoffMaxMS:          2,
		ListingTTLSeconds:     60,
		ContentTTLSeconds:     300,
	}
}

func networkError() error {
	return entities.NewClassifiedError(
		entities.ErrorKindNetwork,
		"fatal: unable to access 'https://git.example.edu/': Could not resolve host",
		"Cannot reach the remote repository. Check your network and try again.",
	)
}

// prepareMirrorDir creates the mirror directory with its metadata marker so
// the manager treats it as already initialized.
func prepareMirrorDir(t *testing.T, settings *entities.Settings, location entities.Location) string {
	t.Helper()
	dir := filepath.Join(settings.MirrorsRoot, location.Fingerprint())
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o600))
	return dir
}

func TestMirrorRepository_EnsureFetched(t *testing.T) {
	t.Parallel()

	t.Run("should initialize, configure and fetch on first access", func(t *testing.T) {
		t.Parallel()

		// given
		settings := mirrorSettings(t)
		executor := &repositorydoubles.SpyExecutorRepository{Head: "f00dfaceb00c"}
		mirrors := git.NewMirrorRepository(settings, executor)
		location := entitybuilders.NewLocationBuilder().BuildLocation()

		// when
		handle, err := mirrors.EnsureFetched(context.Background(), location)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.CommitID("f00dfaceb00c"), handle.Head)
		assert.Equal(t, filepath.Join(settings.MirrorsRoot, location.Fingerprint()), handle.Path)

		require.Len(t, executor.CallsFor("init"), 1)
		require.Len(t, executor.CallsFor("fetch"), 1)
		fetch := executor.CallsFor("fetch")[0]
		assert.Contains(t, fetch, "--depth")
		assert.Contains(t, fetch, location.Branch)

		head, ok := mirrors.Head(location)
		assert.True(t, ok)
		assert.Equal(t, entities.CommitID("f00dfaceb00c"), head)
	})

	t.Run("should add the remote when absent and re-point it when present", func(t *testing.T) {
		t.Parallel()

		// given - no origin yet
		settings := mirrorSettings(t)
		executor := &repositorydoubles.SpyExecutorRepository{Head: "abc123"}
		mirrors := git.NewMirrorRepository(settings, executor)
		location := entitybuilders.NewLocationBuilder().
			WithCredentials("student", "token-1").
			BuildLocation()

		// when
		_, err := mirrors.EnsureFetched(context.Background(), location)

		// then
		require.NoError(t, err)
		remoteCalls := executor.CallsFor("remote")
		require.Len(t, remoteCalls, 2) // list, then add
		assert.Equal(t, "add", remoteCalls[1][1])
		assert.Contains(t, remoteCalls[1][3], "student:token-1@")

		// given - origin exists now, credentials rotated
		executor.RemoteOutput = []byte("origin\n")
		rotated := entitybuilders.NewLocationBuilder().
			WithCredentials("student", "token-2").
			BuildLocation()

		// when
		_, err = mirrors.EnsureFetched(context.Background(), rotated)

		// then
		require.NoError(t, err)
		remoteCalls = executor.CallsFor("remote")
		last := remoteCalls[len(remoteCalls)-1]
		assert.Equal(t, "set-url", last[1])
		assert.Contains(t, last[3], "student:token-2@")
	})

	t.Run("should retry network failures up to the budget and name the attempt count", func(t *testing.T) {
		t.Parallel()

		// given - every attempt times out
		settings := mirrorSettings(t)
		executor := &repositorydoubles.SpyExecutorRepository{
			FetchErrs: []error{networkError(), networkError(), networkError(), networkError()},
		}
		mirrors := git.NewMirrorRepository(settings, executor)
		location := entitybuilders.NewLocationBuilder().BuildLocation()

		// when
		_, err := mirrors.EnsureFetched(context.Background(), location)

		// then
		require.Error(t, err)
		classified := entities.AsClassified(err)
		assert.Equal(t, entities.ErrorKindNetwork, classified.Kind)
		assert.Contains(t, classified.Detail, "3 attempts")
		assert.Equal(t, 3, executor.FetchCallCount)

		_, ok := mirrors.Head(location)
		assert.False(t, ok, "no head is recorded for a failed fetch")
	})

	t.Run("should heal a stale shallow marker with one forced retry", func(t *testing.T) {
		t.Parallel()

		// given
		settings := mirrorSettings(t)
		location := entitybuilders.NewLocationBuilder().BuildLocation()
		dir := prepareMirrorDir(t, settings, location)
		marker := filepath.Join(dir, "shallow")
		require.NoError(t, os.WriteFile(marker, []byte("stale\n"), 0o600))

		shallowErr := entities.NewClassifiedError(
			entities.ErrorKindShallowCorruption,
			"fatal: shallow file has changed since we read it",
			"The local repository state was out of date and is being repaired.",
		)
		executor := &repositorydoubles.SpyExecutorRepository{
			Head:      "beef1234",
			FetchErrs: []error{shallowErr, nil},
		}
		mirrors := git.NewMirrorRepository(settings, executor)

		// when
		handle, err := mirrors.EnsureFetched(context.Background(), location)

		// then - healed locally, nothing surfaced
		require.NoError(t, err)
		assert.Equal(t, entities.CommitID("beef1234"), handle.Head)
		assert.Equal(t, 2, executor.FetchCallCount)
		assert.Equal(t, 1, executor.ForcedFetchCount)
		assert.NoFileExists(t, marker)
	})

	t.Run("should clear stale locks with one forced retry", func(t *testing.T) {
		t.Parallel()

		// given
		settings := mirrorSettings(t)
		location := entitybuilders.NewLocationBuilder().BuildLocation()
		dir := prepareMirrorDir(t, settings, location)
		lock := filepath.Join(dir, "shallow.lock")
		require.NoError(t, os.WriteFile(lock, nil, 0o600))

		lockErr := entities.NewClassifiedError(
			entities.ErrorKindLockContention,
			"fatal: Unable to create '"+lock+"': File exists.",
			"The repository is busy with another operation. Try again shortly.",
		)
		executor := &repositorydoubles.SpyExecutorRepository{
			Head:      "beef1234",
			FetchErrs: []error{lockErr, nil},
		}
		mirrors := git.NewMirrorRepository(settings, executor)

		// when
		_, err := mirrors.EnsureFetched(context.Background(), location)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, executor.ForcedFetchCount)
		assert.NoFileExists(t, lock)
	})

	t.Run("should surface authentication failures immediately", func(t *testing.T) {
		t.Parallel()

		// given
		settings := mirrorSettings(t)
		authErr := entities.NewClassifiedError(
			entities.ErrorKindAuthentication,
			"fatal: Authentication failed",
			"Authentication to the repository failed. Check the configured credentials.",
		)
		executor := &repositorydoubles.SpyExecutorRepository{
			FetchErrs: []error{authErr, nil, nil},
		}
		mirrors := git.NewMirrorRepository(settings, executor)
		location := entitybuilders.NewLocationBuilder().BuildLocation()

		// when
		_, err := mirrors.EnsureFetched(context.Background(), location)

		// then - no retry can change the outcome
		require.Error(t, err)
		assert.Equal(t, entities.ErrorKindAuthentication, entities.KindOf(err))
		assert.Equal(t, 1, executor.FetchCallCount)
	})

	t.Run("should coalesce concurrent fetches of the same repository", func(t *testing.T) {
		t.Parallel()

		// given - a fetch held in flight by a gate
		settings := mirrorSettings(t)
		gate := make(chan struct{})
		executor := &repositorydoubles.SpyExecutorRepository{
			Head:      "c0ffee99",
			FetchGate: gate,
		}
		mirrors := git.NewMirrorRepository(settings, executor)
		location := entitybuilders.NewLocationBuilder().BuildLocation()

		// when - several callers arrive while the fetch is in flight
		const callers = 5
		var wg sync.WaitGroup
		heads := make([]entities.CommitID, callers)
		errs := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				handle, err := mirrors.EnsureFetched(context.Background(), location)
				heads[idx] = handle.Head
				errs[idx] = err
			}(i)
		}
		time.Sleep(100 * time.Millisecond)
		close(gate)
		wg.Wait()

		// then - one fetch served everyone
		assert.Equal(t, 1, executor.FetchCallCount)
		for i := 0; i < callers; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, entities.CommitID("c0ffee99"), heads[i])
		}
	})
}
