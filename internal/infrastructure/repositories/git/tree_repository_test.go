package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusware/gitread/internal/domain/entities"
	"github.com/campusware/gitread/internal/infrastructure/repositories/git"
	"github.com/campusware/gitread/test/infrastructure/repositorydoubles"
)

var testHandle = entities.MirrorHandle{
	Path: "/srv/mirrors/ab12cd34",
	Head: "f00dfaceb00c",
}

func listingRecord(meta, name string) string {
	return meta + "\t" + name + "\x00"
}

func TestTreeRepository_List(t *testing.T) {
	t.Parallel()

	t.Run("should parse files, directories and submodule pointers", func(t *testing.T) {
		t.Parallel()

		// given
		output := listingRecord("040000 tree 9ae8c1c6f24d9fde0a0b3f0ffcb988b52326ed96       -", "HW1") +
			listingRecord("100644 blob 5d4a65a25b7bbf1fe30fbb5b98a8b9bd2f5dd944     128", "README.md") +
			listingRecord("100755 blob 2f0183a25b7bbf1fe30fbb5b98a8b9bd2f5dd901      52", "grade.sh") +
			listingRecord("160000 commit 7aa8c1c6f24d9fde0a0b3f0ffcb988b52326ed00       -", "shared-lib")
		executor := &repositorydoubles.SpyExecutorRepository{ListOutput: []byte(output)}
		trees := git.NewTreeRepository(executor)

		// when
		entries, err := trees.List(context.Background(), testHandle, "")

		// then
		require.NoError(t, err)
		require.Len(t, entries, 4)
		assert.Equal(t, entities.DirectoryEntry{
			Name:     "HW1",
			Kind:     entities.EntryKindDirectory,
			Mode:     "040000",
			ObjectID: "9ae8c1c6f24d9fde0a0b3f0ffcb988b52326ed96",
		}, entries[0])
		assert.Equal(t, entities.DirectoryEntry{
			Name:     "README.md",
			Kind:     entities.EntryKindFile,
			Size:     128,
			Mode:     "100644",
			ObjectID: "5d4a65a25b7bbf1fe30fbb5b98a8b9bd2f5dd944",
		}, entries[1])
		assert.Equal(t, int64(52), entries[2].Size)
		assert.True(t, entries[3].IsDir(), "submodule pointers list as directories")
	})

	t.Run("should keep non-ascii names intact", func(t *testing.T) {
		t.Parallel()

		// given
		output := listingRecord("100644 blob 5d4a65a25b7bbf1fe30fbb5b98a8b9bd2f5dd944    2048", "과제안내.hwp")
		executor := &repositorydoubles.SpyExecutorRepository{ListOutput: []byte(output)}
		trees := git.NewTreeRepository(executor)

		// when
		entries, err := trees.List(context.Background(), testHandle, "")

		// then
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "과제안내.hwp", entries[0].Name)
	})

	t.Run("should skip malformed records without failing", func(t *testing.T) {
		t.Parallel()

		// given
		output := "garbage-without-a-tab\x00" +
			listingRecord("100644 blob", "too-few-fields") +
			listingRecord("100644 blob 5d4a65a25b7bbf1fe30fbb5b98a8b9bd2f5dd944      10", "ok.txt")
		executor := &repositorydoubles.SpyExecutorRepository{ListOutput: []byte(output)}
		trees := git.NewTreeRepository(executor)

		// when
		entries, err := trees.List(context.Background(), testHandle, "")

		// then
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "ok.txt", entries[0].Name)
	})

	t.Run("should pin the query to the handle head and path", func(t *testing.T) {
		t.Parallel()

		// given
		executor := &repositorydoubles.SpyExecutorRepository{}
		trees := git.NewTreeRepository(executor)

		// when
		_, err := trees.List(context.Background(), testHandle, "HW1/part2")

		// then
		require.NoError(t, err)
		assert.Contains(t, executor.LastCall(), "f00dfaceb00c:HW1/part2")
	})
}

func TestTreeRepository_Read(t *testing.T) {
	t.Parallel()

	t.Run("should return raw bytes unchanged", func(t *testing.T) {
		t.Parallel()

		// given
		payload := []byte{0x00, 0xFF, 0x10, 0x42}
		executor := &repositorydoubles.SpyExecutorRepository{ReadOutput: payload}
		trees := git.NewTreeRepository(executor)

		// when
		content, err := trees.Read(context.Background(), testHandle, "HW1/data.bin")

		// then
		require.NoError(t, err)
		assert.Equal(t, payload, content)
		assert.Contains(t, executor.LastCall(), "f00dfaceb00c:HW1/data.bin")
	})
}

func TestTreeRepository_ChangedSince(t *testing.T) {
	t.Parallel()

	t.Run("should report change when the diff names any path", func(t *testing.T) {
		t.Parallel()

		// given
		executor := &repositorydoubles.SpyExecutorRepository{DiffOutput: []byte("HW1/README.md\n")}
		trees := git.NewTreeRepository(executor)

		// when
		changed, err := trees.ChangedSince(context.Background(), testHandle, "HW1", "0ldc0mm17")

		// then
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("should report no change for an empty diff", func(t *testing.T) {
		t.Parallel()

		// given
		executor := &repositorydoubles.SpyExecutorRepository{DiffOutput: []byte("\n")}
		trees := git.NewTreeRepository(executor)

		// when
		changed, err := trees.ChangedSince(context.Background(), testHandle, "HW1", "0ldc0mm17")

		// then
		require.NoError(t, err)
		assert.False(t, changed)
	})
}
