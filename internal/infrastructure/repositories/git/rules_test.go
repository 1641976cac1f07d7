package git //nolint:testpackage // tests unexported functions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusware/gitread/internal/domain/entities"
)

func TestClassifyOutput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		output string
		kind   entities.ErrorKind
	}{
		{
			"should classify credential prompt failures as authentication",
			"fatal: could not read Username for 'https://git.example.edu': terminal prompts disabled",
			entities.ErrorKindAuthentication,
		},
		{
			"should classify ssh key rejection as authentication",
			"git@git.example.edu: Permission denied (publickey).",
			entities.ErrorKindAuthentication,
		},
		{
			"should classify a missing repository as not-found",
			"remote: Repository not found.",
			entities.ErrorKindNotFound,
		},
		{
			"should classify a missing branch as not-found",
			"fatal: couldn't find remote ref refs/heads/nonexistent",
			entities.ErrorKindNotFound,
		},
		{
			"should classify a bad object path as not-found",
			"fatal: Not a valid object name a1b2c3:missing/file.txt",
			entities.ErrorKindNotFound,
		},
		{
			"should classify a stale shallow marker as shallow-corruption",
			"fatal: shallow file has changed since we read it",
			entities.ErrorKindShallowCorruption,
		},
		{
			"should classify a held lock as lock-contention",
			"fatal: Unable to create '/srv/mirrors/ab12/shallow.lock': File exists.\n" +
				"Another git process seems to be running in this repository",
			entities.ErrorKindLockContention,
		},
		{
			"should classify dns failures as network",
			"fatal: unable to access 'https://git.example.edu/': Could not resolve host: git.example.edu",
			entities.ErrorKindNetwork,
		},
		{
			"should classify a hung remote as network",
			"fatal: the remote end hung up unexpectedly",
			entities.ErrorKindNetwork,
		},
		{
			"should fall back to unknown",
			"fatal: something entirely new went wrong",
			entities.ErrorKindUnknown,
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			// when
			classified := classifyOutput(testCase.output)

			// then
			assert.Equal(t, testCase.kind, classified.Kind)
			assert.Equal(t, testCase.output, classified.Detail, "raw text belongs in the detail field")
			assert.NotContains(t, classified.UserMessage, "fatal")
		})
	}
}

func TestClassifyOutput_Precedence(t *testing.T) {
	t.Parallel()

	t.Run("should prefer authentication over generic network wording", func(t *testing.T) {
		t.Parallel()

		// given - a diagnostic matching both an auth rule and a network rule
		output := "fatal: unable to access 'https://git.example.edu/': " +
			"Authentication failed for 'https://git.example.edu/'"

		// when
		classified := classifyOutput(output)

		// then
		assert.Equal(t, entities.ErrorKindAuthentication, classified.Kind)
	})

	t.Run("should prefer not-found over generic network wording", func(t *testing.T) {
		t.Parallel()

		// given
		output := "fatal: unable to access 'https://git.example.edu/gone.git/': " +
			"remote: Repository not found."

		// when
		classified := classifyOutput(output)

		// then
		assert.Equal(t, entities.ErrorKindNotFound, classified.Kind)
	})
}
