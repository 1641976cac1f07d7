// Package repositorydoubles provides hand-crafted test doubles (spies,
// stubs) for the repository ports. No mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"strings"
	"sync"

	"github.com/campusware/gitread/internal/domain/repositories"
)

// SpyExecutorRepository implements repositories.ExecutorRepository as a
// configurable spy. Responses are scripted per git subcommand (the first
// argument); fetches additionally consume FetchErrs one attempt at a time
// so retry ladders can be simulated.
type SpyExecutorRepository struct {
	mu sync.Mutex

	// --- scripted responses per subcommand ---
	InitErr      error
	RemoteOutput []byte // response to "remote"
	RemoteErr    error
	FetchErrs    []error // consumed per fetch attempt; nil entry = success
	ListOutput   []byte
	ListErr      error
	ReadOutput   []byte
	ReadErr      error
	DiffOutput   []byte
	DiffErr      error
	Head         string // response to "rev-parse"
	HeadErr      error

	// FetchGate, when non-nil, blocks every fetch until the gate closes.
	// Used to hold a fetch in flight while concurrent callers pile up.
	FetchGate chan struct{}

	// --- spy: call tracking ---
	Calls            [][]string
	FetchCallCount   int
	ForcedFetchCount int
	ListCallCount    int
	ReadCallCount    int
}

var _ repositories.ExecutorRepository = (*SpyExecutorRepository)(nil)

func (s *SpyExecutorRepository) Run(
	_ context.Context,
	opts repositories.RunOptions,
) ([]byte, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, append([]string(nil), opts.Args...))
	subcommand := ""
	if len(opts.Args) > 0 {
		subcommand = opts.Args[0]
	}

	switch subcommand {
	case "init":
		s.mu.Unlock()
		return nil, s.InitErr
	case "remote":
		s.mu.Unlock()
		if len(opts.Args) > 1 {
			// add / set-url
			return nil, s.RemoteErr
		}
		return s.RemoteOutput, s.RemoteErr
	case "fetch":
		s.FetchCallCount++
		attempt := s.FetchCallCount - 1
		if forcedFetch(opts.Args) {
			s.ForcedFetchCount++
		}
		gate := s.FetchGate
		s.mu.Unlock()
		if gate != nil {
			<-gate
		}
		if attempt < len(s.FetchErrs) {
			return nil, s.FetchErrs[attempt]
		}
		return nil, nil
	case "rev-parse":
		s.mu.Unlock()
		return []byte(s.Head + "\n"), s.HeadErr
	case "ls-tree":
		s.ListCallCount++
		s.mu.Unlock()
		return s.ListOutput, s.ListErr
	case "cat-file":
		s.ReadCallCount++
		s.mu.Unlock()
		return s.ReadOutput, s.ReadErr
	case "diff":
		s.mu.Unlock()
		return s.DiffOutput, s.DiffErr
	default:
		s.mu.Unlock()
		return nil, nil
	}
}

// LastCall returns the arguments of the most recent invocation.
func (s *SpyExecutorRepository) LastCall() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Calls) == 0 {
		return nil
	}
	return s.Calls[len(s.Calls)-1]
}

// CallsFor returns every recorded invocation of one subcommand.
func (s *SpyExecutorRepository) CallsFor(subcommand string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched [][]string
	for _, call := range s.Calls {
		if len(call) > 0 && call[0] == subcommand {
			matched = append(matched, call)
		}
	}
	return matched
}

func forcedFetch(args []string) bool {
	return strings.Contains(strings.Join(args, " "), "--force")
}
