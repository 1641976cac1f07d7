package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/campusware/gitread/internal/domain/entities"
	"github.com/campusware/gitread/internal/domain/repositories"
)

// ExecutorRepository drives the git binary. Every invocation gets a
// minimal, non-interactive environment so a credential prompt can never
// stall a request worker, and a hard deadline that aborts the process.
type ExecutorRepository struct {
	settings *entities.Settings
}

var _ repositories.ExecutorRepository = (*ExecutorRepository)(nil)

// NewExecutorRepository creates a new ExecutorRepository.
func NewExecutorRepository(settings *entities.Settings) *ExecutorRepository {
	return &ExecutorRepository{settings: settings}
}

// Run executes one git operation and returns its stdout, or a classified
// error built from its diagnostic output.
func (it *ExecutorRepository) Run(
	ctx context.Context,
	opts repositories.RunOptions,
) ([]byte, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = it.settings.CommandTimeout()
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	env := nonInteractiveEnv()
	if opts.Target != nil && opts.Target.RequiresKeyFile() {
		keyPath, cleanup, err := materializeKey(opts.Target.PrivateKey)
		if err != nil {
			return nil, entities.NewClassifiedError(
				entities.ErrorKindUnknown,
				fmt.Sprintf("failed to materialize key file: %v", err),
				msgUnknown,
			)
		}
		// The key lives exactly as long as this invocation, on every
		// exit path including timeout.
		defer cleanup()
		env = append(env, substituteKeyPath(opts.Target.Env, keyPath)...)
	} else if opts.Target != nil {
		env = append(env, opts.Target.Env...)
	}

	cmd := exec.CommandContext(runCtx, it.settings.GitBinary, opts.Args...)
	cmd.Dir = opts.Dir
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debugf("Running %s %s", it.settings.GitBinary, strings.Join(redactArgs(opts.Args), " "))
	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	if runCtx.Err() == context.DeadlineExceeded {
		return nil, entities.NewClassifiedError(
			entities.ErrorKindNetwork,
			fmt.Sprintf("git %s timed out after %s", firstArg(opts.Args), timeout),
			msgNetwork,
		)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return nil, entities.NewClassifiedError(
			entities.ErrorKindToolMissing,
			fmt.Sprintf("executable %q not found in PATH", it.settings.GitBinary),
			"The version-control tool is not installed on the server.",
		)
	}

	diagnostic := stderr.String()
	if diagnostic == "" {
		diagnostic = err.Error()
	}
	return nil, classifyOutput(diagnostic)
}

// nonInteractiveEnv builds the execution environment: credential prompts
// disabled everywhere they could appear.
func nonInteractiveEnv() []string {
	env := os.Environ()
	env = append(env,
		"GIT_TERMINAL_PROMPT=0",
		"GCM_INTERACTIVE=never",
		"LC_ALL=C",
	)
	return env
}

// materializeKey writes private-key material into a narrowly-scoped
// temporary file and returns its path plus the cleanup that removes it.
func materializeKey(material []byte) (string, func(), error) {
	file, err := os.CreateTemp("", "gitread-key-*")
	if err != nil {
		return "", nil, err
	}
	path := file.Name()
	cleanup := func() {
		if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
			logger.Warnf("Failed to remove temporary key file: %v", removeErr)
		}
	}

	if chmodErr := file.Chmod(0o600); chmodErr != nil {
		_ = file.Close()
		cleanup()
		return "", nil, chmodErr
	}
	if _, writeErr := file.Write(material); writeErr != nil {
		_ = file.Close()
		cleanup()
		return "", nil, writeErr
	}
	if closeErr := file.Close(); closeErr != nil {
		cleanup()
		return "", nil, closeErr
	}
	return path, cleanup, nil
}

// substituteKeyPath replaces the key-file placeholder in the overlay
// environment with the materialized path.
func substituteKeyPath(env []string, keyPath string) []string {
	out := make([]string, 0, len(env))
	for _, entry := range env {
		out = append(out, strings.ReplaceAll(entry, entities.KeyPathPlaceholder, keyPath))
	}
	return out
}

// redactArgs hides embedded credentials before arguments reach the log.
func redactArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if at := strings.Index(arg, "@"); at > 0 && strings.Contains(arg, "://") {
			scheme := arg[:strings.Index(arg, "://")+3]
			out = append(out, scheme+"***"+arg[at:])
			continue
		}
		out = append(out, arg)
	}
	return out
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
