package entities

// ConnectionTarget is the authenticated form of a Location, produced by the
// connection builder and consumed by the executor. For basic-auth network
// transports the credentials are embedded in URL; for key-based transports
// URL is left untouched and PrivateKey carries the material the executor
// must materialize into a scoped temporary file for the duration of a
// single invocation.
type ConnectionTarget struct {
	URL        string
	PrivateKey []byte
	// Env holds additional environment entries ("KEY=value") the executor
	// must apply, e.g. a GIT_SSH_COMMAND pointing at the materialized key.
	// The placeholder KeyPathPlaceholder is substituted with the temporary
	// key path at invocation time.
	Env []string
}

// KeyPathPlaceholder marks where the executor substitutes the path of the
// materialized private-key file inside an Env entry.
const KeyPathPlaceholder = "{keyfile}"

// RequiresKeyFile reports whether the executor has to materialize key
// material before running the command.
func (t ConnectionTarget) RequiresKeyFile() bool {
	return len(t.PrivateKey) > 0
}
