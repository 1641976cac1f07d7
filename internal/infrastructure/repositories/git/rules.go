package git

import (
	"strings"

	"github.com/campusware/gitread/internal/domain/entities"
)

// classificationRule maps a lowercase substring of git's diagnostic output
// to an error kind. Rules are evaluated in order: the most specific kinds
// (authentication, not-found) sit above generic network wording so the most
// useful message is the one surfaced.
type classificationRule struct {
	match       string
	kind        entities.ErrorKind
	userMessage string
}

const (
	msgAuthentication = "Authentication to the repository failed. Check the configured credentials."
	msgNotFound       = "The repository, branch or path could not be found."
	msgNetwork        = "Cannot reach the remote repository. Check your network and try again."
	msgLock           = "The repository is busy with another operation. Try again shortly."
	msgShallow        = "The local repository state was out of date and is being repaired."
	msgUnknown        = "An unexpected error occurred while reading the repository."
)

// classificationRules is the ordered rule table. First match wins.
var classificationRules = []classificationRule{
	// Authentication and permissions.
	{"authentication failed", entities.ErrorKindAuthentication, msgAuthentication},
	{"could not read username", entities.ErrorKindAuthentication, msgAuthentication},
	{"could not read password", entities.ErrorKindAuthentication, msgAuthentication},
	{"invalid username or password", entities.ErrorKindAuthentication, msgAuthentication},
	{"permission denied", entities.ErrorKindAuthentication, msgAuthentication},
	{"access denied", entities.ErrorKindAuthentication, msgAuthentication},
	{"publickey", entities.ErrorKindAuthentication, msgAuthentication},
	{"http basic: access denied", entities.ErrorKindAuthentication, msgAuthentication},

	// Missing repository, branch or object.
	{"repository not found", entities.ErrorKindNotFound, msgNotFound},
	{"couldn't find remote ref", entities.ErrorKindNotFound, msgNotFound},
	{"remote branch", entities.ErrorKindNotFound, msgNotFound},
	{"not a valid object name", entities.ErrorKindNotFound, msgNotFound},
	{"invalid object name", entities.ErrorKindNotFound, msgNotFound},
	{"does not exist", entities.ErrorKindNotFound, msgNotFound},
	{"not found", entities.ErrorKindNotFound, msgNotFound},
	{"bad file", entities.ErrorKindNotFound, msgNotFound},
	{"path not in the working tree", entities.ErrorKindNotFound, msgNotFound},

	// Shallow-state corruption; recovered locally by the mirror manager.
	{"shallow file has changed", entities.ErrorKindShallowCorruption, msgShallow},
	{"unshallow on a complete repository", entities.ErrorKindShallowCorruption, msgShallow},

	// Lock contention; recovered locally by the mirror manager.
	{"another git process", entities.ErrorKindLockContention, msgLock},
	{"unable to create", entities.ErrorKindLockContention, msgLock},
	{".lock", entities.ErrorKindLockContention, msgLock},

	// Generic network wording comes last among the specific kinds.
	{"could not resolve host", entities.ErrorKindNetwork, msgNetwork},
	{"unable to access", entities.ErrorKindNetwork, msgNetwork},
	{"connection timed out", entities.ErrorKindNetwork, msgNetwork},
	{"connection refused", entities.ErrorKindNetwork, msgNetwork},
	{"operation timed out", entities.ErrorKindNetwork, msgNetwork},
	{"network is unreachable", entities.ErrorKindNetwork, msgNetwork},
	{"early eof", entities.ErrorKindNetwork, msgNetwork},
	{"remote end hung up", entities.ErrorKindNetwork, msgNetwork},
	{"timed out", entities.ErrorKindNetwork, msgNetwork},
}

// classifyOutput turns git's diagnostic text into a classified error. The
// raw text is retained only in the technical-detail field.
func classifyOutput(output string) *entities.ClassifiedError {
	lowered := strings.ToLower(output)
	for _, rule := range classificationRules {
		if strings.Contains(lowered, rule.match) {
			return entities.NewClassifiedError(rule.kind, strings.TrimSpace(output), rule.userMessage)
		}
	}
	return entities.NewClassifiedError(entities.ErrorKindUnknown, strings.TrimSpace(output), msgUnknown)
}
