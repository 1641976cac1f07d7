package git

import (
	"fmt"
	"net/url"

	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/campusware/gitread/internal/domain/entities"
)

// BuildConnectionTarget turns a location into the authenticated target the
// executor runs against. Username/password over HTTP(S) is embedded into
// the authority component; key-based transports leave the URL untouched
// and describe authentication through an environment overlay. The input
// location is never mutated and the secret never reaches a log line.
func BuildConnectionTarget(location entities.Location) (entities.ConnectionTarget, error) {
	target := entities.ConnectionTarget{URL: location.URL}
	if !location.HasCredentials() {
		return target, nil
	}

	endpoint, err := transport.NewEndpoint(location.URL)
	if err != nil {
		return entities.ConnectionTarget{}, entities.NewClassifiedError(
			entities.ErrorKindValidation,
			fmt.Sprintf("cannot parse repository URL: %v", err),
			"The repository URL is invalid.",
		)
	}

	switch endpoint.Protocol {
	case "http", "https":
		target.URL = embedBasicAuth(endpoint, location.Username, location.Secret)
	default:
		// Key-based transport: the secret is private-key material the
		// executor materializes per invocation.
		target.PrivateKey = []byte(location.Secret)
		target.Env = []string{
			"GIT_SSH_COMMAND=ssh -i " + entities.KeyPathPlaceholder +
				" -o IdentitiesOnly=yes -o BatchMode=yes -o StrictHostKeyChecking=accept-new",
		}
	}
	return target, nil
}

func embedBasicAuth(endpoint *transport.Endpoint, username, secret string) string {
	user := username
	if user == "" {
		user = endpoint.User
	}

	authority := endpoint.Host
	if endpoint.Port > 0 {
		authority = fmt.Sprintf("%s:%d", endpoint.Host, endpoint.Port)
	}

	userInfo := url.User(user)
	if secret != "" {
		userInfo = url.UserPassword(user, secret)
	}

	rebuilt := url.URL{
		Scheme: endpoint.Protocol,
		User:   userInfo,
		Host:   authority,
		Path:   endpoint.Path,
	}
	return rebuilt.String()
}
