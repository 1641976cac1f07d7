package repositories

import (
	"context"

	"github.com/campusware/gitread/internal/domain/entities"
)

// CredentialsRepository resolves credentials for a repository just-in-time,
// once per call. Implementations must never persist what they hand out;
// the read layer forwards the material to the executor and forgets it.
type CredentialsRepository interface {
	Resolve(ctx context.Context, location entities.Location) (entities.Location, error)
}
