package git

import (
	"context"

	"github.com/campusware/gitread/internal/domain/entities"
	"github.com/campusware/gitread/internal/domain/repositories"
)

// CredentialsRepository fills in default credentials from Settings when the
// caller supplied none. It resolves per call and persists nothing; caller
// credentials always win over configured defaults.
type CredentialsRepository struct {
	settings *entities.Settings
}

var _ repositories.CredentialsRepository = (*CredentialsRepository)(nil)

// NewCredentialsRepository creates a new CredentialsRepository.
func NewCredentialsRepository(settings *entities.Settings) *CredentialsRepository {
	return &CredentialsRepository{settings: settings}
}

// Resolve returns the location with credentials attached just-in-time.
func (it *CredentialsRepository) Resolve(
	_ context.Context,
	location entities.Location,
) (entities.Location, error) {
	if location.HasCredentials() {
		return location, nil
	}
	location.Username = it.settings.Auth.Username
	location.Secret = it.settings.Auth.Secret
	return location, nil
}
