package entities

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all entity providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Settings resolve from an explicit --config path or the standard
	// locations, so the container never fails for lack of a config file.
	return container.Provide(LoadSettings)
}
