package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	if err := container.Provide(NewBrowseCommand); err != nil {
		return err
	}
	if err := container.Provide(NewTrackCommand); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *BrowseCommand) Browse {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *TrackCommand) Track {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
