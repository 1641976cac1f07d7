package main

import (
	"github.com/campusware/gitread/internal"
	"github.com/campusware/gitread/internal/domain/entities"
	"go.uber.org/dig"
)

func injectAppContext(configPath string) *internal.AppInternal {
	container := dig.New()

	// The config path is resolved before Cobra runs, so it is provided as
	// a plain value rather than read from flags inside the container.
	if err := container.Provide(func() entities.ConfigPath {
		return entities.ConfigPath(configPath)
	}); err != nil {
		panic(err)
	}

	// Register all providers
	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	// Invoke to get AppInternal
	var appInternal *internal.AppInternal
	if err := container.Invoke(func(ai *internal.AppInternal) {
		appInternal = ai
	}); err != nil {
		panic(err)
	}

	return appInternal
}
