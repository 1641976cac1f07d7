package controllers

import (
	"github.com/campusware/gitread/internal/domain/entities"
	"go.uber.org/dig"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewLsController); err != nil {
		return err
	}
	if err := container.Provide(NewCatController); err != nil {
		return err
	}
	if err := container.Provide(NewChangedController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	lsController *LsController,
	catController *CatController,
	changedController *ChangedController,
) *[]entities.Controller {
	return &[]entities.Controller{
		lsController,
		catController,
		changedController,
	}
}
