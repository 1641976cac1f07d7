package controllers

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/campusware/gitread/internal/domain/commands"
	"github.com/campusware/gitread/internal/domain/entities"
)

// ChangedController handles the "changed" subcommand: report whether a path
// changed since a known commit.
type ChangedController struct {
	command commands.Track
}

// NewChangedController creates a new ChangedController.
func NewChangedController(command commands.Track) *ChangedController {
	return &ChangedController{command: command}
}

// GetBind returns the Cobra command metadata for the changed controller.
func (it *ChangedController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "changed [path]",
		Short: "Check whether a path changed since a commit",
		Long: `Fetch the current remote head and report whether anything under
the given path differs from the commit passed with --since. The check is
advisory: when it cannot be answered the result is "unknown", not an error.`,
	}
}

// Execute runs the change check.
func (it *ChangedController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	location, ok := locationFromFlags(cmd)
	if !ok {
		return
	}
	since, _ := cmd.Flags().GetString("since")
	if since == "" {
		logger.Error("changed requires --since <commit>")
		return
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	changed := it.command.ChangedSince(ctx, location, path, entities.CommitID(since))
	switch {
	case changed == nil:
		fmt.Println("unknown")
	case *changed:
		fmt.Println("changed")
	default:
		fmt.Println("unchanged")
	}
}

// AddFlags adds the changed-specific flags to the given Cobra command.
func (it *ChangedController) AddFlags(cmd *cobra.Command) {
	addLocationFlags(cmd)
	cmd.Flags().String("since", "", "Commit to compare the current head against")
}
