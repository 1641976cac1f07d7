package controllers

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/campusware/gitread/internal/domain/commands"
	"github.com/campusware/gitread/internal/domain/entities"
)

// LsController handles the "ls" subcommand: list one directory of a remote
// repository branch.
type LsController struct {
	command commands.Browse
}

// NewLsController creates a new LsController.
func NewLsController(command commands.Browse) *LsController {
	return &LsController{command: command}
}

// GetBind returns the Cobra command metadata for the ls controller.
func (it *LsController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "ls [path]",
		Short: "List a directory of a remote repository",
		Long: `List the entries of one directory of a remote repository branch
without cloning it. The first call fetches a shallow mirror; repeated
calls within the cache window are served from the response cache.`,
	}
}

// Execute runs the listing.
func (it *LsController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	location, ok := locationFromFlags(cmd)
	if !ok {
		return
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	entries, err := it.command.ListDirectory(ctx, location, path)
	if err != nil {
		reportFailure("Listing failed", err)
		return
	}

	for _, entry := range entries {
		marker := " "
		if entry.IsDir() {
			marker = "/"
		}
		fmt.Printf("%s %10d  %s%s\n", entry.Mode, entry.Size, entry.Name, marker)
	}
}

// AddFlags adds the ls-specific flags to the given Cobra command.
func (it *LsController) AddFlags(cmd *cobra.Command) {
	addLocationFlags(cmd)
}

// reportFailure logs the technical detail and shows the user-safe message,
// mirroring how the web layer separates the two audiences.
func reportFailure(prefix string, err error) {
	classified := entities.AsClassified(err)
	logger.Debugf("%s (%s): %s", prefix, classified.Kind, classified.Detail)
	logger.Errorf("%s: %s", prefix, classified.UserMessage)
}
