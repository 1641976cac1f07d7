package controllers

import (
	"context"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/campusware/gitread/internal/domain/commands"
	"github.com/campusware/gitread/internal/domain/entities"
)

// CatController handles the "cat" subcommand: print one file of a remote
// repository branch.
type CatController struct {
	command commands.Browse
}

// NewCatController creates a new CatController.
func NewCatController(command commands.Browse) *CatController {
	return &CatController{command: command}
}

// GetBind returns the Cobra command metadata for the cat controller.
func (it *CatController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "cat <path>",
		Short: "Print a file of a remote repository",
		Long: `Print the content of one file of a remote repository branch
without cloning it. Legacy-encoded text is re-encoded as UTF-8;
binary content is written through unchanged.`,
	}
}

// Execute prints the file.
func (it *CatController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	location, ok := locationFromFlags(cmd)
	if !ok {
		return
	}
	if len(args) == 0 {
		logger.Error("cat requires a file path argument")
		return
	}

	content, err := it.command.ReadFile(ctx, location, args[0])
	if err != nil {
		reportFailure("Read failed", err)
		return
	}

	if _, writeErr := os.Stdout.Write(content); writeErr != nil {
		logger.Errorf("Failed to write output: %v", writeErr)
	}
}

// AddFlags adds the cat-specific flags to the given Cobra command.
func (it *CatController) AddFlags(cmd *cobra.Command) {
	addLocationFlags(cmd)
}
