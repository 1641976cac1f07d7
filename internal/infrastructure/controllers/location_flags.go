package controllers

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/campusware/gitread/internal/domain/entities"
)

// addLocationFlags registers the repository selection flags shared by every
// subcommand. The secret is deliberately not a flag: it would leak into
// shell history and process listings, so it comes from GITREAD_SECRET or
// the config file instead.
func addLocationFlags(cmd *cobra.Command) {
	cmd.Flags().String("url", "", "Repository URL (http(s) or ssh)")
	cmd.Flags().String("branch", "main", "Branch to read")
	cmd.Flags().String("user", "", "Username for the repository (secret via GITREAD_SECRET)")
}

// locationFromFlags builds the Location a subcommand operates on.
func locationFromFlags(cmd *cobra.Command) (entities.Location, bool) {
	repoURL, _ := cmd.Flags().GetString("url")
	branch, _ := cmd.Flags().GetString("branch")
	user, _ := cmd.Flags().GetString("user")

	if repoURL == "" {
		logger.Error("a repository --url is required")
		return entities.Location{}, false
	}

	return entities.Location{
		URL:      repoURL,
		Branch:   branch,
		Username: user,
		Secret:   os.Getenv("GITREAD_SECRET"),
	}, true
}
