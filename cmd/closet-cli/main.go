package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/closetmate/closet-cli/internal/auth"
	"github.com/closetmate/closet-cli/internal/catalog"
	"github.com/closetmate/closet-cli/internal/closetapi"
	"github.com/closetmate/closet-cli/internal/config"
	"github.com/closetmate/closet-cli/internal/logging"
	"github.com/closetmate/closet-cli/internal/modal"
	"github.com/closetmate/closet-cli/internal/preview"
	"github.com/closetmate/closet-cli/internal/workflow"
)

// CLI flags
var (
	photoFlag   string
	nameFlag    string
	weatherFlag string
	yesFlag     bool
)

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "closet-cli",
	Short: "ClosetMate wardrobe client",
	Long: `closet-cli manages your ClosetMate wardrobe from the terminal.

Photograph a clothing item, have its background removed by the ClosetMate
processing service, review the result locally, attach a name and weather
tag, and save it to your wardrobe. Items can later be edited (including
re-processing the photo) or deleted.

Examples:
  closet-cli list
  closet-cli show 3f2a...
  closet-cli add --photo shirt.jpg --name "Linen shirt" --weather Summer
  closet-cli add                      # native file picker + prompts
  closet-cli edit 3f2a... --name "Winter coat"
  closet-cli edit 3f2a... --photo coat-v2.heic
  closet-cli delete 3f2a...
  closet-cli status`,
}

func init() {
	addCmd.Flags().StringVarP(&photoFlag, "photo", "p", "", "Photo of the clothing item (JPEG, PNG, HEIC, HEIF; max 10 MB)")
	addCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Item name")
	addCmd.Flags().StringVarP(&weatherFlag, "weather", "w", "", "Weather tag: Spring, Summer, Fall, or Winter")
	addCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Accept the processed result without prompting")

	editCmd.Flags().StringVarP(&photoFlag, "photo", "p", "", "Replacement photo to re-process")
	editCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "New item name")
	editCmd.Flags().StringVarP(&weatherFlag, "weather", "w", "", "New weather tag")
	editCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Accept the processed result without prompting")

	deleteCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the delete confirmation")

	rootCmd.AddCommand(listCmd, showCmd, addCmd, editCmd, deleteCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired collaborators for one CLI invocation.
type app struct {
	cfg      *config.Config
	client   *closetapi.Client
	store    *catalog.Store
	previews *preview.Manager
	flow     *workflow.Controller
}

// mustApp loads config and wires the workflow core, exiting fatally when
// the environment is unusable.
func mustApp() *app {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.LogLevel)

	token, err := auth.GetAPIToken()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to retrieve API token")
	}

	client := closetapi.NewClient(
		closetapi.WithBaseURL(cfg.GatewayURL),
		closetapi.WithToken(token),
		closetapi.WithTimeout(cfg.RequestTimeout),
	)
	store := catalog.NewStore(client)

	previews, err := preview.NewManager(cfg.PreviewDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create preview directory")
	}

	flow := workflow.NewController(client, store, previews, modal.NewCoordinator(), consoleNotifier{})

	return &app{
		cfg:      cfg,
		client:   client,
		store:    store,
		previews: previews,
		flow:     flow,
	}
}

// close releases anything the invocation still holds.
func (a *app) close() {
	a.flow.Close()
	if err := a.previews.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to remove preview directory")
	}
}
