package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/closetmate/closet-cli/internal/catalog"
	"github.com/closetmate/closet-cli/internal/cli"
	"github.com/closetmate/closet-cli/internal/filehandler"
	"github.com/closetmate/closet-cli/internal/modal"
	"github.com/closetmate/closet-cli/internal/workflow"
)

var addCmd = &cobra.Command{
	Use:   "add [photo]",
	Short: "Photograph a clothing item and add it to the wardrobe",
	Args:  cobra.MaximumNArgs(1),
	Run:   runAdd,
}

func runAdd(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.close()
	ctx := context.Background()

	path := photoFlag
	if path == "" && len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		picked, err := cli.PickPhoto()
		if err != nil {
			fmt.Println("No photo selected.")
			return
		}
		path = picked
	}

	if !processPhoto(ctx, a, path) {
		return
	}

	// Details-collection phase: the processed image is accepted and held by
	// the session until the details are submitted or the user backs out.
	name := nameFlag
	weather := catalog.ParseWeather(weatherFlag)
	if !yesFlag {
		if name == "" {
			name = cli.PromptLine("Item name (empty for Untitled)", "")
		}
		if weather == catalog.WeatherUnset && weatherFlag == "" {
			weather = catalog.ParseWeather(cli.PromptLine("Weather (Spring/Summer/Fall/Winter, empty to skip)", ""))
		}
	}

	kind := modal.KindSaveDetails
	if name == "" && weather == catalog.WeatherUnset {
		kind = modal.KindSkipDetails
	}
	cfg := modal.ConfigFor(kind)
	if !yesFlag && !cli.Confirm(cfg.Title, cfg.Message, cfg.Variant == "danger") {
		a.flow.CancelSession()
		fmt.Println("Item not saved.")
		return
	}

	item, err := a.flow.SaveNew(ctx, name, weather)
	if err != nil {
		log.Error().Err(err).Msg("save failed")
		return
	}
	fmt.Printf("Saved %s (%s)\n", item.DisplayName(), item.ID)
}

// processPhoto drives one upload-and-process cycle at the console: submit,
// retry up to the cap on failure, allow switching to a different file, and
// review the processed result. Returns true once a result is confirmed.
func processPhoto(ctx context.Context, a *app, path string) bool {
	for {
		err := a.flow.SubmitFile(ctx, path)
		var reject *filehandler.RejectError
		if errors.As(err, &reject) {
			fmt.Printf("Photo rejected (%s): %s\n", reject.Reason, reject.Message)
			return false
		}

		// Failure path: offer retry while the cap allows, then only a
		// different file or giving up.
		for a.flow.State() == workflow.StateError {
			errCfg := modal.ConfigFor(modal.KindError)
			fmt.Printf("%s: %v\n", errCfg.Title, a.flow.LastError())
			if a.flow.CanRetry() {
				if yesFlag || cli.PromptYesNo("Retry?", true) {
					if err := a.flow.Retry(ctx); err != nil && !errors.Is(err, workflow.ErrRetryExhausted) {
						log.Debug().Err(err).Msg("retry attempt failed")
					}
					continue
				}
			} else {
				fmt.Println("Retry limit reached.")
			}
			if cli.PromptYesNo("Upload a different photo?", false) {
				a.flow.UploadDifferent()
				picked, pickErr := cli.PickPhoto()
				if pickErr != nil {
					a.flow.CancelSession()
					return false
				}
				path = picked
				break
			}
			a.flow.CancelSession()
			return false
		}

		if a.flow.State() != workflow.StateConfirming {
			continue
		}

		// Review step.
		sess := a.flow.Session()
		fmt.Printf("Processed preview: %s\n", sess.Preview().Path())
		if meta, metaErr := filehandler.ExtractPhotoMetadata(path); metaErr == nil {
			if meta.HasDate {
				fmt.Printf("Taken: %s\n", meta.DateTaken.Format("Monday, January 2, 2006"))
			}
			if s := meta.Summary(); s != "" {
				fmt.Printf("Camera: %s\n", s)
			}
		}

		choice := "keep"
		if !yesFlag {
			choice = cli.PromptLine("Keep this result? (keep/different/cancel)", "keep")
		}
		switch choice {
		case "different":
			a.flow.UploadDifferent()
			picked, pickErr := cli.PickPhoto()
			if pickErr != nil {
				a.flow.CancelSession()
				return false
			}
			path = picked
		case "cancel":
			a.flow.CancelSession()
			fmt.Println("Upload canceled.")
			return false
		default:
			if err := a.flow.ConfirmProcessed(); err != nil {
				log.Error().Err(err).Msg("confirm failed")
				return false
			}
			return true
		}
	}
}
