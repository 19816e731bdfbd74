package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/closetmate/closet-cli/internal/catalog"
	"github.com/closetmate/closet-cli/internal/cli"
	"github.com/closetmate/closet-cli/internal/modal"
)

var editCmd = &cobra.Command{
	Use:   "edit <item-id>",
	Short: "Edit an item's details or re-process its photo",
	Args:  cobra.ExactArgs(1),
	Run:   runEdit,
}

func runEdit(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.close()
	ctx := context.Background()
	id := args[0]

	if err := a.store.FetchAll(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to fetch wardrobe")
	}

	item, err := a.flow.BeginEdit(id)
	if err != nil {
		log.Fatal().Err(err).Str("itemId", id).Msg("item not found")
	}
	fmt.Printf("Editing %s (%s, %s)\n", item.DisplayName(), item.DisplayWeather(), item.ID)

	interactive := nameFlag == "" && weatherFlag == "" && photoFlag == ""

	name := nameFlag
	if interactive {
		name = cli.PromptLine("Item name", item.DisplayName())
	}
	if name != "" {
		if err := a.flow.SetName(name); err != nil {
			log.Fatal().Err(err).Msg("edit state lost")
		}
	}

	weatherInput := weatherFlag
	if interactive {
		weatherInput = cli.PromptLine("Weather", item.DisplayWeather())
	}
	if weatherInput != "" {
		if err := a.flow.SetWeather(catalog.ParseWeather(weatherInput)); err != nil {
			log.Fatal().Err(err).Msg("edit state lost")
		}
	}

	newPhoto := photoFlag
	if interactive && cli.PromptYesNo("Replace the photo?", false) {
		picked, pickErr := cli.PickPhoto()
		if pickErr == nil {
			newPhoto = picked
		}
	}
	if newPhoto != "" {
		// Re-process in edit mode: the confirmed result becomes the pending
		// image, committed only when the edit is saved.
		if !processPhoto(ctx, a, newPhoto) {
			fmt.Println("Keeping the current photo.")
		}
	}

	merged, err := a.flow.DisplayEdit()
	if err != nil {
		log.Fatal().Err(err).Msg("edit state lost")
	}

	pending, err := a.flow.HasPendingChanges()
	if err != nil {
		log.Fatal().Err(err).Msg("edit state lost")
	}
	if !pending {
		a.flow.CancelEdit()
		fmt.Println("No changes to save.")
		return
	}

	fmt.Printf("Will save: %s (%s)\n", merged.DisplayName(), merged.DisplayWeather())
	if !yesFlag {
		save := modal.ConfigFor(modal.KindSaveChanges)
		if !cli.Confirm(save.Title, save.Message, false) {
			discard := modal.ConfigFor(modal.KindUnsavedChanges)
			if cli.Confirm(discard.Title, discard.Message, true) {
				a.flow.CancelEdit()
				fmt.Println("Changes discarded.")
				return
			}
		}
	}

	if _, err := a.flow.SaveEdit(ctx); err != nil {
		log.Error().Err(err).Msg("save failed")
	}
}
