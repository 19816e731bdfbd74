package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/closetmate/closet-cli/internal/cli"
	"github.com/closetmate/closet-cli/internal/modal"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <item-id>",
	Short: "Delete an item from the wardrobe",
	Args:  cobra.ExactArgs(1),
	Run:   runDelete,
}

func runDelete(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.close()
	ctx := context.Background()
	id := args[0]

	if err := a.store.FetchAll(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to fetch wardrobe")
	}
	item, err := a.store.Get(id)
	if err != nil {
		log.Fatal().Err(err).Str("itemId", id).Msg("item not found")
	}

	// The delete is armed behind the confirmation slot and runs only when
	// the user accepts.
	a.flow.RequestDelete(ctx, id)

	kind, _, pending := a.flow.Modals().ConfirmPending()
	if !pending {
		return
	}
	cfg := modal.ConfigFor(kind)
	accepted := yesFlag || cli.Confirm(cfg.Title, fmt.Sprintf("%s (%s)\n%s", item.DisplayName(), item.ID, cfg.Message), cfg.Variant == "danger")
	if !accepted {
		a.flow.Modals().CloseConfirm()
		fmt.Println("Delete canceled.")
		return
	}
	a.flow.Modals().Confirm()
}
