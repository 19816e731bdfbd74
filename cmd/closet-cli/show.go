package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <item-id>",
	Short: "Show one wardrobe item",
	Args:  cobra.ExactArgs(1),
	Run:   runShow,
}

func runShow(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.close()

	item, err := a.store.Fetch(context.Background(), args[0])
	if err != nil {
		log.Fatal().Err(err).Str("itemId", args[0]).Msg("failed to fetch item")
	}

	fmt.Printf("Name:     %s\n", item.DisplayName())
	fmt.Printf("Weather:  %s\n", item.DisplayWeather())
	fmt.Printf("ID:       %s\n", item.ID)
	if item.ImageURL != "" {
		fmt.Printf("Image:    %s\n", item.ImageURL)
	}
	if item.OriginalImageURL != "" && item.OriginalImageURL != item.ImageURL {
		fmt.Printf("Original: %s\n", item.OriginalImageURL)
	}
	if item.FileName != "" {
		fmt.Printf("File:     %s (%d bytes)\n", item.FileName, item.FileSize)
	}
	if !item.CreatedAt.IsZero() {
		fmt.Printf("Created:  %s\n", item.CreatedAt.Format("2006-01-02 15:04"))
	}
	if !item.UpdatedAt.IsZero() {
		fmt.Printf("Updated:  %s\n", item.UpdatedAt.Format("2006-01-02 15:04"))
	}
}
