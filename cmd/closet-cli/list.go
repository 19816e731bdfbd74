package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wardrobe items",
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.close()

	if err := a.store.FetchAll(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to fetch wardrobe")
	}

	items := a.store.Items()
	if len(items) == 0 {
		fmt.Println("Your wardrobe is empty. Add an item with: closet-cli add")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tWEATHER\tUPDATED")
	for _, it := range items {
		updated := ""
		if !it.UpdatedAt.IsZero() {
			updated = it.UpdatedAt.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", it.ID, it.DisplayName(), it.DisplayWeather(), updated)
	}
	w.Flush()
}
