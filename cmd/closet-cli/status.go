package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the gateway and its services",
	Run:   runStatus,
}

func runStatus(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.close()

	report, err := a.client.Health(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("health check failed")
	}

	names := make([]string, 0, len(report.Services))
	for name := range report.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		svc := report.Services[name]
		line := fmt.Sprintf("%-18s %s", name, svc.Status)
		if svc.Error != "" {
			line += " (" + svc.Error + ")"
		}
		fmt.Println(line)
	}
	if report.AllHealthy {
		fmt.Println("All services healthy.")
	} else {
		fmt.Println("Some services are unhealthy.")
	}
}
