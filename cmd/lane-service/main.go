package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/memorylane/lane-server/laneservice"
)

func main() {
	root := &cobra.Command{
		Use:   "lane-service",
		Short: "Memory lane gallery API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return laneservice.Run()
		},
		SilenceUsage: true,
	}
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
