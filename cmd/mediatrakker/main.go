package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mediatrakker",
		Short:         "Track movies, shows, anime, manga, books and games",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newSearchCmd(),
		newAddCmd(),
		newListCmd(),
		newUpdateCmd(),
		newRemoveCmd(),
		newStatsCmd(),
		newDashboardCmd(),
		newThemeCmd(),
		newStatusesCmd(),
	)
	return root
}
