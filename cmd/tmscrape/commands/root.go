package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ftbldata/tmscraper/internal/comps"
	"github.com/ftbldata/tmscraper/internal/scraper"
)

var rootCmd = &cobra.Command{
	Use:   "tmscrape",
	Short: "tmscrape is a CLI for scraping Transfermarkt season, club, player and trainer data.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newScraper() (*comps.Registry, *scraper.Transfermarkt) {
	registry := comps.Default()
	return registry, scraper.New(registry)
}
