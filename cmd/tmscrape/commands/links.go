package commands

import (
	"context"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(competitionsCmd)
	rootCmd.AddCommand(seasonsCmd)
	rootCmd.AddCommand(clubsCmd)
	rootCmd.AddCommand(playerLinksCmd)
	rootCmd.AddCommand(matchesCmd)
}

var competitionsCmd = &cobra.Command{
	Use:   "competitions",
	Short: "Prints the known competition codes and their landing pages.",
	Run: func(cmd *cobra.Command, args []string) {
		registry, _ := newScraper()

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Code", "Name", "URL"})
		for _, c := range registry.All() {
			t.AppendRow(table.Row{c.Code, c.Name, c.BaseURL})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

var seasonsCmd = &cobra.Command{
	Use:   "seasons <competition>",
	Short: "Prints the valid seasons of a competition with their site identifiers.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, tm := newScraper()
		seasons, err := tm.ValidSeasons(cmd.Context(), args[0])
		if err != nil {
			log.Fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Season", "ID"})
		for _, label := range seasons.Labels {
			t.AppendRow(table.Row{label, seasons.IDs[label]})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

var clubsCmd = &cobra.Command{
	Use:   "clubs <competition> <season>",
	Short: "Prints the club page URLs of a competition season.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		renderLinks(cmd.Context(), args[0], args[1], func(ctx context.Context, comp, season string) ([]string, error) {
			_, tm := newScraper()
			return tm.ClubLinks(ctx, comp, season)
		})
	},
}

var playerLinksCmd = &cobra.Command{
	Use:   "player-links <competition> <season>",
	Short: "Prints the player profile URLs of a competition season.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		renderLinks(cmd.Context(), args[0], args[1], func(ctx context.Context, comp, season string) ([]string, error) {
			_, tm := newScraper()
			return tm.PlayerLinks(ctx, comp, season)
		})
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches <competition> <season>",
	Short: "Prints the match result URLs of a competition season.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		renderLinks(cmd.Context(), args[0], args[1], func(ctx context.Context, comp, season string) ([]string, error) {
			_, tm := newScraper()
			return tm.MatchLinks(ctx, comp, season)
		})
	},
}

func renderLinks(ctx context.Context, comp, season string,
	fetch func(ctx context.Context, comp, season string) ([]string, error)) {
	links, err := fetch(ctx, comp, season)
	if err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "URL"})
	for i, link := range links {
		t.AppendRow(table.Row{i + 1, link})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
