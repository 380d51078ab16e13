package commands

import (
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ftbldata/tmscraper/internal/scraper"
	"github.com/ftbldata/tmscraper/internal/tabular"
)

func init() {
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(trainerCmd)
	rootCmd.AddCommand(trainerHistoryCmd)
}

var playerCmd = &cobra.Command{
	Use:   "player <url>",
	Short: "Scrapes one player profile URL and prints the record.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, tm := newScraper()
		player, err := tm.ScrapePlayer(cmd.Context(), args[0])
		if err != nil {
			log.Fatal(err)
		}
		renderTable(scraper.PlayersTable([]scraper.Player{player}))
	},
}

var playersCmd = &cobra.Command{
	Use:   "players <competition> <season>",
	Short: "Scrapes every player profile of a competition season and prints the result table.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		_, tm := newScraper()
		players, err := tm.ScrapePlayers(cmd.Context(), args[0], args[1])
		if err != nil {
			log.Fatal(err)
		}
		renderTable(scraper.PlayersTable(players))
	},
}

var trainerCmd = &cobra.Command{
	Use:   "trainer <url>",
	Short: "Scrapes one trainer profile URL and prints the normalized record.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, tm := newScraper()
		profile, err := tm.ScrapeTrainer(cmd.Context(), args[0])
		if err != nil {
			log.Fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Field", "Value"})
		appendField := func(name string, value *string) {
			if value == nil {
				t.AppendRow(table.Row{name, ""})
				return
			}
			t.AppendRow(table.Row{name, *value})
		}
		appendField("trainer_name", profile.TrainerName)
		t.AppendRow(table.Row{"source_url", profile.SourceURL})
		appendField("full_name_native", profile.FullNameNative)
		appendField("date_of_birth_age", profile.DateOfBirthAge)
		appendField("place_of_birth", profile.PlaceOfBirth)
		appendField("citizenship", profile.Citizenship)
		appendField("avg_term_as_trainer", profile.AvgTermAsTrainer)
		appendField("trainering_licence", profile.TraineringLicence)
		appendField("preferred_formation", profile.PreferredFormation)
		for k, v := range profile.Extra {
			t.AppendRow(table.Row{k, v})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

var trainerHistoryCmd = &cobra.Command{
	Use:   "trainer-history <url>",
	Short: "Scrapes a trainer's career-history table and prints it.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, tm := newScraper()
		history, err := tm.ScrapeTrainerHistory(cmd.Context(), args[0])
		if err != nil {
			log.Fatal(err)
		}
		renderTable(history)
	},
}

func renderTable(src *tabular.Table) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)

	header := table.Row{}
	for _, col := range src.Columns {
		header = append(header, col)
	}
	t.AppendHeader(header)

	for _, row := range src.Rows {
		out := make(table.Row, len(row))
		for i, cell := range row {
			if cell == nil {
				out[i] = ""
				continue
			}
			out[i] = *cell
		}
		t.AppendRow(out)
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
