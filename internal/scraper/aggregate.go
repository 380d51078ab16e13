package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ftbldata/tmscraper/internal/tabular"
)

// ScrapePlayers resolves the season's player links and scrapes every profile
// in iteration order. One failed fetch or parse fails the whole aggregation;
// per-field tolerance lives inside ScrapePlayer.
func (t *Transfermarkt) ScrapePlayers(ctx context.Context, competition, season string) ([]Player, error) {
	links, err := t.PlayerLinks(ctx, competition, season)
	if err != nil {
		return nil, err
	}

	players := make([]Player, 0, len(links))
	for i, link := range links {
		slog.Info("scraping player",
			"competition", competition, "season", season,
			"player", i+1, "players_total", len(links))

		player, err := t.ScrapePlayer(ctx, link)
		if err != nil {
			return nil, fmt.Errorf("scrape player %s: %w", link, err)
		}
		players = append(players, player)
	}
	return players, nil
}

// PlayersTable flattens player records into a display table. Nested
// sub-tables are summarized (row counts, joined lists); nil fields stay nil.
func PlayersTable(players []Player) *tabular.Table {
	out := tabular.New(
		"name", "id", "value", "value_last_updated", "dob", "age", "height_m",
		"nationality", "citizenship", "position", "other_positions", "team",
		"last_club", "since", "joined", "contract_expiration",
		"market_values", "transfers",
	)
	for _, p := range players {
		var age *string
		if p.Age != nil {
			age = strPtr(strconv.Itoa(*p.Age))
		}
		var height *string
		if p.HeightMeters != nil {
			height = strPtr(strconv.FormatFloat(*p.HeightMeters, 'f', -1, 64))
		}
		out.AppendRow([]*string{
			strPtr(p.Name),
			strPtr(p.ID),
			p.Value,
			p.ValueLastUpdated,
			p.DateOfBirth,
			age,
			height,
			p.Nationality,
			strPtr(strings.Join(p.Citizenship, ", ")),
			strPtr(p.Position),
			strPtr(strings.Join(p.OtherPositions, ", ")),
			p.Team,
			p.LastClub,
			p.Since,
			p.Joined,
			p.ContractExpiration,
			strPtr(strconv.Itoa(len(p.MarketValueHistory))),
			strPtr(strconv.Itoa(len(p.TransferHistory))),
		})
	}
	return out
}
