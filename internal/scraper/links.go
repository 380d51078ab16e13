package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ftbldata/tmscraper/internal/httpx"
	"github.com/ftbldata/tmscraper/internal/observability"
)

// Root is the site root used to absolutize relative hrefs.
const Root = "https://www.transfermarkt.us"

// Transfermarkt scrapes the site's competition, club, player and trainer
// pages. Listing pages go through the challenge client (the site fronts them
// with anti-bot checks); profile pages only need a browser user agent.
type Transfermarkt struct {
	comps    CompetitionResolver
	listing  *httpx.ChallengeClient
	profiles *httpx.CollyFetcher
	root     string
}

func New(comps CompetitionResolver) *Transfermarkt {
	return &Transfermarkt{
		comps:    comps,
		listing:  httpx.NewChallengeClient(),
		profiles: httpx.NewCollyFetcher(""),
		root:     Root,
	}
}

// NewWithClients injects the fetchers and site root, used by tests to point
// the scraper at a local fixture server.
func NewWithClients(comps CompetitionResolver, listing *httpx.ChallengeClient, profiles *httpx.CollyFetcher, root string) *Transfermarkt {
	return &Transfermarkt{comps: comps, listing: listing, profiles: profiles, root: root}
}

// ValidSeasons extracts the season selector options from the competition's
// landing page. Label order follows page markup order.
func (t *Transfermarkt) ValidSeasons(ctx context.Context, competition string) (SeasonMap, error) {
	base, err := t.comps.BaseURL(competition)
	if err != nil {
		return SeasonMap{}, err
	}

	doc, err := t.listing.GetDocument(ctx, base)
	if err != nil {
		observability.IncError(observability.ClassifyFetchError(err), "links")
		return SeasonMap{}, fmt.Errorf("fetch competition page: %w", err)
	}
	observability.IncPagesFetched("links")

	seasons := SeasonMap{IDs: map[string]string{}}
	doc.Find("select[name='saison_id'] option").Each(func(_ int, opt *goquery.Selection) {
		label := strings.TrimSpace(opt.Text())
		id, ok := opt.Attr("value")
		if label == "" || !ok {
			return
		}
		if !seasons.Has(label) {
			seasons.Labels = append(seasons.Labels, label)
		}
		seasons.IDs[label] = id
	})
	if len(seasons.Labels) == 0 {
		return SeasonMap{}, fmt.Errorf("no season selector found on %s", base)
	}
	return seasons, nil
}

// ClubLinks returns the club page URLs of a season's roster listing. A season
// with no published listing table yields an empty list, not an error.
func (t *Transfermarkt) ClubLinks(ctx context.Context, competition, season string) ([]string, error) {
	base, err := t.comps.BaseURL(competition)
	if err != nil {
		return nil, err
	}
	seasons, err := t.ValidSeasons(ctx, competition)
	if err != nil {
		return nil, err
	}
	if !seasons.Has(season) {
		return nil, InvalidSeasonError{Season: season, Competition: competition, Valid: seasons.Labels}
	}

	listURL := fmt.Sprintf("%s/plus/?saison_id=%s", base, seasons.IDs[season])
	doc, err := t.listing.GetDocument(ctx, listURL)
	if err != nil {
		observability.IncError(observability.ClassifyFetchError(err), "links")
		return nil, fmt.Errorf("fetch club listing: %w", err)
	}
	observability.IncPagesFetched("links")

	table := doc.Find("table.items").First()
	if table.Length() == 0 {
		slog.Warn("no club links table found, returning empty list",
			"competition", competition, "season", season)
		return []string{}, nil
	}

	links := []string{}
	table.Find("td.hauptlink.no-border-links").Each(func(_ int, td *goquery.Selection) {
		href, ok := td.Find("a").First().Attr("href")
		if !ok {
			return
		}
		links = append(links, absLink(t.root, href))
	})
	return links, nil
}

// PlayerLinks visits every club page of the season and returns the
// de-duplicated union of player profile URLs. Clubs without a roster table
// are skipped.
func (t *Transfermarkt) PlayerLinks(ctx context.Context, competition, season string) ([]string, error) {
	clubLinks, err := t.ClubLinks(ctx, competition, season)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	links := []string{}
	for i, clubLink := range clubLinks {
		slog.Debug("collecting player links",
			"competition", competition, "season", season,
			"club", i+1, "clubs_total", len(clubLinks))

		doc, err := t.listing.GetDocument(ctx, clubLink)
		if err != nil {
			observability.IncError(observability.ClassifyFetchError(err), "links")
			return nil, fmt.Errorf("fetch club page %s: %w", clubLink, err)
		}
		observability.IncPagesFetched("links")

		table := doc.Find("table.items").First()
		if table.Length() == 0 {
			continue
		}
		table.Find("td.hauptlink").Each(func(_ int, td *goquery.Selection) {
			href, ok := td.Find("a").First().Attr("href")
			if !ok {
				return
			}
			link := absLink(t.root, href)
			if _, dup := seen[link]; dup {
				return
			}
			seen[link] = struct{}{}
			links = append(links, link)
		})
	}
	return links, nil
}

// MatchLinks returns the result links of the season's fixture list. The
// fixtures URL is derived from the competition base URL by path substitution.
func (t *Transfermarkt) MatchLinks(ctx context.Context, competition, season string) ([]string, error) {
	base, err := t.comps.BaseURL(competition)
	if err != nil {
		return nil, err
	}
	seasons, err := t.ValidSeasons(ctx, competition)
	if err != nil {
		return nil, err
	}
	if !seasons.Has(season) {
		return nil, InvalidSeasonError{Season: season, Competition: competition, Valid: seasons.Labels}
	}

	fixturesURL := fmt.Sprintf("%s/saison_id/%s",
		strings.Replace(base, "startseite", "gesamtspielplan", 1), seasons.IDs[season])
	doc, err := t.listing.GetDocument(ctx, fixturesURL)
	if err != nil {
		observability.IncError(observability.ClassifyFetchError(err), "links")
		return nil, fmt.Errorf("fetch fixtures page: %w", err)
	}
	observability.IncPagesFetched("links")

	links := []string{}
	doc.Find("a.ergebnis-link").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		links = append(links, absLink(t.root, href))
	})
	return links, nil
}
