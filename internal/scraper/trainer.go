package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ftbldata/tmscraper/internal/observability"
	"github.com/ftbldata/tmscraper/internal/tabular"
)

// trainerKeySynonyms collapses differently worded header labels onto one
// canonical key. The wording here matches what the site actually renders;
// keep the entries verbatim.
var trainerKeySynonyms = map[string]string{
	"name_in_home_country": "full_name_native",
	"full_name":            "full_name_native",
	"date_of_birth_age":    "date_of_birth_age",
	"date_of_birth":        "date_of_birth_age",
	"place_of_birth":       "place_of_birth",
	"citizenship":          "citizenship",
	"avg._term_as_trainer": "avg_term_as_trainer",
	"avg_term_as_trainer":  "avg_term_as_trainer",
	"trainering_licence":   "trainering_licence",
	"preferred_formation":  "preferred_formation",
}

// normalizeTrainerKey turns a visible header label into a stable
// lowercase_underscored key, then applies the synonym table.
func normalizeTrainerKey(raw string) string {
	k := strings.ToLower(strings.TrimSpace(raw))
	k = strings.ReplaceAll(k, ":", "")
	k = strings.ReplaceAll(k, "/", " ")
	k = squash(k)
	k = strings.ReplaceAll(k, " ", "_")
	if canonical, ok := trainerKeySynonyms[k]; ok {
		return canonical
	}
	return k
}

// ScrapeTrainerHistory extracts a trainer's career-history table. A profile
// without one yields an empty table, not an error. Column names prefer the
// header cell's title attribute over its visible text; every row is prefixed
// with the trainer's display name and the source URL.
func (t *Transfermarkt) ScrapeTrainerHistory(ctx context.Context, trainerURL string) (*tabular.Table, error) {
	doc, err := t.profiles.FetchDocument(ctx, trainerURL)
	if err != nil {
		observability.IncError(observability.ClassifyFetchError(err), "trainer")
		return nil, fmt.Errorf("fetch trainer page: %w", err)
	}
	observability.IncPagesFetched("trainer")

	table := doc.Find("table.items").First()
	if table.Length() == 0 {
		return tabular.New(), nil
	}

	columns := []string{"trainer_name", "source_url"}
	table.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		col, ok := th.Attr("title")
		if !ok || col == "" {
			col = strings.TrimSpace(th.Text())
		}
		columns = append(columns, col)
	})

	var trainerName *string
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		trainerName = strPtr(squash(h1.Text()))
	}

	out := tabular.New(columns...)
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() == 0 {
			return
		}
		row := []*string{trainerName, strPtr(trainerURL)}
		tds.Each(func(_ int, td *goquery.Selection) {
			row = append(row, strPtr(strings.TrimSpace(td.Text())))
		})
		out.AppendRow(row)
	})

	observability.IncTrainersScraped()
	return out, nil
}

// ScrapeTrainer extracts a trainer's header-detail block into one record.
// Labels normalize to canonical keys; on key collision the last non-empty
// value wins.
func (t *Transfermarkt) ScrapeTrainer(ctx context.Context, trainerURL string) (TrainerProfile, error) {
	doc, err := t.profiles.FetchDocument(ctx, trainerURL)
	if err != nil {
		observability.IncError(observability.ClassifyFetchError(err), "trainer")
		return TrainerProfile{}, fmt.Errorf("fetch trainer page: %w", err)
	}
	observability.IncPagesFetched("trainer")

	profile := TrainerProfile{SourceURL: trainerURL}
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		profile.TrainerName = strPtr(squash(h1.Text()))
	}

	data := map[string]string{}
	doc.Find(".data-header__details").Each(func(_ int, details *goquery.Selection) {
		// The desktop and mobile header variants repeat the same rows; the
		// last non-empty value wins either way.
		details.Find("li.data-header__label").Each(func(_ int, li *goquery.Selection) {
			keyText := directText(li)
			if keyText == "" {
				keyText = strings.Split(squash(li.Text()), ":")[0]
			}
			key := normalizeTrainerKey(squash(keyText))
			if key == "" {
				return
			}
			val := squash(li.Find("span.data-header__content").First().Text())
			if val != "" {
				data[key] = val
			}
		})
	})

	curated := func(key string) *string {
		v, ok := data[key]
		if !ok {
			return nil
		}
		delete(data, key)
		return &v
	}
	profile.FullNameNative = curated("full_name_native")
	profile.DateOfBirthAge = curated("date_of_birth_age")
	profile.PlaceOfBirth = curated("place_of_birth")
	profile.Citizenship = curated("citizenship")
	profile.AvgTermAsTrainer = curated("avg_term_as_trainer")
	profile.TraineringLicence = curated("trainering_licence")
	profile.PreferredFormation = curated("preferred_formation")
	if len(data) > 0 {
		profile.Extra = data
	}

	observability.IncTrainersScraped()
	return profile, nil
}

// directText returns the first non-blank text node that is a direct child of
// the selection, skipping nested elements. Header rows keep the label as a
// bare text node before the value span.
func directText(sel *goquery.Selection) string {
	if len(sel.Nodes) == 0 {
		return ""
	}
	for c := sel.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return c.Data
		}
	}
	return ""
}
