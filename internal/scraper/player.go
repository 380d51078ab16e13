package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ftbldata/tmscraper/internal/observability"
)

// ScrapePlayer extracts one player profile page into a single record. Each
// field is read independently: a missing element degrades that field to nil
// and never aborts the rest. The only fatal parse condition is an ambiguous
// data-header label match, which means the page layout changed.
func (t *Transfermarkt) ScrapePlayer(ctx context.Context, playerURL string) (Player, error) {
	doc, err := t.profiles.FetchDocument(ctx, playerURL)
	if err != nil {
		observability.IncError(observability.ClassifyFetchError(err), "player")
		return Player{}, fmt.Errorf("fetch player page: %w", err)
	}
	observability.IncPagesFetched("player")

	p := Player{
		URL: playerURL,
		ID:  lastPathSegment(playerURL),
	}

	p.Name = extractName(doc)
	if p.Name == "" {
		p.Name = slugTitle(playerURL)
	}
	p.Value, p.ValueLastUpdated = extractMarketValue(doc)
	p.DateOfBirth, p.Age = extractBirth(doc)
	p.HeightMeters = extractHeight(doc)
	p.Nationality = extractNationality(doc)
	p.Citizenship = extractCitizenship(doc)
	p.Position, p.OtherPositions = extractPositions(doc)
	p.Team = extractTeam(doc)

	labels := headerLabels(doc)
	for _, field := range []struct {
		substr string
		dst    **string
	}{
		{"last club", &p.LastClub},
		{"since", &p.Since},
		{"joined", &p.Joined},
		{"contract expires", &p.ContractExpiration},
	} {
		value, err := scanHeaderLabels(labels, field.substr)
		if err != nil {
			observability.IncError(observability.ErrorParsing, "player")
			return Player{}, err
		}
		*field.dst = value
	}

	p.MarketValueHistory = extractMarketValueHistory(doc)
	p.TransferHistory = extractTransferHistory(doc)

	observability.IncPlayersScraped()
	return p, nil
}

func extractName(doc *goquery.Document) string {
	text := doc.Find("h1.data-header__headline-wrapper").First().Text()
	lines := strings.Split(text, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// extractMarketValue reads the header's market-value block: the amount is the
// leading token, the update date trails "Last update: ". Both nil when the
// page exposes no market value.
func extractMarketValue(doc *goquery.Document) (*string, *string) {
	sel := doc.Find("a.data-header__market-value-wrapper").First()
	if sel.Length() == 0 {
		return nil, nil
	}
	text := squash(sel.Text())
	if text == "" {
		return nil, nil
	}
	value := strings.Split(text, " ")[0]
	parts := strings.Split(text, "Last update: ")
	updated := strings.TrimSpace(parts[len(parts)-1])
	return &value, &updated
}

// extractBirth splits the combined "Mon D, YYYY (NN)" field into the date of
// birth and the integer age.
func extractBirth(doc *goquery.Document) (*string, *int) {
	sel := doc.Find("span[itemprop='birthDate']").First()
	if sel.Length() == 0 {
		return nil, nil
	}
	tokens := strings.Fields(strings.TrimSpace(sel.Text()))
	if len(tokens) == 0 {
		return nil, nil
	}

	var dob *string
	if len(tokens) >= 3 {
		joined := strings.Join(tokens[:3], " ")
		dob = &joined
	}

	var age *int
	last := strings.NewReplacer("(", "", ")", "").Replace(tokens[len(tokens)-1])
	if n, err := strconv.Atoi(last); err == nil {
		age = &n
	}
	return dob, age
}

// extractHeight parses the localized decimal height ("1,85 m"). The site
// uses "N/A" and "- m" as explicit no-data sentinels.
func extractHeight(doc *goquery.Document) *float64 {
	sel := doc.Find("span[itemprop='height']").First()
	if sel.Length() == 0 {
		return nil
	}
	return parseHeight(strings.TrimSpace(sel.Text()))
}

func parseHeight(s string) *float64 {
	if s == "" || s == "N/A" || s == "- m" {
		return nil
	}
	s = strings.ReplaceAll(s, " m", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func extractNationality(doc *goquery.Document) *string {
	sel := doc.Find("span[itemprop='nationality']").First()
	if sel.Length() == 0 {
		return nil
	}
	text := strings.TrimSpace(strings.ReplaceAll(sel.Text(), "\n", ""))
	return &text
}

// extractCitizenship derives citizenships from the flag images inside the
// bold info-table entries, de-duplicated on title.
func extractCitizenship(doc *goquery.Document) []string {
	seen := make(map[string]struct{})
	var out []string
	doc.Find("span.info-table__content.info-table__content--bold img.flaggenrahmen").
		Each(func(_ int, img *goquery.Selection) {
			title, ok := img.Attr("title")
			if !ok || title == "" {
				return
			}
			if _, dup := seen[title]; dup {
				return
			}
			seen[title] = struct{}{}
			out = append(out, title)
		})
	return out
}

// extractPositions reads the main position from the detail block, falling
// back to the data-header label that mentions position. Other positions come
// from the detail block's dd list when present.
func extractPositions(doc *goquery.Document) (string, []string) {
	position := strings.TrimSpace(doc.Find("dd.detail-position__position").First().Text())
	if position == "" {
		doc.Find("li.data-header__label").EachWithBreak(func(_ int, li *goquery.Selection) bool {
			if !strings.Contains(strings.ToLower(li.Text()), "position") {
				return true
			}
			position = strings.TrimSpace(li.Find("span").First().Text())
			return false
		})
	}

	var others []string
	doc.Find("div.detail-position__position dd").Each(func(_ int, dd *goquery.Selection) {
		others = append(others, strings.TrimSpace(dd.Text()))
	})
	return position, others
}

func extractTeam(doc *goquery.Document) *string {
	sel := doc.Find("span.data-header__club").First()
	if sel.Length() == 0 {
		return nil
	}
	text := strings.TrimSpace(sel.Text())
	return &text
}

func headerLabels(doc *goquery.Document) []string {
	var labels []string
	doc.Find("span.data-header__label").Each(func(_ int, span *goquery.Selection) {
		labels = append(labels, span.Text())
	})
	return labels
}

// scanHeaderLabels finds the data-header label containing substr
// (case-insensitively) and returns the text after its last colon. At most
// one label may match; more is a data-contract violation.
func scanHeaderLabels(labels []string, substr string) (*string, error) {
	var matches []string
	for _, label := range labels {
		if !strings.Contains(strings.ToLower(label), substr) {
			continue
		}
		parts := strings.Split(label, ":")
		matches = append(matches, strings.TrimSpace(parts[len(parts)-1]))
	}
	if len(matches) > 1 {
		return nil, AmbiguousFieldError{Label: substr, Matches: matches}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

// extractMarketValueHistory recovers the value time series from the embedded
// chart-configuration script. The config is not well-formed JSON, so points
// are recovered positionally from the "y": segments, mirroring the layout of
// the inline Highcharts call. Nil when the chart is absent.
func extractMarketValueHistory(doc *goquery.Document) []MarketValue {
	var raw string
	doc.Find("script[type='text/javascript']").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		text := script.Text()
		if strings.Contains(text, "Highcharts.Chart") {
			raw = text
			return false
		}
		return true
	})
	if raw == "" {
		return nil
	}

	history := []MarketValue{}
	segments := strings.Split(raw, `"y":`)
	if len(segments) <= 4 {
		return history
	}
	for _, seg := range segments[2 : len(segments)-2] {
		value, err := strconv.Atoi(strings.TrimSpace(strings.Split(seg, ",")[0]))
		if err != nil {
			continue
		}
		dateParts := strings.Split(seg, `"datum_mw":`)
		date := strings.Split(dateParts[len(dateParts)-1], `,"x`)[0]
		date = strings.ReplaceAll(date, `\x20`, " ")
		date = strings.ReplaceAll(date, `"`, "")
		history = append(history, MarketValue{Date: date, Value: value})
	}
	return history
}

// extractTransferHistory reads one transfer per grid block. Cells are the
// blank-line-separated text chunks of the block; the trailing filler column
// the site appends is dropped.
func extractTransferHistory(doc *goquery.Document) []Transfer {
	var transfers []Transfer
	doc.Find("div.grid.tm-player-transfer-history-grid").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		for _, chunk := range strings.Split(row.Text(), "\n\n") {
			if chunk == "" {
				continue
			}
			cells = append(cells, strings.TrimSpace(chunk))
		}
		cell := func(i int) string {
			if i < len(cells) {
				return cells[i]
			}
			return ""
		}
		transfers = append(transfers, Transfer{
			Season:      cell(0),
			Date:        cell(1),
			Left:        cell(2),
			Joined:      cell(3),
			MarketValue: cell(4),
			Fee:         cell(5),
		})
	})
	return transfers
}
