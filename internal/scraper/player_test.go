package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/ftbldata/tmscraper/internal/httpx"
)

func newProfileScraper(t *testing.T, path, fixtureName string) (*Transfermarkt, string) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(path, serveFixture(t, fixtureName))
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	tm := NewWithClients(fakeComps{}, nil, httpx.NewCollyFetcher(""), ts.URL)
	return tm, ts.URL + path
}

func TestScrapePlayer(t *testing.T) {
	tm, playerURL := newProfileScraper(t, "/vini-test/profil/spieler/371998", "player.html")

	p, err := tm.ScrapePlayer(context.Background(), playerURL)
	require.NoError(t, err)

	require.Equal(t, "Vini Test", p.Name)
	require.Equal(t, "371998", p.ID)
	require.Equal(t, playerURL, p.URL)

	require.NotNil(t, p.Value)
	require.Equal(t, "€60.00m", *p.Value)
	require.NotNil(t, p.ValueLastUpdated)
	require.Equal(t, "Dec 19, 2023", *p.ValueLastUpdated)

	require.NotNil(t, p.DateOfBirth)
	require.Equal(t, "Jul 12, 2000", *p.DateOfBirth)
	require.NotNil(t, p.Age)
	require.Equal(t, 25, *p.Age)

	require.NotNil(t, p.HeightMeters)
	require.InDelta(t, 1.76, *p.HeightMeters, 1e-9)

	require.NotNil(t, p.Nationality)
	require.Equal(t, "Brazil", *p.Nationality)
	require.Equal(t, []string{"Brazil", "Spain"}, p.Citizenship)

	require.Equal(t, "Left Winger", p.Position)
	require.Equal(t, []string{"Left Winger", "Centre-Forward"}, p.OtherPositions)

	require.NotNil(t, p.Team)
	require.Equal(t, "Club Alpha", *p.Team)

	require.Nil(t, p.LastClub)
	require.Nil(t, p.Since)
	require.NotNil(t, p.Joined)
	require.Equal(t, "Jul 12, 2018", *p.Joined)
	require.NotNil(t, p.ContractExpiration)
	require.Equal(t, "Jun 30, 2027", *p.ContractExpiration)

	require.Equal(t, []MarketValue{
		{Date: "Dec 15, 2016", Value: 250000},
		{Date: "Jun 1, 2017", Value: 500000},
	}, p.MarketValueHistory)

	require.Equal(t, []Transfer{
		{Season: "23/24", Date: "Jul 1, 2023", Left: "Club Beta", Joined: "Club Alpha", MarketValue: "€45.00m", Fee: "€60.00m"},
		{Season: "18/19", Date: "Jul 12, 2018", Left: "Youth Academy", Joined: "Club Beta", MarketValue: "-", Fee: "free transfer"},
	}, p.TransferHistory)
}

func TestScrapePlayerFetchError(t *testing.T) {
	tm, _ := newProfileScraper(t, "/vini-test/profil/spieler/371998", "player.html")

	ts := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(ts.Close)

	_, err := tm.ScrapePlayer(context.Background(), ts.URL+"/gone/profil/spieler/1")
	require.Error(t, err)
	var fetchErr *httpx.FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusNotFound, fetchErr.Status)
}

func TestParseHeight(t *testing.T) {
	cases := []struct {
		in   string
		want *float64
	}{
		{"1,85 m", ptrFloat(1.85)},
		{"1,76 m", ptrFloat(1.76)},
		{"2,01 m", ptrFloat(2.01)},
		{"N/A", nil},
		{"- m", nil},
		{"", nil},
		{"tall", nil},
	}
	for _, tc := range cases {
		got := parseHeight(tc.in)
		if tc.want == nil {
			require.Nil(t, got, "input %q", tc.in)
			continue
		}
		require.NotNil(t, got, "input %q", tc.in)
		require.InDelta(t, *tc.want, *got, 1e-9, "input %q", tc.in)
	}
}

func ptrFloat(v float64) *float64 { return &v }

func TestScanHeaderLabels(t *testing.T) {
	labels := []string{
		"Joined: Jul 1, 2020",
		"Contract expires: Jun 30, 2026",
	}

	got, err := scanHeaderLabels(labels, "joined")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Jul 1, 2020", *got)

	got, err = scanHeaderLabels(labels, "last club")
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = scanHeaderLabels(append(labels, "Joined: Aug 2, 2021"), "joined")
	var ambiguous AmbiguousFieldError
	require.ErrorAs(t, err, &ambiguous)
	require.Equal(t, "joined", ambiguous.Label)
	require.Len(t, ambiguous.Matches, 2)
}

func TestExtractMarketValueHistoryAbsentChart(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body><p>no chart</p></body></html>"))
	require.NoError(t, err)
	require.Nil(t, extractMarketValueHistory(doc))
}

func TestExtractMarketValueHistoryEmptyChart(t *testing.T) {
	page := `<html><body><script type="text/javascript">
		var chart = new Highcharts.Chart({"series":[{"data":[]}]});
	</script></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	history := extractMarketValueHistory(doc)
	require.NotNil(t, history)
	require.Empty(t, history)
}

func TestSlugTitle(t *testing.T) {
	require.Equal(t, "Erik Ten Hag", slugTitle("https://example.org/erik-ten-hag/profil/trainer/3816"))
	require.Equal(t, "Vini Test", slugTitle("https://example.org/vini-test/profil/spieler/371998"))
	require.Equal(t, "", slugTitle("https://example.org"))
}
