package scraper

import (
	"context"
	"embed"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/ftbldata/tmscraper/internal/httpx"
)

//go:embed testdata
var fixtures embed.FS

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	body, err := fixtures.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return body
}

// fakeComps keeps the resolver local so the scraper package stays decoupled
// from the concrete registry.
type fakeComps struct {
	base map[string]string
}

func (f fakeComps) BaseURL(code string) (string, error) {
	u, ok := f.base[code]
	if !ok {
		return "", InvalidCompetitionError{Competition: code, Valid: f.Codes()}
	}
	return u, nil
}

func (f fakeComps) Codes() []string {
	codes := make([]string, 0, len(f.base))
	for code := range f.base {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func serveFixture(t *testing.T, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(fixture(t, name))
	}
}

func newSiteScraper(t *testing.T) (*Transfermarkt, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/test-league/startseite/wettbewerb/T1", serveFixture(t, "competition.html"))
	mux.HandleFunc("/test-league/startseite/wettbewerb/T1/plus/", func(w http.ResponseWriter, r *http.Request) {
		name := "roster.html"
		if r.URL.Query().Get("saison_id") == "2022" {
			name = "roster_empty.html"
		}
		serveFixture(t, name)(w, r)
	})
	mux.HandleFunc("/test-league/gesamtspielplan/wettbewerb/T1/saison_id/2023", serveFixture(t, "fixtures.html"))
	mux.HandleFunc("/club-alpha/startseite/verein/11/saison_id/2023", serveFixture(t, "club_alpha.html"))
	mux.HandleFunc("/club-beta/startseite/verein/12/saison_id/2023", serveFixture(t, "club_beta.html"))
	mux.HandleFunc("/club-gamma/startseite/verein/13/saison_id/2023", serveFixture(t, "club_gamma.html"))
	mux.HandleFunc("/bare/startseite/wettbewerb/N1", serveFixture(t, "roster_empty.html"))

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	listing := httpx.NewChallengeClient()
	listing.SetRateLimit(rate.Inf, 1)

	comps := fakeComps{base: map[string]string{
		"TL":    ts.URL + "/test-league/startseite/wettbewerb/T1",
		"NOSEL": ts.URL + "/bare/startseite/wettbewerb/N1",
	}}
	return NewWithClients(comps, listing, httpx.NewCollyFetcher(""), ts.URL), ts
}

func TestValidSeasons(t *testing.T) {
	tm, _ := newSiteScraper(t)

	seasons, err := tm.ValidSeasons(context.Background(), "TL")
	require.NoError(t, err)
	require.Equal(t, []string{"2023/2024", "2022/2023"}, seasons.Labels)
	require.Equal(t, "2023", seasons.IDs["2023/2024"])
	require.Equal(t, "2022", seasons.IDs["2022/2023"])
	require.True(t, seasons.Has("2023/2024"))
	require.False(t, seasons.Has("1999/2000"))
}

func TestValidSeasonsUnknownCompetition(t *testing.T) {
	tm, _ := newSiteScraper(t)

	_, err := tm.ValidSeasons(context.Background(), "XX")
	var invalid InvalidCompetitionError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "XX", invalid.Competition)
	require.Equal(t, []string{"NOSEL", "TL"}, invalid.Valid)
}

func TestValidSeasonsMissingSelector(t *testing.T) {
	tm, _ := newSiteScraper(t)

	_, err := tm.ValidSeasons(context.Background(), "NOSEL")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no season selector found")
}

func TestClubLinks(t *testing.T) {
	tm, ts := newSiteScraper(t)

	links, err := tm.ClubLinks(context.Background(), "TL", "2023/2024")
	require.NoError(t, err)
	require.Equal(t, []string{
		ts.URL + "/club-alpha/startseite/verein/11/saison_id/2023",
		ts.URL + "/club-beta/startseite/verein/12/saison_id/2023",
		ts.URL + "/club-gamma/startseite/verein/13/saison_id/2023",
	}, links)
}

func TestClubLinksInvalidSeason(t *testing.T) {
	tm, _ := newSiteScraper(t)

	_, err := tm.ClubLinks(context.Background(), "TL", "1999/2000")
	var invalid InvalidSeasonError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "1999/2000", invalid.Season)
	require.Equal(t, "TL", invalid.Competition)
	require.Equal(t, []string{"2023/2024", "2022/2023"}, invalid.Valid)
}

func TestClubLinksMissingTable(t *testing.T) {
	tm, _ := newSiteScraper(t)

	links, err := tm.ClubLinks(context.Background(), "TL", "2022/2023")
	require.NoError(t, err)
	require.Empty(t, links)
	require.NotNil(t, links)
}

func TestPlayerLinks(t *testing.T) {
	tm, ts := newSiteScraper(t)

	links, err := tm.PlayerLinks(context.Background(), "TL", "2023/2024")
	require.NoError(t, err)
	require.Equal(t, []string{
		ts.URL + "/anders-first/profil/spieler/101",
		ts.URL + "/bruno-second/profil/spieler/102",
		ts.URL + "/carlos-third/profil/spieler/103",
	}, links)
}

func TestMatchLinks(t *testing.T) {
	tm, ts := newSiteScraper(t)

	links, err := tm.MatchLinks(context.Background(), "TL", "2023/2024")
	require.NoError(t, err)
	require.Equal(t, []string{
		ts.URL + "/spielbericht/index/spielbericht/9001",
		ts.URL + "/spielbericht/index/spielbericht/9002",
	}, links)
}

func TestMatchLinksInvalidSeason(t *testing.T) {
	tm, _ := newSiteScraper(t)

	_, err := tm.MatchLinks(context.Background(), "TL", "1899/1900")
	var invalid InvalidSeasonError
	require.ErrorAs(t, err, &invalid)
}
