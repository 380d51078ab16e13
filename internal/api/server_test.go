package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/ftbldata/tmscraper/internal/comps"
	"github.com/ftbldata/tmscraper/internal/httpx"
	"github.com/ftbldata/tmscraper/internal/scraper"
)

const seasonPage = `<html><body>
<select name="saison_id">
  <option value="2023">2023</option>
  <option value="2022">2022</option>
</select>
</body></html>`

const clubsPage = `<html><body>
<table class="items"><tbody>
<tr><td class="hauptlink no-border-links"><a href="/club-alpha/startseite/verein/11">Club Alpha</a></td></tr>
<tr><td class="hauptlink no-border-links"><a href="/club-beta/startseite/verein/12">Club Beta</a></td></tr>
</tbody></table>
</body></html>`

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/test-league/startseite/wettbewerb/T1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(seasonPage))
	})
	mux.HandleFunc("/test-league/startseite/wettbewerb/T1/plus/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(clubsPage))
	})
	site := httptest.NewServer(mux)
	t.Cleanup(site.Close)

	registry := comps.NewRegistry([]comps.Competition{
		{Code: "TL", Name: "Test League", BaseURL: site.URL + "/test-league/startseite/wettbewerb/T1"},
	})

	listing := httpx.NewChallengeClient()
	listing.SetRateLimit(rate.Inf, 1)
	tm := scraper.NewWithClients(registry, listing, httpx.NewCollyFetcher(""), site.URL)

	return NewServer(nil, registry, tm), site.URL
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
}

func TestListCompetitions(t *testing.T) {
	s, site := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/competitions")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	require.Equal(t, "TL", first["code"])
	require.Equal(t, "Test League", first["name"])
	require.Equal(t, site+"/test-league/startseite/wettbewerb/T1", first["url"])
}

func TestListSeasons(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/competitions/TL/seasons")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, []interface{}{"2023", "2022"}, body["labels"])
	ids := body["ids"].(map[string]interface{})
	require.Equal(t, "2023", ids["2023"])
}

func TestListSeasonsUnknownCompetition(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/competitions/XX/seasons")
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody(t, rec)
	require.Contains(t, body["error"], "invalid competition")
	require.Equal(t, []interface{}{"TL"}, body["valid_competitions"])
}

func TestClubLinksEndpoint(t *testing.T) {
	s, site := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/competitions/TL/seasons/2023/clubs")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, float64(2), body["total"])
	items := body["items"].([]interface{})
	require.Equal(t, site+"/club-alpha/startseite/verein/11", items[0])
	require.Equal(t, site+"/club-beta/startseite/verein/12", items[1])
}

func TestClubLinksInvalidSeason(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/competitions/TL/seasons/1999/clubs")
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody(t, rec)
	require.Contains(t, body["error"], "invalid season")
	require.Equal(t, []interface{}{"2023", "2022"}, body["valid_seasons"])
}

func TestStats(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body, "pages_fetched")
	require.Contains(t, body, "errors_total")
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/players?limit=5&offset=10", nil)
	limit, offset := parsePagination(req, 20)
	require.Equal(t, 5, limit)
	require.Equal(t, 10, offset)

	req = httptest.NewRequest(http.MethodGet, "/players?limit=-1&offset=-3", nil)
	limit, offset = parsePagination(req, 20)
	require.Equal(t, 20, limit)
	require.Equal(t, 0, offset)

	req = httptest.NewRequest(http.MethodGet, "/players", nil)
	limit, offset = parsePagination(req, 20)
	require.Equal(t, 20, limit)
	require.Equal(t, 0, offset)
}
