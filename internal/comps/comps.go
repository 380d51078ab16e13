package comps

import (
	"sort"

	"github.com/ftbldata/tmscraper/internal/scraper"
)

// Competition is one entry of the competition registry: a stable short code
// mapped to the Transfermarkt landing page for that league or tournament.
type Competition struct {
	Code    string
	Name    string
	BaseURL string
}

// Registry is the injected competition lookup table. It is immutable after
// construction; extractors receive it rather than reading package globals.
type Registry struct {
	byCode map[string]Competition
}

func NewRegistry(competitions []Competition) *Registry {
	byCode := make(map[string]Competition, len(competitions))
	for _, c := range competitions {
		byCode[c.Code] = c
	}
	return &Registry{byCode: byCode}
}

// Default returns the built-in competition set.
func Default() *Registry {
	return NewRegistry(defaultCompetitions)
}

// BaseURL resolves a competition code to its landing page URL.
func (r *Registry) BaseURL(code string) (string, error) {
	c, ok := r.byCode[code]
	if !ok {
		return "", scraper.InvalidCompetitionError{Competition: code, Valid: r.Codes()}
	}
	return c.BaseURL, nil
}

func (r *Registry) Get(code string) (Competition, bool) {
	c, ok := r.byCode[code]
	return c, ok
}

// Codes returns all known competition codes, sorted.
func (r *Registry) Codes() []string {
	out := make([]string, 0, len(r.byCode))
	for code := range r.byCode {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) All() []Competition {
	out := make([]Competition, 0, len(r.byCode))
	for _, code := range r.Codes() {
		out = append(out, r.byCode[code])
	}
	return out
}

var defaultCompetitions = []Competition{
	{Code: "EPL", Name: "Premier League", BaseURL: "https://www.transfermarkt.us/premier-league/startseite/wettbewerb/GB1"},
	{Code: "EFL Championship", Name: "EFL Championship", BaseURL: "https://www.transfermarkt.us/championship/startseite/wettbewerb/GB2"},
	{Code: "La Liga", Name: "LaLiga", BaseURL: "https://www.transfermarkt.us/laliga/startseite/wettbewerb/ES1"},
	{Code: "La Liga 2", Name: "LaLiga2", BaseURL: "https://www.transfermarkt.us/laliga2/startseite/wettbewerb/ES2"},
	{Code: "Bundesliga", Name: "Bundesliga", BaseURL: "https://www.transfermarkt.us/bundesliga/startseite/wettbewerb/L1"},
	{Code: "2. Bundesliga", Name: "2. Bundesliga", BaseURL: "https://www.transfermarkt.us/2-bundesliga/startseite/wettbewerb/L2"},
	{Code: "Serie A", Name: "Serie A", BaseURL: "https://www.transfermarkt.us/serie-a/startseite/wettbewerb/IT1"},
	{Code: "Serie B", Name: "Serie B", BaseURL: "https://www.transfermarkt.us/serie-b/startseite/wettbewerb/IT2"},
	{Code: "Ligue 1", Name: "Ligue 1", BaseURL: "https://www.transfermarkt.us/ligue-1/startseite/wettbewerb/FR1"},
	{Code: "Ligue 2", Name: "Ligue 2", BaseURL: "https://www.transfermarkt.us/ligue-2/startseite/wettbewerb/FR2"},
	{Code: "Eredivisie", Name: "Eredivisie", BaseURL: "https://www.transfermarkt.us/eredivisie/startseite/wettbewerb/NL1"},
	{Code: "Liga Nos", Name: "Liga Portugal", BaseURL: "https://www.transfermarkt.us/liga-portugal/startseite/wettbewerb/PO1"},
	{Code: "Scottish PL", Name: "Scottish Premiership", BaseURL: "https://www.transfermarkt.us/scottish-premiership/startseite/wettbewerb/SC1"},
	{Code: "Super Lig", Name: "Süper Lig", BaseURL: "https://www.transfermarkt.us/super-lig/startseite/wettbewerb/TR1"},
	{Code: "Jupiler Pro League", Name: "Jupiler Pro League", BaseURL: "https://www.transfermarkt.us/jupiler-pro-league/startseite/wettbewerb/BE1"},
	{Code: "MLS", Name: "Major League Soccer", BaseURL: "https://www.transfermarkt.us/major-league-soccer/startseite/wettbewerb/MLS1"},
	{Code: "Brazilian Serie A", Name: "Campeonato Brasileiro Série A", BaseURL: "https://www.transfermarkt.us/campeonato-brasileiro-serie-a/startseite/wettbewerb/BRA1"},
	{Code: "Argentina Liga Profesional", Name: "Liga Profesional de Fútbol", BaseURL: "https://www.transfermarkt.us/liga-profesional-de-futbol/startseite/wettbewerb/AR1N"},
	{Code: "Liga MX", Name: "Liga MX Clausura", BaseURL: "https://www.transfermarkt.us/liga-mx-clausura/startseite/wettbewerb/MEXA"},
	{Code: "Saudi Pro League", Name: "Saudi Pro League", BaseURL: "https://www.transfermarkt.us/saudi-pro-league/startseite/wettbewerb/SA1"},
	{Code: "Champions League", Name: "UEFA Champions League", BaseURL: "https://www.transfermarkt.us/uefa-champions-league/startseite/pokalwettbewerb/CL"},
	{Code: "Europa League", Name: "UEFA Europa League", BaseURL: "https://www.transfermarkt.us/europa-league/startseite/pokalwettbewerb/EL"},
}
