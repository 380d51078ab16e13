package scraper

import (
	"context"

	"github.com/ftbldata/tmscraper/internal/tabular"
)

// CompetitionResolver maps a competition code to its landing page URL. The
// concrete table lives in internal/comps and is injected, never read from
// package state.
type CompetitionResolver interface {
	BaseURL(code string) (string, error)
	Codes() []string
}

// SeasonMap maps human-readable season labels to the site's internal season
// identifiers. Labels preserves markup order, which maps do not.
type SeasonMap struct {
	Labels []string
	IDs    map[string]string
}

func (m SeasonMap) Has(label string) bool {
	_, ok := m.IDs[label]
	return ok
}

// MarketValue is one point of a player's market-value time series.
type MarketValue struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// Transfer is one row of a player's transfer history.
type Transfer struct {
	Season      string `json:"season"`
	Date        string `json:"date"`
	Left        string `json:"left"`
	Joined      string `json:"joined"`
	MarketValue string `json:"market_value"`
	Fee         string `json:"fee"`
}

// Player is one extracted profile. Every field except Name, ID and URL is
// optional: nil means the corresponding element was absent from the page,
// which is never an error by itself.
type Player struct {
	Name               string        `json:"name"`
	ID                 string        `json:"id"`
	URL                string        `json:"url"`
	Value              *string       `json:"value"`
	ValueLastUpdated   *string       `json:"value_last_updated"`
	DateOfBirth        *string       `json:"date_of_birth"`
	Age                *int          `json:"age"`
	HeightMeters       *float64      `json:"height_m"`
	Nationality        *string       `json:"nationality"`
	Citizenship        []string      `json:"citizenship"`
	Position           string        `json:"position"`
	OtherPositions     []string      `json:"other_positions"`
	Team               *string       `json:"team"`
	LastClub           *string       `json:"last_club"`
	Since              *string       `json:"since"`
	Joined             *string       `json:"joined"`
	ContractExpiration *string       `json:"contract_expiration"`
	MarketValueHistory []MarketValue `json:"market_value_history"`
	TransferHistory    []Transfer    `json:"transfer_history"`
}

// TrainerProfile is one extracted trainer record: a curated set of
// well-known normalized keys plus whatever extra labels the header exposed.
type TrainerProfile struct {
	TrainerName        *string           `json:"trainer_name"`
	SourceURL          string            `json:"source_url"`
	FullNameNative     *string           `json:"full_name_native"`
	DateOfBirthAge     *string           `json:"date_of_birth_age"`
	PlaceOfBirth       *string           `json:"place_of_birth"`
	Citizenship        *string           `json:"citizenship"`
	AvgTermAsTrainer   *string           `json:"avg_term_as_trainer"`
	TraineringLicence  *string           `json:"trainering_licence"`
	PreferredFormation *string           `json:"preferred_formation"`
	Extra              map[string]string `json:"extra,omitempty"`
}

// LinkSource lists a competition season's pages.
type LinkSource interface {
	ValidSeasons(ctx context.Context, competition string) (SeasonMap, error)
	ClubLinks(ctx context.Context, competition, season string) ([]string, error)
	PlayerLinks(ctx context.Context, competition, season string) ([]string, error)
	MatchLinks(ctx context.Context, competition, season string) ([]string, error)
}

// ProfileScraper extracts single-entity records.
type ProfileScraper interface {
	ScrapePlayer(ctx context.Context, playerURL string) (Player, error)
	ScrapeTrainer(ctx context.Context, trainerURL string) (TrainerProfile, error)
	ScrapeTrainerHistory(ctx context.Context, trainerURL string) (*tabular.Table, error)
}
