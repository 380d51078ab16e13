package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/ftbldata/tmscraper/internal/scraper"
)

type Store struct {
	db *sql.DB
}

func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) RunMigrations(schemaPath string) error {
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

func clampLimit(limit int, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// PlayerRow is one persisted player record. Nested histories are stored as
// JSONB alongside the scalar profile fields.
type PlayerRow struct {
	ID          int            `json:"id"`
	Competition string         `json:"competition"`
	Season      string         `json:"season"`
	ScrapedAt   time.Time      `json:"scraped_at"`
	Player      scraper.Player `json:"player"`
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SavePlayer upserts a scraped player keyed by profile URL.
func (s *Store) SavePlayer(ctx context.Context, competition, season string, p scraper.Player) error {
	return savePlayer(ctx, s.db, competition, season, p)
}

func savePlayer(ctx context.Context, db execer, competition, season string, p scraper.Player) error {
	citizenship, err := json.Marshal(p.Citizenship)
	if err != nil {
		return err
	}
	marketValues, err := json.Marshal(p.MarketValueHistory)
	if err != nil {
		return err
	}
	transfers, err := json.Marshal(p.TransferHistory)
	if err != nil {
		return err
	}
	otherPositions, err := json.Marshal(p.OtherPositions)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
INSERT INTO players (
    url, player_id, competition, season, name, value, value_last_updated,
    dob, age, height_m, nationality, citizenship, position, other_positions,
    team, last_club, since, joined, contract_expiration,
    market_value_history, transfer_history, scraped_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, NOW())
ON CONFLICT (url) DO UPDATE SET
    player_id = EXCLUDED.player_id,
    competition = EXCLUDED.competition,
    season = EXCLUDED.season,
    name = EXCLUDED.name,
    value = EXCLUDED.value,
    value_last_updated = EXCLUDED.value_last_updated,
    dob = EXCLUDED.dob,
    age = EXCLUDED.age,
    height_m = EXCLUDED.height_m,
    nationality = EXCLUDED.nationality,
    citizenship = EXCLUDED.citizenship,
    position = EXCLUDED.position,
    other_positions = EXCLUDED.other_positions,
    team = EXCLUDED.team,
    last_club = EXCLUDED.last_club,
    since = EXCLUDED.since,
    joined = EXCLUDED.joined,
    contract_expiration = EXCLUDED.contract_expiration,
    market_value_history = EXCLUDED.market_value_history,
    transfer_history = EXCLUDED.transfer_history,
    scraped_at = NOW()
`, p.URL, p.ID, competition, season, p.Name, p.Value, p.ValueLastUpdated,
		p.DateOfBirth, p.Age, p.HeightMeters, p.Nationality, citizenship,
		p.Position, otherPositions, p.Team, p.LastClub, p.Since, p.Joined,
		p.ContractExpiration, marketValues, transfers)
	return err
}

// SavePlayers persists a whole aggregation result in one transaction.
func (s *Store) SavePlayers(ctx context.Context, competition, season string, players []scraper.Player) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range players {
		if err := savePlayer(ctx, tx, competition, season, p); err != nil {
			return fmt.Errorf("save player %s: %w", p.URL, err)
		}
	}
	return tx.Commit()
}

// GetPlayers lists stored players, optionally filtered by competition and
// season, newest scrape first.
func (s *Store) GetPlayers(ctx context.Context, competition, season string, limit, offset int) ([]PlayerRow, int, error) {
	limit = clampLimit(limit, 20, 200)
	if offset < 0 {
		offset = 0
	}

	var total int
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM players
WHERE ($1 = '' OR competition = $1) AND ($2 = '' OR season = $2)
`, competition, season).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT
    id, competition, season, scraped_at,
    url, player_id, name, value, value_last_updated, dob, age, height_m,
    nationality, citizenship, position, other_positions, team, last_club,
    since, joined, contract_expiration, market_value_history, transfer_history
FROM players
WHERE ($1 = '' OR competition = $1) AND ($2 = '' OR season = $2)
ORDER BY scraped_at DESC, id ASC
LIMIT $3 OFFSET $4
`, competition, season, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []PlayerRow
	for rows.Next() {
		var (
			row            PlayerRow
			age            sql.NullInt64
			height         sql.NullFloat64
			value          sql.NullString
			valueUpdated   sql.NullString
			dob            sql.NullString
			nationality    sql.NullString
			team           sql.NullString
			lastClub       sql.NullString
			since          sql.NullString
			joined         sql.NullString
			contractExp    sql.NullString
			citizenship    []byte
			otherPositions []byte
			marketValues   []byte
			transfers      []byte
		)

		if err := rows.Scan(
			&row.ID,
			&row.Competition,
			&row.Season,
			&row.ScrapedAt,
			&row.Player.URL,
			&row.Player.ID,
			&row.Player.Name,
			&value,
			&valueUpdated,
			&dob,
			&age,
			&height,
			&nationality,
			&citizenship,
			&row.Player.Position,
			&otherPositions,
			&team,
			&lastClub,
			&since,
			&joined,
			&contractExp,
			&marketValues,
			&transfers,
		); err != nil {
			return nil, 0, err
		}

		row.Player.Value = nullStr(value)
		row.Player.ValueLastUpdated = nullStr(valueUpdated)
		row.Player.DateOfBirth = nullStr(dob)
		row.Player.Nationality = nullStr(nationality)
		row.Player.Team = nullStr(team)
		row.Player.LastClub = nullStr(lastClub)
		row.Player.Since = nullStr(since)
		row.Player.Joined = nullStr(joined)
		row.Player.ContractExpiration = nullStr(contractExp)
		if age.Valid {
			n := int(age.Int64)
			row.Player.Age = &n
		}
		if height.Valid {
			h := height.Float64
			row.Player.HeightMeters = &h
		}
		if len(citizenship) > 0 {
			_ = json.Unmarshal(citizenship, &row.Player.Citizenship)
		}
		if len(otherPositions) > 0 {
			_ = json.Unmarshal(otherPositions, &row.Player.OtherPositions)
		}
		if len(marketValues) > 0 {
			_ = json.Unmarshal(marketValues, &row.Player.MarketValueHistory)
		}
		if len(transfers) > 0 {
			_ = json.Unmarshal(transfers, &row.Player.TransferHistory)
		}

		out = append(out, row)
	}
	return out, total, rows.Err()
}

// DeleteStalePlayers removes rows not refreshed within the retention window.
func (s *Store) DeleteStalePlayers(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res, err := s.db.ExecContext(ctx, `
DELETE FROM players
WHERE scraped_at < $1
`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
