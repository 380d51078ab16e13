package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ftbldata/tmscraper/internal/observability"
	"github.com/ftbldata/tmscraper/internal/scraper"
	"github.com/ftbldata/tmscraper/internal/store"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, observability.Snapshot())
}

func (s *Server) handleListCompetitions(w http.ResponseWriter, r *http.Request) {
	type competition struct {
		Code string `json:"code"`
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	items := []competition{}
	for _, c := range s.registry.All() {
		items = append(items, competition{Code: c.Code, Name: c.Name, URL: c.BaseURL})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) handleListSeasons(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	seasons, err := s.tm.ValidSeasons(r.Context(), code)
	if err != nil {
		respondScrapeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"labels": seasons.Labels,
		"ids":    seasons.IDs,
	})
}

func (s *Server) handleClubLinks(w http.ResponseWriter, r *http.Request) {
	s.respondLinks(w, r, s.tm.ClubLinks)
}

func (s *Server) handlePlayerLinks(w http.ResponseWriter, r *http.Request) {
	s.respondLinks(w, r, s.tm.PlayerLinks)
}

func (s *Server) handleMatchLinks(w http.ResponseWriter, r *http.Request) {
	s.respondLinks(w, r, s.tm.MatchLinks)
}

func (s *Server) respondLinks(w http.ResponseWriter, r *http.Request,
	fetch func(ctx context.Context, competition, season string) ([]string, error)) {
	code := chi.URLParam(r, "code")
	season := chi.URLParam(r, "season")

	links, err := fetch(r.Context(), code, season)
	if err != nil {
		respondScrapeError(w, err)
		return
	}
	if links == nil {
		links = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": links,
		"total": len(links),
	})
}

func parsePagination(r *http.Request, defaultLimit int) (int, int) {
	q := r.URL.Query()
	limit := defaultLimit
	offset := 0

	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *Server) handleScrapeSeason(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	season := chi.URLParam(r, "season")

	players, err := s.tm.ScrapePlayers(r.Context(), code, season)
	if err != nil {
		respondScrapeError(w, err)
		return
	}

	if err := s.store.SavePlayers(r.Context(), code, season, players); err != nil {
		observability.IncError(observability.ErrorStore, "api")
		respondError(w, http.StatusInternalServerError, "Failed to persist players: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"competition": code,
		"season":      season,
		"players":     len(players),
	})
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r, 20)
	competition := r.URL.Query().Get("competition")
	season := r.URL.Query().Get("season")

	rows, total, err := s.store.GetPlayers(r.Context(), competition, season, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch players: "+err.Error())
		return
	}
	if rows == nil {
		rows = []store.PlayerRow{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":  rows,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

// respondScrapeError maps the scraper's typed errors onto HTTP statuses:
// unknown competition/season are 404s carrying the valid values, upstream
// fetch failures are 502s, everything else is a 500.
func respondScrapeError(w http.ResponseWriter, err error) {
	var invalidComp scraper.InvalidCompetitionError
	if errors.As(err, &invalidComp) {
		respondJSON(w, http.StatusNotFound, map[string]interface{}{
			"error":              invalidComp.Error(),
			"valid_competitions": invalidComp.Valid,
		})
		return
	}
	var invalidSeason scraper.InvalidSeasonError
	if errors.As(err, &invalidSeason) {
		respondJSON(w, http.StatusNotFound, map[string]interface{}{
			"error":         invalidSeason.Error(),
			"valid_seasons": invalidSeason.Valid,
		})
		return
	}
	if kind := observability.ClassifyScrapeError(err); kind == observability.ErrorNetwork || kind == observability.ErrorRateLimit {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}
