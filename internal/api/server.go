package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ftbldata/tmscraper/internal/comps"
	"github.com/ftbldata/tmscraper/internal/scraper"
	"github.com/ftbldata/tmscraper/internal/store"
)

type Server struct {
	router   *chi.Mux
	store    *store.Store
	registry *comps.Registry
	tm       *scraper.Transfermarkt
}

func NewServer(store *store.Store, registry *comps.Registry, tm *scraper.Transfermarkt) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		store:    store,
		registry: registry,
		tm:       tm,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/stats", s.handleStats)
	s.router.Get("/competitions", s.handleListCompetitions)
	s.router.Get("/competitions/{code}/seasons", s.handleListSeasons)
	s.router.Get("/competitions/{code}/seasons/{season}/clubs", s.handleClubLinks)
	s.router.Get("/competitions/{code}/seasons/{season}/players", s.handlePlayerLinks)
	s.router.Get("/competitions/{code}/seasons/{season}/matches", s.handleMatchLinks)
	s.router.Post("/scrape/{code}/{season}", s.handleScrapeSeason)
	s.router.Get("/players", s.handleListPlayers)
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
