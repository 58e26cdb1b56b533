package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfldb/internal/cache"
	"github.com/gridironlabs/nfldb/internal/store"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server. The Redis cache may be nil.
func NewServer(port string, db *store.Database, redisCache *cache.RedisCache, corsOrigin string, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	handler := NewHandler(db, redisCache, log)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggingMiddleware(log))
	router.Use(CORSMiddleware(corsOrigin))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/seasons", handler.ListSeasons).Methods("GET")
	api.HandleFunc("/weeks", handler.ListWeeks).Methods("GET")
	api.HandleFunc("/games", handler.ListGames).Methods("GET")
	api.HandleFunc("/games/{gameID}", handler.GetGame).Methods("GET")
	api.HandleFunc("/team-stats", handler.ListTeamStats).Methods("GET")
	api.HandleFunc("/players", handler.SearchPlayers).Methods("GET")
	api.HandleFunc("/players/{playerID}/timeline", handler.GetPlayerTimeline).Methods("GET")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
