package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfldb/internal/cache"
	"github.com/gridironlabs/nfldb/internal/service"
	"github.com/gridironlabs/nfldb/internal/store"
	"github.com/gridironlabs/nfldb/internal/store/repository"
)

// earliestSeason bounds the season query parameter.
const earliestSeason = 1920

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db            *store.Database
	seasonService *service.SeasonService
	gameService   *service.GameService
	playerService *service.PlayerService
	statsService  *service.StatsService
}

// NewHandler creates a new handler. The Redis cache may be nil.
func NewHandler(db *store.Database, redisCache *cache.RedisCache, log *logrus.Entry) *Handler {
	return &Handler{
		db:            db,
		seasonService: service.NewSeasonService(db, redisCache, log),
		gameService:   service.NewGameService(db, redisCache, log),
		playerService: service.NewPlayerService(db, redisCache, log),
		statsService:  service.NewStatsService(db, redisCache, log),
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		respondDetail(w, http.StatusInternalServerError, "database unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListSeasons returns seasons that have finalized games
func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.seasonService.ListSeasons(r.Context())
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]seasonResponse, 0, len(seasons))
	for _, season := range seasons {
		response = append(response, seasonResponse{SeasonID: season.SeasonID, Year: season.Year})
	}
	respondJSON(w, http.StatusOK, response)
}

// ListWeeks returns the weeks of one season
func (h *Handler) ListWeeks(w http.ResponseWriter, r *http.Request) {
	season, ok := seasonParam(w, r)
	if !ok {
		return
	}

	weeks, err := h.seasonService.ListWeeks(r.Context(), season)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]weekResponse, 0, len(weeks))
	for _, week := range weeks {
		response = append(response, weekResponse{
			WeekID:     week.WeekID,
			WeekNumber: week.WeekNumber,
			StartDate:  formatDate(week.StartDate),
			EndDate:    formatDate(week.EndDate),
		})
	}
	respondJSON(w, http.StatusOK, response)
}

// ListGames returns one season's games
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	season, ok := seasonParam(w, r)
	if !ok {
		return
	}

	games, err := h.gameService.ListGames(r.Context(), season)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]gameResponse, 0, len(games))
	for _, game := range games {
		response = append(response, toGameResponse(game))
	}
	respondJSON(w, http.StatusOK, response)
}

// GetGame returns a single game by its database ID
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.Atoi(mux.Vars(r)["gameID"])
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "game id must be an integer")
		return
	}

	game, err := h.gameService.GetGame(r.Context(), gameID)
	if errors.Is(err, repository.ErrNotFound) {
		respondDetail(w, http.StatusNotFound, "Game not found")
		return
	}
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, toGameResponse(game))
}

// ListTeamStats returns one season's team box scores
func (h *Handler) ListTeamStats(w http.ResponseWriter, r *http.Request) {
	season, ok := seasonParam(w, r)
	if !ok {
		return
	}

	stats, err := h.statsService.ListTeamStats(r.Context(), season)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]teamStatsResponse, 0, len(stats))
	for _, stat := range stats {
		response = append(response, teamStatsResponse{
			GameID:       stat.GameID,
			Season:       stat.Season,
			Week:         stat.Week,
			TeamCode:     stat.TeamCode,
			TeamName:     stat.TeamName,
			Points:       stat.Points,
			Yards:        stat.Yards,
			PassYards:    stat.PassYards,
			RushYards:    stat.RushYards,
			SacksMade:    stat.SacksMade,
			SacksAllowed: stat.SacksAllowed,
			Turnovers:    stat.Turnovers,
		})
	}
	respondJSON(w, http.StatusOK, response)
}

// SearchPlayers returns players whose names match the search term
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("search"))
	if len(term) < 2 {
		respondDetail(w, http.StatusBadRequest, "search term must be at least 2 characters")
		return
	}

	players, err := h.playerService.Search(r.Context(), term)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]playerSummaryResponse, 0, len(players))
	for _, player := range players {
		response = append(response, playerSummaryResponse{
			PlayerID: player.PlayerID,
			FullName: player.FullName,
			Position: player.Position,
			TeamCode: player.TeamCode,
			TeamName: player.TeamName,
		})
	}
	respondJSON(w, http.StatusOK, response)
}

// GetPlayerTimeline returns a player's weekly aggregates and team
// stints
func (h *Handler) GetPlayerTimeline(w http.ResponseWriter, r *http.Request) {
	playerID, err := strconv.Atoi(mux.Vars(r)["playerID"])
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "player id must be an integer")
		return
	}

	var season *int
	if raw := r.URL.Query().Get("season"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < earliestSeason {
			respondDetail(w, http.StatusBadRequest, "season must be an integer >= 1920")
			return
		}
		season = &parsed
	}

	timeline, err := h.playerService.Timeline(r.Context(), playerID, season)
	if errors.Is(err, repository.ErrNotFound) {
		respondDetail(w, http.StatusNotFound, "Player not found")
		return
	}
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	entries := make([]timelineEntryResponse, 0, len(timeline.Timeline))
	for _, entry := range timeline.Timeline {
		entries = append(entries, toTimelineEntryResponse(entry))
	}
	events := timeline.TeamEvents
	if events == nil {
		events = []service.TeamEvent{}
	}

	respondJSON(w, http.StatusOK, playerTimelineResponse{
		PlayerID:   timeline.Player.PlayerID,
		FullName:   timeline.Player.FullName,
		Position:   timeline.Player.Position,
		Timeline:   entries,
		TeamEvents: events,
	})
}

// seasonParam parses the required season query parameter, writing a
// 400 response when it is missing or malformed.
func seasonParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("season")
	if raw == "" {
		respondDetail(w, http.StatusBadRequest, "season query parameter is required")
		return 0, false
	}
	season, err := strconv.Atoi(raw)
	if err != nil || season < earliestSeason {
		respondDetail(w, http.StatusBadRequest, "season must be an integer >= 1920")
		return 0, false
	}
	return season, true
}

type seasonResponse struct {
	SeasonID int `json:"season_id"`
	Year     int `json:"year"`
}

type weekResponse struct {
	WeekID     int     `json:"week_id"`
	WeekNumber int     `json:"week_number"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
}

type gameResponse struct {
	GameID        int        `json:"game_id"`
	NflfastGameID *string    `json:"nflfast_game_id"`
	Season        int        `json:"season"`
	Week          int        `json:"week"`
	HomeTeam      string     `json:"home_team"`
	AwayTeam      string     `json:"away_team"`
	HomePoints    *int       `json:"home_points"`
	AwayPoints    *int       `json:"away_points"`
	KickoffTS     *time.Time `json:"kickoff_ts"`
}

type teamStatsResponse struct {
	GameID       int     `json:"game_id"`
	Season       int     `json:"season"`
	Week         int     `json:"week"`
	TeamCode     string  `json:"team_code"`
	TeamName     *string `json:"team_name"`
	Points       *int    `json:"points"`
	Yards        *int    `json:"yards"`
	PassYards    *int    `json:"pass_yards"`
	RushYards    *int    `json:"rush_yards"`
	SacksMade    *int    `json:"sacks_made"`
	SacksAllowed *int    `json:"sacks_allowed"`
	Turnovers    *int    `json:"turnovers"`
}

type playerSummaryResponse struct {
	PlayerID int     `json:"player_id"`
	FullName string  `json:"full_name"`
	Position *string `json:"position"`
	TeamCode *string `json:"team_code"`
	TeamName *string `json:"team_name"`
}

type timelineEntryResponse struct {
	Season      int        `json:"season"`
	Week        int        `json:"week"`
	TeamCode    string     `json:"team_code"`
	TeamName    *string    `json:"team_name"`
	KickoffTS   *time.Time `json:"kickoff_ts"`
	GamesPlayed int        `json:"games_played"`
	PassAtt     int        `json:"pass_att"`
	PassCmp     int        `json:"pass_cmp"`
	PassYds     int        `json:"pass_yds"`
	PassTD      int        `json:"pass_td"`
	IntThrown   int        `json:"int_thrown"`
	RushAtt     int        `json:"rush_att"`
	RushYds     int        `json:"rush_yds"`
	RushTD      int        `json:"rush_td"`
	Targets     int        `json:"targets"`
	Receptions  int        `json:"receptions"`
	RecYds      int        `json:"rec_yds"`
	RecTD       int        `json:"rec_td"`
	Tackles     int        `json:"tackles"`
	Sacks       float64    `json:"sacks"`
	Interceptions int      `json:"interceptions"`
	Fumbles     int        `json:"fumbles"`
	FantasyPPR  float64    `json:"fantasy_ppr"`
	SnapsOff    int        `json:"snaps_off"`
	SnapsDef    int        `json:"snaps_def"`
	SnapsST     int        `json:"snaps_st"`
}

type playerTimelineResponse struct {
	PlayerID   int                     `json:"player_id"`
	FullName   string                  `json:"full_name"`
	Position   *string                 `json:"position"`
	Timeline   []timelineEntryResponse `json:"timeline"`
	TeamEvents []service.TeamEvent     `json:"team_events"`
}

func toGameResponse(game *store.Game) gameResponse {
	return gameResponse{
		GameID:        game.GameID,
		NflfastGameID: game.NflfastGameID,
		Season:        game.Season,
		Week:          game.Week,
		HomeTeam:      game.HomeTeam,
		AwayTeam:      game.AwayTeam,
		HomePoints:    game.HomePoints,
		AwayPoints:    game.AwayPoints,
		KickoffTS:     game.KickoffTS,
	}
}

func toTimelineEntryResponse(entry *store.TimelineEntry) timelineEntryResponse {
	return timelineEntryResponse{
		Season:        entry.Season,
		Week:          entry.Week,
		TeamCode:      entry.TeamCode,
		TeamName:      entry.TeamName,
		KickoffTS:     entry.KickoffTS,
		GamesPlayed:   entry.GamesPlayed,
		PassAtt:       entry.PassAtt,
		PassCmp:       entry.PassCmp,
		PassYds:       entry.PassYds,
		PassTD:        entry.PassTD,
		IntThrown:     entry.IntThrown,
		RushAtt:       entry.RushAtt,
		RushYds:       entry.RushYds,
		RushTD:        entry.RushTD,
		Targets:       entry.Targets,
		Receptions:    entry.Receptions,
		RecYds:        entry.RecYds,
		RecTD:         entry.RecTD,
		Tackles:       entry.Tackles,
		Sacks:         entry.Sacks,
		Interceptions: entry.Interceptions,
		Fumbles:       entry.Fumbles,
		FantasyPPR:    entry.FantasyPPR,
		SnapsOff:      entry.SnapsOff,
		SnapsDef:      entry.SnapsDef,
		SnapsST:       entry.SnapsST,
	}
}

func formatDate(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.Format("2006-01-02")
	return &formatted
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondDetail writes an error response as {"detail": "..."}
func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}
