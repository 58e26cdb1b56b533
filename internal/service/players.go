package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfldb/internal/cache"
	"github.com/gridironlabs/nfldb/internal/store"
	"github.com/gridironlabs/nfldb/internal/store/repository"
)

// searchLimit caps player search results.
const searchLimit = 25

// PlayerService serves player search and career timelines.
type PlayerService struct {
	playerRepo *repository.PlayerRepository
	cache      *cache.RedisCache
	log        *logrus.Entry
}

// NewPlayerService creates a new player service. The cache may be nil.
func NewPlayerService(db *store.Database, redisCache *cache.RedisCache, log *logrus.Entry) *PlayerService {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &PlayerService{
		playerRepo: repository.NewPlayerRepository(db),
		cache:      redisCache,
		log:        log,
	}
}

// TeamEvent is one stretch of consecutive timeline entries with the
// same team.
type TeamEvent struct {
	TeamCode    string  `json:"team_code"`
	TeamName    *string `json:"team_name"`
	StartSeason int     `json:"start_season"`
	StartWeek   int     `json:"start_week"`
	EndSeason   int     `json:"end_season"`
	EndWeek     int     `json:"end_week"`
}

// PlayerTimeline is a player's weekly aggregates plus the team stints
// derived from them.
type PlayerTimeline struct {
	Player     *store.Player
	Timeline   []*store.TimelineEntry
	TeamEvents []TeamEvent
}

// Search returns players matching the term annotated with their latest
// team.
func (s *PlayerService) Search(ctx context.Context, term string) ([]*store.PlayerSummary, error) {
	players, err := s.playerRepo.Search(ctx, term, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("searching players: %w", err)
	}
	return players, nil
}

// Timeline loads a player's weekly aggregates. A nil season returns
// the full career.
func (s *PlayerService) Timeline(ctx context.Context, playerID int, season *int) (*PlayerTimeline, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	entries, err := s.playerRepo.Timeline(ctx, playerID, season)
	if err != nil {
		return nil, fmt.Errorf("loading player timeline: %w", err)
	}

	return &PlayerTimeline{
		Player:     player,
		Timeline:   entries,
		TeamEvents: DeriveTeamEvents(entries),
	}, nil
}

// DeriveTeamEvents collapses timeline entries into consecutive
// same-team runs, each spanning its first through last (season, week).
func DeriveTeamEvents(entries []*store.TimelineEntry) []TeamEvent {
	var events []TeamEvent
	for _, entry := range entries {
		if entry.TeamCode == "" {
			continue
		}
		if len(events) == 0 || events[len(events)-1].TeamCode != entry.TeamCode {
			events = append(events, TeamEvent{
				TeamCode:    entry.TeamCode,
				TeamName:    entry.TeamName,
				StartSeason: entry.Season,
				StartWeek:   entry.Week,
				EndSeason:   entry.Season,
				EndWeek:     entry.Week,
			})
			continue
		}
		last := &events[len(events)-1]
		last.EndSeason = entry.Season
		last.EndWeek = entry.Week
	}
	return events
}
