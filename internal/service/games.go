package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfldb/internal/cache"
	"github.com/gridironlabs/nfldb/internal/store"
	"github.com/gridironlabs/nfldb/internal/store/repository"
)

// GameService serves game listings and lookups.
type GameService struct {
	gameRepo *repository.GameRepository
	cache    *cache.RedisCache
	log      *logrus.Entry
}

// NewGameService creates a new game service. The cache may be nil.
func NewGameService(db *store.Database, redisCache *cache.RedisCache, log *logrus.Entry) *GameService {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &GameService{
		gameRepo: repository.NewGameRepository(db),
		cache:    redisCache,
		log:      log,
	}
}

// ListGames returns a season's games ordered by week and kickoff.
func (s *GameService) ListGames(ctx context.Context, season int) ([]*store.Game, error) {
	key := fmt.Sprintf("api:games:%d", season)

	var cached []*store.Game
	if hit := cacheGet(ctx, s.cache, s.log, key, &cached); hit {
		return cached, nil
	}

	games, err := s.gameRepo.GetBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}

	cacheSet(ctx, s.cache, s.log, key, games)
	return games, nil
}

// GetGame retrieves a game by its database ID.
func (s *GameService) GetGame(ctx context.Context, gameID int) (*store.Game, error) {
	return s.gameRepo.GetByID(ctx, gameID)
}
