package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfldb/internal/cache"
	"github.com/gridironlabs/nfldb/internal/store"
	"github.com/gridironlabs/nfldb/internal/store/repository"
)

// StatsService serves team box-score listings.
type StatsService struct {
	statsRepo *repository.StatsRepository
	cache     *cache.RedisCache
	log       *logrus.Entry
}

// NewStatsService creates a new stats service. The cache may be nil.
func NewStatsService(db *store.Database, redisCache *cache.RedisCache, log *logrus.Entry) *StatsService {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &StatsService{
		statsRepo: repository.NewStatsRepository(db),
		cache:     redisCache,
		log:       log,
	}
}

// ListTeamStats returns a season's per-team box scores ordered by
// week, kickoff, then team code.
func (s *StatsService) ListTeamStats(ctx context.Context, season int) ([]*store.TeamGameStat, error) {
	key := fmt.Sprintf("api:team-stats:%d", season)

	var cached []*store.TeamGameStat
	if hit := cacheGet(ctx, s.cache, s.log, key, &cached); hit {
		return cached, nil
	}

	stats, err := s.statsRepo.ListTeamStats(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("listing team stats: %w", err)
	}

	cacheSet(ctx, s.cache, s.log, key, stats)
	return stats, nil
}
