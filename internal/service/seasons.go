package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfldb/internal/cache"
	"github.com/gridironlabs/nfldb/internal/store"
	"github.com/gridironlabs/nfldb/internal/store/repository"
)

// listCacheTTL bounds staleness of cached list responses between
// weekly ETL runs.
const listCacheTTL = 60 * time.Second

// SeasonService serves season and week listings, optionally fronted by
// Redis.
type SeasonService struct {
	seasonRepo *repository.SeasonRepository
	cache      *cache.RedisCache
	log        *logrus.Entry
}

// NewSeasonService creates a new season service. The cache may be nil.
func NewSeasonService(db *store.Database, redisCache *cache.RedisCache, log *logrus.Entry) *SeasonService {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &SeasonService{
		seasonRepo: repository.NewSeasonRepository(db),
		cache:      redisCache,
		log:        log,
	}
}

// ListSeasons returns seasons that have finalized games, newest first.
func (s *SeasonService) ListSeasons(ctx context.Context) ([]*store.Season, error) {
	const key = "api:seasons"

	var cached []*store.Season
	if hit := cacheGet(ctx, s.cache, s.log, key, &cached); hit {
		return cached, nil
	}

	seasons, err := s.seasonRepo.ListSeasonsWithResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing seasons: %w", err)
	}

	cacheSet(ctx, s.cache, s.log, key, seasons)
	return seasons, nil
}

// ListWeeks returns the weeks of one season in week order.
func (s *SeasonService) ListWeeks(ctx context.Context, season int) ([]*store.Week, error) {
	key := fmt.Sprintf("api:weeks:%d", season)

	var cached []*store.Week
	if hit := cacheGet(ctx, s.cache, s.log, key, &cached); hit {
		return cached, nil
	}

	weeks, err := s.seasonRepo.ListWeeks(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("listing weeks: %w", err)
	}

	cacheSet(ctx, s.cache, s.log, key, weeks)
	return weeks, nil
}

// cacheGet loads a cached response when a cache is configured. Cache
// failures are logged and treated as misses.
func cacheGet(ctx context.Context, redisCache *cache.RedisCache, log *logrus.Entry, key string, dest interface{}) bool {
	if redisCache == nil {
		return false
	}
	hit, err := redisCache.GetJSON(ctx, key, dest)
	if err != nil {
		log.WithField("key", key).WithError(err).Warn("cache read failed")
		return false
	}
	return hit
}

// cacheSet stores a response when a cache is configured. Failures are
// logged and ignored.
func cacheSet(ctx context.Context, redisCache *cache.RedisCache, log *logrus.Entry, key string, value interface{}) {
	if redisCache == nil {
		return
	}
	if err := redisCache.SetJSON(ctx, key, value, listCacheTTL); err != nil {
		log.WithField("key", key).WithError(err).Warn("cache write failed")
	}
}
