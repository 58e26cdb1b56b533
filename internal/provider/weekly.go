package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfldb/internal/dataframe"
)

// WeeklyProvider is one adapter in the weekly-stats chain. It returns a
// raw frame or a typed failure; it never both.
type WeeklyProvider interface {
	Name() string
	FetchWeekly(ctx context.Context, season int) (*dataframe.Frame, *Failure)
}

// ReleaseProvider loads the per-season player stats asset from the
// nflverse release feed. It is the primary statistics service.
type ReleaseProvider struct {
	BaseURL string
	Fetcher *Fetcher
}

func (p *ReleaseProvider) Name() string { return "nflverse-release" }

func (p *ReleaseProvider) FetchWeekly(ctx context.Context, season int) (*dataframe.Frame, *Failure) {
	url := fmt.Sprintf("%s/player_stats_%d.csv.gz", strings.TrimRight(p.BaseURL, "/"), season)
	data, err := p.Fetcher.Get(ctx, url)
	if err != nil {
		return nil, &Failure{Source: p.Name(), Reason: err.Error()}
	}
	frame, err := dataframe.Decode(data)
	if err != nil {
		return nil, &Failure{Source: p.Name(), Reason: err.Error()}
	}
	return frame, nil
}

// MirrorProvider loads the same asset layout from a configurable mirror.
// An unconfigured mirror yields a typed failure so the chain records why
// the secondary source was skipped.
type MirrorProvider struct {
	BaseURL string
	Fetcher *Fetcher
}

func (p *MirrorProvider) Name() string { return "stats-mirror" }

func (p *MirrorProvider) FetchWeekly(ctx context.Context, season int) (*dataframe.Frame, *Failure) {
	if strings.TrimSpace(p.BaseURL) == "" {
		return nil, &Failure{Source: p.Name(), Reason: "mirror not configured"}
	}
	url := fmt.Sprintf("%s/player_stats_%d.csv.gz", strings.TrimRight(p.BaseURL, "/"), season)
	data, err := p.Fetcher.Get(ctx, url)
	if err != nil {
		return nil, &Failure{Source: p.Name(), Reason: err.Error()}
	}
	frame, err := dataframe.Decode(data)
	if err != nil {
		return nil, &Failure{Source: p.Name(), Reason: err.Error()}
	}
	return frame, nil
}

// ReleaseFallbackProvider is the last-resort adapter: it retries the
// per-season asset and, for seasons at or past the current year, the
// rolling "current" asset that nflverse publishes mid-season.
type ReleaseFallbackProvider struct {
	BaseURL string
	Fetcher *Fetcher
	Now     func() time.Time
}

func (p *ReleaseFallbackProvider) Name() string { return "release-fallback" }

func (p *ReleaseFallbackProvider) FetchWeekly(ctx context.Context, season int) (*dataframe.Frame, *Failure) {
	suffixes := []string{fmt.Sprintf("%d", season)}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	if season >= now().UTC().Year() {
		suffixes = append(suffixes, "current")
	}

	var errs []string
	for _, suffix := range suffixes {
		url := fmt.Sprintf("%s/player_stats_%s.csv.gz", strings.TrimRight(p.BaseURL, "/"), suffix)
		data, err := p.Fetcher.Get(ctx, url)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", suffix, err))
			continue
		}
		frame, err := dataframe.Decode(data)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", suffix, err))
			continue
		}
		return frame, nil
	}
	return nil, &Failure{
		Source: p.Name(),
		Reason: "release fallback failed: " + strings.Join(errs, "; "),
	}
}

// WeeklyChain tries adapters in priority order per season and caches the
// combined multi-season result.
type WeeklyChain struct {
	providers []WeeklyProvider
	cache     *SnapshotCache
	log       *logrus.Entry
}

// NewWeeklyChain assembles the chain in the given priority order.
func NewWeeklyChain(cache *SnapshotCache, log *logrus.Entry, providers ...WeeklyProvider) *WeeklyChain {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &WeeklyChain{providers: providers, cache: cache, log: log}
}

// Load returns the combined weekly-stats frame for the season range. A
// snapshot cache hit short-circuits provider calls unless forceRefresh is
// set. Column naming is left as the provider sent it, except that a
// season column is synthesized when absent.
func (c *WeeklyChain) Load(ctx context.Context, seasonStart, seasonEnd int, forceRefresh bool) (*dataframe.Frame, error) {
	if !forceRefresh {
		cached, hit, err := c.cache.Read("weekly", seasonStart, seasonEnd)
		if err != nil {
			return nil, err
		}
		if hit {
			c.log.WithFields(logrus.Fields{"kind": "weekly", "rows": cached.Len()}).
				Debug("snapshot cache hit")
			return cached, nil
		}
	}

	combined := dataframe.New()
	for season := seasonStart; season <= seasonEnd; season++ {
		frame, err := c.fetchSeason(ctx, season)
		if err != nil {
			return nil, err
		}
		if !frame.HasColumn("season") {
			frame.SetAll("season", season)
		}
		combined.Extend(frame)
	}

	if err := c.cache.Write("weekly", seasonStart, seasonEnd, combined); err != nil {
		return nil, err
	}
	return combined, nil
}

func (c *WeeklyChain) fetchSeason(ctx context.Context, season int) (*dataframe.Frame, error) {
	var failures []*Failure
	for _, p := range c.providers {
		frame, failure := p.FetchWeekly(ctx, season)
		if failure != nil {
			c.log.WithFields(logrus.Fields{"provider": p.Name(), "season": season}).
				WithField("reason", failure.Reason).Warn("weekly provider failed")
			failures = append(failures, failure)
			continue
		}
		c.log.WithFields(logrus.Fields{"provider": p.Name(), "season": season, "rows": frame.Len()}).
			Info("weekly stats fetched")
		return frame, nil
	}
	return nil, &ChainError{Season: season, Failures: failures}
}
