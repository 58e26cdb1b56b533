package provider

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfldb/internal/dataframe"
)

// ScheduleSource loads the league schedule feed (one row per game) and
// filters it to a season range. The upstream asset covers all seasons in
// a single CSV.
type ScheduleSource struct {
	URL     string
	Fetcher *Fetcher
	Cache   *SnapshotCache
	Log     *logrus.Entry
}

// Load returns schedule rows for seasons in [seasonStart, seasonEnd].
func (s *ScheduleSource) Load(ctx context.Context, seasonStart, seasonEnd int, forceRefresh bool) (*dataframe.Frame, error) {
	if !forceRefresh {
		cached, hit, err := s.Cache.Read("schedule", seasonStart, seasonEnd)
		if err != nil {
			return nil, err
		}
		if hit {
			return cached, nil
		}
	}

	data, err := s.Fetcher.Get(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching schedule feed: %w", err)
	}
	full, err := dataframe.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding schedule feed: %w", err)
	}

	filtered := dataframe.New(full.Columns()...)
	for _, row := range full.Rows() {
		season, ok := row.Int("season")
		if !ok || season < seasonStart || season > seasonEnd {
			continue
		}
		filtered.Append(row)
	}

	if s.Log != nil {
		s.Log.WithFields(logrus.Fields{"rows": filtered.Len(), "start": seasonStart, "end": seasonEnd}).
			Info("schedule feed fetched")
	}

	if err := s.Cache.Write("schedule", seasonStart, seasonEnd, filtered); err != nil {
		return nil, err
	}
	return filtered, nil
}
