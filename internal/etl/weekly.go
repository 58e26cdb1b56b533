package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/gridironlabs/nfldb/internal/dataframe"
)

// WeekTarget is a season/week pair to feed the loaders.
type WeekTarget struct {
	Season int
	Week   int
}

var asOfLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseAsOf parses an ISO timestamp, defaulting to UTC when the input
// carries no zone. Empty input returns nil.
func ParseAsOf(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range asOfLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("invalid --as-of value %q", value)
}

// ResolveTargetWeekFromFrame returns the (season, week) whose latest
// kickoff most recently happened at or before asOf. Kickoffs fall back
// to the gameday date when no game time is recorded.
func ResolveTargetWeekFromFrame(frame *dataframe.Frame, asOf time.Time) (WeekTarget, error) {
	if frame.Len() == 0 {
		return WeekTarget{}, fmt.Errorf("no schedule data available to resolve target week")
	}
	cutoff := asOf.UTC()

	var best *WeekTarget
	for _, row := range frame.Rows() {
		week, ok := NormalizeWeek(row.String("week"))
		if !ok {
			continue
		}
		season, ok := row.Int("season")
		if !ok {
			continue
		}

		kickoff := parseKickoff(row.String("gameday"), row.String("gametime"))
		if kickoff == nil {
			kickoff = parseGameday(row.String("gameday"))
		}
		if kickoff == nil || kickoff.After(cutoff) {
			continue
		}

		if best == nil || season > best.Season || (season == best.Season && week > best.Week) {
			best = &WeekTarget{Season: season, Week: week}
		}
	}

	if best == nil {
		return WeekTarget{}, fmt.Errorf("no completed games prior to %s", asOf.Format(time.RFC3339))
	}
	return *best, nil
}

// ResolveTargetWeek resolves the most recently kicked-off week from the
// live schedule feed. Without explicit seasons it considers last year
// and this year.
func (l *Loader) ResolveTargetWeek(ctx context.Context, asOf *time.Time, seasons []int, forceRefresh bool) (WeekTarget, error) {
	moment := time.Now().UTC()
	if asOf != nil {
		moment = asOf.UTC()
	}

	seasonStart := moment.Year() - 1
	seasonEnd := moment.Year()
	if len(seasons) > 0 {
		seasonStart, seasonEnd = seasons[0], seasons[0]
		for _, season := range seasons[1:] {
			if season < seasonStart {
				seasonStart = season
			}
			if season > seasonEnd {
				seasonEnd = season
			}
		}
	}

	frame, err := l.schedule.Load(ctx, seasonStart, seasonEnd, forceRefresh)
	if err != nil {
		return WeekTarget{}, fmt.Errorf("loading schedule: %w", err)
	}
	return ResolveTargetWeekFromFrame(frame, moment)
}

// RefreshWeek runs all three loaders for one season/week.
func (l *Loader) RefreshWeek(ctx context.Context, target WeekTarget, forceRefresh bool) error {
	l.log.WithField("season", target.Season).WithField("week", target.Week).
		Info("refreshing week")

	if err := l.LoadSeasonsAndWeeks(ctx, target.Season, target.Season, forceRefresh); err != nil {
		return err
	}
	opts := Options{TargetWeeks: []int{target.Week}, ForceRefresh: forceRefresh}
	if err := l.LoadGames(ctx, target.Season, target.Season, opts); err != nil {
		return err
	}
	if err := l.LoadWeeklyStats(ctx, target.Season, target.Season, opts); err != nil {
		return err
	}

	l.log.WithField("season", target.Season).WithField("week", target.Week).
		Info("week refresh completed")
	return nil
}
