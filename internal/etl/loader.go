package etl

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfldb/internal/provider"
	"github.com/gridironlabs/nfldb/internal/store"
	"github.com/gridironlabs/nfldb/internal/store/repository"
)

// Options tunes a loader run.
type Options struct {
	// TargetWeeks restricts the run to specific week numbers. Nil
	// means all weeks in the feed.
	TargetWeeks []int
	// ForceRefresh bypasses the snapshot cache.
	ForceRefresh bool
	// StageRaw also uploads the raw normalized feed into the
	// nfl_weekly_stats staging table.
	StageRaw bool
}

// Loader drives the full pipeline: providers in, normalized frames
// through, natural-key upserts out.
type Loader struct {
	seasons  *repository.SeasonRepository
	teams    *repository.TeamRepository
	games    *repository.GameRepository
	players  *repository.PlayerRepository
	stats    *repository.StatsRepository
	weekly   *provider.WeeklyChain
	schedule *provider.ScheduleSource
	teamMeta *provider.TeamSource
	log      *logrus.Entry
}

// NewLoader wires a loader against the database and providers.
func NewLoader(
	db *store.Database,
	weekly *provider.WeeklyChain,
	schedule *provider.ScheduleSource,
	teamMeta *provider.TeamSource,
	log *logrus.Entry,
) *Loader {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Loader{
		seasons:  repository.NewSeasonRepository(db),
		teams:    repository.NewTeamRepository(db),
		games:    repository.NewGameRepository(db),
		players:  repository.NewPlayerRepository(db),
		stats:    repository.NewStatsRepository(db),
		weekly:   weekly,
		schedule: schedule,
		teamMeta: teamMeta,
		log:      log,
	}
}

// LoadSeasonsAndWeeks ensures seasons, weeks, and teams exist for the
// requested range.
func (l *Loader) LoadSeasonsAndWeeks(ctx context.Context, seasonStart, seasonEnd int, forceRefresh bool) error {
	scheduleFrame, err := l.schedule.Load(ctx, seasonStart, seasonEnd, forceRefresh)
	if err != nil {
		return fmt.Errorf("loading schedule: %w", err)
	}
	teamFrame, err := l.teamMeta.Load(ctx, forceRefresh)
	if err != nil {
		return fmt.Errorf("loading team metadata: %w", err)
	}

	if err := l.seasons.UpsertSeasons(ctx, BuildSeasonUpserts(seasonStart, seasonEnd)); err != nil {
		return err
	}
	if err := l.teams.UpsertTeams(ctx, BuildTeamUpserts(scheduleFrame, teamFrame)); err != nil {
		return err
	}
	return l.seasons.UpsertWeeks(ctx, BuildWeekUpserts(scheduleFrame))
}

// LoadGames upserts schedule games for the requested range.
func (l *Loader) LoadGames(ctx context.Context, seasonStart, seasonEnd int, opts Options) error {
	scheduleFrame, err := l.schedule.Load(ctx, seasonStart, seasonEnd, opts.ForceRefresh)
	if err != nil {
		return fmt.Errorf("loading schedule: %w", err)
	}

	games := BuildGameUpserts(scheduleFrame, opts.TargetWeeks)
	l.log.WithFields(logrus.Fields{"games": len(games), "start": seasonStart, "end": seasonEnd}).
		Info("upserting games")
	return l.games.UpsertGames(ctx, games)
}

// LoadWeeklyStats runs the statistics leg: fetch the weekly feed,
// normalize it, optionally stage the raw rows, then upsert players,
// team box scores, and player box scores.
func (l *Loader) LoadWeeklyStats(ctx context.Context, seasonStart, seasonEnd int, opts Options) error {
	runLog := l.log.WithField("run_id", uuid.NewString())

	scheduleFrame, err := l.schedule.Load(ctx, seasonStart, seasonEnd, opts.ForceRefresh)
	if err != nil {
		return fmt.Errorf("loading schedule: %w", err)
	}
	lookup := BuildScheduleLookup(scheduleFrame)

	weeklyFrame, err := l.weekly.Load(ctx, seasonStart, seasonEnd, opts.ForceRefresh)
	if err != nil {
		return fmt.Errorf("loading weekly stats: %w", err)
	}

	rows, err := NormalizeWeeklyFrame(weeklyFrame, opts.TargetWeeks)
	if err != nil {
		return fmt.Errorf("normalizing weekly stats: %w", err)
	}
	runLog.WithField("rows", len(rows)).Info("weekly stats normalized")

	if opts.StageRaw {
		seasons := distinctSeasons(rows)
		if err := l.stats.StageWeeklyRows(ctx, BuildStagingRows(rows), seasons, opts.TargetWeeks); err != nil {
			return fmt.Errorf("staging weekly stats: %w", err)
		}
		runLog.WithField("seasons", seasons).Info("raw weekly stats staged")
	}

	if err := l.players.UpsertPlayers(ctx, BuildPlayerUpserts(rows)); err != nil {
		return fmt.Errorf("upserting players: %w", err)
	}

	teamUpserts := BuildTeamStatUpserts(AggregateTeamStats(rows), lookup)
	if err := l.stats.UpsertTeamStats(ctx, teamUpserts); err != nil {
		return fmt.Errorf("upserting team stats: %w", err)
	}

	playerUpserts := BuildPlayerStatUpserts(rows, lookup)
	if err := l.stats.UpsertPlayerStats(ctx, playerUpserts); err != nil {
		return fmt.Errorf("upserting player stats: %w", err)
	}

	runLog.WithFields(logrus.Fields{
		"team_stats":   len(teamUpserts),
		"player_stats": len(playerUpserts),
	}).Info("weekly stats loaded")
	return nil
}

// Backfill loads the full range end to end, staging raw rows along the
// way.
func (l *Loader) Backfill(ctx context.Context, seasonStart, seasonEnd int, forceRefresh bool) error {
	if err := l.LoadSeasonsAndWeeks(ctx, seasonStart, seasonEnd, forceRefresh); err != nil {
		return err
	}
	opts := Options{ForceRefresh: forceRefresh}
	if err := l.LoadGames(ctx, seasonStart, seasonEnd, opts); err != nil {
		return err
	}
	opts.StageRaw = true
	return l.LoadWeeklyStats(ctx, seasonStart, seasonEnd, opts)
}

func distinctSeasons(rows []WeeklyRow) []int {
	seen := make(map[int]bool)
	var seasons []int
	for _, row := range rows {
		if !seen[row.Season] {
			seen[row.Season] = true
			seasons = append(seasons, row.Season)
		}
	}
	sort.Ints(seasons)
	return seasons
}
