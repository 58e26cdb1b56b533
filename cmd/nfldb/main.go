package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gridironlabs/nfldb/internal/config"
	"github.com/gridironlabs/nfldb/internal/etl"
	"github.com/gridironlabs/nfldb/internal/provider"
	"github.com/gridironlabs/nfldb/internal/store"
)

const (
	minSeason = 1999
	minWeek   = 1
	maxWeek   = 22
)

const usage = `Usage: nfldb <command> [flags]

Commands:
  init-db        Create the database schema
  backfill       Load a season range end to end
  update-week    Refresh a specific season/week
  update-current Resolve and refresh the most recent week
  sanity-check   Report data health and row counts
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	log := newLogger(cfg.LogLevel)

	var err error
	switch os.Args[1] {
	case "init-db":
		err = runInitDB(cfg, log, os.Args[2:])
	case "backfill":
		err = runBackfill(cfg, log, os.Args[2:])
	case "update-week":
		err = runUpdateWeek(cfg, log, os.Args[2:])
	case "update-current":
		err = runUpdateCurrent(cfg, log, os.Args[2:])
	case "sanity-check":
		err = runSanityCheck(cfg, log, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func newLogger(level string) *logrus.Entry {
	logger := logrus.New()
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger.WithField("component", "cli")
}

func openDatabase(cfg config.Config) (*store.Database, error) {
	dsn, err := cfg.RequireDatabaseURL()
	if err != nil {
		return nil, err
	}
	return store.NewDatabase(dsn)
}

func newLoader(cfg config.Config, db *store.Database, log *logrus.Entry) (*etl.Loader, error) {
	fetcher := provider.NewFetcher(cfg.FetchTimeout)
	snapshots, err := provider.NewSnapshotCache(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	chain := provider.NewWeeklyChain(snapshots, log,
		&provider.ReleaseProvider{BaseURL: cfg.PlayerStatsURL, Fetcher: fetcher},
		&provider.MirrorProvider{BaseURL: cfg.MirrorURL, Fetcher: fetcher},
		&provider.ReleaseFallbackProvider{BaseURL: cfg.PlayerStatsURL, Fetcher: fetcher},
	)
	schedule := &provider.ScheduleSource{URL: cfg.ScheduleURL, Fetcher: fetcher, Cache: snapshots, Log: log}
	teams := &provider.TeamSource{URL: cfg.TeamsURL, Fetcher: fetcher, Cache: snapshots}

	return etl.NewLoader(db, chain, schedule, teams, log), nil
}

func validateSeasonRange(start, end int) error {
	if start < minSeason {
		return fmt.Errorf("season start %d is before %d", start, minSeason)
	}
	if end < start {
		return fmt.Errorf("season end %d is before season start %d", end, start)
	}
	return nil
}

func validateWeek(week int) error {
	if week < minWeek || week > maxWeek {
		return fmt.Errorf("week %d out of range [%d, %d]", week, minWeek, maxWeek)
	}
	return nil
}

func runInitDB(cfg config.Config, log *logrus.Entry, args []string) error {
	fs := flag.NewFlagSet("init-db", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "path to a schema file (defaults to the embedded schema)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ApplySchema(context.Background(), *schemaPath); err != nil {
		return err
	}
	log.Info("database schema applied")
	return nil
}

func runBackfill(cfg config.Config, log *logrus.Entry, args []string) error {
	fs := flag.NewFlagSet("backfill", flag.ExitOnError)
	seasonStart := fs.Int("season-start", 0, "first season to load")
	seasonEnd := fs.Int("season-end", 0, "last season to load")
	forceRefresh := fs.Bool("force-refresh", false, "bypass the snapshot cache")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := validateSeasonRange(*seasonStart, *seasonEnd); err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	loader, err := newLoader(cfg, db, log)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{"start": *seasonStart, "end": *seasonEnd}).Info("backfill starting")
	return loader.Backfill(context.Background(), *seasonStart, *seasonEnd, *forceRefresh)
}

func runUpdateWeek(cfg config.Config, log *logrus.Entry, args []string) error {
	fs := flag.NewFlagSet("update-week", flag.ExitOnError)
	season := fs.Int("season", 0, "season year")
	week := fs.Int("week", 0, "week number")
	forceRefresh := fs.Bool("force-refresh", false, "bypass the snapshot cache")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := validateSeasonRange(*season, *season); err != nil {
		return err
	}
	if err := validateWeek(*week); err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	loader, err := newLoader(cfg, db, log)
	if err != nil {
		return err
	}

	target := etl.WeekTarget{Season: *season, Week: *week}
	return loader.RefreshWeek(context.Background(), target, *forceRefresh)
}

func runUpdateCurrent(cfg config.Config, log *logrus.Entry, args []string) error {
	fs := flag.NewFlagSet("update-current", flag.ExitOnError)
	season := fs.Int("season", 0, "override the resolved season")
	week := fs.Int("week", 0, "override the resolved week")
	asOf := fs.String("as-of", "", "resolve the target week as of this ISO timestamp")
	forceRefresh := fs.Bool("force-refresh", false, "bypass the snapshot cache")
	dryRun := fs.Bool("dry-run", false, "resolve the target week without loading")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Validate before any network or database work.
	asOfTime, err := etl.ParseAsOf(*asOf)
	if err != nil {
		return err
	}
	if *season != 0 {
		if err := validateSeasonRange(*season, *season); err != nil {
			return err
		}
	}
	if *week != 0 {
		if err := validateWeek(*week); err != nil {
			return err
		}
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	loader, err := newLoader(cfg, db, log)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var target etl.WeekTarget
	if *season != 0 && *week != 0 {
		target = etl.WeekTarget{Season: *season, Week: *week}
	} else {
		var seasons []int
		if *season != 0 {
			seasons = []int{*season}
		}
		target, err = loader.ResolveTargetWeek(ctx, asOfTime, seasons, *forceRefresh)
		if err != nil {
			return err
		}
		if *week != 0 {
			target.Week = *week
		}
	}

	if *dryRun {
		fmt.Printf("would refresh season=%d week=%d\n", target.Season, target.Week)
		return nil
	}
	return loader.RefreshWeek(ctx, target, *forceRefresh)
}

func runSanityCheck(cfg config.Config, log *logrus.Entry, args []string) error {
	fs := flag.NewFlagSet("sanity-check", flag.ExitOnError)
	outputCSV := fs.String("output-csv", "", "write a row-count snapshot to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	loader, err := newLoader(cfg, db, log)
	if err != nil {
		return err
	}

	ctx := context.Background()
	summary, err := loader.BuildHealthSummary(ctx)
	if err != nil {
		return err
	}

	if summary.LatestSeason != nil {
		fmt.Printf("Latest season: %d\n", *summary.LatestSeason)
		fmt.Printf("Games: %d total, %d completed\n", summary.TotalGames, summary.TotalCompletedGames)
		if week := summary.LatestCompletedWeek(); week != nil {
			fmt.Printf("Latest completed week: %d\n", *week)
		}
	}
	for _, issue := range summary.Issues() {
		fmt.Printf("WARNING: %s\n", issue)
	}

	counts, err := loader.CollectRowCounts(ctx)
	if err != nil {
		return err
	}
	for _, count := range counts {
		fmt.Printf("%-20s %d\n", count.TableName, count.RowCount)
	}

	if *outputCSV != "" {
		if err := etl.WriteCountsSnapshot(*outputCSV, counts, time.Now()); err != nil {
			return err
		}
		log.WithField("path", *outputCSV).Info("row-count snapshot written")
	}
	return nil
}
