package etl

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gridironlabs/nfldb/internal/store"
)

// Tables audited by the sanity check, in report order.
var countedTables = []string{
	"seasons",
	"weeks",
	"teams",
	"games",
	"players",
	"team_game_stats",
	"player_game_stats",
}

// DataHealthSummary is a high-level overview of the latest loaded
// season.
type DataHealthSummary struct {
	LatestSeason        *int
	WeekSummaries       []store.WeekHealth
	TotalGames          int
	TotalCompletedGames int
}

// weekComplete reports whether every tracked game of the week has
// final scores.
func weekComplete(week store.WeekHealth) bool {
	return week.TotalGames > 0 && week.TotalGames == week.CompletedGames
}

// LatestCompletedWeek returns the most recent week with at least one
// finalized game, or nil.
func (s *DataHealthSummary) LatestCompletedWeek() *int {
	for i := len(s.WeekSummaries) - 1; i >= 0; i-- {
		if s.WeekSummaries[i].CompletedGames > 0 {
			week := s.WeekSummaries[i].WeekNumber
			return &week
		}
	}
	return nil
}

// Issues lists warnings discovered during the aggregate check.
func (s *DataHealthSummary) Issues() []string {
	var issues []string
	if s.LatestSeason == nil {
		return append(issues, "No seasons present in database.")
	}
	if s.TotalGames == 0 {
		return append(issues, fmt.Sprintf("No games recorded for season %d.", *s.LatestSeason))
	}

	var incomplete []string
	for _, week := range s.WeekSummaries {
		if week.TotalGames > 0 && !weekComplete(week) {
			incomplete = append(incomplete, strconv.Itoa(week.WeekNumber))
		}
	}
	if len(incomplete) > 0 {
		issues = append(issues, fmt.Sprintf("Weeks with unfinalized games: %s.", strings.Join(incomplete, ", ")))
	}
	return issues
}

// BuildHealthSummary inspects the latest season's per-week completion
// state.
func (l *Loader) BuildHealthSummary(ctx context.Context) (*DataHealthSummary, error) {
	latest, err := l.seasons.LatestSeason(ctx)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return &DataHealthSummary{}, nil
	}

	weeks, err := l.seasons.WeekHealthForSeason(ctx, *latest)
	if err != nil {
		return nil, err
	}

	summary := &DataHealthSummary{LatestSeason: latest, WeekSummaries: weeks}
	for _, week := range weeks {
		summary.TotalGames += week.TotalGames
		summary.TotalCompletedGames += week.CompletedGames
	}
	return summary, nil
}

// CollectRowCounts returns row counts for the audited tables.
func (l *Loader) CollectRowCounts(ctx context.Context) ([]store.TableCount, error) {
	return l.seasons.RowCounts(ctx, countedTables)
}

// WriteCountsSnapshot persists a CSV snapshot of row counts for later
// auditing.
func WriteCountsSnapshot(destination string, counts []store.TableCount, generatedAt time.Time) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	file, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("creating counts snapshot: %w", err)
	}
	defer file.Close()

	timestamp := generatedAt.UTC().Format("2006-01-02T15:04:05")
	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"table_name", "row_count", "generated_at"}); err != nil {
		return err
	}
	for _, count := range counts {
		record := []string{count.TableName, strconv.Itoa(count.RowCount), timestamp}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
