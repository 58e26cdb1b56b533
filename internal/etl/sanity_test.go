package etl

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/nfldb/internal/store"
)

func TestHealthSummaryIssuesEmptyDatabase(t *testing.T) {
	summary := &DataHealthSummary{}
	assert.Equal(t, []string{"No seasons present in database."}, summary.Issues())
	assert.Nil(t, summary.LatestCompletedWeek())
}

func TestHealthSummaryIssuesNoGames(t *testing.T) {
	season := 2023
	summary := &DataHealthSummary{LatestSeason: &season}
	assert.Equal(t, []string{"No games recorded for season 2023."}, summary.Issues())
}

func TestHealthSummaryIssuesUnfinalizedWeeks(t *testing.T) {
	season := 2023
	summary := &DataHealthSummary{
		LatestSeason: &season,
		WeekSummaries: []store.WeekHealth{
			{WeekNumber: 1, TotalGames: 16, CompletedGames: 16},
			{WeekNumber: 2, TotalGames: 16, CompletedGames: 14},
			{WeekNumber: 3, TotalGames: 16, CompletedGames: 0},
		},
		TotalGames:          48,
		TotalCompletedGames: 30,
	}

	assert.Equal(t, []string{"Weeks with unfinalized games: 2, 3."}, summary.Issues())
}

func TestHealthSummaryIssuesClean(t *testing.T) {
	season := 2023
	summary := &DataHealthSummary{
		LatestSeason: &season,
		WeekSummaries: []store.WeekHealth{
			{WeekNumber: 1, TotalGames: 1, CompletedGames: 1},
		},
		TotalGames:          1,
		TotalCompletedGames: 1,
	}
	assert.Empty(t, summary.Issues())
}

func TestLatestCompletedWeek(t *testing.T) {
	summary := &DataHealthSummary{
		WeekSummaries: []store.WeekHealth{
			{WeekNumber: 1, TotalGames: 16, CompletedGames: 16},
			{WeekNumber: 2, TotalGames: 16, CompletedGames: 3},
			{WeekNumber: 3, TotalGames: 16, CompletedGames: 0},
		},
	}

	week := summary.LatestCompletedWeek()
	require.NotNil(t, week)
	assert.Equal(t, 2, *week, "any finalized game marks the week")
}

func TestWriteCountsSnapshot(t *testing.T) {
	destination := filepath.Join(t.TempDir(), "snapshots", "counts.csv")
	counts := []store.TableCount{
		{TableName: "games", RowCount: 1},
		{TableName: "team_game_stats", RowCount: 2},
	}
	generatedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, WriteCountsSnapshot(destination, counts, generatedAt))

	data, err := os.ReadFile(destination)
	require.NoError(t, err)
	assert.Equal(t,
		"table_name,row_count,generated_at\n"+
			"games,1,2024-01-01T12:00:00\n"+
			"team_game_stats,2,2024-01-01T12:00:00\n",
		string(data))
}
