package etl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/nfldb/internal/dataframe"
)

func scheduleFixture() *dataframe.Frame {
	frame := dataframe.New()
	frame.Append(dataframe.Row{
		"season": 2023, "week": "1", "game_id": "2023_01_KAN_DET",
		"gameday": "2023-09-10", "gametime": "13:00",
		"home_team": "KAN", "away_team": "DET",
		"stadium": "Arrowhead Stadium", "roof": "outdoors", "surface": "grass",
		"spread_line": -4.5, "total_line": 51.5,
		"home_score": 27, "away_score": 21,
	})
	frame.Append(dataframe.Row{
		"season": 2023, "week": "1", "game_id": "2023_01_SEA_LA",
		"gameday": "2023-09-11", "gametime": "20:15",
		"home_team": "SEA", "away_team": "LA",
		"spread_line": 3.0,
	})
	return frame
}

func TestBuildSeasonUpserts(t *testing.T) {
	seasons := BuildSeasonUpserts(2021, 2023)
	require.Len(t, seasons, 3)
	assert.Equal(t, 2021, seasons[0].Year)
	assert.Equal(t, 2023, seasons[2].Year)

	assert.Empty(t, BuildSeasonUpserts(2023, 2022))
}

func TestBuildWeekUpsertsBounds(t *testing.T) {
	upserts := BuildWeekUpserts(scheduleFixture())
	require.Len(t, upserts, 1)

	week := upserts[0]
	assert.Equal(t, 2023, week.Season)
	assert.Equal(t, 1, week.WeekNumber)
	require.NotNil(t, week.StartDate)
	require.NotNil(t, week.EndDate)
	assert.Equal(t, "2023-09-10", week.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2023-09-11", week.EndDate.Format("2006-01-02"))
}

func TestBuildWeekUpsertsWithoutGamedays(t *testing.T) {
	frame := dataframe.New()
	frame.Append(dataframe.Row{"season": 2023, "week": "1"})

	upserts := BuildWeekUpserts(frame)
	require.Len(t, upserts, 1)
	assert.Nil(t, upserts[0].StartDate)
	assert.Nil(t, upserts[0].EndDate)
}

func TestBuildTeamUpserts(t *testing.T) {
	meta := dataframe.New()
	meta.Append(dataframe.Row{
		"team_abbr": "KAN", "team_name": "Kansas City Chiefs",
		"team_conf": "AFC", "team_division": "West",
	})
	meta.Append(dataframe.Row{
		"team_abbr": "DET", "team_name": "Detroit Lions",
		"conference": "NFC", "division": "North",
	})
	// Not on the schedule: dropped.
	meta.Append(dataframe.Row{
		"team_abbr": "GB", "team_name": "Green Bay Packers",
	})

	upserts := BuildTeamUpserts(scheduleFixture(), meta)
	require.Len(t, upserts, 2)

	byCode := make(map[string]int)
	for i, u := range upserts {
		byCode[u.TeamCode] = i
	}
	require.Contains(t, byCode, "KAN")
	require.Contains(t, byCode, "DET")

	kan := upserts[byCode["KAN"]]
	require.NotNil(t, kan.Conference)
	assert.Equal(t, "AFC", *kan.Conference)

	// Alternate column names for conference and division still resolve.
	det := upserts[byCode["DET"]]
	require.NotNil(t, det.Conference)
	assert.Equal(t, "NFC", *det.Conference)
	require.NotNil(t, det.Division)
	assert.Equal(t, "North", *det.Division)
}

func TestBuildGameUpserts(t *testing.T) {
	games := BuildGameUpserts(scheduleFixture(), nil)
	require.Len(t, games, 2)

	first := games[0]
	assert.Equal(t, "2023_01_KAN_DET", first.GameKey)
	assert.Equal(t, 2023, first.Season)
	assert.Equal(t, 1, first.WeekNumber)

	// Negative spread favors the home team.
	require.NotNil(t, first.FavoriteTeam)
	assert.Equal(t, "KAN", *first.FavoriteTeam)
	require.NotNil(t, first.Winner)
	assert.Equal(t, "KAN", *first.Winner)

	require.NotNil(t, first.KickoffTS)
	assert.Equal(t, time.Date(2023, 9, 10, 13, 0, 0, 0, time.UTC), *first.KickoffTS)
	require.NotNil(t, first.Venue)
	assert.Equal(t, "Arrowhead Stadium", *first.Venue)

	// Positive spread favors the away team; no scores means no winner.
	second := games[1]
	require.NotNil(t, second.FavoriteTeam)
	assert.Equal(t, "LA", *second.FavoriteTeam)
	assert.Nil(t, second.Winner)
	assert.Nil(t, second.HomePoints)
}

func TestBuildGameUpsertsEdges(t *testing.T) {
	frame := dataframe.New()
	// Pick'em line and a tie: neither favorite nor winner.
	frame.Append(dataframe.Row{
		"season": 2023, "week": "2", "game_id": "2023_02_NYG_WAS",
		"home_team": "NYG", "away_team": "WAS",
		"spread_line": 0.0, "home_score": 20, "away_score": 20,
	})
	// Playoff label maps onto the extended week range.
	frame.Append(dataframe.Row{
		"season": 2023, "week": "Divisional", "game_id": "2023_20_BUF_KC",
		"home_team": "BUF", "away_team": "KC",
	})

	games := BuildGameUpserts(frame, nil)
	require.Len(t, games, 2)
	assert.Nil(t, games[0].FavoriteTeam)
	assert.Nil(t, games[0].Winner)
	assert.Equal(t, 20, games[1].WeekNumber)

	filtered := BuildGameUpserts(frame, []int{20})
	require.Len(t, filtered, 1)
	assert.Equal(t, "2023_20_BUF_KC", filtered[0].GameKey)
}
