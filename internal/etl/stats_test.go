package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/nfldb/internal/store"
)

func fixtureLookup() map[ScheduleKey]ScheduleEntry {
	homePoints := 27
	awayPoints := 21
	return map[ScheduleKey]ScheduleEntry{
		{Season: 2023, Week: 1, Team: "KAN"}: {GameKey: "2023_01_KAN_DET", Points: &homePoints},
		{Season: 2023, Week: 1, Team: "DET"}: {GameKey: "2023_01_KAN_DET", Points: &awayPoints},
	}
}

func TestAggregateTeamStats(t *testing.T) {
	rows, err := NormalizeWeeklyFrame(weeklyFixture(), nil)
	require.NoError(t, err)

	lines := AggregateTeamStats(rows)
	require.Len(t, lines, 2)

	// Deterministic order: DET sorts before KAN.
	det, kan := lines[0], lines[1]
	require.Equal(t, "DET", det.TeamCode)
	require.Equal(t, "KAN", kan.TeamCode)

	assert.Equal(t, 280.0, kan.PassYards)
	assert.Equal(t, 40.0, kan.RushYards)
	assert.Equal(t, 320.0, kan.Yards)
	assert.Equal(t, 2.0, kan.SacksAllowed)
	assert.Equal(t, 1.5, kan.SacksMade)
	assert.Equal(t, 1.0, kan.Turnovers)

	assert.Equal(t, 245.0, det.PassYards)
	assert.Equal(t, 12.0, det.RushYards)
	assert.Equal(t, 3.0, det.SacksAllowed)
	assert.Equal(t, 2.0, det.SacksMade)
	assert.Equal(t, 0.0, det.Turnovers)
}

func TestBuildTeamStatUpserts(t *testing.T) {
	rows, err := NormalizeWeeklyFrame(weeklyFixture(), nil)
	require.NoError(t, err)
	lines := AggregateTeamStats(rows)

	upserts := BuildTeamStatUpserts(lines, fixtureLookup())
	require.Len(t, upserts, 2)

	byTeam := make(map[string]store.TeamStatUpsert)
	for _, u := range upserts {
		byTeam[u.TeamCode] = u
	}

	kan := byTeam["KAN"]
	assert.Equal(t, "2023_01_KAN_DET", kan.GameKey)
	require.NotNil(t, kan.Points)
	assert.Equal(t, 27, *kan.Points)
	require.NotNil(t, kan.PassYards)
	assert.Equal(t, 280, *kan.PassYards)
	require.NotNil(t, kan.SacksMade)
	assert.Equal(t, 2, *kan.SacksMade, "fractional sack credit rounds")
	require.NotNil(t, kan.SacksAllowed)
	assert.Equal(t, 2, *kan.SacksAllowed)
	require.NotNil(t, kan.Turnovers)
	assert.Equal(t, 1, *kan.Turnovers)

	det := byTeam["DET"]
	require.NotNil(t, det.PassYards)
	assert.Equal(t, 245, *det.PassYards)
	require.NotNil(t, det.SacksMade)
	assert.Equal(t, 2, *det.SacksMade)
	require.NotNil(t, det.Turnovers)
	assert.Equal(t, 0, *det.Turnovers)
}

func TestBuildTeamStatUpsertsDropsUnscheduledLines(t *testing.T) {
	lines := []TeamStatLine{
		{Season: 2023, Week: 1, TeamCode: "KAN"},
		{Season: 2023, Week: 9, TeamCode: "KAN"},
	}

	upserts := BuildTeamStatUpserts(lines, fixtureLookup())
	require.Len(t, upserts, 1)
	assert.Equal(t, 1, upserts[0].Week)
}

func TestBuildPlayerUpsertsDeduplicates(t *testing.T) {
	rows := []WeeklyRow{
		{PlayerID: "QB1", PlayerDisplayName: "Quarterback One", Position: "QB"},
		{PlayerID: "QB1", PlayerDisplayName: "Quarterback One", Position: "QB"},
		{PlayerID: "WR1", PlayerDisplayName: "Receiver One"},
	}

	upserts := BuildPlayerUpserts(rows)
	require.Len(t, upserts, 2)
	assert.Equal(t, "QB1", upserts[0].GsisID)
	require.NotNil(t, upserts[0].Position)
	assert.Equal(t, "QB", *upserts[0].Position)
	assert.Nil(t, upserts[1].Position, "blank positions stay NULL")
}

func TestBuildPlayerStatUpserts(t *testing.T) {
	rows, err := NormalizeWeeklyFrame(weeklyFixture(), nil)
	require.NoError(t, err)

	upserts := BuildPlayerStatUpserts(rows, fixtureLookup())
	require.Len(t, upserts, 5)

	byPlayer := make(map[string]store.PlayerStatUpsert)
	for _, u := range upserts {
		byPlayer[u.PlayerGsis] = u
	}

	qb := byPlayer["QB1"]
	assert.Equal(t, "2023_01_KAN_DET", qb.GameKey)
	require.NotNil(t, qb.PassAtt)
	assert.Equal(t, 35, *qb.PassAtt)
	require.NotNil(t, qb.PassYds)
	assert.Equal(t, 280, *qb.PassYds)
	require.NotNil(t, qb.IntThrown)
	assert.Equal(t, 1, *qb.IntThrown)
	require.NotNil(t, qb.Sacks)
	assert.Equal(t, 2.0, *qb.Sacks)
	require.NotNil(t, qb.FantasyPPR)
	assert.Equal(t, 24.5, *qb.FantasyPPR)

	// The defender's sacks column keeps its fractional value.
	edge := byPlayer["EDGE1"]
	require.NotNil(t, edge.Sacks)
	assert.Equal(t, 1.5, *edge.Sacks)
}

func TestBuildPlayerStatUpsertsDropsUnscheduledRows(t *testing.T) {
	rows := []WeeklyRow{
		{PlayerID: "QB1", Team: "KAN", Season: 2023, Week: 1},
		{PlayerID: "QB3", Team: "SEA", Season: 2023, Week: 1},
	}

	upserts := BuildPlayerStatUpserts(rows, fixtureLookup())
	require.Len(t, upserts, 1)
	assert.Equal(t, "QB1", upserts[0].PlayerGsis)
}

func TestBuildStagingRowsPreservesNulls(t *testing.T) {
	yards := 280.0
	rows := []WeeklyRow{
		{
			PlayerID: "QB1", PlayerDisplayName: "Quarterback One",
			Team: "KAN", Season: 2023, Week: 1,
			PassingYards: &yards,
		},
	}

	staged := BuildStagingRows(rows)
	require.Len(t, staged, 1)
	assert.Equal(t, "QB1", staged[0].PlayerID)
	require.NotNil(t, staged[0].PassingYards)
	assert.Equal(t, 280.0, *staged[0].PassingYards)
	assert.Nil(t, staged[0].Attempts)
	assert.Nil(t, staged[0].Position)
}
