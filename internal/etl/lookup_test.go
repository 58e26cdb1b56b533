package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/nfldb/internal/dataframe"
)

func TestNormalizeWeek(t *testing.T) {
	tests := []struct {
		value string
		want  int
		ok    bool
	}{
		{"1", 1, true},
		{"18", 18, true},
		{"1.0", 1, true},
		{" 7 ", 7, true},
		{"Wild Card", 19, true},
		{"WILDCARD", 19, true},
		{"WC", 19, true},
		{"Divisional", 20, true},
		{"Division", 20, true},
		{"Conference", 21, true},
		{"Conference Championship", 21, true},
		{"Super Bowl", 22, true},
		{"SuperBowl", 22, true},
		{"SB", 22, true},
		{"", 0, false},
		{"bye", 0, false},
		{"NaN", 0, false},
	}
	for _, tt := range tests {
		got, ok := NormalizeWeek(tt.value)
		assert.Equal(t, tt.ok, ok, "value %q", tt.value)
		assert.Equal(t, tt.want, got, "value %q", tt.value)
	}
}

func TestBuildScheduleLookup(t *testing.T) {
	frame := dataframe.New()
	frame.Append(dataframe.Row{
		"season": 2023, "week": "1", "game_id": "2023_01_KAN_DET",
		"home_team": "KAN", "away_team": "DET",
		"home_score": 27, "away_score": 21,
	})
	frame.Append(dataframe.Row{
		"season": 2023, "week": "Super Bowl", "game_id": "2023_22_SF_KC",
		"home_team": "SF", "away_team": "KC",
	})

	lookup := BuildScheduleLookup(frame)
	require.Len(t, lookup, 4, "two entries per game")

	home, ok := lookup[ScheduleKey{Season: 2023, Week: 1, Team: "KAN"}]
	require.True(t, ok)
	assert.Equal(t, "2023_01_KAN_DET", home.GameKey)
	require.NotNil(t, home.Points)
	assert.Equal(t, 27, *home.Points)

	away, ok := lookup[ScheduleKey{Season: 2023, Week: 1, Team: "DET"}]
	require.True(t, ok)
	require.NotNil(t, away.Points)
	assert.Equal(t, 21, *away.Points)

	// Playoff rounds key under their mapped week number, and missing
	// scores stay nil.
	sb, ok := lookup[ScheduleKey{Season: 2023, Week: 22, Team: "SF"}]
	require.True(t, ok)
	assert.Equal(t, "2023_22_SF_KC", sb.GameKey)
	assert.Nil(t, sb.Points)
}

func TestBuildScheduleLookupSkipsUnparsableWeeks(t *testing.T) {
	frame := dataframe.New()
	frame.Append(dataframe.Row{
		"season": 2023, "week": "bye", "game_id": "junk",
		"home_team": "KAN", "away_team": "DET",
	})

	lookup := BuildScheduleLookup(frame)
	assert.Empty(t, lookup)
}
