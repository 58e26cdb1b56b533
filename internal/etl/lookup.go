package etl

import (
	"math"
	"strconv"
	"strings"

	"github.com/gridironlabs/nfldb/internal/dataframe"
)

// Playoff rounds in the schedule feed carry labels instead of numbers.
// They map onto week numbers past the regular season so postseason
// games join against the same weeks table as everything else.
var playoffWeekMap = map[string]int{
	"wildcard":                 19,
	"wild card":                19,
	"wc":                       19,
	"divisional":               20,
	"division":                 20,
	"div":                      20,
	"conference championships": 21,
	"conference championship":  21,
	"conference":               21,
	"conference champ":         21,
	"championship":             21,
	"con":                      21,
	"super bowl":               22,
	"superbowl":                22,
	"sb":                       22,
}

// NormalizeWeek parses a schedule week value: plain numbers pass
// through, playoff round labels map to weeks 19-22, anything else is
// rejected.
func NormalizeWeek(value string) (int, bool) {
	text := strings.TrimSpace(value)
	if text == "" {
		return 0, false
	}
	if parsed, err := strconv.ParseFloat(text, 64); err == nil {
		if math.IsNaN(parsed) {
			return 0, false
		}
		return int(parsed), true
	}
	week, ok := playoffWeekMap[strings.ToLower(text)]
	return week, ok
}

// ScheduleKey addresses one team's side of one game.
type ScheduleKey struct {
	Season int
	Week   int
	Team   string
}

// ScheduleEntry resolves a key to the game's natural key and that
// team's final score, when known.
type ScheduleEntry struct {
	GameKey string
	Points  *int
}

// BuildScheduleLookup expands schedule rows into two entries per game,
// one for each side, keyed by (season, week, team code).
func BuildScheduleLookup(frame *dataframe.Frame) map[ScheduleKey]ScheduleEntry {
	lookup := make(map[ScheduleKey]ScheduleEntry)
	for _, row := range frame.Rows() {
		week, ok := NormalizeWeek(row.String("week"))
		if !ok {
			continue
		}
		season, ok := row.Int("season")
		if !ok {
			continue
		}
		gameKey := row.String("game_id")

		homePoints := pointsFrom(row, "home_score")
		awayPoints := pointsFrom(row, "away_score")

		lookup[ScheduleKey{Season: season, Week: week, Team: row.String("home_team")}] =
			ScheduleEntry{GameKey: gameKey, Points: homePoints}
		lookup[ScheduleKey{Season: season, Week: week, Team: row.String("away_team")}] =
			ScheduleEntry{GameKey: gameKey, Points: awayPoints}
	}
	return lookup
}

func pointsFrom(row dataframe.Row, column string) *int {
	value, ok := row.Int(column)
	if !ok {
		return nil
	}
	return &value
}
