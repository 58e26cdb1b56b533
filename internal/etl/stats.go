package etl

import (
	"math"
	"sort"

	"github.com/gridironlabs/nfldb/internal/store"
)

// TeamStatLine is one team's aggregated week over its players' rows.
type TeamStatLine struct {
	Season       int
	Week         int
	TeamCode     string
	PassYards    float64
	RushYards    float64
	SacksAllowed float64
	SacksMade    float64
	Turnovers    float64
	Yards        float64
}

// AggregateTeamStats groups normalized player-weeks by (season, week,
// team) and sums the team-level counters. NULL player values count as
// zero. Output order is deterministic: season, week, then team code.
func AggregateTeamStats(rows []WeeklyRow) []TeamStatLine {
	type groupKey struct {
		Season int
		Week   int
		Team   string
	}

	groups := make(map[groupKey]*TeamStatLine)
	for _, row := range rows {
		key := groupKey{Season: row.Season, Week: row.Week, Team: row.Team}
		line, ok := groups[key]
		if !ok {
			line = &TeamStatLine{Season: row.Season, Week: row.Week, TeamCode: row.Team}
			groups[key] = line
		}
		line.PassYards += zeroIfNil(row.PassingYards)
		line.RushYards += zeroIfNil(row.RushingYards)
		line.SacksAllowed += row.SacksAllowed
		line.SacksMade += row.DefSacks
		line.Turnovers += row.Turnovers
	}

	lines := make([]TeamStatLine, 0, len(groups))
	for _, line := range groups {
		line.Yards = line.PassYards + line.RushYards
		lines = append(lines, *line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Season != lines[j].Season {
			return lines[i].Season < lines[j].Season
		}
		if lines[i].Week != lines[j].Week {
			return lines[i].Week < lines[j].Week
		}
		return lines[i].TeamCode < lines[j].TeamCode
	})
	return lines
}

// BuildTeamStatUpserts joins aggregated lines against the schedule
// lookup. Lines with no scheduled game are dropped.
func BuildTeamStatUpserts(lines []TeamStatLine, lookup map[ScheduleKey]ScheduleEntry) []store.TeamStatUpsert {
	var upserts []store.TeamStatUpsert
	for _, line := range lines {
		entry, ok := lookup[ScheduleKey{Season: line.Season, Week: line.Week, Team: line.TeamCode}]
		if !ok {
			continue
		}
		upserts = append(upserts, store.TeamStatUpsert{
			GameKey:      entry.GameKey,
			TeamCode:     line.TeamCode,
			Season:       line.Season,
			Week:         line.Week,
			Points:       entry.Points,
			Yards:        roundToInt(line.Yards),
			PassYards:    roundToInt(line.PassYards),
			RushYards:    roundToInt(line.RushYards),
			SacksMade:    roundToInt(line.SacksMade),
			SacksAllowed: roundToInt(line.SacksAllowed),
			Turnovers:    roundToInt(line.Turnovers),
		})
	}
	return upserts
}

// BuildPlayerUpserts deduplicates player identities, keeping the first
// occurrence per gsis id.
func BuildPlayerUpserts(rows []WeeklyRow) []store.PlayerUpsert {
	seen := make(map[string]bool)
	var upserts []store.PlayerUpsert
	for _, row := range rows {
		if seen[row.PlayerID] {
			continue
		}
		seen[row.PlayerID] = true
		upserts = append(upserts, store.PlayerUpsert{
			GsisID:   row.PlayerID,
			FullName: row.PlayerDisplayName,
			Position: optionalString(row.Position),
		})
	}
	return upserts
}

// BuildPlayerStatUpserts joins player-weeks against the schedule
// lookup. Rows with no scheduled game are dropped.
func BuildPlayerStatUpserts(rows []WeeklyRow, lookup map[ScheduleKey]ScheduleEntry) []store.PlayerStatUpsert {
	var upserts []store.PlayerStatUpsert
	for _, row := range rows {
		entry, ok := lookup[ScheduleKey{Season: row.Season, Week: row.Week, Team: row.Team}]
		if !ok {
			continue
		}
		sacks := row.Sacks
		fumbles := int(math.Round(row.FumblesTotal))
		upserts = append(upserts, store.PlayerStatUpsert{
			GameKey:    entry.GameKey,
			Season:     row.Season,
			Week:       row.Week,
			TeamCode:   row.Team,
			PlayerGsis: row.PlayerID,
			Position:   optionalString(row.Position),
			PassAtt:    floatToInt(row.Attempts),
			PassCmp:    floatToInt(row.Completions),
			PassYds:    floatToInt(row.PassingYards),
			PassTD:     floatToInt(row.PassingTDs),
			IntThrown:  floatToInt(row.Interceptions),
			RushAtt:    floatToInt(row.Carries),
			RushYds:    floatToInt(row.RushingYards),
			RushTD:     floatToInt(row.RushingTDs),
			Targets:    floatToInt(row.Targets),
			Receptions: floatToInt(row.Receptions),
			RecYds:     floatToInt(row.ReceivingYards),
			RecTD:      floatToInt(row.ReceivingTDs),
			Sacks:      &sacks,
			Fumbles:    &fumbles,
			FantasyPPR: row.FantasyPointsPPR,
		})
	}
	return upserts
}

// BuildStagingRows converts normalized rows into raw staging rows,
// preserving feed NULLs.
func BuildStagingRows(rows []WeeklyRow) []store.StagingRow {
	staged := make([]store.StagingRow, 0, len(rows))
	for _, row := range rows {
		staged = append(staged, store.StagingRow{
			PlayerID:             row.PlayerID,
			PlayerDisplayName:    row.PlayerDisplayName,
			Position:             optionalString(row.Position),
			PositionGroup:        optionalString(row.PositionGroup),
			Team:                 row.Team,
			Season:               row.Season,
			Week:                 row.Week,
			Attempts:             row.Attempts,
			Completions:          row.Completions,
			PassingYards:         row.PassingYards,
			PassingTDs:           row.PassingTDs,
			PassingInterceptions: row.Interceptions,
			Carries:              row.Carries,
			RushingYards:         row.RushingYards,
			RushingTDs:           row.RushingTDs,
			Targets:              row.Targets,
			Receptions:           row.Receptions,
			ReceivingYards:       row.ReceivingYards,
			ReceivingTDs:         row.ReceivingTDs,
			SacksSuffered:        row.SacksSuffered,
			FumblesLost:          row.FumblesLost,
			FantasyPointsPPR:     row.FantasyPointsPPR,
		})
	}
	return staged
}

func roundToInt(value float64) *int {
	if math.IsNaN(value) {
		return nil
	}
	rounded := int(math.Round(value))
	return &rounded
}

func floatToInt(value *float64) *int {
	if value == nil {
		return nil
	}
	return roundToInt(*value)
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
