package etl

import (
	"fmt"

	"github.com/gridironlabs/nfldb/internal/dataframe"
)

// SchemaDriftError reports a weekly feed whose identity columns are
// missing entirely, which means the upstream layout changed.
type SchemaDriftError struct {
	Missing string
}

func (e *SchemaDriftError) Error() string {
	return fmt.Sprintf("weekly stats feed is missing %s", e.Missing)
}

// WeeklyRow is one normalized player-week. Pointer fields preserve
// NULLs from the feed; the derived counters are always present.
type WeeklyRow struct {
	PlayerID          string
	PlayerDisplayName string
	Position          string
	PositionGroup     string
	Team              string
	Season            int
	Week              int

	Attempts         *float64
	Completions      *float64
	PassingYards     *float64
	PassingTDs       *float64
	Interceptions    *float64
	Carries          *float64
	RushingYards     *float64
	RushingTDs       *float64
	Targets          *float64
	Receptions       *float64
	ReceivingYards   *float64
	ReceivingTDs     *float64
	FantasyPointsPPR *float64
	SacksSuffered    *float64
	FumblesLost      *float64

	// Derived: sacks disambiguated by position group, and turnover
	// components.
	Sacks        float64
	SacksAllowed float64
	DefSacks     float64
	FumblesTotal float64
	Turnovers    float64
}

var defenderGroups = map[string]bool{
	"DL": true,
	"LB": true,
	"DB": true,
}

// NormalizeWeeklyFrame resolves the weekly feed's column-name variants,
// disambiguates the overloaded sacks column by position group, derives
// turnovers, and drops rows without a usable player or team. A non-nil
// targetWeeks keeps only those week numbers.
func NormalizeWeeklyFrame(frame *dataframe.Frame, targetWeeks []int) ([]WeeklyRow, error) {
	hasRecentTeam := frame.HasColumn("recent_team")
	if !hasRecentTeam && !frame.HasColumn("team") {
		return nil, &SchemaDriftError{Missing: "both 'recent_team' and 'team' columns"}
	}

	hasInterceptions := frame.HasColumn("interceptions")
	hasPassingInterceptions := frame.HasColumn("passing_interceptions")
	hasSacks := frame.HasColumn("sacks")
	hasSacksSuffered := frame.HasColumn("sacks_suffered")
	hasDefSacks := frame.HasColumn("def_sacks")

	weekSet := make(map[int]bool, len(targetWeeks))
	for _, week := range targetWeeks {
		weekSet[week] = true
	}

	var rows []WeeklyRow
	for _, raw := range frame.Rows() {
		playerID := raw.String("player_id")
		if playerID == "" {
			continue
		}

		team := raw.String("recent_team")
		if !hasRecentTeam {
			team = raw.String("team")
		}
		if team == "" || team == "TOT" {
			continue
		}

		season, ok := raw.Int("season")
		if !ok {
			continue
		}
		week, ok := raw.Int("week")
		if !ok {
			continue
		}
		if targetWeeks != nil && !weekSet[week] {
			continue
		}

		row := WeeklyRow{
			PlayerID:          playerID,
			PlayerDisplayName: raw.String("player_display_name"),
			Position:          raw.String("position"),
			PositionGroup:     raw.String("position_group"),
			Team:              team,
			Season:            season,
			Week:              week,
			Attempts:          nullableFloat(raw, "attempts"),
			Completions:       nullableFloat(raw, "completions"),
			PassingYards:      nullableFloat(raw, "passing_yards"),
			PassingTDs:        nullableFloat(raw, "passing_tds"),
			Carries:           nullableFloat(raw, "carries"),
			RushingYards:      nullableFloat(raw, "rushing_yards"),
			RushingTDs:        nullableFloat(raw, "rushing_tds"),
			Targets:           nullableFloat(raw, "targets"),
			Receptions:        nullableFloat(raw, "receptions"),
			ReceivingYards:    nullableFloat(raw, "receiving_yards"),
			ReceivingTDs:      nullableFloat(raw, "receiving_tds"),
			FantasyPointsPPR:  nullableFloat(raw, "fantasy_points_ppr"),
			FumblesLost:       nullableFloat(raw, "fumbles_lost"),
		}

		// Interceptions thrown: the feed names this column either
		// "interceptions" or "passing_interceptions"; absent both, it
		// defaults to zero.
		switch {
		case hasInterceptions:
			row.Interceptions = nullableFloat(raw, "interceptions")
		case hasPassingInterceptions:
			row.Interceptions = nullableFloat(raw, "passing_interceptions")
		default:
			zero := 0.0
			row.Interceptions = &zero
		}

		// The "sacks" column is overloaded upstream: for quarterbacks
		// it counts sacks taken, for defenders sacks made. Resolve
		// both readings, then pick by position group.
		var qbSacks, defSacks *float64
		switch {
		case hasSacks:
			qbSacks = nullableFloat(raw, "sacks")
		case hasSacksSuffered:
			qbSacks = nullableFloat(raw, "sacks_suffered")
		}
		switch {
		case hasDefSacks:
			defSacks = nullableFloat(raw, "def_sacks")
		case hasSacks:
			defSacks = nullableFloat(raw, "sacks")
		}
		row.SacksSuffered = qbSacks

		qbValue := zeroIfNil(qbSacks)
		defValue := zeroIfNil(defSacks)
		isQB := row.PositionGroup == "QB"
		isDefender := defenderGroups[row.PositionGroup]

		switch {
		case isQB:
			row.Sacks = qbValue
			row.SacksAllowed = qbValue
		case isDefender:
			row.Sacks = defValue
			row.DefSacks = defValue
		}

		row.FumblesTotal = zeroIfNil(nullableFloat(raw, "rushing_fumbles_lost")) +
			zeroIfNil(nullableFloat(raw, "receiving_fumbles_lost")) +
			zeroIfNil(nullableFloat(raw, "sack_fumbles_lost"))

		row.Turnovers = row.FumblesTotal
		if isQB {
			row.Turnovers += zeroIfNil(row.Interceptions)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func nullableFloat(row dataframe.Row, column string) *float64 {
	value, ok := row.Float(column)
	if !ok {
		return nil
	}
	return &value
}

func zeroIfNil(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}
