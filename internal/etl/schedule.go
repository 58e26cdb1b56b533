package etl

import (
	"sort"
	"time"

	"github.com/gridironlabs/nfldb/internal/dataframe"
	"github.com/gridironlabs/nfldb/internal/store"
)

const gamedayLayout = "2006-01-02"

var kickoffLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// BuildSeasonUpserts covers every year in the inclusive range.
func BuildSeasonUpserts(seasonStart, seasonEnd int) []store.SeasonUpsert {
	var seasons []store.SeasonUpsert
	for year := seasonStart; year <= seasonEnd; year++ {
		seasons = append(seasons, store.SeasonUpsert{Year: year})
	}
	return seasons
}

// BuildWeekUpserts derives per-week date bounds from schedule rows:
// start is the earliest gameday in the week, end the latest.
func BuildWeekUpserts(frame *dataframe.Frame) []store.WeekUpsert {
	type weekKey struct {
		Season int
		Week   int
	}
	type bounds struct {
		Start *time.Time
		End   *time.Time
	}

	weeks := make(map[weekKey]*bounds)
	for _, row := range frame.Rows() {
		week, ok := NormalizeWeek(row.String("week"))
		if !ok {
			continue
		}
		season, ok := row.Int("season")
		if !ok {
			continue
		}
		gameday := parseGameday(row.String("gameday"))

		key := weekKey{Season: season, Week: week}
		entry, ok := weeks[key]
		if !ok {
			entry = &bounds{}
			weeks[key] = entry
		}
		if gameday == nil {
			continue
		}
		if entry.Start == nil || gameday.Before(*entry.Start) {
			entry.Start = gameday
		}
		if entry.End == nil || gameday.After(*entry.End) {
			entry.End = gameday
		}
	}

	upserts := make([]store.WeekUpsert, 0, len(weeks))
	for key, entry := range weeks {
		upserts = append(upserts, store.WeekUpsert{
			Season:     key.Season,
			WeekNumber: key.Week,
			StartDate:  entry.Start,
			EndDate:    entry.End,
		})
	}
	sort.Slice(upserts, func(i, j int) bool {
		if upserts[i].Season != upserts[j].Season {
			return upserts[i].Season < upserts[j].Season
		}
		return upserts[i].WeekNumber < upserts[j].WeekNumber
	})
	return upserts
}

// BuildTeamUpserts keeps team metadata rows for codes that actually
// appear in the schedule, deduplicated by code.
func BuildTeamUpserts(schedule, teamMeta *dataframe.Frame) []store.TeamUpsert {
	codes := make(map[string]bool)
	for _, row := range schedule.Rows() {
		if home := row.String("home_team"); home != "" {
			codes[home] = true
		}
		if away := row.String("away_team"); away != "" {
			codes[away] = true
		}
	}

	seen := make(map[string]bool)
	var upserts []store.TeamUpsert
	for _, row := range teamMeta.Rows() {
		code := row.String("team_abbr")
		if code == "" || !codes[code] || seen[code] {
			continue
		}
		seen[code] = true

		conference := row.String("team_conf")
		if conference == "" {
			conference = row.String("conference")
		}
		division := row.String("team_division")
		if division == "" {
			division = row.String("division")
		}

		upserts = append(upserts, store.TeamUpsert{
			TeamCode:   code,
			TeamName:   optionalString(row.String("team_name")),
			Conference: optionalString(conference),
			Division:   optionalString(division),
		})
	}
	return upserts
}

// BuildGameUpserts converts schedule rows into game payloads: the
// Vegas favorite comes from the spread sign (negative favors home),
// the winner from final scores, and kickoff from gameday plus
// gametime. A non-nil targetWeeks keeps only those week numbers.
func BuildGameUpserts(frame *dataframe.Frame, targetWeeks []int) []store.GameUpsert {
	weekSet := make(map[int]bool, len(targetWeeks))
	for _, week := range targetWeeks {
		weekSet[week] = true
	}

	var games []store.GameUpsert
	for _, row := range frame.Rows() {
		week, ok := NormalizeWeek(row.String("week"))
		if !ok {
			continue
		}
		if targetWeeks != nil && !weekSet[week] {
			continue
		}
		season, ok := row.Int("season")
		if !ok {
			continue
		}

		homeTeam := row.String("home_team")
		awayTeam := row.String("away_team")
		homePoints := pointsFrom(row, "home_score")
		awayPoints := pointsFrom(row, "away_score")

		game := store.GameUpsert{
			GameKey:      row.String("game_id"),
			Season:       season,
			WeekNumber:   week,
			HomeTeam:     homeTeam,
			AwayTeam:     awayTeam,
			Venue:        optionalString(row.String("stadium")),
			KickoffTS:    parseKickoff(row.String("gameday"), row.String("gametime")),
			Roof:         optionalString(row.String("roof")),
			Surface:      optionalString(row.String("surface")),
			Spread:       nullableFloat(row, "spread_line"),
			Total:        nullableFloat(row, "total_line"),
			HomePoints:   homePoints,
			AwayPoints:   awayPoints,
			FavoriteTeam: favoriteTeam(row, homeTeam, awayTeam),
			Winner:       winnerTeam(homeTeam, awayTeam, homePoints, awayPoints),
		}
		games = append(games, game)
	}
	return games
}

func favoriteTeam(row dataframe.Row, homeTeam, awayTeam string) *string {
	spread, ok := row.Float("spread_line")
	if !ok {
		return nil
	}
	switch {
	case spread < 0:
		return optionalString(homeTeam)
	case spread > 0:
		return optionalString(awayTeam)
	}
	return nil
}

func winnerTeam(homeTeam, awayTeam string, homePoints, awayPoints *int) *string {
	if homePoints == nil || awayPoints == nil {
		return nil
	}
	switch {
	case *homePoints > *awayPoints:
		return optionalString(homeTeam)
	case *awayPoints > *homePoints:
		return optionalString(awayTeam)
	}
	return nil
}

func parseGameday(value string) *time.Time {
	if value == "" {
		return nil
	}
	parsed, err := time.Parse(gamedayLayout, value)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseKickoff(gameday, gametime string) *time.Time {
	if gameday == "" || gametime == "" {
		return nil
	}
	combined := gameday + " " + gametime
	for _, layout := range kickoffLayouts {
		if parsed, err := time.Parse(layout, combined); err == nil {
			return &parsed
		}
	}
	return nil
}
