package store

import "time"

// Write-side payloads. The ETL loader resolves natural keys (season
// year, week number, team code, gsis id, game key) to surrogate ids
// with SQL joins at insert time, so these carry natural keys only.

// SeasonUpsert inserts a season year if absent.
type SeasonUpsert struct {
	Year int
}

// TeamUpsert refreshes franchise metadata keyed by team code.
type TeamUpsert struct {
	TeamCode   string
	TeamName   *string
	Conference *string
	Division   *string
}

// WeekUpsert refreshes a week's date bounds keyed by (season, number).
type WeekUpsert struct {
	Season     int
	WeekNumber int
	StartDate  *time.Time
	EndDate    *time.Time
}

// GameUpsert refreshes a game keyed by (week, home team, away team).
type GameUpsert struct {
	GameKey      string
	Season       int
	WeekNumber   int
	HomeTeam     string
	AwayTeam     string
	Venue        *string
	KickoffTS    *time.Time
	Roof         *string
	Surface      *string
	FavoriteTeam *string
	Spread       *float64
	Total        *float64
	HomePoints   *int
	AwayPoints   *int
	Winner       *string
}

// PlayerUpsert refreshes a player's identity keyed by gsis id.
type PlayerUpsert struct {
	GsisID   string
	FullName string
	Position *string
}

// TeamStatUpsert refreshes one team's box score for one game.
type TeamStatUpsert struct {
	GameKey      string
	TeamCode     string
	Season       int
	Week         int
	Points       *int
	Yards        *int
	PassYards    *int
	RushYards    *int
	SacksMade    *int
	SacksAllowed *int
	Turnovers    *int
}

// PlayerStatUpsert refreshes one player's box score for one game.
type PlayerStatUpsert struct {
	GameKey    string
	Season     int
	Week       int
	TeamCode   string
	PlayerGsis string
	Position   *string
	PassAtt    *int
	PassCmp    *int
	PassYds    *int
	PassTD     *int
	IntThrown  *int
	RushAtt    *int
	RushYds    *int
	RushTD     *int
	Targets    *int
	Receptions *int
	RecYds     *int
	RecTD      *int
	Sacks      *float64
	Fumbles    *int
	FantasyPPR *float64
}

// StagingRow is one raw weekly-stats row destined for the
// nfl_weekly_stats staging table. Values stay nullable floats to
// mirror the provider feed.
type StagingRow struct {
	PlayerID              string
	PlayerDisplayName     string
	Position              *string
	PositionGroup         *string
	Team                  string
	Season                int
	Week                  int
	Attempts              *float64
	Completions           *float64
	PassingYards          *float64
	PassingTDs            *float64
	PassingInterceptions  *float64
	Carries               *float64
	RushingYards          *float64
	RushingTDs            *float64
	Targets               *float64
	Receptions            *float64
	ReceivingYards        *float64
	ReceivingTDs          *float64
	SacksSuffered         *float64
	FumblesLost           *float64
	FantasyPointsPPR      *float64
}

// Read-side rows returned by the repositories for the API.

// Season is a season with at least one finalized game.
type Season struct {
	SeasonID int
	Year     int
}

// Week is one week of a season.
type Week struct {
	WeekID     int
	WeekNumber int
	StartDate  *time.Time
	EndDate    *time.Time
}

// Game is a denormalized game row with team codes resolved.
type Game struct {
	GameID        int
	NflfastGameID *string
	Season        int
	Week          int
	HomeTeam      string
	AwayTeam      string
	HomePoints    *int
	AwayPoints    *int
	KickoffTS     *time.Time
}

// TeamGameStat is one team's box score joined to game context.
type TeamGameStat struct {
	GameID       int
	Season       int
	Week         int
	TeamCode     string
	TeamName     *string
	Points       *int
	Yards        *int
	PassYards    *int
	RushYards    *int
	SacksMade    *int
	SacksAllowed *int
	Turnovers    *int
}

// PlayerSummary is a search result with the player's latest team.
type PlayerSummary struct {
	PlayerID int
	FullName string
	Position *string
	TeamCode *string
	TeamName *string
}

// Player is a player identity row.
type Player struct {
	PlayerID int
	FullName string
	Position *string
}

// TimelineEntry aggregates a player's stats for one (season, week,
// team) bucket. Sums coalesce NULL to zero, so the counters are plain
// values.
type TimelineEntry struct {
	Season      int
	Week        int
	TeamCode    string
	TeamName    *string
	KickoffTS   *time.Time
	GamesPlayed int
	PassAtt     int
	PassCmp     int
	PassYds     int
	PassTD      int
	IntThrown   int
	RushAtt     int
	RushYds     int
	RushTD      int
	Targets     int
	Receptions  int
	RecYds      int
	RecTD       int
	Tackles     int
	Sacks       float64
	Interceptions int
	Fumbles     int
	FantasyPPR  float64
	SnapsOff    int
	SnapsDef    int
	SnapsST     int
}

// WeekHealth counts finalized games for one week of the latest season.
type WeekHealth struct {
	WeekNumber     int
	TotalGames     int
	CompletedGames int
}

// TableCount is a row-count snapshot entry for one table.
type TableCount struct {
	TableName string
	RowCount  int
}
