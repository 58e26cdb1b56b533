package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gridironlabs/nfldb/internal/store"
)

// ErrNotFound marks lookups that matched no rows so HTTP handlers can
// translate them to 404 responses.
var ErrNotFound = errors.New("not found")

// GameRepository handles game data access
type GameRepository struct {
	db *store.Database
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *store.Database) *GameRepository {
	return &GameRepository{db: db}
}

const gameSelect = `
	SELECT
		g.game_id,
		g.nflfast_game_id,
		s.year AS season,
		w.week_number,
		home.team_code AS home_team,
		away.team_code AS away_team,
		g.home_points,
		g.away_points,
		g.kickoff_ts
	FROM games AS g
	JOIN weeks AS w ON g.week_id = w.week_id
	JOIN seasons AS s ON w.season_id = s.season_id
	JOIN teams AS home ON g.home_team_id = home.team_id
	JOIN teams AS away ON g.away_team_id = away.team_id
`

// GetByID finds a game by its database ID
func (r *GameRepository) GetByID(ctx context.Context, gameID int) (*store.Game, error) {
	query := gameSelect + `WHERE g.game_id = $1`

	game := &store.Game{}
	err := r.db.DB().QueryRowContext(ctx, query, gameID).Scan(
		&game.GameID, &game.NflfastGameID, &game.Season, &game.Week,
		&game.HomeTeam, &game.AwayTeam, &game.HomePoints, &game.AwayPoints,
		&game.KickoffTS,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %d: %w", gameID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying game: %w", err)
	}

	return game, nil
}

// GetBySeason returns all games in a season ordered by week, then
// kickoff with unscheduled kickoffs last.
func (r *GameRepository) GetBySeason(ctx context.Context, season int) ([]*store.Game, error) {
	query := gameSelect + `
		WHERE s.year = $1
		ORDER BY w.week_number ASC,
			CASE WHEN g.kickoff_ts IS NULL THEN 1 ELSE 0 END,
			g.kickoff_ts ASC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("querying season games: %w", err)
	}
	defer rows.Close()

	return r.scanGames(rows)
}

// UpsertGames inserts or refreshes games keyed by (week, home, away).
// Team and week ids are resolved by joining on natural keys; rows whose
// joins do not resolve are silently skipped.
func (r *GameRepository) UpsertGames(ctx context.Context, games []store.GameUpsert) error {
	if len(games) == 0 {
		return nil
	}

	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning game upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO games (nflfast_game_id, week_id, home_team_id, away_team_id, venue,
			kickoff_ts, roof, surface, vegas_favorite_team_id, spread, total, home_points,
			away_points, winner_team_id)
		SELECT $1, weeks.week_id, home.team_id, away.team_id, $5, $6,
			$7, $8, fav.team_id, $9, $10, $11, $12, win.team_id
		FROM weeks
		JOIN seasons ON seasons.season_id = weeks.season_id AND seasons.year = $2
		JOIN teams AS home ON home.team_code = $3
		JOIN teams AS away ON away.team_code = $4
		LEFT JOIN teams AS fav ON fav.team_code = $13
		LEFT JOIN teams AS win ON win.team_code = $14
		WHERE weeks.week_number = $15
		ON CONFLICT (week_id, home_team_id, away_team_id) DO UPDATE SET
			nflfast_game_id = EXCLUDED.nflfast_game_id,
			venue = EXCLUDED.venue,
			kickoff_ts = EXCLUDED.kickoff_ts,
			roof = EXCLUDED.roof,
			surface = EXCLUDED.surface,
			vegas_favorite_team_id = EXCLUDED.vegas_favorite_team_id,
			spread = EXCLUDED.spread,
			total = EXCLUDED.total,
			home_points = EXCLUDED.home_points,
			away_points = EXCLUDED.away_points,
			winner_team_id = EXCLUDED.winner_team_id
	`)
	if err != nil {
		return fmt.Errorf("preparing game upsert: %w", err)
	}
	defer stmt.Close()

	for _, game := range games {
		_, err := stmt.ExecContext(ctx,
			game.GameKey, game.Season, game.HomeTeam, game.AwayTeam, game.Venue,
			game.KickoffTS, game.Roof, game.Surface, game.Spread, game.Total,
			game.HomePoints, game.AwayPoints, game.FavoriteTeam, game.Winner,
			game.WeekNumber,
		)
		if err != nil {
			return fmt.Errorf("upserting game %s: %w", game.GameKey, err)
		}
	}

	return tx.Commit()
}

// scanGames scans multiple game rows
func (r *GameRepository) scanGames(rows *sql.Rows) ([]*store.Game, error) {
	var games []*store.Game
	for rows.Next() {
		game := &store.Game{}
		err := rows.Scan(
			&game.GameID, &game.NflfastGameID, &game.Season, &game.Week,
			&game.HomeTeam, &game.AwayTeam, &game.HomePoints, &game.AwayPoints,
			&game.KickoffTS,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}
