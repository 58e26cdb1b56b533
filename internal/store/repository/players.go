package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gridironlabs/nfldb/internal/store"
)

// PlayerRepository handles player data access
type PlayerRepository struct {
	db *store.Database
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *store.Database) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// UpsertPlayers inserts or refreshes player identity rows keyed by
// gsis id.
func (r *PlayerRepository) UpsertPlayers(ctx context.Context, players []store.PlayerUpsert) error {
	if len(players) == 0 {
		return nil
	}

	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning player upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO players (gsis_id, full_name, position)
		VALUES ($1, $2, $3)
		ON CONFLICT (gsis_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			position = EXCLUDED.position
	`)
	if err != nil {
		return fmt.Errorf("preparing player upsert: %w", err)
	}
	defer stmt.Close()

	for _, player := range players {
		_, err := stmt.ExecContext(ctx, player.GsisID, player.FullName, player.Position)
		if err != nil {
			return fmt.Errorf("upserting player %s: %w", player.GsisID, err)
		}
	}

	return tx.Commit()
}

// GetByID finds a player by its database ID
func (r *PlayerRepository) GetByID(ctx context.Context, playerID int) (*store.Player, error) {
	query := `
		SELECT player_id, full_name, position
		FROM players
		WHERE player_id = $1
	`

	player := &store.Player{}
	err := r.db.DB().QueryRowContext(ctx, query, playerID).Scan(
		&player.PlayerID, &player.FullName, &player.Position,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %d: %w", playerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying player: %w", err)
	}

	return player, nil
}

// Search returns up to limit players whose names contain the term,
// case-insensitively, each annotated with the latest team they logged
// stats for.
func (r *PlayerRepository) Search(ctx context.Context, term string, limit int) ([]*store.PlayerSummary, error) {
	pattern := "%" + term + "%"

	query := `
		WITH latest_team AS (
			SELECT
				stats.player_id,
				t.team_code,
				t.team_name,
				ROW_NUMBER() OVER (
					PARTITION BY stats.player_id
					ORDER BY s.year DESC,
						w.week_number DESC,
						CASE WHEN g.kickoff_ts IS NULL THEN 1 ELSE 0 END ASC,
						g.kickoff_ts DESC,
						stats.game_id DESC
				) AS row_num
			FROM player_game_stats AS stats
			JOIN weeks AS w ON stats.week_id = w.week_id
			JOIN seasons AS s ON w.season_id = s.season_id
			JOIN teams AS t ON stats.team_id = t.team_id
			LEFT JOIN games AS g ON stats.game_id = g.game_id
		)
		SELECT
			p.player_id,
			p.full_name,
			p.position,
			lt.team_code,
			lt.team_name
		FROM players AS p
		LEFT JOIN (
			SELECT player_id, team_code, team_name
			FROM latest_team
			WHERE row_num = 1
		) AS lt ON lt.player_id = p.player_id
		WHERE LOWER(p.full_name) LIKE LOWER($1)
		ORDER BY p.full_name ASC
		LIMIT $2
	`

	rows, err := r.db.DB().QueryContext(ctx, query, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("searching players: %w", err)
	}
	defer rows.Close()

	var players []*store.PlayerSummary
	for rows.Next() {
		summary := &store.PlayerSummary{}
		err := rows.Scan(
			&summary.PlayerID, &summary.FullName, &summary.Position,
			&summary.TeamCode, &summary.TeamName,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning player summary: %w", err)
		}
		players = append(players, summary)
	}

	return players, rows.Err()
}

// Timeline aggregates a player's stats per (season, week, team). A nil
// season returns the full career.
func (r *PlayerRepository) Timeline(ctx context.Context, playerID int, season *int) ([]*store.TimelineEntry, error) {
	query := `
		SELECT
			s.year AS season,
			w.week_number AS week,
			t.team_code AS team_code,
			t.team_name AS team_name,
			MIN(g.kickoff_ts) AS kickoff_ts,
			COUNT(DISTINCT stats.game_id) AS games_played,
			SUM(COALESCE(stats.pass_att, 0)) AS pass_att,
			SUM(COALESCE(stats.pass_cmp, 0)) AS pass_cmp,
			SUM(COALESCE(stats.pass_yds, 0)) AS pass_yds,
			SUM(COALESCE(stats.pass_td, 0)) AS pass_td,
			SUM(COALESCE(stats.int_thrown, 0)) AS int_thrown,
			SUM(COALESCE(stats.rush_att, 0)) AS rush_att,
			SUM(COALESCE(stats.rush_yds, 0)) AS rush_yds,
			SUM(COALESCE(stats.rush_td, 0)) AS rush_td,
			SUM(COALESCE(stats.targets, 0)) AS targets,
			SUM(COALESCE(stats.receptions, 0)) AS receptions,
			SUM(COALESCE(stats.rec_yds, 0)) AS rec_yds,
			SUM(COALESCE(stats.rec_td, 0)) AS rec_td,
			SUM(COALESCE(stats.tackles, 0)) AS tackles,
			SUM(COALESCE(stats.sacks, 0)) AS sacks,
			SUM(COALESCE(stats.interceptions, 0)) AS interceptions,
			SUM(COALESCE(stats.fumbles, 0)) AS fumbles,
			SUM(COALESCE(stats.fantasy_ppr, 0)) AS fantasy_ppr,
			SUM(COALESCE(stats.snaps_off, 0)) AS snaps_off,
			SUM(COALESCE(stats.snaps_def, 0)) AS snaps_def,
			SUM(COALESCE(stats.snaps_st, 0)) AS snaps_st
		FROM player_game_stats AS stats
		JOIN weeks AS w ON stats.week_id = w.week_id
		JOIN seasons AS s ON w.season_id = s.season_id
		JOIN teams AS t ON stats.team_id = t.team_id
		LEFT JOIN games AS g ON stats.game_id = g.game_id
		WHERE stats.player_id = $1
			AND ($2::int IS NULL OR s.year = $2)
		GROUP BY s.year, w.week_number, t.team_code, t.team_name
		ORDER BY s.year ASC, w.week_number ASC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, playerID, season)
	if err != nil {
		return nil, fmt.Errorf("querying player timeline: %w", err)
	}
	defer rows.Close()

	var entries []*store.TimelineEntry
	for rows.Next() {
		entry := &store.TimelineEntry{}
		err := rows.Scan(
			&entry.Season, &entry.Week, &entry.TeamCode, &entry.TeamName,
			&entry.KickoffTS, &entry.GamesPlayed,
			&entry.PassAtt, &entry.PassCmp, &entry.PassYds, &entry.PassTD,
			&entry.IntThrown, &entry.RushAtt, &entry.RushYds, &entry.RushTD,
			&entry.Targets, &entry.Receptions, &entry.RecYds, &entry.RecTD,
			&entry.Tackles, &entry.Sacks, &entry.Interceptions, &entry.Fumbles,
			&entry.FantasyPPR, &entry.SnapsOff, &entry.SnapsDef, &entry.SnapsST,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning timeline entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
