package repository

import (
	"context"
	"fmt"

	"github.com/gridironlabs/nfldb/internal/store"
)

// StatsRepository handles team and player box-score data access plus
// the raw weekly staging table.
type StatsRepository struct {
	db *store.Database
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *store.Database) *StatsRepository {
	return &StatsRepository{db: db}
}

// UpsertTeamStats inserts or refreshes per-team box scores. Game and
// team ids resolve through natural keys; rows whose game key or team
// code is unknown are silently skipped.
func (r *StatsRepository) UpsertTeamStats(ctx context.Context, stats []store.TeamStatUpsert) error {
	if len(stats) == 0 {
		return nil
	}

	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning team stats upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO team_game_stats (game_id, team_id, points, yards, pass_yards,
			rush_yards, sacks_made, sacks_allowed, turnovers)
		SELECT g.game_id, t.team_id, $3, $4, $5, $6, $7, $8, $9
		FROM games g
		JOIN teams t ON t.team_code = $2
		WHERE g.nflfast_game_id = $1
		ON CONFLICT (game_id, team_id) DO UPDATE SET
			points = EXCLUDED.points,
			yards = EXCLUDED.yards,
			pass_yards = EXCLUDED.pass_yards,
			rush_yards = EXCLUDED.rush_yards,
			sacks_made = EXCLUDED.sacks_made,
			sacks_allowed = EXCLUDED.sacks_allowed,
			turnovers = EXCLUDED.turnovers
	`)
	if err != nil {
		return fmt.Errorf("preparing team stats upsert: %w", err)
	}
	defer stmt.Close()

	for _, stat := range stats {
		_, err := stmt.ExecContext(ctx,
			stat.GameKey, stat.TeamCode, stat.Points, stat.Yards, stat.PassYards,
			stat.RushYards, stat.SacksMade, stat.SacksAllowed, stat.Turnovers,
		)
		if err != nil {
			return fmt.Errorf("upserting team stats %s/%s: %w", stat.GameKey, stat.TeamCode, err)
		}
	}

	return tx.Commit()
}

// UpsertPlayerStats inserts or refreshes per-player box scores. All
// foreign keys resolve through natural-key joins; rows that fail to
// resolve a game, team, week, or player are silently skipped.
func (r *StatsRepository) UpsertPlayerStats(ctx context.Context, stats []store.PlayerStatUpsert) error {
	if len(stats) == 0 {
		return nil
	}

	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning player stats upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO player_game_stats (game_id, player_id, team_id, week_id, position,
			starter, snaps_off, snaps_def, snaps_st, pass_att, pass_cmp, pass_yds, pass_td,
			int_thrown, rush_att, rush_yds, rush_td, targets, receptions, rec_yds, rec_td,
			tackles, sacks, interceptions, fumbles, fantasy_ppr)
		SELECT g.game_id, p.player_id, t.team_id, w.week_id, $6, NULL, NULL, NULL, NULL,
			$7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NULL, $19, NULL, $20, $21
		FROM games g
		JOIN teams t ON t.team_code = $4
		JOIN seasons s ON s.year = $2
		JOIN weeks w ON w.season_id = s.season_id AND w.week_number = $3
		JOIN players p ON p.gsis_id = $5
		WHERE g.nflfast_game_id = $1
		ON CONFLICT (game_id, player_id) DO UPDATE SET
			position = EXCLUDED.position,
			pass_att = EXCLUDED.pass_att,
			pass_cmp = EXCLUDED.pass_cmp,
			pass_yds = EXCLUDED.pass_yds,
			pass_td = EXCLUDED.pass_td,
			int_thrown = EXCLUDED.int_thrown,
			rush_att = EXCLUDED.rush_att,
			rush_yds = EXCLUDED.rush_yds,
			rush_td = EXCLUDED.rush_td,
			targets = EXCLUDED.targets,
			receptions = EXCLUDED.receptions,
			rec_yds = EXCLUDED.rec_yds,
			rec_td = EXCLUDED.rec_td,
			sacks = EXCLUDED.sacks,
			fumbles = EXCLUDED.fumbles,
			fantasy_ppr = EXCLUDED.fantasy_ppr
	`)
	if err != nil {
		return fmt.Errorf("preparing player stats upsert: %w", err)
	}
	defer stmt.Close()

	for _, stat := range stats {
		_, err := stmt.ExecContext(ctx,
			stat.GameKey, stat.Season, stat.Week, stat.TeamCode, stat.PlayerGsis,
			stat.Position, stat.PassAtt, stat.PassCmp, stat.PassYds, stat.PassTD,
			stat.IntThrown, stat.RushAtt, stat.RushYds, stat.RushTD, stat.Targets,
			stat.Receptions, stat.RecYds, stat.RecTD, stat.Sacks, stat.Fumbles,
			stat.FantasyPPR,
		)
		if err != nil {
			return fmt.Errorf("upserting player stats %s/%s: %w", stat.GameKey, stat.PlayerGsis, err)
		}
	}

	return tx.Commit()
}

// ListTeamStats returns all per-team box scores for a season ordered by
// week, kickoff, then team code.
func (r *StatsRepository) ListTeamStats(ctx context.Context, season int) ([]*store.TeamGameStat, error) {
	query := `
		SELECT
			g.game_id,
			s.year AS season,
			w.week_number,
			t.team_code,
			t.team_name,
			stats.points,
			stats.yards,
			stats.pass_yards,
			stats.rush_yards,
			stats.sacks_made,
			stats.sacks_allowed,
			stats.turnovers
		FROM team_game_stats AS stats
		JOIN games AS g ON stats.game_id = g.game_id
		JOIN weeks AS w ON g.week_id = w.week_id
		JOIN seasons AS s ON w.season_id = s.season_id
		JOIN teams AS t ON stats.team_id = t.team_id
		WHERE s.year = $1
		ORDER BY w.week_number ASC,
			CASE WHEN g.kickoff_ts IS NULL THEN 1 ELSE 0 END,
			g.kickoff_ts ASC,
			t.team_code ASC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("querying team stats: %w", err)
	}
	defer rows.Close()

	var results []*store.TeamGameStat
	for rows.Next() {
		stat := &store.TeamGameStat{}
		err := rows.Scan(
			&stat.GameID, &stat.Season, &stat.Week, &stat.TeamCode, &stat.TeamName,
			&stat.Points, &stat.Yards, &stat.PassYards, &stat.RushYards,
			&stat.SacksMade, &stat.SacksAllowed, &stat.Turnovers,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning team stats: %w", err)
		}
		results = append(results, stat)
	}

	return results, rows.Err()
}

// StageWeeklyRows replaces raw weekly rows in the staging table for the
// covered seasons. When weeks is non-empty only those (season, week)
// scopes are cleared first; otherwise whole seasons are.
func (r *StatsRepository) StageWeeklyRows(ctx context.Context, rows []store.StagingRow, seasons []int, weeks []int) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning staging upload: %w", err)
	}
	defer tx.Rollback()

	if len(weeks) > 0 {
		for _, season := range seasons {
			for _, week := range weeks {
				_, err := tx.ExecContext(ctx,
					`DELETE FROM nfl_weekly_stats WHERE season = $1 AND week = $2`,
					season, week,
				)
				if err != nil {
					return fmt.Errorf("clearing staged week %d/%d: %w", season, week, err)
				}
			}
		}
	} else {
		for _, season := range seasons {
			_, err := tx.ExecContext(ctx, `DELETE FROM nfl_weekly_stats WHERE season = $1`, season)
			if err != nil {
				return fmt.Errorf("clearing staged season %d: %w", season, err)
			}
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nfl_weekly_stats (player_id, player_display_name, position,
			position_group, team, season, week, attempts, completions, passing_yards,
			passing_tds, passing_interceptions, carries, rushing_yards, rushing_tds,
			targets, receptions, receiving_yards, receiving_tds, sacks_suffered,
			fumbles_lost, fantasy_points_ppr)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22)
	`)
	if err != nil {
		return fmt.Errorf("preparing staging insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			row.PlayerID, row.PlayerDisplayName, row.Position, row.PositionGroup,
			row.Team, row.Season, row.Week, row.Attempts, row.Completions,
			row.PassingYards, row.PassingTDs, row.PassingInterceptions, row.Carries,
			row.RushingYards, row.RushingTDs, row.Targets, row.Receptions,
			row.ReceivingYards, row.ReceivingTDs, row.SacksSuffered, row.FumblesLost,
			row.FantasyPointsPPR,
		)
		if err != nil {
			return fmt.Errorf("staging weekly row %s: %w", row.PlayerID, err)
		}
	}

	return tx.Commit()
}
