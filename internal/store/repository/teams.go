package repository

import (
	"context"
	"fmt"

	"github.com/gridironlabs/nfldb/internal/store"
)

// TeamRepository handles team data access
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

// UpsertTeams inserts or refreshes franchise metadata keyed by team code.
func (r *TeamRepository) UpsertTeams(ctx context.Context, teams []store.TeamUpsert) error {
	if len(teams) == 0 {
		return nil
	}

	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning team upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO teams (team_code, team_name, conference, division)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (team_code) DO UPDATE SET
			team_name = EXCLUDED.team_name,
			conference = EXCLUDED.conference,
			division = EXCLUDED.division
	`)
	if err != nil {
		return fmt.Errorf("preparing team upsert: %w", err)
	}
	defer stmt.Close()

	for _, team := range teams {
		_, err := stmt.ExecContext(ctx, team.TeamCode, team.TeamName, team.Conference, team.Division)
		if err != nil {
			return fmt.Errorf("upserting team %s: %w", team.TeamCode, err)
		}
	}

	return tx.Commit()
}
