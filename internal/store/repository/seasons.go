package repository

import (
	"context"
	"fmt"

	"github.com/gridironlabs/nfldb/internal/store"
)

// SeasonRepository handles season and week data access
type SeasonRepository struct {
	db *store.Database
}

// NewSeasonRepository creates a new season repository
func NewSeasonRepository(db *store.Database) *SeasonRepository {
	return &SeasonRepository{db: db}
}

// UpsertSeasons inserts season years, ignoring years already present.
func (r *SeasonRepository) UpsertSeasons(ctx context.Context, seasons []store.SeasonUpsert) error {
	if len(seasons) == 0 {
		return nil
	}

	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning season upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO seasons (year) VALUES ($1)
		ON CONFLICT (year) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("preparing season upsert: %w", err)
	}
	defer stmt.Close()

	for _, season := range seasons {
		if _, err := stmt.ExecContext(ctx, season.Year); err != nil {
			return fmt.Errorf("upserting season %d: %w", season.Year, err)
		}
	}

	return tx.Commit()
}

// UpsertWeeks inserts or refreshes week date bounds. The season id is
// resolved by joining on the season year; weeks for unknown seasons are
// skipped.
func (r *SeasonRepository) UpsertWeeks(ctx context.Context, weeks []store.WeekUpsert) error {
	if len(weeks) == 0 {
		return nil
	}

	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning week upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO weeks (season_id, week_number, start_date, end_date)
		SELECT seasons.season_id, $2, $3, $4
		FROM seasons WHERE seasons.year = $1
		ON CONFLICT (season_id, week_number) DO UPDATE SET
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date
	`)
	if err != nil {
		return fmt.Errorf("preparing week upsert: %w", err)
	}
	defer stmt.Close()

	for _, week := range weeks {
		_, err := stmt.ExecContext(ctx, week.Season, week.WeekNumber, week.StartDate, week.EndDate)
		if err != nil {
			return fmt.Errorf("upserting week %d/%d: %w", week.Season, week.WeekNumber, err)
		}
	}

	return tx.Commit()
}

// ListSeasonsWithResults returns seasons that have at least one game
// with final scores, newest first.
func (r *SeasonRepository) ListSeasonsWithResults(ctx context.Context) ([]*store.Season, error) {
	query := `
		SELECT s.season_id, s.year
		FROM seasons AS s
		WHERE EXISTS (
			SELECT 1
			FROM weeks AS w
			JOIN games AS g ON g.week_id = w.week_id
			WHERE w.season_id = s.season_id
				AND g.home_points IS NOT NULL
				AND g.away_points IS NOT NULL
		)
		ORDER BY s.year DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying seasons: %w", err)
	}
	defer rows.Close()

	var seasons []*store.Season
	for rows.Next() {
		season := &store.Season{}
		if err := rows.Scan(&season.SeasonID, &season.Year); err != nil {
			return nil, fmt.Errorf("scanning season: %w", err)
		}
		seasons = append(seasons, season)
	}

	return seasons, rows.Err()
}

// ListWeeks returns the weeks of a season ordered by week number.
func (r *SeasonRepository) ListWeeks(ctx context.Context, season int) ([]*store.Week, error) {
	query := `
		SELECT w.week_id, w.week_number, w.start_date, w.end_date
		FROM weeks AS w
		JOIN seasons AS s ON s.season_id = w.season_id
		WHERE s.year = $1
		ORDER BY w.week_number ASC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("querying weeks: %w", err)
	}
	defer rows.Close()

	var weeks []*store.Week
	for rows.Next() {
		week := &store.Week{}
		if err := rows.Scan(&week.WeekID, &week.WeekNumber, &week.StartDate, &week.EndDate); err != nil {
			return nil, fmt.Errorf("scanning week: %w", err)
		}
		weeks = append(weeks, week)
	}

	return weeks, rows.Err()
}

// LatestSeason returns the most recent season year, or nil when the
// seasons table is empty.
func (r *SeasonRepository) LatestSeason(ctx context.Context) (*int, error) {
	query := `SELECT year FROM seasons ORDER BY year DESC LIMIT 1`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying latest season: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var year int
	if err := rows.Scan(&year); err != nil {
		return nil, fmt.Errorf("scanning latest season: %w", err)
	}
	return &year, nil
}

// WeekHealthForSeason returns per-week game completion counts for one
// season. Weeks without games still appear with zero totals.
func (r *SeasonRepository) WeekHealthForSeason(ctx context.Context, season int) ([]store.WeekHealth, error) {
	query := `
		SELECT
			w.week_number AS week_number,
			COUNT(g.game_id) AS total_games,
			COALESCE(
				SUM(
					CASE
						WHEN g.home_points IS NOT NULL AND g.away_points IS NOT NULL
							THEN 1
						ELSE 0
					END
				),
				0
			) AS completed_games
		FROM weeks AS w
		JOIN seasons AS s ON s.season_id = w.season_id
		LEFT JOIN games AS g ON g.week_id = w.week_id
		WHERE s.year = $1
		GROUP BY w.week_number
		ORDER BY w.week_number
	`

	rows, err := r.db.DB().QueryContext(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("querying week health: %w", err)
	}
	defer rows.Close()

	var summaries []store.WeekHealth
	for rows.Next() {
		var health store.WeekHealth
		if err := rows.Scan(&health.WeekNumber, &health.TotalGames, &health.CompletedGames); err != nil {
			return nil, fmt.Errorf("scanning week health: %w", err)
		}
		summaries = append(summaries, health)
	}

	return summaries, rows.Err()
}

// RowCounts returns row counts for the given tables.
func (r *SeasonRepository) RowCounts(ctx context.Context, tables []string) ([]store.TableCount, error) {
	counts := make([]store.TableCount, 0, len(tables))
	for _, table := range tables {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		if err := r.db.DB().QueryRowContext(ctx, query).Scan(&count); err != nil {
			return nil, fmt.Errorf("counting rows in %s: %w", table, err)
		}
		counts = append(counts, store.TableCount{TableName: table, RowCount: count})
	}
	return counts, nil
}
