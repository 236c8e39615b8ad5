package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/jmoiron/sqlx"
	"github.com/panjf2000/ants/v2"

	"github.com/volleyhub/roster-service/internal/infrastructure/repository/memory"
)

const seedWorkerCount = 4

// BootstrapSeed loads the demo roster into an empty members table. Rows
// are inserted through a small worker pool; each row carries its own id
// and ON CONFLICT DO NOTHING makes a rerun harmless.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM members`); err != nil {
		return fmt.Errorf("count members for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	pool, err := ants.NewPool(seedWorkerCount)
	if err != nil {
		return fmt.Errorf("create seed worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		result  *multierror.Error
		workers sync.WaitGroup
	)
	for _, m := range memory.SeedMembers() {
		m := m
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			sqlQuery, args, err := sqlx.Named(`
INSERT INTO members (id, name, position, number, matches_played, points_scored, medals_won)
VALUES (:id, :name, :position, :number, :matches_played, :points_scored, :medals_won)
ON CONFLICT (id) DO NOTHING`, map[string]any{
				"id":             m.ID,
				"name":           m.Name,
				"position":       m.Position,
				"number":         m.Number,
				"matches_played": m.MatchesPlayed,
				"points_scored":  m.PointsScored,
				"medals_won":     m.MedalsWon,
			})
			if err != nil {
				mu.Lock()
				result = multierror.Append(result, fmt.Errorf("bind seed member %d query: %w", m.ID, err))
				mu.Unlock()
				return
			}
			sqlQuery = db.Rebind(sqlQuery)
			if _, err := db.ExecContext(ctx, sqlQuery, args...); err != nil {
				mu.Lock()
				result = multierror.Append(result, fmt.Errorf("seed member %d: %w", m.ID, err))
				mu.Unlock()
			}
		}); err != nil {
			workers.Done()
			mu.Lock()
			result = multierror.Append(result, fmt.Errorf("submit seed member %d: %w", m.ID, err))
			mu.Unlock()
		}
	}
	workers.Wait()

	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	// Seed rows carry explicit ids; move the sequence past them so the
	// next insert does not collide.
	if _, err := db.ExecContext(ctx,
		`SELECT setval(pg_get_serial_sequence('members', 'id'), (SELECT COALESCE(MAX(id), 1) FROM members))`); err != nil {
		return fmt.Errorf("advance members id sequence: %w", err)
	}

	return nil
}
