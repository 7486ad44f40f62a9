package main

import (
	"context"
	"database/sql"
	"fmt"
)

// seedReferenceData inserts the canonical MPA ratings and genres. Reruns are
// no-ops thanks to the unique name constraints.
func seedReferenceData(ctx context.Context, db *sql.DB) error {
	if err := seedRatings(ctx, db); err != nil {
		return err
	}
	if err := seedGenres(ctx, db); err != nil {
		return err
	}
	return nil
}

func seedRatings(ctx context.Context, db *sql.DB) error {
	ratings := []string{"G", "PG", "PG-13", "R", "NC-17"}
	for _, name := range ratings {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO ratings (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
			name,
		); err != nil {
			return fmt.Errorf("seed rating %q: %w", name, err)
		}
	}
	return nil
}

func seedGenres(ctx context.Context, db *sql.DB) error {
	genres := []string{"Comedy", "Drama", "Animation", "Thriller", "Documentary", "Action"}
	for _, name := range genres {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO genres (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
			name,
		); err != nil {
			return fmt.Errorf("seed genre %q: %w", name, err)
		}
	}
	return nil
}
