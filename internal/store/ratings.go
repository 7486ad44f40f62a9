package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRatingNotFound signals the MPA rating id does not resolve to a row.
var ErrRatingNotFound = errors.New("rating not found")

// Rating is an MPA content rating, a static reference entity attached to at
// most one film at a time.
type Rating struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Ratings returns every MPA rating ordered by id.
func (s *Store) Ratings(ctx context.Context) ([]Rating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name
		FROM ratings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("select ratings: %w", err)
	}
	defer rows.Close()

	ratings := []Rating{}
	for rows.Next() {
		var rating Rating
		if err := rows.Scan(&rating.ID, &rating.Name); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}

	return ratings, nil
}

// RatingByID returns a single MPA rating.
func (s *Store) RatingByID(ctx context.Context, id int64) (Rating, error) {
	var rating Rating
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name
		FROM ratings
		WHERE id = $1
	`, id).Scan(&rating.ID, &rating.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Rating{}, ErrRatingNotFound
		}
		return Rating{}, fmt.Errorf("select rating: %w", err)
	}
	return rating, nil
}
