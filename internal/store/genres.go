package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrGenreNotFound signals the genre id does not resolve to a row.
var ErrGenreNotFound = errors.New("genre not found")

// Genre is a static reference entity, read-only from this layer.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Genres returns every genre ordered by id.
func (s *Store) Genres(ctx context.Context) ([]Genre, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name
		FROM genres
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("select genres: %w", err)
	}
	defer rows.Close()

	genres := []Genre{}
	for rows.Next() {
		var genre Genre
		if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genres: %w", err)
	}

	return genres, nil
}

// GenreByID returns a single genre.
func (s *Store) GenreByID(ctx context.Context, id int64) (Genre, error) {
	var genre Genre
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name
		FROM genres
		WHERE id = $1
	`, id).Scan(&genre.ID, &genre.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Genre{}, ErrGenreNotFound
		}
		return Genre{}, fmt.Errorf("select genre: %w", err)
	}
	return genre, nil
}
