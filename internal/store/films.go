package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

var (
	// ErrFilmNotFound signals the film id does not resolve to a row.
	ErrFilmNotFound = errors.New("film not found")
	// ErrInvalidFilm indicates a malformed or out-of-range film field.
	ErrInvalidFilm = errors.New("invalid film")
	// ErrInvalidLimit is returned when a ranking limit is not positive.
	ErrInvalidLimit = errors.New("limit must be positive")
)

// minReleaseDate is the day the first public film screening took place.
var minReleaseDate = time.Date(1895, time.December, 28, 0, 0, 0, 0, time.UTC)

const maxDescriptionLen = 200

// Film is the full aggregate: scalar columns plus the resolved MPA rating
// and the ordered, duplicate-free genre list.
type Film struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ReleaseDate time.Time `json:"releaseDate"`
	Duration    int64     `json:"duration"`
	MPA         *Rating   `json:"mpa,omitempty"`
	Genres      []Genre   `json:"genres"`
}

// filmSelect joins in the rating and the aggregated genre lists so every
// read path assembles the full film in a single query instead of N+1 lookups.
const filmSelect = `
	SELECT
		f.id, f.name, f.description, f.release_date, f.duration,
		r.id, r.name,
		COALESCE(array_agg(g.id ORDER BY g.id) FILTER (WHERE g.id IS NOT NULL), '{}'),
		COALESCE(array_agg(g.name ORDER BY g.id) FILTER (WHERE g.id IS NOT NULL), '{}')
	FROM films f
	LEFT JOIN ratings r ON r.id = f.rating_id
	LEFT JOIN film_genres fg ON fg.film_id = f.id
	LEFT JOIN genres g ON g.id = fg.genre_id`

const filmByIDQuery = filmSelect + `
	WHERE f.id = $1
	GROUP BY f.id, r.id`

const filmsQuery = filmSelect + `
	GROUP BY f.id, r.id
	ORDER BY f.id`

// Ties in like count break on ascending film id so repeated calls over
// unchanged data return the same order.
const popularFilmsQuery = filmSelect + `
	LEFT JOIN likes l ON l.film_id = f.id
	GROUP BY f.id, r.id
	ORDER BY COUNT(DISTINCT l.user_id) DESC, f.id ASC
	LIMIT $1`

// CreateFilm validates the film, verifies every referenced rating and genre
// id, and persists the row together with its genre links in one transaction.
// The stored aggregate is returned with the generated id.
func (s *Store) CreateFilm(ctx context.Context, film Film) (Film, error) {
	film.Name = strings.TrimSpace(film.Name)
	if err := validateFilm(film); err != nil {
		return Film{}, err
	}
	genreIDs := collapseGenreIDs(film.Genres)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Film{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := checkFilmRefs(ctx, tx, film.MPA, genreIDs); err != nil {
		return Film{}, err
	}

	var ratingID any
	if film.MPA != nil {
		ratingID = film.MPA.ID
	}

	var filmID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO films (name, description, release_date, duration, rating_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, film.Name, film.Description, film.ReleaseDate, film.Duration, ratingID).Scan(&filmID)
	if err != nil {
		return Film{}, fmt.Errorf("insert film: %w", err)
	}

	if err := insertFilmGenres(ctx, tx, filmID, genreIDs); err != nil {
		return Film{}, err
	}

	if err := tx.Commit(); err != nil {
		return Film{}, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return s.FilmByID(ctx, filmID)
}

// UpdateFilm overwrites every scalar column of an existing film. A non-nil
// genre list replaces the film's genre set wholesale; a nil list leaves the
// existing links untouched.
func (s *Store) UpdateFilm(ctx context.Context, film Film) (Film, error) {
	if film.ID <= 0 {
		return Film{}, fmt.Errorf("%w: id is required for update", ErrInvalidFilm)
	}
	film.Name = strings.TrimSpace(film.Name)
	if err := validateFilm(film); err != nil {
		return Film{}, err
	}
	genreIDs := collapseGenreIDs(film.Genres)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Film{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	exists, err := filmExists(ctx, tx, film.ID)
	if err != nil {
		return Film{}, err
	}
	if !exists {
		return Film{}, ErrFilmNotFound
	}

	if err := checkFilmRefs(ctx, tx, film.MPA, genreIDs); err != nil {
		return Film{}, err
	}

	var ratingID any
	if film.MPA != nil {
		ratingID = film.MPA.ID
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE films
		SET name = $1, description = $2, release_date = $3, duration = $4, rating_id = $5
		WHERE id = $6
	`, film.Name, film.Description, film.ReleaseDate, film.Duration, ratingID, film.ID); err != nil {
		return Film{}, fmt.Errorf("update film: %w", err)
	}

	if film.Genres != nil {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM film_genres
			WHERE film_id = $1
		`, film.ID); err != nil {
			return Film{}, fmt.Errorf("clear film genres: %w", err)
		}
		if err := insertFilmGenres(ctx, tx, film.ID, genreIDs); err != nil {
			return Film{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Film{}, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return s.FilmByID(ctx, film.ID)
}

// FilmByID returns the full film aggregate.
func (s *Store) FilmByID(ctx context.Context, id int64) (Film, error) {
	film, err := scanFilm(s.db.QueryRowContext(ctx, filmByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Film{}, ErrFilmNotFound
		}
		return Film{}, fmt.Errorf("select film: %w", err)
	}
	return film, nil
}

// Films returns every film ordered by id.
func (s *Store) Films(ctx context.Context) ([]Film, error) {
	return s.queryFilms(ctx, filmsQuery)
}

// MostPopularFilms returns at most count films ordered by descending number
// of likes. The count must be positive.
func (s *Store) MostPopularFilms(ctx context.Context, count int) ([]Film, error) {
	if count <= 0 {
		return nil, ErrInvalidLimit
	}
	return s.queryFilms(ctx, popularFilmsQuery, count)
}

// DeleteFilm removes the film along with its likes and genre links so no
// orphaned association rows remain.
func (s *Store) DeleteFilm(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM likes
		WHERE film_id = $1
	`, id); err != nil {
		return fmt.Errorf("delete film likes: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM film_genres
		WHERE film_id = $1
	`, id); err != nil {
		return fmt.Errorf("delete film genres: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM films
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete film: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrFilmNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}

func (s *Store) queryFilms(ctx context.Context, query string, args ...any) ([]Film, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select films: %w", err)
	}
	defer rows.Close()

	films := []Film{}
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan film: %w", err)
		}
		films = append(films, film)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate films: %w", err)
	}

	return films, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFilm(row rowScanner) (Film, error) {
	var (
		film       Film
		ratingID   sql.NullInt64
		ratingName sql.NullString
		genreIDs   []int64
		genreNames []string
	)
	err := row.Scan(
		&film.ID, &film.Name, &film.Description, &film.ReleaseDate, &film.Duration,
		&ratingID, &ratingName,
		pq.Array(&genreIDs), pq.Array(&genreNames),
	)
	if err != nil {
		return Film{}, err
	}

	if ratingID.Valid {
		film.MPA = &Rating{ID: ratingID.Int64, Name: ratingName.String}
	}

	film.Genres = make([]Genre, 0, len(genreIDs))
	for i, id := range genreIDs {
		film.Genres = append(film.Genres, Genre{ID: id, Name: genreNames[i]})
	}

	return film, nil
}

func validateFilm(film Film) error {
	if film.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidFilm)
	}
	if len(film.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidFilm, maxDescriptionLen)
	}
	if film.ReleaseDate.IsZero() {
		return fmt.Errorf("%w: release date is required", ErrInvalidFilm)
	}
	if film.ReleaseDate.Before(minReleaseDate) {
		return fmt.Errorf("%w: release date must not be before 1895-12-28", ErrInvalidFilm)
	}
	if film.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidFilm)
	}
	return nil
}

// collapseGenreIDs keeps the first occurrence of each genre id, preserving
// the caller's order.
func collapseGenreIDs(genres []Genre) []int64 {
	if len(genres) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(genres))
	ids := make([]int64, 0, len(genres))
	for _, g := range genres {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		ids = append(ids, g.ID)
	}
	return ids
}

func checkFilmRefs(ctx context.Context, q querier, mpa *Rating, genreIDs []int64) error {
	if mpa != nil {
		ok, err := ratingExists(ctx, q, mpa.ID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("rating %d: %w", mpa.ID, ErrRatingNotFound)
		}
	}
	for _, id := range genreIDs {
		ok, err := genreExists(ctx, q, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("genre %d: %w", id, ErrGenreNotFound)
		}
	}
	return nil
}

func insertFilmGenres(ctx context.Context, q querier, filmID int64, genreIDs []int64) error {
	for _, genreID := range genreIDs {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO film_genres (film_id, genre_id)
			VALUES ($1, $2)
			ON CONFLICT (film_id, genre_id) DO NOTHING
		`, filmID, genreID); err != nil {
			return fmt.Errorf("insert film genre: %w", err)
		}
	}
	return nil
}
