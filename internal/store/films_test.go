package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestValidateFilm(t *testing.T) {
	valid := Film{
		Name:        "Stalker",
		Description: "A guide leads two men into the Zone.",
		ReleaseDate: time.Date(1979, time.May, 25, 0, 0, 0, 0, time.UTC),
		Duration:    162,
	}

	tests := []struct {
		name    string
		mutate  func(f Film) Film
		wantErr bool
	}{
		{
			name:   "valid film",
			mutate: func(f Film) Film { return f },
		},
		{
			name:    "missing name",
			mutate:  func(f Film) Film { f.Name = ""; return f },
			wantErr: true,
		},
		{
			name: "description too long",
			mutate: func(f Film) Film {
				long := make([]byte, maxDescriptionLen+1)
				for i := range long {
					long[i] = 'x'
				}
				f.Description = string(long)
				return f
			},
			wantErr: true,
		},
		{
			name: "description at limit",
			mutate: func(f Film) Film {
				long := make([]byte, maxDescriptionLen)
				for i := range long {
					long[i] = 'x'
				}
				f.Description = string(long)
				return f
			},
		},
		{
			name:    "missing release date",
			mutate:  func(f Film) Film { f.ReleaseDate = time.Time{}; return f },
			wantErr: true,
		},
		{
			name: "release date before first screening",
			mutate: func(f Film) Film {
				f.ReleaseDate = time.Date(1895, time.December, 27, 0, 0, 0, 0, time.UTC)
				return f
			},
			wantErr: true,
		},
		{
			name: "release date on first screening day",
			mutate: func(f Film) Film {
				f.ReleaseDate = time.Date(1895, time.December, 28, 0, 0, 0, 0, time.UTC)
				return f
			},
		},
		{
			name:    "zero duration",
			mutate:  func(f Film) Film { f.Duration = 0; return f },
			wantErr: true,
		},
		{
			name:    "negative duration",
			mutate:  func(f Film) Film { f.Duration = -5; return f },
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := validateFilm(tc.mutate(valid))
			if tc.wantErr && !errors.Is(err, ErrInvalidFilm) {
				t.Fatalf("expected ErrInvalidFilm, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected nil error but got %v", err)
			}
		})
	}
}

func TestCollapseGenreIDs(t *testing.T) {
	ids := collapseGenreIDs([]Genre{{ID: 3}, {ID: 1}, {ID: 3}, {ID: 2}, {ID: 1}})
	want := []int64{3, 1, 2}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestCreateFilmSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	releaseDate := time.Date(1999, time.March, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT EXISTS(SELECT 1 FROM ratings WHERE id = $1)
	`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT EXISTS(SELECT 1 FROM genres WHERE id = $1)
	`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO films (name, description, release_date, duration, rating_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`)).
		WithArgs("The Matrix", "A hacker learns the truth.", releaseDate, int64(136), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO film_genres (film_id, genre_id)
		VALUES ($1, $2)
		ON CONFLICT (film_id, genre_id) DO NOTHING
	`)).
		WithArgs(int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(regexp.QuoteMeta(filmByIDQuery)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "release_date", "duration",
			"rating_id", "rating_name", "genre_ids", "genre_names",
		}).AddRow(int64(7), "The Matrix", "A hacker learns the truth.", releaseDate, int64(136),
			int64(1), "R", "{2}", "{Action}"))

	got, err := s.CreateFilm(context.Background(), Film{
		Name:        "  The Matrix ",
		Description: "A hacker learns the truth.",
		ReleaseDate: releaseDate,
		Duration:    136,
		MPA:         &Rating{ID: 1},
		Genres:      []Genre{{ID: 2}},
	})
	if err != nil {
		t.Fatalf("CreateFilm error: %v", err)
	}

	if got.ID != 7 || got.Name != "The Matrix" {
		t.Fatalf("unexpected film: %#v", got)
	}
	if got.MPA == nil || got.MPA.Name != "R" {
		t.Fatalf("expected resolved MPA rating, got %#v", got.MPA)
	}
	if len(got.Genres) != 1 || got.Genres[0].Name != "Action" {
		t.Fatalf("expected resolved genres, got %#v", got.Genres)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateFilmUnknownGenre(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT EXISTS(SELECT 1 FROM genres WHERE id = $1)
	`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err = s.CreateFilm(context.Background(), Film{
		Name:        "Film",
		ReleaseDate: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		Duration:    90,
		Genres:      []Genre{{ID: 99}},
	})
	if !errors.Is(err, ErrGenreNotFound) {
		t.Fatalf("expected ErrGenreNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateFilmInvalidSkipsDatabase(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	_, err = s.CreateFilm(context.Background(), Film{
		Name:        "Too Early",
		ReleaseDate: time.Date(1895, time.December, 27, 0, 0, 0, 0, time.UTC),
		Duration:    60,
	})
	if !errors.Is(err, ErrInvalidFilm) {
		t.Fatalf("expected ErrInvalidFilm, got %v", err)
	}
}

func TestUpdateFilmNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT EXISTS(SELECT 1 FROM films WHERE id = $1)
	`)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err = s.UpdateFilm(context.Background(), Film{
		ID:          42,
		Name:        "Missing",
		ReleaseDate: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		Duration:    90,
	})
	if !errors.Is(err, ErrFilmNotFound) {
		t.Fatalf("expected ErrFilmNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateFilmWithoutIDRejected(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	_, err = s.UpdateFilm(context.Background(), Film{
		Name:        "No ID",
		ReleaseDate: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		Duration:    90,
	})
	if !errors.Is(err, ErrInvalidFilm) {
		t.Fatalf("expected ErrInvalidFilm, got %v", err)
	}
}

func TestFilmByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(filmByIDQuery)).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err = s.FilmByID(context.Background(), 404)
	if !errors.Is(err, ErrFilmNotFound) {
		t.Fatalf("expected ErrFilmNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMostPopularFilmsInvalidLimit(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	if _, err := s.MostPopularFilms(context.Background(), 0); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := s.MostPopularFilms(context.Background(), -3); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestMostPopularFilmsPreservesRowOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	releaseDate := time.Date(2010, time.July, 16, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(popularFilmsQuery)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "release_date", "duration",
			"rating_id", "rating_name", "genre_ids", "genre_names",
		}).
			AddRow(int64(3), "Inception", "", releaseDate, int64(148), nil, nil, "{}", "{}").
			AddRow(int64(1), "Memento", "", releaseDate, int64(113), nil, nil, "{}", "{}"))

	films, err := s.MostPopularFilms(context.Background(), 2)
	if err != nil {
		t.Fatalf("MostPopularFilms error: %v", err)
	}

	if len(films) != 2 || films[0].ID != 3 || films[1].ID != 1 {
		t.Fatalf("unexpected order: %#v", films)
	}
	if films[0].MPA != nil {
		t.Fatalf("expected nil MPA for unrated film, got %#v", films[0].MPA)
	}
	if films[0].Genres == nil || len(films[0].Genres) != 0 {
		t.Fatalf("expected empty genre list, got %#v", films[0].Genres)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteFilmNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM likes
		WHERE film_id = $1
	`)).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM film_genres
		WHERE film_id = $1
	`)).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM films
		WHERE id = $1
	`)).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := s.DeleteFilm(context.Background(), 8); !errors.Is(err, ErrFilmNotFound) {
		t.Fatalf("expected ErrFilmNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
