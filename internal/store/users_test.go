package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestValidateUser(t *testing.T) {
	valid := User{
		Email:    "ada@example.com",
		Login:    "ada",
		Name:     "Ada",
		Birthday: time.Date(1990, time.June, 10, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name    string
		mutate  func(u User) User
		wantErr bool
	}{
		{
			name:   "valid user",
			mutate: func(u User) User { return u },
		},
		{
			name:    "missing email",
			mutate:  func(u User) User { u.Email = ""; return u },
			wantErr: true,
		},
		{
			name:    "email without at sign",
			mutate:  func(u User) User { u.Email = "ada.example.com"; return u },
			wantErr: true,
		},
		{
			name:    "missing login",
			mutate:  func(u User) User { u.Login = ""; return u },
			wantErr: true,
		},
		{
			name:    "login with space",
			mutate:  func(u User) User { u.Login = "ada lovelace"; return u },
			wantErr: true,
		},
		{
			name:    "login with tab",
			mutate:  func(u User) User { u.Login = "ada\tl"; return u },
			wantErr: true,
		},
		{
			name:    "missing birthday",
			mutate:  func(u User) User { u.Birthday = time.Time{}; return u },
			wantErr: true,
		},
		{
			name:    "future birthday",
			mutate:  func(u User) User { u.Birthday = time.Now().Add(48 * time.Hour); return u },
			wantErr: true,
		},
		{
			name:   "blank name is allowed",
			mutate: func(u User) User { u.Name = ""; return u },
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := validateUser(tc.mutate(valid))
			if tc.wantErr && !errors.Is(err, ErrInvalidUser) {
				t.Fatalf("expected ErrInvalidUser, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected nil error but got %v", err)
			}
		})
	}
}

func TestCreateUserSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	birthday := time.Date(1985, time.October, 26, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO users (email, login, name, birthday)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`)).
		WithArgs("marty@example.com", "marty", "Marty", birthday).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	got, err := s.CreateUser(context.Background(), User{
		Email:    "  marty@example.com ",
		Login:    " marty ",
		Name:     "Marty",
		Birthday: birthday,
	})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}

	if got.ID != 5 {
		t.Fatalf("expected user ID 5, got %d", got.ID)
	}
	if got.Email != "marty@example.com" || got.Login != "marty" {
		t.Fatalf("expected trimmed email/login, got %q / %q", got.Email, got.Login)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	birthday := time.Date(1985, time.October, 26, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO users (email, login, name, birthday)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`)).
		WithArgs("marty@example.com", "marty", "Marty", birthday).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = s.CreateUser(context.Background(), User{
		Email:    "marty@example.com",
		Login:    "marty",
		Name:     "Marty",
		Birthday: birthday,
	})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)
	`)).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err = s.UpdateUser(context.Background(), User{
		ID:       77,
		Email:    "ghost@example.com",
		Login:    "ghost",
		Birthday: time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, email, login, name, birthday
		FROM users
		WHERE id = $1
	`)).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err = s.UserByID(context.Background(), 404)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteUserRemovesAssociations(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM likes
		WHERE user_id = $1
	`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM friendships
		WHERE user_id = $1 OR friend_id = $1
	`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM users
		WHERE id = $1
	`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.DeleteUser(context.Background(), 3); err != nil {
		t.Fatalf("DeleteUser error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
