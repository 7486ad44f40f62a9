package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUserNotFound signals the user id does not resolve to a row.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidUser indicates a malformed or out-of-range user field.
	ErrInvalidUser = errors.New("invalid user")
	// ErrUserExists signals the email or login is already taken.
	ErrUserExists = errors.New("user already exists")
)

// User holds the scalar user columns. Name is persisted as supplied; the
// display-name-defaults-to-login rule belongs to the caller, not the store.
type User struct {
	ID       int64     `json:"id"`
	Email    string    `json:"email"`
	Login    string    `json:"login"`
	Name     string    `json:"name"`
	Birthday time.Time `json:"birthday"`
}

// CreateUser validates and persists a new user, returning it with the
// generated id.
func (s *Store) CreateUser(ctx context.Context, user User) (User, error) {
	user.Email = strings.TrimSpace(user.Email)
	user.Login = strings.TrimSpace(user.Login)
	if err := validateUser(user); err != nil {
		return User{}, err
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, login, name, birthday)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, user.Email, user.Login, user.Name, user.Birthday).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// UpdateUser overwrites every scalar column of an existing user.
func (s *Store) UpdateUser(ctx context.Context, user User) (User, error) {
	if user.ID <= 0 {
		return User{}, fmt.Errorf("%w: id is required for update", ErrInvalidUser)
	}
	user.Email = strings.TrimSpace(user.Email)
	user.Login = strings.TrimSpace(user.Login)
	if err := validateUser(user); err != nil {
		return User{}, err
	}

	exists, err := userExists(ctx, s.db, user.ID)
	if err != nil {
		return User{}, err
	}
	if !exists {
		return User{}, ErrUserNotFound
	}

	if _, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET email = $1, login = $2, name = $3, birthday = $4
		WHERE id = $5
	`, user.Email, user.Login, user.Name, user.Birthday, user.ID); err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// UserByID returns the user's scalar fields.
func (s *Store) UserByID(ctx context.Context, id int64) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, login, name, birthday
		FROM users
		WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &user.Login, &user.Name, &user.Birthday)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

// Users returns every user ordered by id.
func (s *Store) Users(ctx context.Context) ([]User, error) {
	return s.queryUsers(ctx, `
		SELECT id, email, login, name, birthday
		FROM users
		ORDER BY id
	`)
}

// DeleteUser removes the user along with their likes and friendship links in
// both directions so no orphaned association rows remain.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
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
		WHERE user_id = $1
	`, id); err != nil {
		return fmt.Errorf("delete user likes: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM friendships
		WHERE user_id = $1 OR friend_id = $1
	`, id); err != nil {
		return fmt.Errorf("delete user friendships: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM users
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}

func (s *Store) queryUsers(ctx context.Context, query string, args ...any) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.Login, &user.Name, &user.Birthday); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

func validateUser(user User) error {
	if user.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidUser)
	}
	if !strings.Contains(user.Email, "@") {
		return fmt.Errorf("%w: email must contain @", ErrInvalidUser)
	}
	if user.Login == "" {
		return fmt.Errorf("%w: login is required", ErrInvalidUser)
	}
	if strings.ContainsAny(user.Login, " \t\n") {
		return fmt.Errorf("%w: login must not contain whitespace", ErrInvalidUser)
	}
	if user.Birthday.IsZero() {
		return fmt.Errorf("%w: birthday is required", ErrInvalidUser)
	}
	if user.Birthday.After(time.Now()) {
		return fmt.Errorf("%w: birthday must not be in the future", ErrInvalidUser)
	}
	return nil
}
