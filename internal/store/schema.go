package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements create the relational schema. Statements are idempotent
// and ordered so referenced tables exist before their foreign keys.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ratings (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS genres (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS films (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		release_date DATE NOT NULL,
		duration BIGINT NOT NULL,
		rating_id BIGINT REFERENCES ratings(id)
	)`,
	`CREATE TABLE IF NOT EXISTS film_genres (
		film_id BIGINT NOT NULL REFERENCES films(id),
		genre_id BIGINT NOT NULL REFERENCES genres(id),
		PRIMARY KEY (film_id, genre_id)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		login TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		birthday DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS likes (
		film_id BIGINT NOT NULL REFERENCES films(id),
		user_id BIGINT NOT NULL REFERENCES users(id),
		PRIMARY KEY (film_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS friendships (
		user_id BIGINT NOT NULL REFERENCES users(id),
		friend_id BIGINT NOT NULL REFERENCES users(id),
		status TEXT NOT NULL DEFAULT 'CONFIRMED',
		PRIMARY KEY (user_id, friend_id)
	)`,
}

// EnsureSchema creates any missing tables. It runs inside one transaction so
// a partial failure leaves the schema untouched.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return nil
}
