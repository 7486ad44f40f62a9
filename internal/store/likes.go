package store

import (
	"context"
	"fmt"
)

// AddLike records that the user endorses the film. Both ids must resolve to
// existing rows; re-adding an existing like is a no-op.
func (s *Store) AddLike(ctx context.Context, filmID, userID int64) error {
	if err := s.checkLikeRefs(ctx, filmID, userID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO likes (film_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (film_id, user_id) DO NOTHING
	`, filmID, userID); err != nil {
		return fmt.Errorf("insert like: %w", err)
	}

	return nil
}

// RemoveLike deletes the like if present. Removing an absent like is a
// no-op so client retries stay safe.
func (s *Store) RemoveLike(ctx context.Context, filmID, userID int64) error {
	if err := s.checkLikeRefs(ctx, filmID, userID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM likes
		WHERE film_id = $1 AND user_id = $2
	`, filmID, userID); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}

	return nil
}

// FilmLikes returns the ids of users who liked the film, ordered ascending.
func (s *Store) FilmLikes(ctx context.Context, filmID int64) ([]int64, error) {
	exists, err := filmExists(ctx, s.db, filmID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrFilmNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id
		FROM likes
		WHERE film_id = $1
		ORDER BY user_id
	`, filmID)
	if err != nil {
		return nil, fmt.Errorf("select likes: %w", err)
	}
	defer rows.Close()

	userIDs := []int64{}
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		userIDs = append(userIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate likes: %w", err)
	}

	return userIDs, nil
}

func (s *Store) checkLikeRefs(ctx context.Context, filmID, userID int64) error {
	ok, err := filmExists(ctx, s.db, filmID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFilmNotFound
	}

	ok, err = userExists(ctx, s.db, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}

	return nil
}
