package store

import (
	"context"
	"fmt"
)

// Friendship statuses. Links are directional: a row from A to B says nothing
// about B's view of A unless a mirrored row exists.
const (
	FriendshipUnconfirmed = "UNCONFIRMED"
	FriendshipConfirmed   = "CONFIRMED"
)

// Friendship is a directed link between two users carrying a status flag.
type Friendship struct {
	UserID   int64  `json:"userId"`
	FriendID int64  `json:"friendId"`
	Status   string `json:"status"`
}

// AddFriend records a directed friendship link with CONFIRMED status. Both
// users must exist; re-adding an existing link is a no-op.
func (s *Store) AddFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.checkFriendRefs(ctx, userID, friendID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO friendships (user_id, friend_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, friend_id) DO NOTHING
	`, userID, friendID, FriendshipConfirmed); err != nil {
		return fmt.Errorf("insert friendship: %w", err)
	}

	return nil
}

// RemoveFriend deletes the directed link if present. Removing an absent link
// is a no-op so client retries stay safe.
func (s *Store) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.checkFriendRefs(ctx, userID, friendID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM friendships
		WHERE user_id = $1 AND friend_id = $2
	`, userID, friendID); err != nil {
		return fmt.Errorf("delete friendship: %w", err)
	}

	return nil
}

// Friends resolves the user's outbound friend links to full user rows,
// ordered by id.
func (s *Store) Friends(ctx context.Context, userID int64) ([]User, error) {
	exists, err := userExists(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	return s.queryUsers(ctx, `
		SELECT u.id, u.email, u.login, u.name, u.birthday
		FROM users u
		JOIN friendships f ON f.friend_id = u.id
		WHERE f.user_id = $1
		ORDER BY u.id
	`, userID)
}

// CommonFriends returns the users present in both outbound friend sets.
// The double join computes the id-set intersection in one query; ordering by
// user id keeps the result symmetric in content regardless of argument order.
func (s *Store) CommonFriends(ctx context.Context, userID, otherID int64) ([]User, error) {
	if err := s.checkFriendRefs(ctx, userID, otherID); err != nil {
		return nil, err
	}

	return s.queryUsers(ctx, `
		SELECT u.id, u.email, u.login, u.name, u.birthday
		FROM users u
		JOIN friendships f1 ON f1.friend_id = u.id AND f1.user_id = $1
		JOIN friendships f2 ON f2.friend_id = u.id AND f2.user_id = $2
		ORDER BY u.id
	`, userID, otherID)
}

func (s *Store) checkFriendRefs(ctx context.Context, userID, friendID int64) error {
	ok, err := userExists(ctx, s.db, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}

	ok, err = userExists(ctx, s.db, friendID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %d: %w", friendID, ErrUserNotFound)
	}

	return nil
}
