package users

import (
	"context"

	"filmoteka/internal/store"
)

// Store defines the persistence hooks for user and friendship workflows.
type Store interface {
	CreateUser(ctx context.Context, user store.User) (store.User, error)
	UpdateUser(ctx context.Context, user store.User) (store.User, error)
	UserByID(ctx context.Context, id int64) (store.User, error)
	Users(ctx context.Context) ([]store.User, error)
	DeleteUser(ctx context.Context, id int64) error
	AddFriend(ctx context.Context, userID, friendID int64) error
	RemoveFriend(ctx context.Context, userID, friendID int64) error
	Friends(ctx context.Context, userID int64) ([]store.User, error)
	CommonFriends(ctx context.Context, userID, otherID int64) ([]store.User, error)
}

// Service coordinates user account and friendship workflows.
type Service interface {
	Create(ctx context.Context, user store.User) (store.User, error)
	Update(ctx context.Context, user store.User) (store.User, error)
	Get(ctx context.Context, id int64) (store.User, error)
	List(ctx context.Context) ([]store.User, error)
	Delete(ctx context.Context, id int64) error
	AddFriend(ctx context.Context, userID, friendID int64) error
	RemoveFriend(ctx context.Context, userID, friendID int64) error
	Friends(ctx context.Context, userID int64) ([]store.User, error)
	CommonFriends(ctx context.Context, userID, otherID int64) ([]store.User, error)
}

type service struct {
	store Store
}

// New constructs a user Service backed by the given Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, user store.User) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	// A blank display name defaults to the login; the store persists the
	// value as given.
	if user.Name == "" {
		user.Name = user.Login
	}
	return s.store.CreateUser(ctx, user)
}

func (s *service) Update(ctx context.Context, user store.User) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	if user.Name == "" {
		user.Name = user.Login
	}
	return s.store.UpdateUser(ctx, user)
}

func (s *service) Get(ctx context.Context, id int64) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	return s.store.UserByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]store.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.Users(ctx)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteUser(ctx, id)
}

func (s *service) AddFriend(ctx context.Context, userID, friendID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.AddFriend(ctx, userID, friendID)
}

func (s *service) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RemoveFriend(ctx, userID, friendID)
}

func (s *service) Friends(ctx context.Context, userID int64) ([]store.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.Friends(ctx, userID)
}

func (s *service) CommonFriends(ctx context.Context, userID, otherID int64) ([]store.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.CommonFriends(ctx, userID, otherID)
}
