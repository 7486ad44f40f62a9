package mpa

import (
	"context"

	"filmoteka/internal/store"
)

// Store defines the read-only persistence hooks for MPA ratings.
type Store interface {
	Ratings(ctx context.Context) ([]store.Rating, error)
	RatingByID(ctx context.Context, id int64) (store.Rating, error)
}

// Service exposes MPA rating reference-data reads.
type Service interface {
	List(ctx context.Context) ([]store.Rating, error)
	Get(ctx context.Context, id int64) (store.Rating, error)
}

type service struct {
	store Store
}

// New constructs an MPA rating Service backed by the given Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context) ([]store.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.Ratings(ctx)
}

func (s *service) Get(ctx context.Context, id int64) (store.Rating, error) {
	if err := ctx.Err(); err != nil {
		return store.Rating{}, err
	}
	return s.store.RatingByID(ctx, id)
}
