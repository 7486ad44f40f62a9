package genres

import (
	"context"

	"filmoteka/internal/store"
)

// Store defines the read-only persistence hooks for genres.
type Store interface {
	Genres(ctx context.Context) ([]store.Genre, error)
	GenreByID(ctx context.Context, id int64) (store.Genre, error)
}

// Service exposes genre reference-data reads.
type Service interface {
	List(ctx context.Context) ([]store.Genre, error)
	Get(ctx context.Context, id int64) (store.Genre, error)
}

type service struct {
	store Store
}

// New constructs a genre Service backed by the given Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context) ([]store.Genre, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.Genres(ctx)
}

func (s *service) Get(ctx context.Context, id int64) (store.Genre, error) {
	if err := ctx.Err(); err != nil {
		return store.Genre{}, err
	}
	return s.store.GenreByID(ctx, id)
}
