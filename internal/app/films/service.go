package films

import (
	"context"

	"filmoteka/internal/store"
)

// Store defines the persistence hooks for film workflows.
type Store interface {
	CreateFilm(ctx context.Context, film store.Film) (store.Film, error)
	UpdateFilm(ctx context.Context, film store.Film) (store.Film, error)
	FilmByID(ctx context.Context, id int64) (store.Film, error)
	Films(ctx context.Context) ([]store.Film, error)
	DeleteFilm(ctx context.Context, id int64) error
	AddLike(ctx context.Context, filmID, userID int64) error
	RemoveLike(ctx context.Context, filmID, userID int64) error
	MostPopularFilms(ctx context.Context, count int) ([]store.Film, error)
}

// Service coordinates film catalogue and like workflows.
type Service interface {
	Create(ctx context.Context, film store.Film) (store.Film, error)
	Update(ctx context.Context, film store.Film) (store.Film, error)
	Get(ctx context.Context, id int64) (store.Film, error)
	List(ctx context.Context) ([]store.Film, error)
	Delete(ctx context.Context, id int64) error
	AddLike(ctx context.Context, filmID, userID int64) error
	RemoveLike(ctx context.Context, filmID, userID int64) error
	MostPopular(ctx context.Context, count int) ([]store.Film, error)
}

type service struct {
	store Store
}

// New constructs a film Service backed by the given Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, film store.Film) (store.Film, error) {
	if err := ctx.Err(); err != nil {
		return store.Film{}, err
	}
	return s.store.CreateFilm(ctx, film)
}

func (s *service) Update(ctx context.Context, film store.Film) (store.Film, error) {
	if err := ctx.Err(); err != nil {
		return store.Film{}, err
	}
	return s.store.UpdateFilm(ctx, film)
}

func (s *service) Get(ctx context.Context, id int64) (store.Film, error) {
	if err := ctx.Err(); err != nil {
		return store.Film{}, err
	}
	return s.store.FilmByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]store.Film, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.Films(ctx)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteFilm(ctx, id)
}

func (s *service) AddLike(ctx context.Context, filmID, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.AddLike(ctx, filmID, userID)
}

func (s *service) RemoveLike(ctx context.Context, filmID, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RemoveLike(ctx, filmID, userID)
}

func (s *service) MostPopular(ctx context.Context, count int) ([]store.Film, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.MostPopularFilms(ctx, count)
}
