package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"filmoteka/internal/store"
)

// FilmService coordinates film catalogue and like workflows.
type FilmService interface {
	Create(ctx context.Context, film store.Film) (store.Film, error)
	Update(ctx context.Context, film store.Film) (store.Film, error)
	Get(ctx context.Context, id int64) (store.Film, error)
	List(ctx context.Context) ([]store.Film, error)
	Delete(ctx context.Context, id int64) error
	AddLike(ctx context.Context, filmID, userID int64) error
	RemoveLike(ctx context.Context, filmID, userID int64) error
	MostPopular(ctx context.Context, count int) ([]store.Film, error)
}

// UserService coordinates user account and friendship workflows.
type UserService interface {
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

// GenreService exposes genre reference-data reads.
type GenreService interface {
	List(ctx context.Context) ([]store.Genre, error)
	Get(ctx context.Context, id int64) (store.Genre, error)
}

// MPAService exposes MPA rating reference-data reads.
type MPAService interface {
	List(ctx context.Context) ([]store.Rating, error)
	Get(ctx context.Context, id int64) (store.Rating, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	films  FilmService
	users  UserService
	genres GenreService
	mpa    MPAService
}

// New configures a Server with the given service implementations.
func New(films FilmService, users UserService, genres GenreService, mpa MPAService) *Server {
	return &Server{
		films:  films,
		users:  users,
		genres: genres,
		mpa:    mpa,
	}
}

// Routes exposes the HTTP handlers for the film-rating API.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Film routes
	mux.HandleFunc("POST /films", s.handleCreateFilm)
	mux.HandleFunc("PUT /films", s.handleUpdateFilm)
	mux.HandleFunc("GET /films", s.handleListFilms)
	mux.HandleFunc("GET /films/popular", s.handlePopularFilms)
	mux.HandleFunc("GET /films/{id}", s.handleGetFilm)
	mux.HandleFunc("DELETE /films/{id}", s.handleDeleteFilm)
	mux.HandleFunc("PUT /films/{id}/like/{userId}", s.handleAddLike)
	mux.HandleFunc("DELETE /films/{id}/like/{userId}", s.handleRemoveLike)

	// User routes
	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("PUT /users", s.handleUpdateUser)
	mux.HandleFunc("GET /users", s.handleListUsers)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.HandleFunc("DELETE /users/{id}", s.handleDeleteUser)
	mux.HandleFunc("PUT /users/{id}/friends/{friendId}", s.handleAddFriend)
	mux.HandleFunc("DELETE /users/{id}/friends/{friendId}", s.handleRemoveFriend)
	mux.HandleFunc("GET /users/{id}/friends", s.handleFriends)
	mux.HandleFunc("GET /users/{id}/friends/common/{otherId}", s.handleCommonFriends)

	// Reference data routes
	mux.HandleFunc("GET /genres", s.handleListGenres)
	mux.HandleFunc("GET /genres/{id}", s.handleGetGenre)
	mux.HandleFunc("GET /mpa", s.handleListRatings)
	mux.HandleFunc("GET /mpa/{id}", s.handleGetRating)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusForError maps store sentinels onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrFilmNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrGenreNotFound),
		errors.Is(err, store.ErrRatingNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidFilm),
		errors.Is(err, store.ErrInvalidUser),
		errors.Is(err, store.ErrInvalidLimit):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrUserExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), errorResponse{Error: err.Error()})
}

// pathID parses the named path segment as a positive integer id.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
