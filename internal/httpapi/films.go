package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"filmoteka/internal/store"
)

const dateLayout = "2006-01-02"

type idRef struct {
	ID int64 `json:"id"`
}

type filmRequest struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ReleaseDate string  `json:"releaseDate"`
	Duration    int64   `json:"duration"`
	MPA         *idRef  `json:"mpa"`
	Genres      []idRef `json:"genres"`
}

type filmResponse struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	ReleaseDate string        `json:"releaseDate"`
	Duration    int64         `json:"duration"`
	MPA         *store.Rating `json:"mpa,omitempty"`
	Genres      []store.Genre `json:"genres"`
}

func (req filmRequest) toFilm() (store.Film, error) {
	film := store.Film{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
	}
	if req.ReleaseDate != "" {
		date, err := time.Parse(dateLayout, req.ReleaseDate)
		if err != nil {
			return store.Film{}, err
		}
		film.ReleaseDate = date
	}
	if req.MPA != nil {
		film.MPA = &store.Rating{ID: req.MPA.ID}
	}
	if req.Genres != nil {
		film.Genres = make([]store.Genre, 0, len(req.Genres))
		for _, g := range req.Genres {
			film.Genres = append(film.Genres, store.Genre{ID: g.ID})
		}
	}
	return film, nil
}

func toFilmResponse(film store.Film) filmResponse {
	genres := film.Genres
	if genres == nil {
		genres = []store.Genre{}
	}
	return filmResponse{
		ID:          film.ID,
		Name:        film.Name,
		Description: film.Description,
		ReleaseDate: film.ReleaseDate.Format(dateLayout),
		Duration:    film.Duration,
		MPA:         film.MPA,
		Genres:      genres,
	}
}

func toFilmResponses(films []store.Film) []filmResponse {
	out := make([]filmResponse, 0, len(films))
	for _, film := range films {
		out = append(out, toFilmResponse(film))
	}
	return out
}

func (s *Server) handleCreateFilm(w http.ResponseWriter, r *http.Request) {
	var req filmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	film, err := req.toFilm()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid release date"})
		return
	}

	created, err := s.films.Create(r.Context(), film)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFilmResponse(created))
}

func (s *Server) handleUpdateFilm(w http.ResponseWriter, r *http.Request) {
	var req filmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	film, err := req.toFilm()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid release date"})
		return
	}

	updated, err := s.films.Update(r.Context(), film)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFilmResponse(updated))
}

func (s *Server) handleGetFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	film, err := s.films.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFilmResponse(film))
}

func (s *Server) handleListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := s.films.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFilmResponses(films))
}

func (s *Server) handleDeleteFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := s.films.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePopularFilms(w http.ResponseWriter, r *http.Request) {
	count := 10
	if countStr := r.URL.Query().Get("count"); countStr != "" {
		parsed, err := strconv.Atoi(countStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid count parameter"})
			return
		}
		count = parsed
	}

	films, err := s.films.MostPopular(r.Context(), count)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFilmResponses(films))
}

func (s *Server) handleAddLike(w http.ResponseWriter, r *http.Request) {
	filmID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := s.films.AddLike(r.Context(), filmID, userID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveLike(w http.ResponseWriter, r *http.Request) {
	filmID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := s.films.RemoveLike(r.Context(), filmID, userID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
