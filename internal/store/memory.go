package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory implementation of the same operations the
// Postgres-backed Store exposes. It exists for tests and demos; the database
// remains the single source of truth in production.
type Memory struct {
	mu           sync.RWMutex
	films        map[int64]memoryFilm
	users        map[int64]User
	genres       map[int64]Genre
	ratings      map[int64]Rating
	likes        map[int64]map[int64]struct{}
	friendships  map[int64]map[int64]string
	nextFilmID   int64
	nextUserID   int64
	nextGenreID  int64
	nextRatingID int64
}

// memoryFilm keeps id references, mirroring the relational rows; genres and
// ratings are resolved to full values on read.
type memoryFilm struct {
	film     Film
	ratingID *int64
	genreIDs []int64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		films:        make(map[int64]memoryFilm),
		users:        make(map[int64]User),
		genres:       make(map[int64]Genre),
		ratings:      make(map[int64]Rating),
		likes:        make(map[int64]map[int64]struct{}),
		friendships:  make(map[int64]map[int64]string),
		nextFilmID:   1,
		nextUserID:   1,
		nextGenreID:  1,
		nextRatingID: 1,
	}
}

// AddGenre seeds a reference genre and returns it with its id.
func (m *Memory) AddGenre(name string) Genre {
	m.mu.Lock()
	defer m.mu.Unlock()

	genre := Genre{ID: m.nextGenreID, Name: name}
	m.genres[genre.ID] = genre
	m.nextGenreID++
	return genre
}

// AddRating seeds a reference MPA rating and returns it with its id.
func (m *Memory) AddRating(name string) Rating {
	m.mu.Lock()
	defer m.mu.Unlock()

	rating := Rating{ID: m.nextRatingID, Name: name}
	m.ratings[rating.ID] = rating
	m.nextRatingID++
	return rating
}

// CreateFilm mirrors Store.CreateFilm using in-process state.
func (m *Memory) CreateFilm(_ context.Context, film Film) (Film, error) {
	film.Name = strings.TrimSpace(film.Name)
	if err := validateFilm(film); err != nil {
		return Film{}, err
	}
	genreIDs := collapseGenreIDs(film.Genres)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkFilmRefs(film.MPA, genreIDs); err != nil {
		return Film{}, err
	}

	record := memoryFilm{film: film, genreIDs: genreIDs}
	if film.MPA != nil {
		id := film.MPA.ID
		record.ratingID = &id
	}
	record.film.ID = m.nextFilmID
	m.nextFilmID++
	m.films[record.film.ID] = record

	return m.assembleFilm(record), nil
}

// UpdateFilm mirrors Store.UpdateFilm; a nil genre list keeps existing links.
func (m *Memory) UpdateFilm(_ context.Context, film Film) (Film, error) {
	if film.ID <= 0 {
		return Film{}, fmt.Errorf("%w: id is required for update", ErrInvalidFilm)
	}
	film.Name = strings.TrimSpace(film.Name)
	if err := validateFilm(film); err != nil {
		return Film{}, err
	}
	genreIDs := collapseGenreIDs(film.Genres)

	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.films[film.ID]
	if !ok {
		return Film{}, ErrFilmNotFound
	}
	if err := m.checkFilmRefs(film.MPA, genreIDs); err != nil {
		return Film{}, err
	}

	keepGenres := record.genreIDs
	record.film = film
	record.ratingID = nil
	if film.MPA != nil {
		id := film.MPA.ID
		record.ratingID = &id
	}
	if film.Genres != nil {
		record.genreIDs = genreIDs
	} else {
		record.genreIDs = keepGenres
	}
	m.films[film.ID] = record

	return m.assembleFilm(record), nil
}

// FilmByID returns the assembled film aggregate.
func (m *Memory) FilmByID(_ context.Context, id int64) (Film, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.films[id]
	if !ok {
		return Film{}, ErrFilmNotFound
	}
	return m.assembleFilm(record), nil
}

// Films returns every film ordered by id.
func (m *Memory) Films(_ context.Context) ([]Film, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	films := make([]Film, 0, len(m.films))
	for _, record := range m.films {
		films = append(films, m.assembleFilm(record))
	}
	sort.Slice(films, func(i, j int) bool { return films[i].ID < films[j].ID })
	return films, nil
}

// MostPopularFilms counts likes in process, which is acceptable only for
// this non-persistent variant.
func (m *Memory) MostPopularFilms(_ context.Context, count int) ([]Film, error) {
	if count <= 0 {
		return nil, ErrInvalidLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	films := make([]Film, 0, len(m.films))
	for _, record := range m.films {
		films = append(films, m.assembleFilm(record))
	}
	sort.Slice(films, func(i, j int) bool {
		li, lj := len(m.likes[films[i].ID]), len(m.likes[films[j].ID])
		if li != lj {
			return li > lj
		}
		return films[i].ID < films[j].ID
	})
	if len(films) > count {
		films = films[:count]
	}
	return films, nil
}

// DeleteFilm removes the film with its likes and genre links.
func (m *Memory) DeleteFilm(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.films[id]; !ok {
		return ErrFilmNotFound
	}
	delete(m.films, id)
	delete(m.likes, id)
	return nil
}

// AddLike mirrors Store.AddLike, idempotently.
func (m *Memory) AddLike(_ context.Context, filmID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.films[filmID]; !ok {
		return ErrFilmNotFound
	}
	if _, ok := m.users[userID]; !ok {
		return ErrUserNotFound
	}
	if m.likes[filmID] == nil {
		m.likes[filmID] = make(map[int64]struct{})
	}
	m.likes[filmID][userID] = struct{}{}
	return nil
}

// RemoveLike mirrors Store.RemoveLike; absent pairs are a no-op.
func (m *Memory) RemoveLike(_ context.Context, filmID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.films[filmID]; !ok {
		return ErrFilmNotFound
	}
	if _, ok := m.users[userID]; !ok {
		return ErrUserNotFound
	}
	delete(m.likes[filmID], userID)
	return nil
}

// FilmLikes returns the ids of users who liked the film, ordered ascending.
func (m *Memory) FilmLikes(_ context.Context, filmID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.films[filmID]; !ok {
		return nil, ErrFilmNotFound
	}
	userIDs := make([]int64, 0, len(m.likes[filmID]))
	for id := range m.likes[filmID] {
		userIDs = append(userIDs, id)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })
	return userIDs, nil
}

// CreateUser mirrors Store.CreateUser, including the duplicate email/login
// conflict.
func (m *Memory) CreateUser(_ context.Context, user User) (User, error) {
	user.Email = strings.TrimSpace(user.Email)
	user.Login = strings.TrimSpace(user.Login)
	if err := validateUser(user); err != nil {
		return User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == user.Email || existing.Login == user.Login {
			return User{}, ErrUserExists
		}
	}

	user.ID = m.nextUserID
	m.nextUserID++
	m.users[user.ID] = user
	return user, nil
}

// UpdateUser mirrors Store.UpdateUser.
func (m *Memory) UpdateUser(_ context.Context, user User) (User, error) {
	if user.ID <= 0 {
		return User{}, fmt.Errorf("%w: id is required for update", ErrInvalidUser)
	}
	user.Email = strings.TrimSpace(user.Email)
	user.Login = strings.TrimSpace(user.Login)
	if err := validateUser(user); err != nil {
		return User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return User{}, ErrUserNotFound
	}
	for _, existing := range m.users {
		if existing.ID != user.ID && (existing.Email == user.Email || existing.Login == user.Login) {
			return User{}, ErrUserExists
		}
	}
	m.users[user.ID] = user
	return user, nil
}

// UserByID returns the user's scalar fields.
func (m *Memory) UserByID(_ context.Context, id int64) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

// Users returns every user ordered by id.
func (m *Memory) Users(_ context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// DeleteUser removes the user with their likes and friendship links.
func (m *Memory) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)
	delete(m.friendships, id)
	for _, links := range m.friendships {
		delete(links, id)
	}
	for _, likers := range m.likes {
		delete(likers, id)
	}
	return nil
}

// AddFriend records a directed CONFIRMED link, idempotently.
func (m *Memory) AddFriend(_ context.Context, userID, friendID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUsers(userID, friendID); err != nil {
		return err
	}
	if m.friendships[userID] == nil {
		m.friendships[userID] = make(map[int64]string)
	}
	if _, ok := m.friendships[userID][friendID]; !ok {
		m.friendships[userID][friendID] = FriendshipConfirmed
	}
	return nil
}

// RemoveFriend deletes the directed link; absent pairs are a no-op.
func (m *Memory) RemoveFriend(_ context.Context, userID, friendID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUsers(userID, friendID); err != nil {
		return err
	}
	delete(m.friendships[userID], friendID)
	return nil
}

// Friends resolves the user's outbound friend links, ordered by id.
func (m *Memory) Friends(_ context.Context, userID int64) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.users[userID]; !ok {
		return nil, ErrUserNotFound
	}
	friends := make([]User, 0, len(m.friendships[userID]))
	for id := range m.friendships[userID] {
		friends = append(friends, m.users[id])
	}
	sort.Slice(friends, func(i, j int) bool { return friends[i].ID < friends[j].ID })
	return friends, nil
}

// CommonFriends intersects the two outbound friend-id sets and resolves the
// result to users, ordered by id.
func (m *Memory) CommonFriends(_ context.Context, userID, otherID int64) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.checkUsers(userID, otherID); err != nil {
		return nil, err
	}
	common := []User{}
	for id := range m.friendships[userID] {
		if _, ok := m.friendships[otherID][id]; ok {
			common = append(common, m.users[id])
		}
	}
	sort.Slice(common, func(i, j int) bool { return common[i].ID < common[j].ID })
	return common, nil
}

// Genres returns every seeded genre ordered by id.
func (m *Memory) Genres(_ context.Context) ([]Genre, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	genres := make([]Genre, 0, len(m.genres))
	for _, genre := range m.genres {
		genres = append(genres, genre)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].ID < genres[j].ID })
	return genres, nil
}

// GenreByID returns a single seeded genre.
func (m *Memory) GenreByID(_ context.Context, id int64) (Genre, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	genre, ok := m.genres[id]
	if !ok {
		return Genre{}, ErrGenreNotFound
	}
	return genre, nil
}

// Ratings returns every seeded MPA rating ordered by id.
func (m *Memory) Ratings(_ context.Context) ([]Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ratings := make([]Rating, 0, len(m.ratings))
	for _, rating := range m.ratings {
		ratings = append(ratings, rating)
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].ID < ratings[j].ID })
	return ratings, nil
}

// RatingByID returns a single seeded MPA rating.
func (m *Memory) RatingByID(_ context.Context, id int64) (Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rating, ok := m.ratings[id]
	if !ok {
		return Rating{}, ErrRatingNotFound
	}
	return rating, nil
}

func (m *Memory) assembleFilm(record memoryFilm) Film {
	film := record.film
	film.MPA = nil
	if record.ratingID != nil {
		if rating, ok := m.ratings[*record.ratingID]; ok {
			film.MPA = &Rating{ID: rating.ID, Name: rating.Name}
		}
	}
	ids := append([]int64(nil), record.genreIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	film.Genres = make([]Genre, 0, len(ids))
	for _, id := range ids {
		film.Genres = append(film.Genres, m.genres[id])
	}
	return film
}

func (m *Memory) checkFilmRefs(mpa *Rating, genreIDs []int64) error {
	if mpa != nil {
		if _, ok := m.ratings[mpa.ID]; !ok {
			return fmt.Errorf("rating %d: %w", mpa.ID, ErrRatingNotFound)
		}
	}
	for _, id := range genreIDs {
		if _, ok := m.genres[id]; !ok {
			return fmt.Errorf("genre %d: %w", id, ErrGenreNotFound)
		}
	}
	return nil
}

func (m *Memory) checkUsers(userID, friendID int64) error {
	if _, ok := m.users[userID]; !ok {
		return fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}
	if _, ok := m.users[friendID]; !ok {
		return fmt.Errorf("user %d: %w", friendID, ErrUserNotFound)
	}
	return nil
}
