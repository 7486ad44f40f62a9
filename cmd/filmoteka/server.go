package main

import (
	"net/http"
	"strings"

	"filmoteka/internal/app/films"
	"filmoteka/internal/app/genres"
	"filmoteka/internal/app/mpa"
	"filmoteka/internal/app/users"
	"filmoteka/internal/httpapi"
	"filmoteka/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store) http.Handler {
	filmSvc := films.New(dataStore)
	userSvc := users.New(dataStore)
	genreSvc := genres.New(dataStore)
	mpaSvc := mpa.New(dataStore)

	routes := httpapi.New(filmSvc, userSvc, genreSvc, mpaSvc).Routes()

	handler := httpapi.RequestLogging()(routes)
	handler = httpapi.Recovery()(handler)

	return withCORS(cfg.AllowedOrigins, handler)
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
