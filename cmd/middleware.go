package main

import (
	"net/http"
	"strings"

	"github.com/go-errors/errors"

	"github.com/krishyadav90/ProJobHub-IND/internal/handlers"
)

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Frame-Options", "deny")
		next.ServeHTTP(w, r)
	})
}

func makeResponseJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.logger.Infof("%s - %s %s %s", r.RemoteAddr, r.Proto, r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, errors.Wrap(rec, 2))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requireAuth validates the bearer access token and puts the caller into the request context.
func (app *application) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "Authorization header missing or invalid", http.StatusUnauthorized)
			return
		}

		claims, err := app.userService.ParseAccessToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil || claims.UserID == 0 {
			http.Error(w, "Invalid or expired access token", http.StatusUnauthorized)
			return
		}

		ctx := handlers.WithIdentity(r.Context(), handlers.Identity{
			UserID:   int(claims.UserID),
			FullName: claims.FullName,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
