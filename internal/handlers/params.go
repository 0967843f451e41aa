package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

// getParam returns a path or query parameter value regardless of whether
// the router stores it with a leading colon or not. It also supports the
// standard net/http PathValue API available in recent Go versions.
func getParam(r *http.Request, name string) string {
	if r == nil {
		return ""
	}

	if val := r.URL.Query().Get(":" + name); val != "" {
		return val
	}

	if val := r.URL.Query().Get(name); val != "" {
		return val
	}

	return r.PathValue(name)
}

type ctxKey int

const identityKey ctxKey = iota

// Identity is the authenticated caller, placed in the request context by the auth middleware.
type Identity struct {
	UserID   int
	FullName string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID > 0
}

func requireIdentity(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return id, ok
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 8<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps service errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, models.ErrDuplicateEmail):
		http.Error(w, "Email already registered", http.StatusConflict)
	case errors.Is(err, models.ErrInvalidCredentials):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, models.ErrSessionNotFound), errors.Is(err, models.ErrSessionExpired):
		http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
	case errors.Is(err, models.ErrUserNotFound), errors.Is(err, models.ErrNoRecord), errors.Is(err, models.ErrJobNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, models.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is empty"})
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
