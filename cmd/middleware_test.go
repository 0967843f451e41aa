package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/krishyadav90/ProJobHub-IND/internal/handlers"
	"github.com/krishyadav90/ProJobHub-IND/internal/models"
	"github.com/krishyadav90/ProJobHub-IND/internal/services"
)

const testSigningKey = "test-key"

func testApp() *application {
	return &application{
		logger:      zap.NewNop().Sugar(),
		userService: &services.UserService{SigningKey: testSigningKey},
	}
}

func signedToken(t *testing.T, key string, userID uint, ttl time.Duration) string {
	t.Helper()
	claims := models.Claims{
		UserID:   userID,
		FullName: "Ann",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func TestRequireAuth(t *testing.T) {
	app := testApp()

	var got handlers.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = handlers.IdentityFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := app.requireAuth(next)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Token abc", http.StatusUnauthorized},
		{"wrong key", "Bearer " + signedToken(t, "other", 7, time.Hour), http.StatusUnauthorized},
		{"expired", "Bearer " + signedToken(t, testSigningKey, 7, -time.Minute), http.StatusUnauthorized},
		{"valid", "Bearer " + signedToken(t, testSigningKey, 7, time.Hour), http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/jobs/mine", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tc.status, rec.Code)
		})
	}

	require.Equal(t, handlers.Identity{UserID: 7, FullName: "Ann"}, got)
}

func TestRecoverPanic(t *testing.T) {
	app := testApp()
	h := app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "close", rec.Header().Get("Connection"))
}

func TestChatWebSocketRejectsMissingToken(t *testing.T) {
	app := testApp()

	rec := httptest.NewRecorder()
	app.chatWebSocket(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	app.chatWebSocket(rec, httptest.NewRequest(http.MethodGet, "/ws?token=garbage", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSecureHeaders(t *testing.T) {
	h := addSecurityHeaders(secureHeaders(makeResponseJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "deny", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
