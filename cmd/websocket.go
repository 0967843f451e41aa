package main

import (
	"net/http"
	"strings"

	"github.com/krishyadav90/ProJobHub-IND/internal/chat"
)

// chatWebSocket serves GET /ws. Browsers cannot set headers on a websocket
// handshake, so the access token may also come as the "token" query parameter.
func (app *application) chatWebSocket(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		app.clientError(w, http.StatusUnauthorized)
		return
	}

	claims, err := app.userService.ParseAccessToken(token)
	if err != nil {
		app.clientError(w, http.StatusUnauthorized)
		return
	}

	app.chatHub.ServeWS(w, r, chat.Identity{UserID: int(claims.UserID), UserName: claims.FullName})
}
