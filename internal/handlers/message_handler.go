package handlers

import (
	"net/http"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
	"github.com/krishyadav90/ProJobHub-IND/internal/services"
)

type MessageHandler struct {
	Service  *services.MessageService
	Presence services.PresenceLister
}

// List serves GET /api/messages: recent history, oldest first.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.Service.History(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req models.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.Service.Send(r.Context(), id.UserID, id.FullName, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) Online(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Presence.List())
}
