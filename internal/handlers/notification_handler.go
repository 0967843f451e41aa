package handlers

import (
	"net/http"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
	"github.com/krishyadav90/ProJobHub-IND/internal/services"
)

type NotificationHandler struct {
	Service *services.NotificationService
}

// RegisterToken serves POST /notifications/token.
func (h *NotificationHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req models.DeviceToken
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = id.UserID
	if err := h.Service.RegisterToken(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
