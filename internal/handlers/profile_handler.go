package handlers

import (
	"net/http"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
	"github.com/krishyadav90/ProJobHub-IND/internal/services"
)

type ProfileHandler struct {
	Service *services.ProfileService
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	profile, err := h.Service.Get(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	profile, err := h.Service.Update(r.Context(), id.UserID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
