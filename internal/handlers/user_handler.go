package handlers

import (
	"net/http"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
	"github.com/krishyadav90/ProJobHub-IND/internal/services"
)

type UserHandler struct {
	Service *services.UserService
}

func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.Service.SignUp(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.Service.SignIn(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		http.Error(w, "Refresh token missing", http.StatusBadRequest)
		return
	}
	tokens, err := h.Service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if err := h.Service.Logout(r.Context(), id.UserID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token, err := h.Service.RequestPasswordReset(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	// Unknown addresses get the same status so accounts cannot be enumerated.
	writeJSON(w, http.StatusAccepted, map[string]string{"reset_token": token})
}

func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Service.ResetPassword(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
