package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/voltpanel/voltpanel-be/internal/services"
)

// AuthHandler handles the action-dispatched auth endpoint.
type AuthHandler struct {
	service services.AuthServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// authRequest carries the action discriminator plus the union of all
// auth action fields.
type authRequest struct {
	Action      string `json:"action"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Token       string `json:"token"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Handle dispatches an auth action from the request body.
func (h *AuthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	switch req.Action {
	case "register":
		token, user, err := h.service.Register(req.Email, req.Username, req.Password)
		if err != nil {
			respondError(w, err)
			return
		}
		log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
		respondJSON(w, http.StatusOK, map[string]interface{}{"token": token, "user": user})

	case "login":
		token, user, err := h.service.Login(req.Email, req.Password)
		if err != nil {
			log.Warn().Err(err).Str("email", req.Email).Msg("Failed authentication attempt")
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"token": token, "user": user})

	case "logout":
		if err := h.service.Logout(req.Token); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})

	case "verify":
		user, err := h.service.Verify(req.Token)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"user": user})

	case "update_password":
		if err := h.service.UpdatePassword(req.Email, req.OldPassword, req.NewPassword); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid action"})
	}
}
