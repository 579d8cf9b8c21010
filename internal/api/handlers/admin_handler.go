package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/voltpanel/voltpanel-be/internal/services"
)

// AdminHandler handles the action-dispatched admin endpoint. Every
// action requires a valid session token belonging to an admin.
type AdminHandler struct {
	auth    services.AuthServiceProvider
	service services.AdminServiceProvider
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(auth services.AuthServiceProvider, service services.AdminServiceProvider) *AdminHandler {
	return &AdminHandler{auth: auth, service: service}
}

// adminRequest carries the action discriminator plus the union of all
// admin action fields. Amount is a pointer so a missing field can be
// told apart from an explicit zero.
type adminRequest struct {
	Action string `json:"action"`
	UserID string `json:"userId"`
	Amount *int   `json:"amount"`
	Type   string `json:"type"`
}

// Handle authorizes the caller and dispatches an admin action.
func (h *AdminHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Auth-Token")
	if token == "" {
		respondError(w, services.Authentication("Authentication required"))
		return
	}

	caller, err := h.auth.Verify(token)
	if err != nil {
		respondError(w, err)
		return
	}
	if !caller.IsAdmin {
		log.Warn().Str("user_id", caller.ID).Msg("Non-admin attempted admin action")
		respondError(w, services.Authorization("Admin access required"))
		return
	}

	var req adminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	switch req.Action {
	case "get_stats":
		stats, err := h.service.GetStatistics()
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, stats)

	case "get_users":
		users, err := h.service.GetAllUsers()
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"users": users})

	case "update_energy":
		if req.UserID == "" || req.Amount == nil {
			respondError(w, services.Validation("User ID and amount are required"))
			return
		}
		newEnergy, err := h.service.UpdateEnergy(req.UserID, *req.Amount, req.Type)
		if err != nil {
			respondError(w, err)
			return
		}
		log.Info().Str("admin_id", caller.ID).Str("user_id", req.UserID).
			Int("amount", *req.Amount).Int("new_energy", newEnergy).Msg("Energy adjusted")
		respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "newEnergy": newEnergy})

	case "toggle_infinite_energy":
		if req.UserID == "" {
			respondError(w, services.Validation("User ID is required"))
			return
		}
		infinite, err := h.service.ToggleInfiniteEnergy(req.UserID)
		if err != nil {
			respondError(w, err)
			return
		}
		log.Info().Str("admin_id", caller.ID).Str("user_id", req.UserID).
			Bool("infinite", infinite).Msg("Infinite energy toggled")
		respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "isInfiniteEnergy": infinite})

	default:
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid action"})
	}
}
