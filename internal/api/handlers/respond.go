package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/voltpanel/voltpanel-be/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps classified service errors to their HTTP status.
// Unclassified errors become a generic 500; the detail is logged but
// never sent to the client.
func respondError(w http.ResponseWriter, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		respondJSON(w, statusForKind(svcErr.Kind), map[string]string{"error": svcErr.Message})
		return
	}
	log.Error().Err(err).Msg("Unhandled internal error")
	respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

func statusForKind(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindConflict:
		return http.StatusConflict
	case services.KindAuthentication:
		return http.StatusUnauthorized
	case services.KindAuthorization:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
