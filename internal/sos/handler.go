package sos

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/disasterprep/backend/internal/models"
	"github.com/disasterprep/backend/internal/progression"
)

type Handler struct {
	profiles *progression.Store
}

func NewHandler(profiles *progression.Store) *Handler {
	return &Handler{profiles: profiles}
}

// SendSOS handles POST /sos. The client supplies coordinates; the server
// resolves the contact list from the student's profile and returns the
// dispatch payload.
func (h *Handler) SendSOS(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int64)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.SOSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	profile, err := h.profiles.LoadProfile(userID)
	if err != nil {
		if errors.Is(err, progression.ErrProfileNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
			return
		}
		log.Printf("[sos] load profile for user %d failed: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	dispatch, err := Dispatch(profile, req.Location)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoContacts):
			writeJSON(w, http.StatusPreconditionFailed, models.ErrorResponse{Error: "No emergency contacts found. Please add contacts in your profile settings first."})
		case errors.Is(err, ErrNoLocation):
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Could not get your location. Please ensure location services are enabled and try again."})
		default:
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to build SOS alert"})
		}
		return
	}

	log.Printf("[sos] alert dispatched for user %d to %d contacts", userID, len(dispatch.Recipients))
	writeJSON(w, http.StatusOK, dispatch)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
