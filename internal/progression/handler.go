package progression

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/disasterprep/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func (h *Handler) CompleteQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CompleteQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.ModuleID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "module_id is required"})
		return
	}

	resp, err := h.service.CompleteQuiz(userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownModule):
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Module not found"})
		case errors.Is(err, ErrModuleUnavailable):
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Module is not currently available"})
		case errors.Is(err, ErrInvalidDifficulty), errors.Is(err, ErrInvalidScore), errors.Is(err, ErrInvalidStars):
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record completion"})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.GetProgress(userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Profile not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load progress"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
