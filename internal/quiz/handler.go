package quiz

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/disasterprep/backend/internal/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetQuiz handles GET /modules/{id}/quiz?difficulty=Easy&region=coastal
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	moduleID := mux.Vars(r)["id"]
	difficulty := models.Difficulty(r.URL.Query().Get("difficulty"))
	region := models.Region(r.URL.Query().Get("region"))

	resp, err := h.service.GetQuiz(r.Context(), moduleID, difficulty, region)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDifficulty):
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Difficulty must be Easy, Medium, or Hard"})
		case errors.Is(err, ErrUnknownModule):
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Module not found"})
		case errors.Is(err, ErrModuleIneligible):
			writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Module is not available for this student"})
		default:
			log.Printf("[quiz] get quiz failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load quiz"})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetSafetyInfo handles GET /modules/{id}/info?region=coastal
func (h *Handler) GetSafetyInfo(w http.ResponseWriter, r *http.Request) {
	moduleID := mux.Vars(r)["id"]
	region := models.Region(r.URL.Query().Get("region"))

	resp, err := h.service.GetSafetyInfo(r.Context(), moduleID, region)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownModule):
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Module not found"})
		case errors.Is(err, ErrModuleIneligible):
			writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Module is not available for this student"})
		default:
			log.Printf("[quiz] get safety info failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load safety information"})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
