package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/disasterprep/backend/internal/models"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// ListEligible serves the student-facing module list. The resolved region
// comes from the client's geolocation collaborator via the region query
// parameter; absent means location unknown.
func (h *Handler) ListEligible(w http.ResponseWriter, r *http.Request) {
	region := models.Region(r.URL.Query().Get("region"))

	modules, err := h.store.ListModules()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load modules"})
		return
	}

	writeJSON(w, http.StatusOK, models.ModuleListResponse{Modules: FilterEligible(modules, region)})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
