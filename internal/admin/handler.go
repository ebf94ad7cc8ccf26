package admin

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/disasterprep/backend/internal/catalog"
	"github.com/disasterprep/backend/internal/models"
	"github.com/disasterprep/backend/internal/progression"
	"github.com/gorilla/mux"
)

type Handler struct {
	modules *catalog.Store
	stats   *progression.Store
}

func NewHandler(modules *catalog.Store, stats *progression.Store) *Handler {
	return &Handler{modules: modules, stats: stats}
}

// ListModules handles GET /admin/modules. Unlike the student list this
// returns every module regardless of status or region.
func (h *Handler) ListModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.modules.ListModules()
	if err != nil {
		log.Printf("[admin] list modules failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load modules"})
		return
	}

	writeJSON(w, http.StatusOK, models.ModuleListResponse{Modules: modules})
}

// SetModuleStatus handles PUT /admin/modules/{id}/status.
func (h *Handler) SetModuleStatus(w http.ResponseWriter, r *http.Request) {
	moduleID := mux.Vars(r)["id"]

	var req models.SetModuleStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if !models.ValidModuleStatuses[req.Status] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Status must be Active, Inactive, or Under Maintenance"})
		return
	}

	if err := h.modules.SetStatus(moduleID, req.Status); err != nil {
		if errors.Is(err, catalog.ErrModuleNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Module not found"})
			return
		}
		log.Printf("[admin] set status for %s failed: %v", moduleID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update module status"})
		return
	}

	module, err := h.modules.GetModule(moduleID)
	if err != nil || module == nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load updated module"})
		return
	}

	writeJSON(w, http.StatusOK, module)
}

// GetClassStats handles GET /admin/stats.
func (h *Handler) GetClassStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.ListClassStats()
	if err != nil {
		log.Printf("[admin] list class stats failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load class statistics"})
		return
	}

	writeJSON(w, http.StatusOK, models.ClassStatsResponse{Classes: stats})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
