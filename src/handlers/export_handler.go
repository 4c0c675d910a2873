package handlers

import (
	"fmt"
	"net/http"

	"github.com/username/spendfolio/src/logger"
	"github.com/username/spendfolio/src/services"
	"github.com/username/spendfolio/src/utils"
)

type ExportHandler struct {
	runStore      services.RunStore
	exportService services.ExportService
}

func NewExportHandler(runStore services.RunStore, exportService services.ExportService) *ExportHandler {
	return &ExportHandler{runStore: runStore, exportService: exportService}
}

// HandleExport streams the session's records as CSV. The optional "sort" query
// parameter ("date", "-amount", ...) reorders the rows; by default pipeline order is kept.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "session required", http.StatusUnauthorized)
		return
	}

	result, err := h.runStore.Get(sessionID)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	records := result.Records
	if sortParam := r.URL.Query().Get("sort"); sortParam != "" {
		key, desc, err := services.ParseSortKey(sortParam)
		if err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		records = services.SortRecords(records, key, desc)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.ExportFilename))
	if err := h.exportService.WriteCSV(w, records); err != nil {
		logger.FromContext(r.Context()).Error("Failed to write CSV export", "runID", result.RunID, "error", err)
	}
}
