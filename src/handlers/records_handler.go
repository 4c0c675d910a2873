package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/username/spendfolio/src/logger"
	"github.com/username/spendfolio/src/model"
	"github.com/username/spendfolio/src/services"
	"github.com/username/spendfolio/src/utils"
)

type RecordsHandler struct {
	runStore services.RunStore
	auditor  services.RunAuditor
}

// NewRecordsHandler wires the record endpoints. auditor may be nil.
func NewRecordsHandler(runStore services.RunStore, auditor services.RunAuditor) *RecordsHandler {
	return &RecordsHandler{runStore: runStore, auditor: auditor}
}

func (h *RecordsHandler) HandleGetRecords(w http.ResponseWriter, r *http.Request) {
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
	writeWithETag(w, r, result)
}

type categoryOverrideRequest struct {
	Category string `json:"category"`
}

func (h *RecordsHandler) HandleOverrideCategory(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "session required", http.StatusUnauthorized)
		return
	}

	recordID := r.PathValue("id")
	if recordID == "" {
		utils.SendJSONError(w, "record id is required", http.StatusBadRequest)
		return
	}

	var req categoryOverrideRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rec, err := h.runStore.OverrideCategory(sessionID, recordID, req.Category)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	utils.SendJSON(w, rec, http.StatusOK)
}

func (h *RecordsHandler) HandleClearRecords(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "session required", http.StatusUnauthorized)
		return
	}
	h.runStore.Clear(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecordsHandler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "session required", http.StatusUnauthorized)
		return
	}

	runs := []model.CompileRun{}
	if h.auditor != nil {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		var err error
		runs, err = h.auditor.ListRuns(sessionID, limit)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to list compile runs", "error", err)
			utils.SendJSONError(w, "failed to load run history", http.StatusInternalServerError)
			return
		}
	}
	utils.SendJSON(w, runs, http.StatusOK)
}

// HandleGetRun returns one audited run of the session, including its file errors.
func (h *RecordsHandler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "session required", http.StatusUnauthorized)
		return
	}
	if h.auditor == nil {
		sendServiceError(w, services.ErrRunNotFound)
		return
	}

	run, err := h.auditor.GetRun(sessionID, r.PathValue("id"))
	if err != nil {
		sendServiceError(w, err)
		return
	}
	utils.SendJSON(w, run, http.StatusOK)
}
