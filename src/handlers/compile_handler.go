package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/username/spendfolio/src/logger"
	"github.com/username/spendfolio/src/models"
	"github.com/username/spendfolio/src/parsers"
	"github.com/username/spendfolio/src/security/validation"
	"github.com/username/spendfolio/src/services"
	"github.com/username/spendfolio/src/utils"
)

const maxLabelLength = 120

// CompileSettings are the request-independent knobs of the compile endpoint.
type CompileSettings struct {
	DefaultSpender     string
	FailurePolicy      models.FailurePolicy
	MaxUploadSizeBytes int64
}

type CompileHandler struct {
	compileService services.CompileService
	runStore       services.RunStore
	auditor        services.RunAuditor
	settings       CompileSettings
}

// NewCompileHandler wires the compile endpoint. auditor may be nil.
func NewCompileHandler(compileService services.CompileService, runStore services.RunStore, auditor services.RunAuditor, settings CompileSettings) *CompileHandler {
	return &CompileHandler{
		compileService: compileService,
		runStore:       runStore,
		auditor:        auditor,
		settings:       settings,
	}
}

// fileMetaRequest is one entry of the "meta" form field, matched to "files" parts by position.
type fileMetaRequest struct {
	Source    string              `json:"source"`
	Format    string              `json:"format"`
	VenmoSign *models.SignOptions `json:"venmoSign,omitempty"`
}

func (h *CompileHandler) HandleCompile(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "session required", http.StatusUnauthorized)
		return
	}
	lg := logger.FromContext(r.Context())

	maxSize := h.settings.MaxUploadSizeBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		lg.Warn("Failed to parse multipart form or request too large", "error", err, "limit", maxSize)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", maxSize/(1024*1024)), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		utils.SendJSONError(w, "No files uploaded. Use the 'files' field.", http.StatusBadRequest)
		return
	}

	var metas []fileMetaRequest
	if raw := r.FormValue("meta"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metas); err != nil {
			utils.SendJSONError(w, fmt.Sprintf("Invalid 'meta' field: %v", err), http.StatusBadRequest)
			return
		}
	}

	spender := validation.SanitizeLabel(r.FormValue("spender"), maxLabelLength)
	if spender == "" {
		spender = h.settings.DefaultSpender
	}

	inputs := make([]models.FileInput, 0, len(fileHeaders))
	for i, fh := range fileHeaders {
		file, err := openValidatedUpload(fh)
		if err != nil {
			lg.Warn("Upload rejected", "filename", fh.Filename, "error", err)
			if errors.Is(err, validation.ErrValidationFailed) {
				utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			} else {
				utils.SendJSONError(w, "failed to read uploaded file", http.StatusInternalServerError)
			}
			return
		}
		defer file.Close()

		var req *fileMetaRequest
		if i < len(metas) {
			req = &metas[i]
		}
		inputs = append(inputs, models.FileInput{Meta: resolveFileMeta(fh.Filename, req), Reader: file})
	}

	lg.Info("Processing compile request", "files", len(inputs), "spender", spender)
	result, err := h.compileService.Compile(r.Context(), inputs, models.CompileOptions{
		DefaultSpender: spender,
		FailurePolicy:  h.settings.FailurePolicy,
	})
	if err != nil {
		lg.Warn("Compile interrupted", "error", err)
		utils.SendJSONError(w, "compilation was cancelled", http.StatusServiceUnavailable)
		return
	}

	h.runStore.Save(sessionID, result)
	if h.auditor != nil {
		if err := h.auditor.RecordRun(sessionID, result); err != nil {
			lg.Error("Run audit failed, continuing", "runID", result.RunID, "error", err)
		}
	}

	utils.SendJSON(w, result, http.StatusOK)
}

// resolveFileMeta combines declared metadata with filename hints. Declared
// values win; an undeclared label keeps the hinted one. An unknown format is
// kept verbatim so the pipeline reports it as a file error.
func resolveFileMeta(filename string, req *fileMetaRequest) models.FileMeta {
	meta := parsers.InferMetaFromFilename(filename)
	if req == nil {
		return meta
	}

	if req.Format != "" {
		format, err := models.ParseFormat(req.Format)
		if err != nil {
			format = models.Format(req.Format)
		}
		meta = parsers.ApplyDeclaredFormat(meta, format)
	}
	if label := validation.SanitizeLabel(req.Source, maxLabelLength); label != "" {
		meta.Source = label
	}
	if req.VenmoSign != nil {
		sign := *req.VenmoSign
		meta.VenmoSign = &sign
	}
	return meta
}

func openValidatedUpload(fh *multipart.FileHeader) (multipart.File, error) {
	if err := validation.ValidateFileName(fh.Filename); err != nil {
		return nil, err
	}
	if err := validation.ValidateClientContentType(fh.Header.Get("Content-Type")); err != nil {
		return nil, err
	}

	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	if _, err := validation.ValidateFileContentByMagicBytes(file); err != nil {
		file.Close()
		return nil, err
	}
	return file, nil
}

type formatInfo struct {
	Format       models.Format `json:"format"`
	Family       models.Family `json:"family"`
	DefaultLabel string        `json:"default_label"`
}

type formatsResponse struct {
	Formats        []formatInfo      `json:"formats"`
	Categories     []models.Category `json:"categories"`
	DefaultSpender string            `json:"default_spender"`
}

func (h *CompileHandler) HandleListFormats(w http.ResponseWriter, r *http.Request) {
	resp := formatsResponse{
		Categories:     models.AllCategories,
		DefaultSpender: h.settings.DefaultSpender,
	}
	for _, f := range models.AllFormats {
		resp.Formats = append(resp.Formats, formatInfo{Format: f, Family: f.Family(), DefaultLabel: f.DefaultLabel()})
	}
	writeWithETag(w, r, resp)
}
