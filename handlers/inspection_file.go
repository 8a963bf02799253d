package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"p9e.in/cqms/services"
)

const maxUploadSize = 50 << 20

// InspectionFileHandler exposes the inspection form upload/download
// endpoints.
type InspectionFileHandler struct {
	files *services.FileService
}

func NewInspectionFileHandler(files *services.FileService) *InspectionFileHandler {
	return &InspectionFileHandler{files: files}
}

// Upload handles POST /inspection-files/ with multipart fields "file",
// "project_id" and optional "inspection_id".
func (h *InspectionFileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequest(w, "could not parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "file is required")
		return
	}
	defer file.Close()

	projectID, err := strconv.ParseUint(r.FormValue("project_id"), 10, 32)
	if err != nil || projectID == 0 {
		badRequest(w, "project_id is required")
		return
	}

	var inspectionID uint64
	if raw := r.FormValue("inspection_id"); raw != "" {
		inspectionID, err = strconv.ParseUint(raw, 10, 32)
		if err != nil {
			badRequest(w, "inspection_id must be an integer")
			return
		}
	}

	result, err := h.files.UploadInspectionFile(r.Context(), uint(projectID), uint(inspectionID), header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Download handles GET /inspection-files/{inspection_id} and streams
// the stored form back as an attachment.
func (h *InspectionFileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "inspection_id")
	if !ok {
		badRequest(w, "invalid inspection id")
		return
	}

	filename, rc, err := h.files.DownloadInspectionFile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	io.Copy(w, rc)
}
