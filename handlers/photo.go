package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"p9e.in/cqms/services"
)

// PhotoHandler exposes photo upload, listing, metadata edits and
// download over HTTP.
type PhotoHandler struct {
	photos *services.PhotoService
	files  *services.FileService
}

func NewPhotoHandler(photos *services.PhotoService, files *services.FileService) *PhotoHandler {
	return &PhotoHandler{photos: photos, files: files}
}

func photoInputFromForm(r *http.Request, header *multipart.FileHeader) (services.PhotoUploadInput, error) {
	projectID, err := strconv.ParseUint(r.FormValue("project_id"), 10, 32)
	if err != nil || projectID == 0 {
		return services.PhotoUploadInput{}, fmt.Errorf("project_id is required")
	}

	in := services.PhotoUploadInput{
		ProjectID:   uint(projectID),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Description: r.FormValue("description"),
	}
	if raw := r.FormValue("inspection_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return services.PhotoUploadInput{}, fmt.Errorf("inspection_id must be an integer")
		}
		u := uint(id)
		in.InspectionID = &u
	}
	if raw := r.FormValue("quality_test_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return services.PhotoUploadInput{}, fmt.Errorf("quality_test_id must be an integer")
		}
		u := uint(id)
		in.QualityTestID = &u
	}
	return in, nil
}

// Upload handles POST /photos/upload/ with multipart fields "file",
// "project_id" and optional "inspection_id", "quality_test_id" and
// "description".
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
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

	in, err := photoInputFromForm(r, header)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	photo, err := h.files.UploadPhoto(r.Context(), in, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

// BulkUpload handles POST /photos/bulk-upload/ with a repeated "files"
// multipart field. Every file is processed independently and the
// response reports one result per file.
func (h *PhotoHandler) BulkUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequest(w, "could not parse multipart form")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		badRequest(w, "at least one file is required")
		return
	}

	items := make([]services.BulkItem, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, header := range headers {
		in, err := photoInputFromForm(r, header)
		if err != nil {
			badRequest(w, err.Error())
			return
		}

		file, err := header.Open()
		if err != nil {
			badRequest(w, fmt.Sprintf("could not read file %q", header.Filename))
			return
		}
		opened = append(opened, file)
		items = append(items, services.BulkItem{Input: in, Reader: file})
	}

	results := h.files.UploadPhotos(r.Context(), items)
	writeJSON(w, http.StatusOK, results)
}

// List handles GET /photos/ with optional project_id, inspection_id and
// quality_test_id filters.
func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := services.PhotoFilter{
		ProjectID:     queryUint(r, "project_id"),
		InspectionID:  queryUint(r, "inspection_id"),
		QualityTestID: queryUint(r, "quality_test_id"),
	}

	photos, err := h.photos.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

// Get handles GET /photos/{id}
func (h *PhotoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid photo id")
		return
	}

	photo, err := h.photos.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

// Update handles PUT /photos/{id}
func (h *PhotoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid photo id")
		return
	}

	var patch services.PhotoPatch
	if err := decodeJSON(r, &patch); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	photo, err := h.photos.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

// Delete handles DELETE /photos/{id}
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid photo id")
		return
	}

	if err := h.photos.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "photo deleted successfully"})
}

// Download handles GET /photos/{id}/download and streams the stored
// image back as an attachment.
func (h *PhotoHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid photo id")
		return
	}

	filename, rc, err := h.photos.Download(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	io.Copy(w, rc)
}
