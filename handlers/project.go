package handlers

import (
	"net/http"

	"p9e.in/cqms/services"
)

// ProjectHandler exposes project CRUD over HTTP.
type ProjectHandler struct {
	projects    *services.ProjectService
	items       *services.ContractItemService
	tests       *services.QualityTestService
	inspections *services.InspectionService
	photos      *services.PhotoService
}

func NewProjectHandler(
	projects *services.ProjectService,
	items *services.ContractItemService,
	tests *services.QualityTestService,
	inspections *services.InspectionService,
	photos *services.PhotoService,
) *ProjectHandler {
	return &ProjectHandler{
		projects:    projects,
		items:       items,
		tests:       tests,
		inspections: inspections,
		photos:      photos,
	}
}

// Create handles POST /projects/
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProjectInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	project, err := h.projects.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// List handles GET /projects/?skip=&limit=
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context(), queryInt(r, "skip", 0), queryInt(r, "limit", 100))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Get handles GET /projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid project id")
		return
	}

	project, err := h.projects.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Update handles PUT /projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid project id")
		return
	}

	var patch services.ProjectPatch
	if err := decodeJSON(r, &patch); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	project, err := h.projects.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Delete handles DELETE /projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid project id")
		return
	}

	if err := h.projects.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "project and all related data deleted successfully"})
}

// ContractItems handles GET /projects/{id}/contract-items/
func (h *ProjectHandler) ContractItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid project id")
		return
	}

	items, err := h.items.ListByProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Tests handles GET /projects/{id}/tests/
func (h *ProjectHandler) Tests(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid project id")
		return
	}

	tests, err := h.tests.ListByProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tests)
}

// Inspections handles GET /projects/{id}/inspections/
func (h *ProjectHandler) Inspections(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid project id")
		return
	}

	inspections, err := h.inspections.ListByProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inspections)
}

// Photos handles GET /projects/{id}/photos/
func (h *ProjectHandler) Photos(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid project id")
		return
	}

	photos, err := h.photos.List(r.Context(), services.PhotoFilter{ProjectID: id})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}
