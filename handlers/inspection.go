package handlers

import (
	"net/http"

	"p9e.in/cqms/services"
)

// InspectionHandler exposes inspection CRUD over HTTP.
type InspectionHandler struct {
	inspections *services.InspectionService
}

func NewInspectionHandler(inspections *services.InspectionService) *InspectionHandler {
	return &InspectionHandler{inspections: inspections}
}

// Create handles POST /inspections/
func (h *InspectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.InspectionInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	inspection, err := h.inspections.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inspection)
}

// Get handles GET /inspections/{id}
func (h *InspectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid inspection id")
		return
	}

	inspection, err := h.inspections.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inspection)
}

// Update handles PUT /inspections/{id}
func (h *InspectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid inspection id")
		return
	}

	var patch services.InspectionPatch
	if err := decodeJSON(r, &patch); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	inspection, err := h.inspections.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inspection)
}

// Delete handles DELETE /inspections/{id}
func (h *InspectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid inspection id")
		return
	}

	if err := h.inspections.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "inspection deleted successfully"})
}
