package handlers

import (
	"net/http"

	"p9e.in/cqms/services"
)

// QualityTestHandler exposes quality test CRUD over HTTP.
type QualityTestHandler struct {
	tests *services.QualityTestService
}

func NewQualityTestHandler(tests *services.QualityTestService) *QualityTestHandler {
	return &QualityTestHandler{tests: tests}
}

// Create handles POST /tests/
func (h *QualityTestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.QualityTestInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	test, err := h.tests.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, test)
}

// List handles GET /tests/?skip=&limit=
func (h *QualityTestHandler) List(w http.ResponseWriter, r *http.Request) {
	tests, err := h.tests.List(r.Context(), queryInt(r, "skip", 0), queryInt(r, "limit", 100))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tests)
}

// Get handles GET /tests/{id}
func (h *QualityTestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid test id")
		return
	}

	test, err := h.tests.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, test)
}

// Update handles PUT /tests/{id}
func (h *QualityTestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid test id")
		return
	}

	var patch services.QualityTestPatch
	if err := decodeJSON(r, &patch); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	test, err := h.tests.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, test)
}

// Delete handles DELETE /tests/{id}
func (h *QualityTestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid test id")
		return
	}

	if err := h.tests.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "quality test deleted successfully"})
}
