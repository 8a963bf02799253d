package handlers

import (
	"net/http"

	"p9e.in/cqms/services"
)

// ContractItemHandler exposes contract item CRUD over HTTP.
type ContractItemHandler struct {
	items *services.ContractItemService
	tests *services.QualityTestService
}

func NewContractItemHandler(items *services.ContractItemService, tests *services.QualityTestService) *ContractItemHandler {
	return &ContractItemHandler{items: items, tests: tests}
}

// Create handles POST /contract-items/
func (h *ContractItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ContractItemInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	item, err := h.items.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// List handles GET /contract-items/?skip=&limit=
func (h *ContractItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context(), queryInt(r, "skip", 0), queryInt(r, "limit", 100))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /contract-items/{id}
func (h *ContractItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid contract item id")
		return
	}

	item, err := h.items.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Update handles PUT /contract-items/{id}
func (h *ContractItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid contract item id")
		return
	}

	var patch services.ContractItemPatch
	if err := decodeJSON(r, &patch); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	item, err := h.items.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /contract-items/{id}
func (h *ContractItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid contract item id")
		return
	}

	if err := h.items.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "contract item deleted successfully"})
}

// Tests handles GET /contract-items/{id}/tests/
func (h *ContractItemHandler) Tests(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid contract item id")
		return
	}

	tests, err := h.tests.ListByContractItem(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tests)
}
