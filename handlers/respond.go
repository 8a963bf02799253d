package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"p9e.in/cqms/services"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a service error kind to an HTTP status and renders
// the structured error body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &services.Error{Kind: "internal", Message: "internal server error"}

	switch services.KindOf(err) {
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindValidation:
		status = http.StatusUnprocessableEntity
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindUnsupportedMedia:
		status = http.StatusBadRequest
	case services.KindStorage:
		status = http.StatusInternalServerError
	}
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		body = svcErr
	}

	writeJSON(w, status, map[string]interface{}{"error": body})
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error": &services.Error{Kind: "bad_request", Message: message},
	})
}

// pathID reads the named mux variable as an unsigned integer id.
func pathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional integer query parameter, falling back to
// def when absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// queryUint reads an optional id query parameter; 0 means absent.
func queryUint(r *http.Request, name string) uint {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
