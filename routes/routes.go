package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	_ "p9e.in/cqms/docs"
	"p9e.in/cqms/filestore"
	"p9e.in/cqms/handlers"
	"p9e.in/cqms/services"
)

// Options tweaks optional router behavior.
type Options struct {
	// UploadDir enables static serving of locally stored uploads when
	// non-empty. Leave empty in GCS mode.
	UploadDir string
}

// RegisterRoutes sets up all application routes on an explicitly
// provided database handle and file store.
func RegisterRoutes(db *gorm.DB, store filestore.Store, opts Options) http.Handler {
	projects := services.NewProjectService(db, store)
	items := services.NewContractItemService(db)
	tests := services.NewQualityTestService(db)
	inspections := services.NewInspectionService(db, store)
	photos := services.NewPhotoService(db, store)
	files := services.NewFileService(db, store)

	projectHandler := handlers.NewProjectHandler(projects, items, tests, inspections, photos)
	itemHandler := handlers.NewContractItemHandler(items, tests)
	testHandler := handlers.NewQualityTestHandler(tests)
	inspectionHandler := handlers.NewInspectionHandler(inspections)
	photoHandler := handlers.NewPhotoHandler(photos, files)
	fileHandler := handlers.NewInspectionFileHandler(files)
	exportHandler := handlers.NewExportHandler(projects, items, tests)

	r := mux.NewRouter()

	r.HandleFunc("/healthz", handleHealth).Methods("GET")
	if opts.UploadDir != "" {
		r.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir))),
		)
	}

	// Projects
	r.HandleFunc("/projects/", projectHandler.Create).Methods("POST")
	r.HandleFunc("/projects/", projectHandler.List).Methods("GET")
	r.HandleFunc("/projects/{id}", projectHandler.Get).Methods("GET")
	r.HandleFunc("/projects/{id}", projectHandler.Update).Methods("PUT")
	r.HandleFunc("/projects/{id}", projectHandler.Delete).Methods("DELETE")
	r.HandleFunc("/projects/{id}/contract-items/export", exportHandler.ContractItems).Methods("GET")
	r.HandleFunc("/projects/{id}/contract-items/", projectHandler.ContractItems).Methods("GET")
	r.HandleFunc("/projects/{id}/tests/export", exportHandler.Tests).Methods("GET")
	r.HandleFunc("/projects/{id}/tests/", projectHandler.Tests).Methods("GET")
	r.HandleFunc("/projects/{id}/inspections/", projectHandler.Inspections).Methods("GET")
	r.HandleFunc("/projects/{id}/photos/", projectHandler.Photos).Methods("GET")

	// Contract items
	r.HandleFunc("/contract-items/", itemHandler.Create).Methods("POST")
	r.HandleFunc("/contract-items/", itemHandler.List).Methods("GET")
	r.HandleFunc("/contract-items/{id}", itemHandler.Get).Methods("GET")
	r.HandleFunc("/contract-items/{id}", itemHandler.Update).Methods("PUT")
	r.HandleFunc("/contract-items/{id}", itemHandler.Delete).Methods("DELETE")
	r.HandleFunc("/contract-items/{id}/tests/", itemHandler.Tests).Methods("GET")

	// Quality tests
	r.HandleFunc("/tests/", testHandler.Create).Methods("POST")
	r.HandleFunc("/tests/", testHandler.List).Methods("GET")
	r.HandleFunc("/tests/{id}", testHandler.Get).Methods("GET")
	r.HandleFunc("/tests/{id}", testHandler.Update).Methods("PUT")
	r.HandleFunc("/tests/{id}", testHandler.Delete).Methods("DELETE")

	// Inspections
	r.HandleFunc("/inspections/", inspectionHandler.Create).Methods("POST")
	r.HandleFunc("/inspections/{id}", inspectionHandler.Get).Methods("GET")
	r.HandleFunc("/inspections/{id}", inspectionHandler.Update).Methods("PUT")
	r.HandleFunc("/inspections/{id}", inspectionHandler.Delete).Methods("DELETE")

	// Inspection form files
	r.HandleFunc("/inspection-files/", fileHandler.Upload).Methods("POST")
	r.HandleFunc("/inspection-files/{inspection_id}", fileHandler.Download).Methods("GET")

	// Photos
	r.HandleFunc("/photos/upload/", photoHandler.Upload).Methods("POST")
	r.HandleFunc("/photos/bulk-upload/", photoHandler.BulkUpload).Methods("POST")
	r.HandleFunc("/photos/", photoHandler.List).Methods("GET")
	r.HandleFunc("/photos/{id}/download", photoHandler.Download).Methods("GET")
	r.HandleFunc("/photos/{id}", photoHandler.Get).Methods("GET")
	r.HandleFunc("/photos/{id}", photoHandler.Update).Methods("PUT")
	r.HandleFunc("/photos/{id}", photoHandler.Delete).Methods("DELETE")

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
