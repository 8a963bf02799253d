package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"p9e.in/cqms/config"
	"p9e.in/cqms/filestore"
	"p9e.in/cqms/routes"
)

var (
	Version   = "dev"
	BuildTime = ""
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version info and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Version:   %s\n", Version)
		fmt.Printf("BuildTime: %s\n", BuildTime)
		os.Exit(0)
	}

	cfg := config.Load()

	db, err := config.Connect(cfg)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	defer config.Close(db)

	if err := config.Migrations(db); err != nil {
		log.Fatalf("could not run migrations: %v", err)
	}

	var store filestore.Store
	opts := routes.Options{}
	if cfg.UseGCS {
		store, err = filestore.NewGCS(context.Background(), cfg.GCSBucket)
		if err != nil {
			log.Fatalf("could not connect to GCS bucket %q: %v", cfg.GCSBucket, err)
		}
		log.Println("storing uploads in GCS bucket", cfg.GCSBucket)
	} else {
		store = filestore.NewLocal(cfg.UploadDir)
		opts.UploadDir = cfg.UploadDir
		log.Println("storing uploads under", cfg.UploadDir)
	}

	handler := routes.RegisterRoutes(db, store, opts)
	handlerWithCORS := enableCORS(handler)
	log.Println("Server starting at port", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handlerWithCORS))
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
