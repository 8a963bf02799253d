package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config holds everything the process reads from the environment.
type Config struct {
	DSN       string
	Port      string
	UploadDir string
	UseGCS    bool
	GCSBucket string
}

// Load reads the .env file (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := Config{
		DSN:       os.Getenv("DB_DSN"),
		Port:      os.Getenv("PORT"),
		UploadDir: os.Getenv("UPLOAD_DIR"),
		GCSBucket: os.Getenv("GCS_BUCKET"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	cfg.UseGCS = os.Getenv("USE_GCS") == "true" && cfg.GCSBucket != ""
	return cfg
}

// Connect opens the database handle. The handle is passed down to the
// services explicitly; there is no package-level singleton.
func Connect(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Close releases the underlying connection pool on shutdown.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
