package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/cqms/filestore"
	"p9e.in/cqms/models"
)

// documentExtensions is the allow-list for inspection form uploads.
var documentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
}

// FileService stores uploaded binary content and links its location to
// the owning inspection or photo record. File writes and row updates
// are deliberately not atomic; files are written first and leaked
// rather than losing rows.
type FileService struct {
	db    *gorm.DB
	store filestore.Store
}

func NewFileService(db *gorm.DB, store filestore.Store) *FileService {
	return &FileService{db: db, store: store}
}

// InspectionFileResult is returned by UploadInspectionFile.
type InspectionFileResult struct {
	Filename string `json:"filename"`
	FilePath string `json:"file_path"`
}

// UploadInspectionFile validates the extension against the document
// allow-list, stores the file under the project's directory and, when
// an inspection id was supplied and resolves to a record, stamps the
// stored path onto it. A miss on the association lookup is logged and
// skipped; the file stays stored.
func (s *FileService) UploadInspectionFile(ctx context.Context, projectID, inspectionID uint, filename string, r io.Reader) (*InspectionFileResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !documentExtensions[ext] {
		return nil, UnsupportedMediaf("file type %q is not allowed, allowed types: .pdf, .doc, .docx, .xls, .xlsx", ext)
	}
	if projectID == 0 {
		return nil, Invalid(map[string]string{"project_id": "project_id is required"})
	}

	timestamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("project_%d/inspection_%d_%s%s", projectID, inspectionID, timestamp, ext)

	storedPath, err := s.store.Save(ctx, name, r)
	if err != nil {
		return nil, Storagef("could not store file: %v", err)
	}

	if inspectionID != 0 {
		var inspection models.Inspection
		if err := s.db.WithContext(ctx).First(&inspection, "id = ?", inspectionID).Error; err == nil {
			now := time.Now().UTC()
			inspection.FilePath = storedPath
			inspection.UpdatedAt = &now
			if err := s.db.WithContext(ctx).Save(&inspection).Error; err != nil {
				return nil, err
			}
		} else {
			log.Printf("inspection %d not found, stored file %q without association", inspectionID, storedPath)
		}
	}

	return &InspectionFileResult{Filename: path.Base(name), FilePath: storedPath}, nil
}

// DownloadInspectionFile streams the stored form of an inspection.
// A missing record, an empty path and a missing file all read as
// NotFound to the caller.
func (s *FileService) DownloadInspectionFile(ctx context.Context, inspectionID uint) (string, io.ReadCloser, error) {
	var inspection models.Inspection
	if err := s.db.WithContext(ctx).First(&inspection, "id = ?", inspectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, NotFoundf("inspection with id %d not found", inspectionID)
		}
		return "", nil, err
	}
	if inspection.FilePath == "" {
		return "", nil, NotFoundf("inspection %d has no stored file", inspectionID)
	}

	rc, err := s.store.Open(ctx, inspection.FilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, NotFoundf("stored file for inspection %d does not exist", inspectionID)
		}
		return "", nil, Storagef("could not open stored file: %v", err)
	}
	return path.Base(inspection.FilePath), rc, nil
}

// PhotoUploadInput describes one uploaded photo.
type PhotoUploadInput struct {
	ProjectID     uint
	InspectionID  *uint
	QualityTestID *uint
	Filename      string
	ContentType   string
	Description   string
}

// PhotoUploadResult is one entry of a bulk upload response. Failed
// items carry the reason instead of being silently dropped.
type PhotoUploadResult struct {
	Filename string        `json:"filename"`
	OK       bool          `json:"ok"`
	Error    string        `json:"error,omitempty"`
	Photo    *models.Photo `json:"photo,omitempty"`
}

func (in PhotoUploadInput) validate() error {
	if !strings.HasPrefix(in.ContentType, "image/") {
		return UnsupportedMediaf("content type %q is not an image", in.ContentType)
	}
	if in.ProjectID == 0 {
		return Invalid(map[string]string{"project_id": "project_id is required"})
	}
	return nil
}

// UploadPhoto stores the image bytes and inserts the photo record. The
// owning project and any supplied inspection/test references must
// exist. If the record insert fails after the file was written, the
// file is removed best-effort.
func (s *FileService) UploadPhoto(ctx context.Context, in PhotoUploadInput, r io.Reader) (*models.Photo, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	filename := filepath.Base(in.Filename)
	if filename == "." || filename == "/" || filename == "" {
		filename = uuid.New().String()[:8]
	}
	timestamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("photos/%s_%s", timestamp, filename)

	storedPath, err := s.store.Save(ctx, name, r)
	if err != nil {
		return nil, Storagef("could not store photo: %v", err)
	}

	var photo models.Photo
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Project{}).Where("id = ?", in.ProjectID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return NotFoundf("project with id %d not found", in.ProjectID)
		}
		if in.InspectionID != nil {
			if err := tx.Model(&models.Inspection{}).Where("id = ?", *in.InspectionID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return NotFoundf("inspection with id %d not found", *in.InspectionID)
			}
		}
		if in.QualityTestID != nil {
			if err := tx.Model(&models.QualityTest{}).Where("id = ?", *in.QualityTestID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return NotFoundf("quality test with id %d not found", *in.QualityTestID)
			}
		}

		photo = models.Photo{
			ProjectID:     in.ProjectID,
			InspectionID:  in.InspectionID,
			QualityTestID: in.QualityTestID,
			Filename:      filename,
			FilePath:      storedPath,
			Description:   in.Description,
		}
		return tx.Create(&photo).Error
	})
	if err != nil {
		if removeErr := s.store.Remove(ctx, storedPath); removeErr != nil {
			log.Printf("could not remove orphaned photo file %q: %v", storedPath, removeErr)
		}
		return nil, err
	}
	return &photo, nil
}

// BulkItem pairs one photo's metadata with its content.
type BulkItem struct {
	Input  PhotoUploadInput
	Reader io.Reader
}

// UploadPhotos processes every item independently and reports a result
// per item; one bad file does not abort the rest.
func (s *FileService) UploadPhotos(ctx context.Context, items []BulkItem) []PhotoUploadResult {
	results := make([]PhotoUploadResult, 0, len(items))
	for _, item := range items {
		photo, err := s.UploadPhoto(ctx, item.Input, item.Reader)
		if err != nil {
			results = append(results, PhotoUploadResult{
				Filename: item.Input.Filename,
				OK:       false,
				Error:    err.Error(),
			})
			continue
		}
		results = append(results, PhotoUploadResult{
			Filename: item.Input.Filename,
			OK:       true,
			Photo:    photo,
		})
	}
	return results
}
