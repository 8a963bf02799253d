package services

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"time"

	"gorm.io/gorm"
	"p9e.in/cqms/filestore"
	"p9e.in/cqms/models"
)

// PhotoService owns the photo records. Uploading goes through
// FileService; this service covers listing, metadata edits and removal.
type PhotoService struct {
	db    *gorm.DB
	store filestore.Store
}

func NewPhotoService(db *gorm.DB, store filestore.Store) *PhotoService {
	return &PhotoService{db: db, store: store}
}

// PhotoFilter narrows a listing. Zero-valued fields are ignored.
type PhotoFilter struct {
	ProjectID     uint
	InspectionID  uint
	QualityTestID uint
}

func (s *PhotoService) List(ctx context.Context, filter PhotoFilter) ([]models.Photo, error) {
	q := s.db.WithContext(ctx).Order("id")
	if filter.ProjectID != 0 {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	if filter.InspectionID != 0 {
		q = q.Where("inspection_id = ?", filter.InspectionID)
	}
	if filter.QualityTestID != 0 {
		q = q.Where("quality_test_id = ?", filter.QualityTestID)
	}

	var photos []models.Photo
	err := q.Find(&photos).Error
	return photos, err
}

func (s *PhotoService) Get(ctx context.Context, id uint) (*models.Photo, error) {
	var photo models.Photo
	if err := s.db.WithContext(ctx).First(&photo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("photo with id %d not found", id)
		}
		return nil, err
	}
	return &photo, nil
}

// PhotoPatch updates only the fields that are explicitly supplied.
type PhotoPatch struct {
	Description *string `json:"description"`
}

func (s *PhotoService) Update(ctx context.Context, id uint, patch PhotoPatch) (*models.Photo, error) {
	var photo models.Photo
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&photo, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("photo with id %d not found", id)
			}
			return err
		}

		if patch.Description != nil {
			photo.Description = *patch.Description
		}

		now := time.Now().UTC()
		photo.UpdatedAt = &now
		return tx.Save(&photo).Error
	})
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// Download streams the stored image bytes of a photo.
func (s *PhotoService) Download(ctx context.Context, id uint) (string, io.ReadCloser, error) {
	photo, err := s.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}

	rc, err := s.store.Open(ctx, photo.FilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, NotFoundf("stored file for photo %d does not exist", id)
		}
		return "", nil, Storagef("could not open stored file: %v", err)
	}
	return photo.Filename, rc, nil
}

// Delete removes the photo row and, best-effort, its stored file.
func (s *PhotoService) Delete(ctx context.Context, id uint) error {
	var filePath string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var photo models.Photo
		if err := tx.First(&photo, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("photo with id %d not found", id)
			}
			return err
		}
		filePath = photo.FilePath
		return tx.Delete(&photo).Error
	})
	if err != nil {
		return err
	}

	if filePath != "" && s.store != nil {
		if err := s.store.Remove(ctx, filePath); err != nil {
			log.Printf("could not remove file %q for deleted photo %d: %v", filePath, id, err)
		}
	}
	return nil
}
