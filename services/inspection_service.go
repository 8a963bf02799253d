package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"p9e.in/cqms/filestore"
	"p9e.in/cqms/models"
)

// InspectionService owns the site inspection records. It holds the
// filestore so deleting an inspection can take its uploaded form along.
type InspectionService struct {
	db    *gorm.DB
	store filestore.Store
}

func NewInspectionService(db *gorm.DB, store filestore.Store) *InspectionService {
	return &InspectionService{db: db, store: store}
}

// InspectionInput is the payload accepted when recording an inspection.
type InspectionInput struct {
	ProjectID      uint            `json:"project_id"`
	Name           string          `json:"name"`
	InspectionTime models.JSONTime `json:"inspection_time"`
	Location       string          `json:"location"`
	Passed         bool            `json:"passed"`
}

// InspectionPatch updates only the fields that are explicitly supplied.
type InspectionPatch struct {
	Name           *string          `json:"name"`
	InspectionTime *models.JSONTime `json:"inspection_time"`
	Location       *string          `json:"location"`
	Passed         *bool            `json:"passed"`
}

func (in InspectionInput) validate() error {
	fields := map[string]string{}
	if in.ProjectID == 0 {
		fields["project_id"] = "project_id is required"
	}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	if time.Time(in.InspectionTime).IsZero() {
		fields["inspection_time"] = "inspection_time is required"
	}
	if strings.TrimSpace(in.Location) == "" {
		fields["location"] = "location is required"
	}
	if len(fields) > 0 {
		return Invalid(fields)
	}
	return nil
}

func (s *InspectionService) Create(ctx context.Context, in InspectionInput) (*models.Inspection, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var inspection models.Inspection
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Project{}).Where("id = ?", in.ProjectID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return NotFoundf("project with id %d not found", in.ProjectID)
		}

		inspection = models.Inspection{
			ProjectID:      in.ProjectID,
			Name:           in.Name,
			InspectionTime: in.InspectionTime,
			Location:       in.Location,
			Passed:         in.Passed,
		}
		return tx.Create(&inspection).Error
	})
	if err != nil {
		return nil, err
	}
	return &inspection, nil
}

func (s *InspectionService) ListByProject(ctx context.Context, projectID uint) ([]models.Inspection, error) {
	var inspections []models.Inspection
	err := s.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id").Find(&inspections).Error
	return inspections, err
}

func (s *InspectionService) Get(ctx context.Context, id uint) (*models.Inspection, error) {
	var inspection models.Inspection
	if err := s.db.WithContext(ctx).First(&inspection, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("inspection with id %d not found", id)
		}
		return nil, err
	}
	return &inspection, nil
}

func (s *InspectionService) Update(ctx context.Context, id uint, patch InspectionPatch) (*models.Inspection, error) {
	var inspection models.Inspection
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inspection, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("inspection with id %d not found", id)
			}
			return err
		}

		if patch.Name != nil {
			inspection.Name = *patch.Name
		}
		if patch.InspectionTime != nil {
			inspection.InspectionTime = *patch.InspectionTime
		}
		if patch.Location != nil {
			inspection.Location = *patch.Location
		}
		if patch.Passed != nil {
			inspection.Passed = *patch.Passed
		}

		now := time.Now().UTC()
		inspection.UpdatedAt = &now
		return tx.Save(&inspection).Error
	})
	if err != nil {
		return nil, err
	}
	return &inspection, nil
}

// Delete removes the inspection row and, best-effort, its stored form
// file. A missing file is not an error.
func (s *InspectionService) Delete(ctx context.Context, id uint) error {
	var filePath string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inspection models.Inspection
		if err := tx.First(&inspection, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("inspection with id %d not found", id)
			}
			return err
		}
		filePath = inspection.FilePath
		return tx.Delete(&inspection).Error
	})
	if err != nil {
		return err
	}

	if filePath != "" && s.store != nil {
		if err := s.store.Remove(ctx, filePath); err != nil {
			log.Printf("could not remove file %q for deleted inspection %d: %v", filePath, id, err)
		}
	}
	return nil
}
