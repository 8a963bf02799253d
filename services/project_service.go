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

// ProjectService owns the project entity and the cascade that removes a
// project together with everything recorded under it.
type ProjectService struct {
	db    *gorm.DB
	store filestore.Store
}

// NewProjectService creates a project service on an explicitly provided
// database handle.
func NewProjectService(db *gorm.DB, store filestore.Store) *ProjectService {
	return &ProjectService{db: db, store: store}
}

// ProjectInput is the payload accepted when creating a project.
type ProjectInput struct {
	Name           string `json:"name"`
	ContractNumber string `json:"contract_number"`
	Contractor     string `json:"contractor"`
	Location       string `json:"location"`
}

// ProjectPatch updates only the fields that are explicitly supplied.
type ProjectPatch struct {
	Name           *string `json:"name"`
	ContractNumber *string `json:"contract_number"`
	Contractor     *string `json:"contractor"`
	Location       *string `json:"location"`
}

func (in ProjectInput) validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(in.ContractNumber) == "" {
		fields["contract_number"] = "contract_number is required"
	}
	if strings.TrimSpace(in.Contractor) == "" {
		fields["contractor"] = "contractor is required"
	}
	if strings.TrimSpace(in.Location) == "" {
		fields["location"] = "location is required"
	}
	if len(fields) > 0 {
		return Invalid(fields)
	}
	return nil
}

func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*models.Project, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	project := models.Project{
		Name:           in.Name,
		ContractNumber: in.ContractNumber,
		Contractor:     in.Contractor,
		Location:       in.Location,
	}
	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflictf("project with contract number %q already exists", in.ContractNumber)
		}
		return nil, err
	}

	log.Printf("created project %q (id %d)", project.Name, project.ID)
	return &project, nil
}

// List returns projects in insertion order with an optional skip/limit
// window. A non-positive limit falls back to 100.
func (s *ProjectService) List(ctx context.Context, skip, limit int) ([]models.Project, error) {
	if limit <= 0 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	var projects []models.Project
	err := s.db.WithContext(ctx).
		Order("id").
		Offset(skip).
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

// Get returns the project with its contract items, tests, inspections
// and photos preloaded.
func (s *ProjectService) Get(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).
		Preload("ContractItems").
		Preload("Tests").
		Preload("Inspections").
		Preload("Photos").
		First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("project with id %d not found", id)
		}
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) Update(ctx context.Context, id uint, patch ProjectPatch) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&project, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("project with id %d not found", id)
			}
			return err
		}

		if patch.Name != nil {
			project.Name = *patch.Name
		}
		if patch.ContractNumber != nil {
			project.ContractNumber = *patch.ContractNumber
		}
		if patch.Contractor != nil {
			project.Contractor = *patch.Contractor
		}
		if patch.Location != nil {
			project.Location = *patch.Location
		}

		now := time.Now().UTC()
		project.UpdatedAt = &now
		if err := tx.Save(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return Conflictf("project with contract number %q already exists", project.ContractNumber)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes the project and cascades to its contract items, tests,
// inspections and photos. Files stored for cascaded records are removed
// best-effort after the transaction commits.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	var filePaths []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("project with id %d not found", id)
			}
			return err
		}

		var paths []string
		if err := tx.Model(&models.Inspection{}).
			Where("project_id = ? AND file_path <> ''", id).
			Pluck("file_path", &paths).Error; err != nil {
			return err
		}
		filePaths = append(filePaths, paths...)

		paths = paths[:0]
		if err := tx.Model(&models.Photo{}).
			Where("project_id = ? AND file_path <> ''", id).
			Pluck("file_path", &paths).Error; err != nil {
			return err
		}
		filePaths = append(filePaths, paths...)

		if err := tx.Where("project_id = ?", id).Delete(&models.Photo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.QualityTest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Inspection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ContractItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		return err
	}

	// File removal is intentionally outside the transaction: a file that
	// outlives its rows is an accepted leak, rows that outlive the
	// project are not.
	if s.store != nil {
		for _, p := range filePaths {
			if err := s.store.Remove(ctx, p); err != nil {
				log.Printf("could not remove file %q for deleted project %d: %v", p, id, err)
			}
		}
	}

	log.Printf("deleted project %d and its dependent records", id)
	return nil
}
