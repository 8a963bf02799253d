package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"p9e.in/cqms/models"
)

// ContractItemService owns the contract line items of a project.
type ContractItemService struct {
	db *gorm.DB
}

func NewContractItemService(db *gorm.DB) *ContractItemService {
	return &ContractItemService{db: db}
}

// ContractItemInput is the payload accepted when creating a contract item.
type ContractItemInput struct {
	ProjectID  uint    `json:"project_id"`
	PccesCode  string  `json:"pcces_code"`
	Name       string  `json:"name"`
	Unit       string  `json:"unit"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

// ContractItemPatch updates only the fields that are explicitly
// supplied. Numeric fields are validated when present: quantity must be
// strictly positive, prices non-negative.
type ContractItemPatch struct {
	PccesCode  *string  `json:"pcces_code"`
	Name       *string  `json:"name"`
	Unit       *string  `json:"unit"`
	Quantity   *float64 `json:"quantity"`
	UnitPrice  *float64 `json:"unit_price"`
	TotalPrice *float64 `json:"total_price"`
}

func (in ContractItemInput) validate() error {
	fields := map[string]string{}
	if in.ProjectID == 0 {
		fields["project_id"] = "project_id is required"
	}
	if strings.TrimSpace(in.PccesCode) == "" {
		fields["pcces_code"] = "pcces_code is required"
	}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(in.Unit) == "" {
		fields["unit"] = "unit is required"
	}
	if len(fields) > 0 {
		return Invalid(fields)
	}
	return nil
}

func (p ContractItemPatch) validate() error {
	fields := map[string]string{}
	if p.Quantity != nil && *p.Quantity <= 0 {
		fields["quantity"] = "quantity must be greater than 0"
	}
	if p.UnitPrice != nil && *p.UnitPrice < 0 {
		fields["unit_price"] = "unit_price must not be negative"
	}
	if p.TotalPrice != nil && *p.TotalPrice < 0 {
		fields["total_price"] = "total_price must not be negative"
	}
	if len(fields) > 0 {
		return Invalid(fields)
	}
	return nil
}

// Create verifies the owning project exists and inserts the item, both
// inside one transaction so a concurrent project delete cannot leave an
// orphan behind.
func (s *ContractItemService) Create(ctx context.Context, in ContractItemInput) (*models.ContractItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var item models.ContractItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Project{}).Where("id = ?", in.ProjectID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return NotFoundf("project with id %d not found", in.ProjectID)
		}

		item = models.ContractItem{
			ProjectID:  in.ProjectID,
			PccesCode:  in.PccesCode,
			Name:       in.Name,
			Unit:       in.Unit,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
			TotalPrice: in.TotalPrice,
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *ContractItemService) List(ctx context.Context, skip, limit int) ([]models.ContractItem, error) {
	if limit <= 0 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	var items []models.ContractItem
	err := s.db.WithContext(ctx).Order("id").Offset(skip).Limit(limit).Find(&items).Error
	return items, err
}

// ListByProject returns the items of one project in insertion order.
// The project itself must exist.
func (s *ContractItemService) ListByProject(ctx context.Context, projectID uint) ([]models.ContractItem, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, NotFoundf("project with id %d not found", projectID)
	}

	var items []models.ContractItem
	err := s.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id").Find(&items).Error
	return items, err
}

func (s *ContractItemService) Get(ctx context.Context, id uint) (*models.ContractItem, error) {
	var item models.ContractItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("contract item with id %d not found", id)
		}
		return nil, err
	}
	return &item, nil
}

func (s *ContractItemService) Update(ctx context.Context, id uint, patch ContractItemPatch) (*models.ContractItem, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	var item models.ContractItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("contract item with id %d not found", id)
			}
			return err
		}

		if patch.PccesCode != nil {
			item.PccesCode = *patch.PccesCode
		}
		if patch.Name != nil {
			item.Name = *patch.Name
		}
		if patch.Unit != nil {
			item.Unit = *patch.Unit
		}
		if patch.Quantity != nil {
			item.Quantity = *patch.Quantity
		}
		if patch.UnitPrice != nil {
			item.UnitPrice = *patch.UnitPrice
		}
		if patch.TotalPrice != nil {
			item.TotalPrice = *patch.TotalPrice
		}

		now := time.Now().UTC()
		item.UpdatedAt = &now
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *ContractItemService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.ContractItem
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("contract item with id %d not found", id)
			}
			return err
		}
		return tx.Delete(&item).Error
	})
}
