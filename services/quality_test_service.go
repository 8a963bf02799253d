package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"p9e.in/cqms/models"
)

// QualityTestService owns the quality-assurance test records.
type QualityTestService struct {
	db *gorm.DB
}

func NewQualityTestService(db *gorm.DB) *QualityTestService {
	return &QualityTestService{db: db}
}

// QualityTestInput is the payload accepted when recording a test.
type QualityTestInput struct {
	ProjectID      uint   `json:"project_id"`
	ContractItemID uint   `json:"contract_item_id"`
	Name           string `json:"name"`
	TestItem       string `json:"test_item"`
	TestSets       int    `json:"test_sets"`
	TestResult     string `json:"test_result"`
}

// QualityTestPatch updates only the fields that are explicitly supplied.
type QualityTestPatch struct {
	Name       *string `json:"name"`
	TestItem   *string `json:"test_item"`
	TestSets   *int    `json:"test_sets"`
	TestResult *string `json:"test_result"`
}

func (in QualityTestInput) validate() error {
	fields := map[string]string{}
	if in.ProjectID == 0 {
		fields["project_id"] = "project_id is required"
	}
	if in.ContractItemID == 0 {
		fields["contract_item_id"] = "contract_item_id is required"
	}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	if strings.TrimSpace(in.TestItem) == "" {
		fields["test_item"] = "test_item is required"
	}
	if in.TestSets < 0 {
		fields["test_sets"] = "test_sets must not be negative"
	}
	if len(fields) > 0 {
		return Invalid(fields)
	}
	return nil
}

// Create verifies both parents exist before inserting, in one
// transaction.
func (s *QualityTestService) Create(ctx context.Context, in QualityTestInput) (*models.QualityTest, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var test models.QualityTest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Project{}).Where("id = ?", in.ProjectID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return NotFoundf("project with id %d not found", in.ProjectID)
		}

		if err := tx.Model(&models.ContractItem{}).Where("id = ?", in.ContractItemID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return NotFoundf("contract item with id %d not found", in.ContractItemID)
		}

		test = models.QualityTest{
			ProjectID:      in.ProjectID,
			ContractItemID: in.ContractItemID,
			Name:           in.Name,
			TestItem:       in.TestItem,
			TestSets:       in.TestSets,
			TestResult:     in.TestResult,
		}
		return tx.Create(&test).Error
	})
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (s *QualityTestService) List(ctx context.Context, skip, limit int) ([]models.QualityTest, error) {
	if limit <= 0 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	var tests []models.QualityTest
	err := s.db.WithContext(ctx).Order("id").Offset(skip).Limit(limit).Find(&tests).Error
	return tests, err
}

func (s *QualityTestService) ListByProject(ctx context.Context, projectID uint) ([]models.QualityTest, error) {
	var tests []models.QualityTest
	err := s.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id").Find(&tests).Error
	return tests, err
}

func (s *QualityTestService) ListByContractItem(ctx context.Context, itemID uint) ([]models.QualityTest, error) {
	var tests []models.QualityTest
	err := s.db.WithContext(ctx).Where("contract_item_id = ?", itemID).Order("id").Find(&tests).Error
	return tests, err
}

func (s *QualityTestService) Get(ctx context.Context, id uint) (*models.QualityTest, error) {
	var test models.QualityTest
	if err := s.db.WithContext(ctx).First(&test, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("quality test with id %d not found", id)
		}
		return nil, err
	}
	return &test, nil
}

func (s *QualityTestService) Update(ctx context.Context, id uint, patch QualityTestPatch) (*models.QualityTest, error) {
	if patch.TestSets != nil && *patch.TestSets < 0 {
		return nil, Invalid(map[string]string{"test_sets": "test_sets must not be negative"})
	}

	var test models.QualityTest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&test, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("quality test with id %d not found", id)
			}
			return err
		}

		if patch.Name != nil {
			test.Name = *patch.Name
		}
		if patch.TestItem != nil {
			test.TestItem = *patch.TestItem
		}
		if patch.TestSets != nil {
			test.TestSets = *patch.TestSets
		}
		if patch.TestResult != nil {
			test.TestResult = *patch.TestResult
		}

		now := time.Now().UTC()
		test.UpdatedAt = &now
		return tx.Save(&test).Error
	})
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (s *QualityTestService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var test models.QualityTest
		if err := tx.First(&test, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("quality test with id %d not found", id)
			}
			return err
		}
		return tx.Delete(&test).Error
	})
}
