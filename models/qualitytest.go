package models

import (
	"time"
)

// QualityTest is a quality-assurance test record tied to one contract
// item of one project. The table keeps the short name "tests" that the
// admin frontend queries.
type QualityTest struct {
	ID             uint `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID      uint `gorm:"not null;index" json:"project_id"`
	ContractItemID uint `gorm:"not null;index" json:"contract_item_id"`

	Name       string `gorm:"size:255;not null" json:"name"`
	TestItem   string `gorm:"size:255;not null" json:"test_item"`
	TestSets   int    `json:"test_sets"`
	TestResult string `gorm:"type:text" json:"test_result"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`

	// Relationships
	Photos []Photo `gorm:"foreignKey:QualityTestID" json:"photos,omitempty"`
}

// TableName specifies the table name for QualityTest
func (QualityTest) TableName() string {
	return "tests"
}
