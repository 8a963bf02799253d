package models

import (
	"time"
)

// Project represents an engineering contract under quality management.
// It is the root of ownership: contract items, quality tests, inspections
// and photos all hang off a project and are removed with it.
type Project struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string `gorm:"size:255;not null;index" json:"name"`
	ContractNumber string `gorm:"size:100;not null;uniqueIndex" json:"contract_number"`
	Contractor     string `gorm:"size:255;not null" json:"contractor"`
	Location       string `gorm:"size:255;not null" json:"location"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`

	// Relationships
	ContractItems []ContractItem `gorm:"foreignKey:ProjectID" json:"contract_items,omitempty"`
	Tests         []QualityTest  `gorm:"foreignKey:ProjectID" json:"tests,omitempty"`
	Inspections   []Inspection   `gorm:"foreignKey:ProjectID" json:"inspections,omitempty"`
	Photos        []Photo        `gorm:"foreignKey:ProjectID" json:"photos,omitempty"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}
