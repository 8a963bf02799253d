package models

import (
	"time"
)

// ContractItem is a priced line item within a project's contract.
// total_price is stored as supplied; it is not recomputed from
// quantity * unit_price, callers own that consistency.
type ContractItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID uint `gorm:"not null;index" json:"project_id"`

	PccesCode  string  `gorm:"column:pcces_code;size:50;index" json:"pcces_code"`
	Name       string  `gorm:"size:255;not null" json:"name"`
	Unit       string  `gorm:"size:50;not null" json:"unit"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`

	// Relationships
	Tests []QualityTest `gorm:"foreignKey:ContractItemID" json:"tests,omitempty"`
}

// TableName specifies the table name for ContractItem
func (ContractItem) TableName() string {
	return "contract_items"
}
