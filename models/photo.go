package models

import (
	"time"
)

// Photo is an image attached to a project and optionally to one
// inspection and/or one quality test. Both optional references are
// independently nullable.
type Photo struct {
	ID            uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID     uint  `gorm:"not null;index" json:"project_id"`
	InspectionID  *uint `gorm:"index" json:"inspection_id"`
	QualityTestID *uint `gorm:"index" json:"quality_test_id"`

	Filename    string `gorm:"size:255;not null" json:"filename"`
	FilePath    string `gorm:"size:500;not null" json:"file_path"`
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// TableName specifies the table name for Photo
func (Photo) TableName() string {
	return "photos"
}
