package models

import (
	"time"
)

// Inspection is a site inspection record, optionally carrying the path
// of an uploaded inspection form and a pass/fail outcome.
type Inspection struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID uint `gorm:"not null;index" json:"project_id"`

	Name           string   `gorm:"size:255;not null" json:"name"`
	InspectionTime JSONTime `gorm:"not null" json:"inspection_time"`
	Location       string   `gorm:"size:255;not null" json:"location"`
	FilePath       string   `gorm:"size:500" json:"file_path"`
	Passed         bool     `gorm:"default:false" json:"passed"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`

	// Relationships
	Photos []Photo `gorm:"foreignKey:InspectionID" json:"photos,omitempty"`
}

// TableName specifies the table name for Inspection
func (Inspection) TableName() string {
	return "inspections"
}
