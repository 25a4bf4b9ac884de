package models

import (
	"github.com/google/uuid"
)

// ReferenceModel holds the columns shared by the brand and category
// reference tables.
type ReferenceModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slug         string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	NameHe       string    `gorm:"type:varchar(200);not null"`
	NameEn       string    `gorm:"type:varchar(200);not null"`
	DisplayOrder int       `gorm:"not null"`
	Enabled      bool      `gorm:"not null"`
}
