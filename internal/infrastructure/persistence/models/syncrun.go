package models

import (
	"time"

	"github.com/Yitzhakza/electic/internal/domain/syncrun"
	"github.com/google/uuid"
)

// SyncRunModel is the persistence model for the SyncRun domain entity.
type SyncRunModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	StartedAt       time.Time `gorm:"not null;index"`
	CompletedAt     *time.Time
	Status          string   `gorm:"type:varchar(20);not null;index"`
	TotalQueries    int      `gorm:"not null"`
	TotalProducts   int      `gorm:"not null"`
	NewProducts     int      `gorm:"not null"`
	UpdatedProducts int      `gorm:"not null"`
	Errors          []string `gorm:"type:jsonb;serializer:json;not null"`
	TriggeredBy     string   `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (SyncRunModel) TableName() string {
	return "sync_runs"
}

// ToDomain converts the persistence model to a domain SyncRun entity.
func (m *SyncRunModel) ToDomain() *syncrun.SyncRun {
	return &syncrun.SyncRun{
		ID:              m.ID,
		StartedAt:       m.StartedAt,
		CompletedAt:     m.CompletedAt,
		Status:          syncrun.Status(m.Status),
		TotalQueries:    m.TotalQueries,
		TotalProducts:   m.TotalProducts,
		NewProducts:     m.NewProducts,
		UpdatedProducts: m.UpdatedProducts,
		Errors:          nonNilStrings(m.Errors),
		TriggeredBy:     syncrun.Trigger(m.TriggeredBy),
	}
}

// SyncRunModelFromDomain creates a new persistence model from a domain SyncRun entity.
func SyncRunModelFromDomain(r *syncrun.SyncRun) *SyncRunModel {
	return &SyncRunModel{
		ID:              r.ID,
		StartedAt:       r.StartedAt,
		CompletedAt:     r.CompletedAt,
		Status:          string(r.Status),
		TotalQueries:    r.TotalQueries,
		TotalProducts:   r.TotalProducts,
		NewProducts:     r.NewProducts,
		UpdatedProducts: r.UpdatedProducts,
		Errors:          nonNilStrings(r.Errors),
		TriggeredBy:     string(r.TriggeredBy),
	}
}

// SyncLogModel is the persistence model for the SyncLog domain entity.
type SyncLogModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SyncRunID uuid.UUID      `gorm:"type:uuid;not null;index"`
	QueryID   *uuid.UUID     `gorm:"type:uuid"`
	Level     string         `gorm:"type:varchar(10);not null"`
	Message   string         `gorm:"type:text;not null"`
	Data      map[string]any `gorm:"type:jsonb;serializer:json"`
	CreatedAt time.Time      `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SyncLogModel) TableName() string {
	return "sync_logs"
}

// ToDomain converts the persistence model to a domain SyncLog entity.
func (m *SyncLogModel) ToDomain() *syncrun.SyncLog {
	return &syncrun.SyncLog{
		ID:        m.ID,
		SyncRunID: m.SyncRunID,
		QueryID:   m.QueryID,
		Level:     syncrun.Level(m.Level),
		Message:   m.Message,
		Data:      m.Data,
		CreatedAt: m.CreatedAt,
	}
}

// SyncLogModelFromDomain creates a new persistence model from a domain SyncLog entity.
func SyncLogModelFromDomain(l *syncrun.SyncLog) *SyncLogModel {
	return &SyncLogModel{
		ID:        l.ID,
		SyncRunID: l.SyncRunID,
		QueryID:   l.QueryID,
		Level:     string(l.Level),
		Message:   l.Message,
		Data:      l.Data,
		CreatedAt: l.CreatedAt,
	}
}

// AllModels lists every persisted model in dependency order, used by
// AutoMigrate in tests and development.
func AllModels() []any {
	return []any{
		&BrandModel{},
		&AccessoryCategoryModel{},
		&SearchQueryModel{},
		&ProductModel{},
		&ProductOverrideModel{},
		&PlatformCouponModel{},
		&SyncRunModel{},
		&SyncLogModel{},
	}
}
