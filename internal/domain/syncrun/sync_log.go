package syncrun

import (
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a sync log event
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// SyncLog is one append-only event of a sync run, optionally tied to a search query.
type SyncLog struct {
	ID        uuid.UUID
	SyncRunID uuid.UUID
	QueryID   *uuid.UUID
	Level     Level
	Message   string
	Data      map[string]any
	CreatedAt time.Time
}

// NewSyncLog creates a log event
func NewSyncLog(runID uuid.UUID, queryID *uuid.UUID, level Level, message string, data map[string]any) *SyncLog {
	return &SyncLog{
		ID:        uuid.New(),
		SyncRunID: runID,
		QueryID:   queryID,
		Level:     level,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}
}
