package syncrun

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a sync run
type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// IsTerminal reports whether no further transition is allowed
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// Trigger identifies who started a run
type Trigger string

const (
	TriggerCron   Trigger = "cron"
	TriggerManual Trigger = "manual"
)

// IsValid returns true if the trigger is known
func (t Trigger) IsValid() bool {
	switch t {
	case TriggerCron, TriggerManual:
		return true
	default:
		return false
	}
}

// SyncRun is the audit record of one sync invocation.
//
// A run starts in StatusRunning and moves exactly once to StatusSuccess or
// StatusFailed. CompletedAt is set if and only if the status is terminal.
type SyncRun struct {
	ID              uuid.UUID
	StartedAt       time.Time
	CompletedAt     *time.Time
	Status          Status
	TotalQueries    int
	TotalProducts   int
	NewProducts     int
	UpdatedProducts int
	Errors          []string
	TriggeredBy     Trigger
}

// NewSyncRun creates a running sync run
func NewSyncRun(trigger Trigger, now time.Time) (*SyncRun, error) {
	if !trigger.IsValid() {
		return nil, ErrInvalidTrigger
	}
	return &SyncRun{
		ID:          uuid.New(),
		StartedAt:   now,
		Status:      StatusRunning,
		Errors:      []string{},
		TriggeredBy: trigger,
	}, nil
}

// SetQueryCount records how many queries the run considers
func (r *SyncRun) SetQueryCount(n int) {
	r.TotalQueries = n
}

// RecordObserved counts one normalized search hit
func (r *SyncRun) RecordObserved() {
	r.TotalProducts++
}

// RecordNew counts one inserted product
func (r *SyncRun) RecordNew() {
	r.NewProducts++
}

// RecordUpdated counts one updated product
func (r *SyncRun) RecordUpdated() {
	r.UpdatedProducts++
}

// AddError appends a message to the run's error list
func (r *SyncRun) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Complete finalizes the run as successful
func (r *SyncRun) Complete(now time.Time) error {
	if r.Status.IsTerminal() {
		return ErrSyncRunTerminal
	}
	r.Status = StatusSuccess
	r.CompletedAt = &now
	return nil
}

// Fail finalizes the run as failed and records the fatal error
func (r *SyncRun) Fail(now time.Time, cause error) error {
	if r.Status.IsTerminal() {
		return ErrSyncRunTerminal
	}
	r.Status = StatusFailed
	r.CompletedAt = &now
	if cause != nil {
		r.AddError(cause.Error())
	}
	return nil
}

// IsStale reports whether a running run has exceeded maxAge
func (r *SyncRun) IsStale(now time.Time, maxAge time.Duration) bool {
	return r.Status == StatusRunning && now.Sub(r.StartedAt) > maxAge
}

// MarkAbandoned fails a stale run
func (r *SyncRun) MarkAbandoned(now time.Time, maxAge time.Duration) error {
	return r.Fail(now, fmt.Errorf("run exceeded %s without completing", maxAge))
}

// Summary is the final count line of a run
func (r *SyncRun) Summary() string {
	return fmt.Sprintf("Sync completed: %d new, %d updated, %d errors", r.NewProducts, r.UpdatedProducts, len(r.Errors))
}
