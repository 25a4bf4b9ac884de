// Package syncrun defines the audit trail of the catalog sync: one SyncRun per
// invocation and an append-only stream of SyncLog events.
package syncrun
