// Package models defines data structures and domain types.
package models

import "time"

// SyncStatusUnchanged marks a sync run that found nothing to change.
// Success and error reuse the log status values.
const SyncStatusUnchanged = "unchanged"

// ModelSyncLogRecord is one provider model-synchronization run. The sync
// endpoints are the newer handler family and marshal snake_case.
type ModelSyncLogRecord struct {
	ID            int64     `json:"id"`
	ProviderName  string    `json:"provider_name"`
	Status        string    `json:"status"` // success | unchanged | error
	AddedModels   []string  `json:"added_models"`
	RemovedModels []string  `json:"removed_models"`
	AddedCount    int       `json:"added_count"`
	RemovedCount  int       `json:"removed_count"`
	Error         string    `json:"error"`
	SyncedAt      time.Time `json:"synced_at"`
}

// HasChanges reports whether the run touched the model list.
func (r *ModelSyncLogRecord) HasChanges() bool {
	return r.AddedCount > 0 || r.RemovedCount > 0
}

// SyncPagination is the pagination block of the sync-log listing endpoint.
type SyncPagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// SyncLogPage is the paginated response envelope of the sync-log listing
// endpoint.
type SyncLogPage struct {
	Data       []ModelSyncLogRecord `json:"data"`
	Pagination SyncPagination       `json:"pagination"`
}

// SyncStats are the sync scheduler's aggregate counters. Schedule times
// are supplied by the scheduler and displayed verbatim, never recomputed.
type SyncStats struct {
	TotalProviders       int        `json:"total_providers"`
	ProvidersWithUpdates int        `json:"providers_with_updates"`
	ProvidersUnchanged   int        `json:"providers_unchanged"`
	ProvidersWithErrors  int        `json:"providers_with_errors"`
	LastSyncAt           *time.Time `json:"last_sync_at"`
	NextSyncAt           *time.Time `json:"next_sync_at"`
	SyncEnabled          bool       `json:"sync_enabled"`
	SyncInterval         int        `json:"sync_interval"` // minutes
}
