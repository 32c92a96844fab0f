package model

import "time"

// SyncStatus is a singleton row (ID is always 1) recording the last
// successful run of each sync job. InProgress mirrors the scheduler's
// in-memory coalescing flags for the status endpoint; the flags themselves
// are the concurrency authority.
type SyncStatus struct {
	ID                int `gorm:"primaryKey"`
	LastProductSyncAt time.Time
	LastSaleSyncAt    time.Time
	LastDraftSyncAt   time.Time
	InProgress        bool `gorm:"not null;default:false"`
}
