package models

// SyncProgress is a point-in-time view of a flush pass. It is never persisted.
type SyncProgress struct {
	Total     int  `json:"total"`
	Completed int  `json:"completed"`
	Failed    int  `json:"failed"`
	IsSyncing bool `json:"is_syncing"`
}
