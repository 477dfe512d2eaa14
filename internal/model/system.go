package model

import "time"

// SystemSetting is a single key/value row in the system_setting table.
// Secret values (the market data API key) are stored fernet-encrypted.
type SystemSetting struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SyncResult summarizes one run of the stock catalog sync job.
type SyncResult struct {
	Fetched  int       `json:"fetched"`
	Created  int       `json:"created"`
	Updated  int       `json:"updated"`
	Duration string    `json:"duration"`
	RanAt    time.Time `json:"ranAt"`
}
