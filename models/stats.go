package models

import "time"

// DateCount is one bucket of a per-day aggregation. Date is formatted
// YYYY-MM-DD; days with no rows simply have no bucket.
type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// LabelCount is one bucket of a group-by aggregation (IP, username, path).
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// OverviewStats holds the dashboard headline numbers. First/LastAttempt are
// nil when no attempts have been captured yet.
type OverviewStats struct {
	TotalRequests int64      `json:"totalRequests"`
	TotalAttempts int64      `json:"totalAttempts"`
	UniqueIPs     int64      `json:"uniqueIPs"`
	FirstAttempt  *time.Time `json:"firstAttempt"`
	LastAttempt   *time.Time `json:"lastAttempt"`
}
