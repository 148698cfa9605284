package domain

import "time"

// AuditFields holds standard timestamps for domain entities. Caller identity
// (the plugin name) is deliberately absent: it is log attribution only and
// must never travel with business data.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
