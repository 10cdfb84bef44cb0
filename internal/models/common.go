package models

import "time"

// AuditFields are the common ownership columns shared by every table.
// Operator id 0 marks writes made by the system (migrations, rate feed).
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	CreatedBy     int64     `json:"createdBy" db:"created_by"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt" db:"last_updated_at"`
	LastUpdatedBy int64     `json:"lastUpdatedBy" db:"last_updated_by"`
}
