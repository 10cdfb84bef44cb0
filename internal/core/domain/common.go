package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// Operator IDs reference users.id; 0 means the system itself (e.g. the
// floating-rate feed).
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     int64     `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy int64     `json:"lastUpdatedBy"`
}
