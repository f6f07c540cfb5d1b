package model

import "time"

// Security event types journaled for operator review.
const (
	SecurityEventIPMismatch = "ip_mismatch"
)

// SecurityEvent records an authentication anomaly, currently only logins
// rejected because the caller's IP differed from the account allow-list.
type SecurityEvent struct {
	EventType   string    `bson:"event_type" json:"event_type"`
	ContactID   string    `bson:"contact_id" json:"contact_id"`
	Email       string    `bson:"email" json:"email"`
	RecordedIP  string    `bson:"recorded_ip" json:"recorded_ip"`
	PresentedIP string    `bson:"presented_ip" json:"presented_ip"`
	Country     string    `bson:"country" json:"country"`
	City        string    `bson:"city" json:"city"`
	Federated   bool      `bson:"federated" json:"federated"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
