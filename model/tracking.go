package model

import "time"

// Action vocabulary accepted by the remote portal-activity servlet. The
// servlet silently drops records whose action is outside this set; we do
// not validate client-side, the constants exist so our own call sites
// spell them consistently.
const (
	ActionLogin               = "Login"
	ActionFederatedLogin      = "Federated Login"
	ActionVideoClicked        = "Video Clicked"
	ActionDocumentClicked     = "Document Clicked"
	ActionAudioClicked        = "Audio Clicked"
	ActionIPMismatch          = "Login IP Mismatch"
	ActionFederatedIPMismatch = "Federated Login IP Mismatch"
)

// TrackingEvent is one portal-activity submission. Events are ephemeral:
// built, queued, delivered (or dropped), never read back.
type TrackingEvent struct {
	EventID    string    `json:"event_id" bson:"event_id"`
	ContactID  string    `json:"contact_id" bson:"contact_id"`
	TargetURL  string    `json:"target_url" bson:"target_url"`
	ActionType string    `json:"action_type" bson:"action_type"`
	Title      string    `json:"title,omitempty" bson:"title,omitempty"`
	IPAddress  string    `json:"ip_address" bson:"ip_address"`
	Country    string    `json:"country" bson:"country"`
	City       string    `json:"city" bson:"city"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// DeadLetterEvent is a tracking event that exhausted its delivery budget,
// journaled for operator review.
type DeadLetterEvent struct {
	Event     TrackingEvent `bson:"event"`
	Reason    string        `bson:"reason"`
	Attempts  int           `bson:"attempts"`
	DroppedAt time.Time     `bson:"dropped_at"`
}
