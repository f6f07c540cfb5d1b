package model

import "time"

type Session struct {
	SessionID      string       `json:"session_id"`
	ContactID      string       `json:"contact_id"`
	User           *SessionUser `json:"user"`
	CreatedAt      time.Time    `json:"created_at"`
	LastActivityAt time.Time    `json:"last_activity_at"`
	DisplayName    string       `json:"display_name"`
	DeviceInfo     string       `json:"device_info"`
	IPAddress      string       `json:"ip_address"`
	Federated      bool         `json:"federated"`
}
