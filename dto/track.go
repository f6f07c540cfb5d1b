package dto

type TrackRequest struct {
	TargetURL  string `json:"target_url" binding:"required"`
	ActionType string `json:"action_type" binding:"required"`
	Title      string `json:"title"`
}

type SessionSummary struct {
	SessionID      string `json:"session_id"`
	DisplayName    string `json:"display_name"`
	DeviceInfo     string `json:"device_info"`
	IPAddress      string `json:"ip_address"`
	CreatedAt      string `json:"created_at"`
	LastActivityAt string `json:"last_activity_at"`
	Current        bool   `json:"current"`
}
