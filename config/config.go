package config

import (
	"time"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// Config carries every tunable for the portal backend: third-party endpoint
// URLs, tracker queue sizing, cache staleness, and SMTP credentials.
type Config struct {
	// Investor directory
	DirectoryURL string
	OrgID        string
	CampaignID   string

	// CRM servlets (Web-to-Lead style)
	TrackingURL     string
	VerificationURL string
	ResetURL        string

	// IP echo chain, tried in order
	IPEchoServices []string

	// Geo lookup: primary and fallback URL templates with one %s for the IP,
	// plus an optional local GeoLite2 database.
	GeoPrimaryURL  string
	GeoFallbackURL string
	GeoLiteDBPath  string
	GeoCacheTTL    time.Duration

	// Tracker delivery policy
	TrackerQueueSize  int
	TrackerMaxRetries int
	TrackerBackoff    time.Duration

	// Sessions
	SessionIdleTimeout time.Duration

	// SMTP notices on IP mismatch (optional)
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	HTTPTimeout time.Duration
}

// Load reads the configuration from the environment with working defaults
// for everything except the CRM endpoints, which main checks explicitly.
func Load() *Config {
	return &Config{
		DirectoryURL: utils.GetEnvAsString("DIRECTORY_URL", ""),
		OrgID:        utils.GetEnvAsString("CRM_ORG_ID", ""),
		CampaignID:   utils.GetEnvAsString("CRM_CAMPAIGN_ID", ""),

		TrackingURL:     utils.GetEnvAsString("TRACKING_URL", ""),
		VerificationURL: utils.GetEnvAsString("VERIFICATION_URL", ""),
		ResetURL:        utils.GetEnvAsString("RESET_URL", ""),

		IPEchoServices: utils.GetEnvAsSlice("IP_ECHO_SERVICES", []string{
			"https://api.ipify.org?format=json",
			"https://httpbin.org/ip",
			"https://icanhazip.com",
		}),

		GeoPrimaryURL:  utils.GetEnvAsString("GEO_PRIMARY_URL", "https://ipapi.co/%s/json/"),
		GeoFallbackURL: utils.GetEnvAsString("GEO_FALLBACK_URL", "http://ip-api.com/json/%s"),
		GeoLiteDBPath:  utils.GetEnvAsString("GEOLITE_DB_PATH", ""),
		GeoCacheTTL:    utils.GetEnvAsDuration("GEO_CACHE_TTL", 24*time.Hour),

		TrackerQueueSize:  utils.GetEnvAsInt("TRACKER_QUEUE_SIZE", 256),
		TrackerMaxRetries: utils.GetEnvAsInt("TRACKER_MAX_RETRIES", 3),
		TrackerBackoff:    utils.GetEnvAsDuration("TRACKER_BACKOFF", 2*time.Second),

		SessionIdleTimeout: utils.GetEnvAsDuration("SESSION_IDLE_TIMEOUT", 48*time.Hour),

		SMTPHost:     utils.GetEnvAsString("SMTP_HOST", ""),
		SMTPPort:     utils.GetEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     utils.GetEnvAsString("SMTP_USER", ""),
		SMTPPassword: utils.GetEnvAsString("SMTP_PASSWORD", ""),

		HTTPTimeout: utils.GetEnvAsDuration("HTTP_TIMEOUT", 10*time.Second),
	}
}
