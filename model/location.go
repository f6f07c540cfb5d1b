package model

import "time"

// UnknownLocation is the terminal fallback when every geo lookup fails.
const UnknownLocation = "Unknown"

// IPLocation is a cached coarse geo-location for one IP address.
type IPLocation struct {
	IP        string    `json:"ip"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Stale reports whether the entry is older than the given window and must
// be refetched rather than served from cache.
func (l *IPLocation) Stale(window time.Duration) bool {
	return time.Since(l.FetchedAt) > window
}
