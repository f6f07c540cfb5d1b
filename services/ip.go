package services

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// PublicIPResolver discovers the caller's public IP by walking a chain of
// echo services. Each service answers a different shape: {"ip":...},
// {"origin":...}, or a bare text body.
type PublicIPResolver struct {
	endpoints  []string
	httpClient *http.Client
}

func NewPublicIPResolver(endpoints []string, timeout time.Duration) *PublicIPResolver {
	return &PublicIPResolver{
		endpoints:  endpoints,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ResolvePublicIP returns the first non-empty, trimmed result from the
// chain. If every service fails it returns "" and never an error: callers
// must treat "unknown IP" as a degraded state, not a blocking one.
func (r *PublicIPResolver) ResolvePublicIP(ctx context.Context) string {
	for _, endpoint := range r.endpoints {
		ip := r.tryEndpoint(ctx, endpoint)
		if ip != "" {
			return ip
		}
	}
	log.Println("Warning: every IP echo service failed; proceeding without a caller IP")
	return ""
}

func (r *PublicIPResolver) tryEndpoint(ctx context.Context, endpoint string) string {
	timer := utils.TrackOutbound("ip_echo", "resolve")
	defer timer.ObserveDuration()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ""
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		utils.TrackError("ip_echo", "request")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		utils.TrackError("ip_echo", "status")
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return ""
	}

	return parseEchoBody(body)
}

// parseEchoBody handles the three observed response shapes. httpbin's
// origin field can hold "ip, ip" when proxies stack; only the first entry
// is the caller.
func parseEchoBody(body []byte) string {
	var shaped struct {
		IP     string `json:"ip"`
		Origin string `json:"origin"`
	}
	if err := json.Unmarshal(body, &shaped); err == nil {
		if shaped.IP != "" {
			return validIP(shaped.IP)
		}
		if shaped.Origin != "" {
			first := strings.Split(shaped.Origin, ",")[0]
			return validIP(first)
		}
		return ""
	}

	return validIP(string(body))
}

func validIP(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if net.ParseIP(trimmed) == nil {
		return ""
	}
	return trimmed
}
