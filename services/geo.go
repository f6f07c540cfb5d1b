package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/oschwald/geoip2-golang"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// GeoResolver maps an IP to a coarse {country, city}. Lookup order: cache,
// primary public API, fallback public API, optional local GeoLite2 database,
// then the terminal {Unknown, Unknown} which is still cached so a dead IP
// doesn't trigger a fetch storm.
type GeoResolver struct {
	cache       *LocationCache
	primaryURL  string // template with one %s for the IP
	fallbackURL string
	mmdb        *geoip2.Reader
	httpClient  *http.Client
}

func NewGeoResolver(cache *LocationCache, primaryURL, fallbackURL, mmdbPath string, timeout time.Duration) *GeoResolver {
	r := &GeoResolver{
		cache:       cache,
		primaryURL:  primaryURL,
		fallbackURL: fallbackURL,
		httpClient:  &http.Client{Timeout: timeout},
	}

	if mmdbPath != "" {
		reader, err := geoip2.Open(mmdbPath)
		if err != nil {
			log.Printf("Warning: could not open GeoLite2 database %s: %v", mmdbPath, err)
		} else {
			r.mmdb = reader
		}
	}

	return r
}

// Close releases the local GeoLite2 reader if one was opened.
func (r *GeoResolver) Close() {
	if r.mmdb != nil {
		r.mmdb.Close()
	}
}

// ResolveLocation never returns an error: geo data is display-and-tracking
// garnish, so every failure degrades to "Unknown". Concurrent calls for the
// same IP may duplicate a fetch; the write is idempotent.
func (r *GeoResolver) ResolveLocation(ctx context.Context, ip string) model.IPLocation {
	unknown := model.IPLocation{
		IP:        ip,
		Country:   model.UnknownLocation,
		City:      model.UnknownLocation,
		FetchedAt: time.Now(),
	}
	if ip == "" {
		return unknown
	}

	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, ip); err == nil && cached != nil {
			return *cached
		}
	}

	loc, ok := r.fetchPrimary(ctx, ip)
	if !ok {
		loc, ok = r.fetchFallback(ctx, ip)
	}
	if !ok {
		loc, ok = r.lookupLocal(ip)
	}
	if !ok {
		loc = unknown
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, &loc); err != nil {
			log.Printf("Warning: failed to cache location for %s: %v", ip, err)
		}
	}

	return loc
}

// primary shape (ipapi.co): {"country_name": ..., "city": ...}
func (r *GeoResolver) fetchPrimary(ctx context.Context, ip string) (model.IPLocation, bool) {
	timer := utils.TrackOutbound("geo", "primary")
	defer timer.ObserveDuration()

	var shaped struct {
		CountryName string `json:"country_name"`
		City        string `json:"city"`
	}
	if !r.fetchJSON(ctx, fmt.Sprintf(r.primaryURL, ip), &shaped) {
		utils.TrackError("geo", "primary")
		return model.IPLocation{}, false
	}
	return buildLocation(ip, shaped.CountryName, shaped.City)
}

// fallback shape (ip-api.com): {"country": ..., "city": ...}
func (r *GeoResolver) fetchFallback(ctx context.Context, ip string) (model.IPLocation, bool) {
	timer := utils.TrackOutbound("geo", "fallback")
	defer timer.ObserveDuration()

	var shaped struct {
		Country string `json:"country"`
		City    string `json:"city"`
	}
	if !r.fetchJSON(ctx, fmt.Sprintf(r.fallbackURL, ip), &shaped) {
		utils.TrackError("geo", "fallback")
		return model.IPLocation{}, false
	}
	return buildLocation(ip, shaped.Country, shaped.City)
}

func (r *GeoResolver) lookupLocal(ip string) (model.IPLocation, bool) {
	if r.mmdb == nil {
		return model.IPLocation{}, false
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return model.IPLocation{}, false
	}

	record, err := r.mmdb.City(parsed)
	if err != nil {
		utils.TrackError("geo", "mmdb")
		return model.IPLocation{}, false
	}
	return buildLocation(ip, record.Country.Names["en"], record.City.Names["en"])
}

func (r *GeoResolver) fetchJSON(ctx context.Context, url string, out interface{}) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false
	}

	return json.NewDecoder(resp.Body).Decode(out) == nil
}

func buildLocation(ip, country, city string) (model.IPLocation, bool) {
	if country == "" && city == "" {
		return model.IPLocation{}, false
	}
	if country == "" {
		country = model.UnknownLocation
	}
	if city == "" {
		city = model.UnknownLocation
	}
	return model.IPLocation{IP: ip, Country: country, City: city, FetchedAt: time.Now()}, true
}
