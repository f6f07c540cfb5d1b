package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/repository"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/services"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// DirectoryFetcher pulls the approved-investor list.
type DirectoryFetcher interface {
	FetchAll(ctx context.Context) ([]model.InvestorRecord, error)
}

// ActivityTracker enqueues portal-activity events, fire-and-forget.
type ActivityTracker interface {
	Track(contactID, targetURL, actionType, title string)
	TrackWithIP(contactID, targetURL, actionType, title, ip string, loc model.IPLocation)
}

// MismatchNotifier fires the verification side effects of an IP rejection.
type MismatchNotifier interface {
	NotifyIPMismatch(ctx context.Context, record *model.InvestorRecord, presentedIP string, loc model.IPLocation)
}

// SecurityJournal persists auth anomalies. May be nil (journals disabled).
type SecurityJournal interface {
	Insert(event model.SecurityEvent) error
}

// AuthService validates investor credentials against the remote directory
// and enforces the per-account IP allow-list. Password verification is
// string equality against the directory's plaintext-comparable secret;
// that weakness lives upstream and is beyond this service's reach.
type AuthService struct {
	Directory      DirectoryFetcher
	IPs            services.IPResolver
	Geo            services.LocationResolver
	Tracker        ActivityTracker
	Verifier       MismatchNotifier
	SecurityEvents SecurityJournal
	LoginURL       string
}

// Authenticate runs lookup, credential check, then the IP allow-list, in
// that order. federatedToken non-empty means the caller signed in through
// the identity provider: the assertion is verified and the password check
// is skipped. Tracking fires only on success or on an IP-mismatch
// rejection, never before the credential check.
func (a *AuthService) Authenticate(ctx context.Context, email, password, federatedToken string) (*model.SessionUser, error) {
	records, err := a.Directory.FetchAll(ctx)
	if err != nil {
		utils.TrackAuthAttempt("failure", "directory")
		return nil, fmt.Errorf("fetching investor directory: %w", err)
	}

	record := repository.FindByEmail(records, email)
	if record == nil {
		utils.TrackAuthAttempt("failure", "email_not_found")
		return nil, ErrEmailNotFound
	}

	federated := federatedToken != ""
	if federated {
		assertedEmail, err := services.VerifyFederatedAssertion(federatedToken)
		if err != nil {
			utils.TrackAuthAttempt("failure", "federated_assertion")
			return nil, fmt.Errorf("%w: %v", ErrInvalidPassword, err)
		}
		if !strings.EqualFold(assertedEmail, email) {
			utils.TrackAuthAttempt("failure", "federated_email_mismatch")
			return nil, fmt.Errorf("%w: assertion is for another account", ErrInvalidPassword)
		}
	} else {
		if subtle.ConstantTimeCompare([]byte(password), []byte(record.Password)) != 1 {
			utils.TrackAuthAttempt("failure", "invalid_password")
			return nil, ErrInvalidPassword
		}
	}

	// Allow-list check runs only after the credential check passed.
	var resolvedIP string
	var resolvedLoc model.IPLocation
	ipResolved := false

	if record.IPAddress != "" {
		resolvedIP = a.IPs.ResolvePublicIP(ctx)
		if resolvedIP == "" {
			// Fail open: an unreachable echo chain must not lock
			// investors out of their own dealroom.
			log.Printf("Warning: could not resolve caller IP for %s; allow-list check skipped", record.Email)
			utils.TrackAuthAttempt("success", "ip_fail_open")
		} else if resolvedIP != record.IPAddress {
			resolvedLoc = a.Geo.ResolveLocation(ctx, resolvedIP)
			a.rejectIPMismatch(ctx, record, resolvedIP, resolvedLoc, federated)
			return nil, ErrIPVerificationRequired
		} else {
			resolvedLoc = a.Geo.ResolveLocation(ctx, resolvedIP)
			ipResolved = true
		}
	}

	action := model.ActionLogin
	if federated {
		action = model.ActionFederatedLogin
	}
	if ipResolved {
		a.Tracker.TrackWithIP(record.ID, a.LoginURL, action, "", resolvedIP, resolvedLoc)
	} else {
		a.Tracker.Track(record.ID, a.LoginURL, action, "")
	}

	utils.TrackAuthAttempt("success", "login")
	return model.NewSessionUser(record), nil
}

// rejectIPMismatch fires each side effect exactly once: the security-event
// journal, the verification trigger, and the mismatch tracking event.
func (a *AuthService) rejectIPMismatch(ctx context.Context, record *model.InvestorRecord, presentedIP string, loc model.IPLocation, federated bool) {
	utils.TrackAuthAttempt("failure", "ip_mismatch")
	log.Printf("Login for %s rejected: presented IP %s does not match allow-listed %s",
		record.Email, presentedIP, record.IPAddress)

	if a.SecurityEvents != nil {
		event := model.SecurityEvent{
			EventType:   model.SecurityEventIPMismatch,
			ContactID:   record.ID,
			Email:       record.Email,
			RecordedIP:  record.IPAddress,
			PresentedIP: presentedIP,
			Country:     loc.Country,
			City:        loc.City,
			Federated:   federated,
			CreatedAt:   time.Now(),
		}
		if err := a.SecurityEvents.Insert(event); err != nil {
			log.Printf("Warning: failed to journal security event: %v", err)
		}
	}

	a.Verifier.NotifyIPMismatch(ctx, record, presentedIP, loc)

	action := model.ActionIPMismatch
	if federated {
		action = model.ActionFederatedIPMismatch
	}
	a.Tracker.TrackWithIP(record.ID, a.LoginURL, action, "", presentedIP, loc)
}
