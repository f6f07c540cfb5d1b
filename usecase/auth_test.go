package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/repository"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/services"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

type stubDirectory struct {
	records []model.InvestorRecord
	err     error
}

func (s *stubDirectory) FetchAll(ctx context.Context) ([]model.InvestorRecord, error) {
	return s.records, s.err
}

type stubIPs struct{ ip string }

func (s stubIPs) ResolvePublicIP(ctx context.Context) string { return s.ip }

type stubGeo struct{ loc model.IPLocation }

func (s stubGeo) ResolveLocation(ctx context.Context, ip string) model.IPLocation {
	loc := s.loc
	loc.IP = ip
	return loc
}

type trackedEvent struct {
	contactID, targetURL, action, title, ip string
	loc                                     model.IPLocation
}

type stubTracker struct{ events []trackedEvent }

func (s *stubTracker) Track(contactID, targetURL, actionType, title string) {
	s.events = append(s.events, trackedEvent{contactID: contactID, targetURL: targetURL, action: actionType, title: title})
}

func (s *stubTracker) TrackWithIP(contactID, targetURL, actionType, title, ip string, loc model.IPLocation) {
	s.events = append(s.events, trackedEvent{contactID: contactID, targetURL: targetURL, action: actionType, title: title, ip: ip, loc: loc})
}

type verifierCall struct {
	contactID, presentedIP string
	loc                    model.IPLocation
}

type stubVerifier struct{ calls []verifierCall }

func (s *stubVerifier) NotifyIPMismatch(ctx context.Context, record *model.InvestorRecord, presentedIP string, loc model.IPLocation) {
	s.calls = append(s.calls, verifierCall{contactID: record.ID, presentedIP: presentedIP, loc: loc})
}

type stubJournal struct{ events []model.SecurityEvent }

func (s *stubJournal) Insert(event model.SecurityEvent) error {
	s.events = append(s.events, event)
	return nil
}

func testRecords() []model.InvestorRecord {
	return []model.InvestorRecord{
		{ID: "003A", Email: "a@x.com", Password: "secret", Name: "Ada", Status: model.StatusPotentialInvestor},
		{ID: "003B", Email: "b@x.com", Password: "hunter2", Name: "Bo", Status: model.StatusQualifiedInvestor, IPAddress: "1.2.3.4"},
		{ID: "003C", Email: "c@x.com", Password: "paddock", Name: "Cy", Status: model.StatusSecuredInvestor},
	}
}

func newAuth(directory *stubDirectory, ips stubIPs, geo stubGeo) (*AuthService, *stubTracker, *stubVerifier, *stubJournal) {
	tracker := &stubTracker{}
	verifier := &stubVerifier{}
	journal := &stubJournal{}
	auth := &AuthService{
		Directory:      directory,
		IPs:            ips,
		Geo:            geo,
		Tracker:        tracker,
		Verifier:       verifier,
		SecurityEvents: journal,
		LoginURL:       "https://invest.worldmotoclash.com/login",
	}
	return auth, tracker, verifier, journal
}

func TestAuthenticateEmailNotFound(t *testing.T) {
	auth, tracker, verifier, _ := newAuth(&stubDirectory{records: testRecords()}, stubIPs{}, stubGeo{})

	user, err := auth.Authenticate(context.Background(), "nobody@x.com", "secret", "")
	if !errors.Is(err, ErrEmailNotFound) {
		t.Fatalf("expected ErrEmailNotFound, got %v", err)
	}
	if user != nil {
		t.Fatal("expected no user")
	}
	if len(tracker.events) != 0 || len(verifier.calls) != 0 {
		t.Fatal("rejection before credential check must fire no side effects")
	}
}

func TestAuthenticateInvalidPassword(t *testing.T) {
	auth, tracker, _, _ := newAuth(&stubDirectory{records: testRecords()}, stubIPs{}, stubGeo{})

	user, err := auth.Authenticate(context.Background(), "a@x.com", "wrong", "")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if user != nil || len(tracker.events) != 0 {
		t.Fatal("failed password check must not track")
	}
}

func TestAuthenticateDirectoryDown(t *testing.T) {
	fetchErr := repository.ErrDirectoryFetch
	auth, _, _, _ := newAuth(&stubDirectory{err: fetchErr}, stubIPs{}, stubGeo{})

	_, err := auth.Authenticate(context.Background(), "a@x.com", "secret", "")
	if !errors.Is(err, repository.ErrDirectoryFetch) {
		t.Fatalf("expected directory fetch error to pass through, got %v", err)
	}
}

func TestAuthenticateSuccessNoAllowList(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		wantNDASigned bool
	}{
		{"potential investor has no dealroom access", "a@x.com", "secret", false},
		{"secured investor has dealroom access", "c@x.com", "paddock", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The resolver answer is irrelevant without an allow-list entry.
			auth, tracker, _, _ := newAuth(&stubDirectory{records: testRecords()}, stubIPs{ip: "9.9.9.9"}, stubGeo{})

			user, err := auth.Authenticate(context.Background(), tt.email, tt.password, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.NDASigned != tt.wantNDASigned {
				t.Errorf("NDASigned = %v, want %v", user.NDASigned, tt.wantNDASigned)
			}
			if len(tracker.events) != 1 || tracker.events[0].action != model.ActionLogin {
				t.Fatalf("expected one Login event, got %+v", tracker.events)
			}
		})
	}
}

func TestAuthenticateAllowListMatch(t *testing.T) {
	geo := stubGeo{loc: model.IPLocation{Country: "United States", City: "Austin"}}
	auth, tracker, verifier, _ := newAuth(&stubDirectory{records: testRecords()}, stubIPs{ip: "1.2.3.4"}, geo)

	user, err := auth.Authenticate(context.Background(), "b@x.com", "hunter2", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil || user.ID != "003B" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if len(verifier.calls) != 0 {
		t.Fatal("matching IP must not trigger verification")
	}
	if len(tracker.events) != 1 || tracker.events[0].ip != "1.2.3.4" {
		t.Fatalf("login event should carry the resolved IP, got %+v", tracker.events)
	}
}

func TestAuthenticateAllowListMismatch(t *testing.T) {
	geo := stubGeo{loc: model.IPLocation{Country: "Germany", City: "Berlin"}}
	auth, tracker, verifier, journal := newAuth(&stubDirectory{records: testRecords()}, stubIPs{ip: "9.9.9.9"}, geo)

	user, err := auth.Authenticate(context.Background(), "b@x.com", "hunter2", "")
	if !errors.Is(err, ErrIPVerificationRequired) {
		t.Fatalf("expected ErrIPVerificationRequired, got %v", err)
	}
	if user != nil {
		t.Fatal("expected no user on mismatch")
	}

	if len(verifier.calls) != 1 {
		t.Fatalf("verification must fire exactly once, got %d", len(verifier.calls))
	}
	call := verifier.calls[0]
	if call.presentedIP != "9.9.9.9" || call.loc.Country != "Germany" || call.loc.City != "Berlin" {
		t.Errorf("verification carried wrong location: %+v", call)
	}

	if len(tracker.events) != 1 {
		t.Fatalf("expected exactly one mismatch event, got %d", len(tracker.events))
	}
	ev := tracker.events[0]
	if ev.action != model.ActionIPMismatch || ev.ip != "9.9.9.9" || ev.loc.Country != "Germany" {
		t.Errorf("unexpected mismatch event: %+v", ev)
	}

	if len(journal.events) != 1 || journal.events[0].EventType != model.SecurityEventIPMismatch {
		t.Fatalf("expected one journaled security event, got %+v", journal.events)
	}
	if journal.events[0].RecordedIP != "1.2.3.4" || journal.events[0].PresentedIP != "9.9.9.9" {
		t.Errorf("journal carries wrong IPs: %+v", journal.events[0])
	}
}

// An unreachable echo chain fails open: the investor still gets in.
func TestAuthenticateAllowListFailOpen(t *testing.T) {
	auth, tracker, verifier, _ := newAuth(&stubDirectory{records: testRecords()}, stubIPs{ip: ""}, stubGeo{})

	user, err := auth.Authenticate(context.Background(), "b@x.com", "hunter2", "")
	if err != nil {
		t.Fatalf("expected fail-open success, got %v", err)
	}
	if user == nil || user.ID != "003B" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if len(verifier.calls) != 0 {
		t.Fatal("fail-open must not trigger verification")
	}
	if len(tracker.events) != 1 || tracker.events[0].action != model.ActionLogin {
		t.Fatalf("expected a Login event, got %+v", tracker.events)
	}
}

func mintTestAssertion(t *testing.T, email string) string {
	t.Helper()
	claims := services.FederatedClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test_secret_key"))
	if err != nil {
		t.Fatalf("signing assertion: %v", err)
	}
	return signed
}

func TestAuthenticateFederated(t *testing.T) {
	utils.FederatedSecretKey = "test_secret_key"
	t.Cleanup(func() { utils.FederatedSecretKey = "" })

	auth, tracker, _, _ := newAuth(&stubDirectory{records: testRecords()}, stubIPs{}, stubGeo{})

	// Assertion replaces the password entirely.
	user, err := auth.Authenticate(context.Background(), "a@x.com", "", mintTestAssertion(t, "a@x.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil || user.ID != "003A" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if len(tracker.events) != 1 || tracker.events[0].action != model.ActionFederatedLogin {
		t.Fatalf("expected a Federated Login event, got %+v", tracker.events)
	}
}

func TestAuthenticateFederatedEmailMismatch(t *testing.T) {
	utils.FederatedSecretKey = "test_secret_key"
	t.Cleanup(func() { utils.FederatedSecretKey = "" })

	auth, tracker, _, _ := newAuth(&stubDirectory{records: testRecords()}, stubIPs{}, stubGeo{})

	_, err := auth.Authenticate(context.Background(), "a@x.com", "", mintTestAssertion(t, "b@x.com"))
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword for foreign assertion, got %v", err)
	}
	if len(tracker.events) != 0 {
		t.Fatal("rejected assertion must not track")
	}
}
