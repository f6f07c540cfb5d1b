package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/config"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// CRMClient talks to the Web-to-Lead style servlets: portal-activity
// tracking, the IP-verification flag, and password reset. Responses carry
// no useful body; only transport errors and non-2xx statuses matter.
type CRMClient struct {
	trackingURL     string
	verificationURL string
	resetURL        string
	httpClient      *http.Client
}

func NewCRMClient(cfg *config.Config) *CRMClient {
	return &CRMClient{
		trackingURL:     cfg.TrackingURL,
		verificationURL: cfg.VerificationURL,
		resetURL:        cfg.ResetURL,
		httpClient:      &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// SubmitTracking posts one portal-activity record. The action vocabulary is
// enforced server-side only; anything we send reaches the wire.
func (c *CRMClient) SubmitTracking(ctx context.Context, ev model.TrackingEvent) error {
	timer := utils.TrackOutbound("crm", "tracking")
	defer timer.ObserveDuration()

	fields := map[string]string{
		"sObj":                      "ri__Portal__c",
		"string_ri__Contact__c":     ev.ContactID,
		"text_ri__Login_URL__c":     ev.TargetURL,
		"text_ri__Action__c":        ev.ActionType,
		"text_ri__IP_Address__c":    ev.IPAddress,
		"text_ri__Login_Country__c": ev.Country,
		"text_ri__Login_City__c":    ev.City,
	}
	if ev.Title != "" {
		fields["text_ri__Document_Title__c"] = ev.Title
	}

	return c.postMultipart(ctx, c.trackingURL, fields)
}

// FlagIPVerification marks the contact as requiring IP verification. The
// CRM sends the verification email; we only flip the flag. Fired like the
// original's 1x1 image request: response body is ignored entirely.
func (c *CRMClient) FlagIPVerification(ctx context.Context, contactID, ip, country, city string) error {
	timer := utils.TrackOutbound("crm", "ip_verification")
	defer timer.ObserveDuration()

	reqURL, err := url.Parse(c.verificationURL)
	if err != nil {
		return fmt.Errorf("bad verification url: %w", err)
	}
	q := reqURL.Query()
	q.Set("sObj", "Contact")
	q.Set("id_Contact", contactID)
	q.Set("text_IP_Verification_Required__c", "Yes")
	if ip != "" {
		q.Set("text_ri__IP_Address__c", ip)
		q.Set("text_ri__Login_Country__c", country)
		q.Set("text_ri__Login_City__c", city)
	}
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		utils.TrackError("crm", "ip_verification")
		return fmt.Errorf("verification trigger failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

// RequestPasswordReset sets the reset flag on the contact record. The CRM
// side emails the investor; there is no token or expiry in this flow.
func (c *CRMClient) RequestPasswordReset(ctx context.Context, contactID string) error {
	timer := utils.TrackOutbound("crm", "reset_request")
	defer timer.ObserveDuration()

	return c.postMultipart(ctx, c.resetURL, map[string]string{
		"sObj":                   "Contact",
		"id_Contact":             contactID,
		"text_Reset_Password__c": "Yes",
	})
}

// CompletePasswordReset writes the new secret and clears the reset flag.
func (c *CRMClient) CompletePasswordReset(ctx context.Context, contactID, newPassword string) error {
	timer := utils.TrackOutbound("crm", "reset_complete")
	defer timer.ObserveDuration()

	return c.postMultipart(ctx, c.resetURL, map[string]string{
		"sObj":                   "Contact",
		"id_Contact":             contactID,
		"text_Reset_Password__c": "",
		"string_ri__Password__c": newPassword,
	})
}

func (c *CRMClient) postMultipart(ctx context.Context, endpoint string, fields map[string]string) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("building form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("building form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		utils.TrackError("crm", "post")
		return fmt.Errorf("crm post failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("crm post failed: unexpected status %d", resp.StatusCode)
	}
	return nil
}
