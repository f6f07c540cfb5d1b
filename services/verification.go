package services

import (
	"context"
	"log"

	"github.com/worldmotoclash/wmc-capital-hub-sub000/model"
	"github.com/worldmotoclash/wmc-capital-hub-sub000/utils"
)

// VerificationFlagger flips the CRM-side IP-verification flag; the CRM
// mails the investor its verification link.
type VerificationFlagger interface {
	FlagIPVerification(ctx context.Context, contactID, ip, country, city string) error
}

// Verifier fires the out-of-band side effects of an IP-mismatch rejection:
// the CRM flag (which triggers the CRM's verification email) and an optional
// direct SMTP notice. Failures are logged, never propagated; the rejection
// itself already happened.
type Verifier struct {
	crm    VerificationFlagger
	mailer *MailSender
}

func NewVerifier(crm VerificationFlagger, mailer *MailSender) *Verifier {
	return &Verifier{crm: crm, mailer: mailer}
}

// NotifyIPMismatch carries the new IP's resolved location to the CRM and,
// when SMTP is configured, to the investor directly.
func (v *Verifier) NotifyIPMismatch(ctx context.Context, record *model.InvestorRecord, presentedIP string, loc model.IPLocation) {
	if err := v.crm.FlagIPVerification(ctx, record.ID, presentedIP, loc.Country, loc.City); err != nil {
		utils.TrackError("verification", "crm_flag")
		log.Printf("Warning: failed to flag IP verification for contact %s: %v", record.ID, err)
	}

	if v.mailer == nil {
		return
	}
	if err := v.mailer.SendIPMismatchNotice(record.Email, record.Name, presentedIP, loc.Country, loc.City); err != nil {
		utils.TrackError("verification", "smtp")
		log.Printf("Warning: failed to send IP mismatch notice to %s: %v", record.Email, err)
	}
}
