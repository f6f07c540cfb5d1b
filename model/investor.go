package model

import "strings"

// Investor status values as they appear in the remote directory.
const (
	StatusSecuredInvestor   = "Secured Investor"
	StatusQualifiedInvestor = "Qualified Investor"
	StatusPotentialInvestor = "Potential Investor"
)

// InvestorRecord is one entry from the remote investor directory. The
// directory is read-only from our side; password is plaintext-comparable
// (a known weakness of the upstream system, not something we can fix here).
type InvestorRecord struct {
	ID             string `json:"id" xml:"id"`
	Email          string `json:"email" xml:"email"`
	Password       string `json:"ripassword" xml:"ripassword"`
	Name           string `json:"name" xml:"name"`
	Status         string `json:"status" xml:"status"`
	Phone          string `json:"phone" xml:"phone"`
	Mobile         string `json:"mobile" xml:"mobile"`
	MailingAddress string `json:"mailingstreet" xml:"mailingstreet"`
	IPAddress      string `json:"ipaddress" xml:"ipaddress"`
}

// NDASigned reports whether this investor's status grants dealroom access.
func (r *InvestorRecord) NDASigned() bool {
	return r.Status == StatusQualifiedInvestor || r.Status == StatusSecuredInvestor
}

// SessionUser is the authenticated identity derived from an InvestorRecord
// at login time. It lives only in the in-memory session store; the NDASigned
// flag is computed once at login and never revalidated.
type SessionUser struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Status         string `json:"status"`
	Phone          string `json:"phone"`
	MailingAddress string `json:"mailing_address"`
	NDASigned      bool   `json:"nda_signed"`
}

// NewSessionUser derives the session identity from a directory record.
func NewSessionUser(r *InvestorRecord) *SessionUser {
	return &SessionUser{
		ID:             r.ID,
		Name:           r.Name,
		Email:          strings.TrimSpace(r.Email),
		Status:         r.Status,
		Phone:          r.Phone,
		MailingAddress: r.MailingAddress,
		NDASigned:      r.NDASigned(),
	}
}
