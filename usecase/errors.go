package usecase

import "errors"

var (
	// ErrEmailNotFound: the email has no record in the investor directory.
	ErrEmailNotFound = errors.New("no investor found for this email")

	// ErrInvalidPassword: the presented credential did not match.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrIPVerificationRequired: login came from an IP outside the
	// account's allow-list; the verification side effects have fired and
	// the investor must approve the new address before retrying.
	ErrIPVerificationRequired = errors.New("ip verification required")
)
