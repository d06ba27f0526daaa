package auth

import "errors"

// Reason is a machine readable rejection code surfaced to callers.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonInvalidCredentials Reason = "INVALID_CREDENTIALS"
	ReasonMissingToken       Reason = "MISSING_TOKEN"
	ReasonMalformed          Reason = "MALFORMED"
	ReasonBadSignature       Reason = "BAD_SIGNATURE"
	ReasonIssuerMismatch     Reason = "ISSUER_MISMATCH"
	ReasonAudienceMismatch   Reason = "AUDIENCE_MISMATCH"
	ReasonExpired            Reason = "EXPIRED"
	ReasonUnknown            Reason = "UNKNOWN"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrMissingToken       = errors.New("auth: missing bearer token")
	ErrMalformedToken     = errors.New("auth: malformed token")
	ErrSignatureInvalid   = errors.New("auth: invalid signature")
	ErrIssuerMismatch     = errors.New("auth: issuer mismatch")
	ErrAudienceMismatch   = errors.New("auth: audience mismatch")
	ErrTokenExpired       = errors.New("auth: token expired")
)

// ReasonOf maps an error returned by this package to its rejection code.
func ReasonOf(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrInvalidCredentials):
		return ReasonInvalidCredentials
	case errors.Is(err, ErrMissingToken):
		return ReasonMissingToken
	case errors.Is(err, ErrMalformedToken):
		return ReasonMalformed
	case errors.Is(err, ErrSignatureInvalid):
		return ReasonBadSignature
	case errors.Is(err, ErrIssuerMismatch):
		return ReasonIssuerMismatch
	case errors.Is(err, ErrAudienceMismatch):
		return ReasonAudienceMismatch
	case errors.Is(err, ErrTokenExpired):
		return ReasonExpired
	default:
		return ReasonUnknown
	}
}
