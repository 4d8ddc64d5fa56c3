package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes and canonical
// messages without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")

	// Account-verification flow. InvalidCredentials deliberately covers both
	// unknown email and wrong password so login failures are indistinguishable.
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrOTPExpired         = errors.New("otp expired")
	ErrAlreadyVerified    = errors.New("already verified")
	ErrNotVerified        = errors.New("not verified")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
