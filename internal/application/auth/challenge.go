package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/notio-app/notio-api/internal/domain"
	"github.com/notio-app/notio-api/internal/infrastructure/smtp"
	"github.com/notio-app/notio-api/internal/pkg/otp"
)

// otpTTL is the validity window of an issued code.
const otpTTL = 10 * time.Minute

type challengeStore interface {
	UpsertUnverifiedDraft(ctx context.Context, u *domain.User) error
}

// Challenge issues and checks one-time codes for account verification.
// A user has at most one outstanding code; issuing again overwrites it and
// the previous code becomes unusable.
type Challenge struct {
	store  challengeStore
	mailer smtp.Mailer
	now    func() time.Time
}

func NewChallenge(store challengeStore, mailer smtp.Mailer) *Challenge {
	return &Challenge{store: store, mailer: mailer, now: time.Now}
}

// Issue generates a fresh code, stamps it on the user with its expiry,
// persists the draft, and mails the code. The record is written before the
// send; a failed send leaves the stored code in place and surfaces to the
// caller, and the next registration reissues over it.
func (c *Challenge) Issue(ctx context.Context, u *domain.User) (string, error) {
	code, err := otp.Generate()
	if err != nil {
		return "", err
	}
	expires := c.now().UTC().Add(otpTTL)
	u.OTP = &code
	u.OTPExpires = &expires
	if err := c.store.UpsertUnverifiedDraft(ctx, u); err != nil {
		return "", err
	}
	if err := c.mailer.SendOTP(u.Email, u.Name, code); err != nil {
		return "", fmt.Errorf("deliver otp to %s: %w", u.Email, err)
	}
	return code, nil
}

// Verify checks a presented code against the user's outstanding challenge.
// The code compare is an exact string match and runs before the expiry check.
func (c *Challenge) Verify(u *domain.User, code string) error {
	if u.OTP == nil || u.OTPExpires == nil || *u.OTP != code {
		return fmt.Errorf("otp mismatch for user %s: %w", u.UserID, domain.ErrInvalidOTP)
	}
	if c.now().After(*u.OTPExpires) {
		return fmt.Errorf("otp for user %s expired at %s: %w", u.UserID, u.OTPExpires.Format(time.RFC3339), domain.ErrOTPExpired)
	}
	return nil
}
