package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/notio-app/notio-api/internal/domain"
	"github.com/notio-app/notio-api/internal/infrastructure/smtp"
	"github.com/notio-app/notio-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// Result carries a signed session token plus the authenticated user.
type Result struct {
	Token string
	User  *domain.User
}

type Service interface {
	// Register creates or overwrites an unverified draft and issues an OTP.
	// It returns the address the code was sent to; no token is issued until
	// the account is verified.
	Register(ctx context.Context, req domain.RegisterRequest) (string, error)
	VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*Result, error)
	Login(ctx context.Context, req domain.LoginRequest) (*Result, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	UpsertUnverifiedDraft(ctx context.Context, u *domain.User) error
}

type jwtSigner interface {
	Sign(userID string) (string, error)
}

type service struct {
	users     userStore
	challenge *Challenge
	jwt       jwtSigner
}

type ServiceDeps struct {
	UserRepo    userStore
	Mailer      smtp.Mailer
	JWTProvider jwtSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:     deps.UserRepo,
		challenge: NewChallenge(deps.UserRepo, deps.Mailer),
		jwt:       deps.JWTProvider,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (string, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	if existing != nil && existing.IsVerified {
		return "", fmt.Errorf("user already exists: %w", domain.ErrConflict)
	}

	username := req.Username
	if username == "" {
		if existing != nil && existing.Username != "" {
			username = existing.Username
		} else {
			username = emailLocalPart(req.Email)
		}
	}
	if other, err := s.users.GetByUsername(ctx, username); err == nil {
		if existing == nil || other.UserID != existing.UserID {
			return "", fmt.Errorf("username %q taken: %w", username, domain.ErrConflict)
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	u := existing
	if u == nil {
		u = &domain.User{UserID: id.New(), Email: req.Email, CreatedAt: now}
	}
	u.Name = req.Name
	u.Username = username
	u.PasswordHash = string(hash)
	u.IsVerified = false
	u.UpdatedAt = now

	if _, err := s.challenge.Issue(ctx, u); err != nil {
		return "", err
	}
	return u.Email, nil
}

func (s *service) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*Result, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	if u.IsVerified {
		return nil, fmt.Errorf("user %s: %w", u.UserID, domain.ErrAlreadyVerified)
	}
	if err := s.challenge.Verify(u, req.OTP); err != nil {
		return nil, err
	}

	u.IsVerified = true
	u.OTP = nil
	u.OTPExpires = nil
	u.UpdatedAt = time.Now().UTC()
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}

	token, err := s.jwt.Sign(u.UserID)
	if err != nil {
		return nil, err
	}
	return &Result{Token: token, User: u}, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*Result, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Same failure as a bad password so callers cannot probe for accounts.
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.IsVerified {
		return nil, fmt.Errorf("user %s: %w", u.UserID, domain.ErrNotVerified)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.jwt.Sign(u.UserID)
	if err != nil {
		return nil, err
	}
	return &Result{Token: token, User: u}, nil
}

func (s *service) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("token subject %s has no account: %w", userID, domain.ErrUnauthorized)
		}
		return nil, err
	}
	return u, nil
}

func emailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
