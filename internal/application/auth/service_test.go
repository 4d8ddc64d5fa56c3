package auth

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/notio-app/notio-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) UpsertUnverifiedDraft(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendOTP(to, name, code string) error {
	return m.Called(to, name, code).Error(0)
}

type mockJWTSigner struct{ mock.Mock }

func (m *mockJWTSigner) Sign(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

// --- builder ---

func newTestService(us *mockUserStore, ml *mockMailer, jw *mockJWTSigner) Service {
	return NewService(ServiceDeps{
		UserRepo:    us,
		Mailer:      ml,
		JWTProvider: jw,
	})
}

func strPtr(s string) *string { return &s }

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return string(h)
}

// --- Register ---

func TestRegister_FreshEmail_IssuesChallenge(t *testing.T) {
	us := &mockUserStore{}
	ml := &mockMailer{}

	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(nil, domain.ErrNotFound)
	us.On("GetByUsername", mock.Anything, "ann").Return(nil, domain.ErrNotFound)

	var saved *domain.User
	us.On("UpsertUnverifiedDraft", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.User) }).
		Return(nil)
	ml.On("SendOTP", "ann@x.com", "Ann", mock.AnythingOfType("string")).Return(nil)

	svc := newTestService(us, ml, nil)
	email, err := svc.Register(context.Background(), domain.RegisterRequest{
		Name: "Ann", Email: "ann@x.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", email)

	require.NotNil(t, saved)
	assert.False(t, saved.IsVerified)
	assert.Equal(t, "ann", saved.Username) // defaults to the email local part
	assert.NotEmpty(t, saved.UserID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("secret123")))

	require.NotNil(t, saved.OTP)
	require.Len(t, *saved.OTP, 6)
	n, convErr := strconv.Atoi(*saved.OTP)
	require.NoError(t, convErr)
	assert.GreaterOrEqual(t, n, 100000)
	assert.LessOrEqual(t, n, 999999)

	require.NotNil(t, saved.OTPExpires)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), *saved.OTPExpires, 5*time.Second)

	ml.AssertCalled(t, "SendOTP", "ann@x.com", "Ann", *saved.OTP)
}

func TestRegister_VerifiedEmail_Conflict(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ann@x.com").
		Return(&domain.User{UserID: "u1", Email: "ann@x.com", IsVerified: true}, nil)

	svc := newTestService(us, nil, nil)
	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Name: "Ann", Email: "ann@x.com", Password: "secret123",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	us.AssertNotCalled(t, "UpsertUnverifiedDraft", mock.Anything, mock.Anything)
}

func TestRegister_UnverifiedEmail_OverwritesDraft(t *testing.T) {
	us := &mockUserStore{}
	ml := &mockMailer{}

	oldCode := "111111"
	oldExpiry := time.Now().Add(5 * time.Minute)
	existing := &domain.User{
		UserID: "u1", Email: "ann@x.com", Name: "Old Name", Username: "oldann",
		PasswordHash: hashOf(t, "oldpass"), OTP: &oldCode, OTPExpires: &oldExpiry,
	}
	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(existing, nil)
	us.On("GetByUsername", mock.Anything, "oldann").Return(existing, nil)

	var saved *domain.User
	us.On("UpsertUnverifiedDraft", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.User) }).
		Return(nil)
	ml.On("SendOTP", "ann@x.com", "Ann", mock.AnythingOfType("string")).Return(nil)

	svc := newTestService(us, ml, nil)
	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Name: "Ann", Email: "ann@x.com", Password: "newpass123",
	})
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, "u1", saved.UserID) // same record, not a duplicate
	assert.Equal(t, "Ann", saved.Name)
	assert.Equal(t, "oldann", saved.Username) // kept when the request omits one
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("newpass123")))
	require.NotNil(t, saved.OTP)
	assert.NotEqual(t, oldCode, *saved.OTP)
}

func TestRegister_UsernameTakenByOther_Conflict(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(nil, domain.ErrNotFound)
	us.On("GetByUsername", mock.Anything, "ann").
		Return(&domain.User{UserID: "u2", Username: "ann"}, nil)

	svc := newTestService(us, nil, nil)
	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Name: "Ann", Email: "ann@x.com", Password: "secret123",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestRegister_MailFailure_PropagatesAfterSave(t *testing.T) {
	us := &mockUserStore{}
	ml := &mockMailer{}

	us.On("GetByEmail", mock.Anything, "ann@x.com").Return(nil, domain.ErrNotFound)
	us.On("GetByUsername", mock.Anything, "ann").Return(nil, domain.ErrNotFound)
	us.On("UpsertUnverifiedDraft", mock.Anything, mock.Anything).Return(nil)
	ml.On("SendOTP", "ann@x.com", "Ann", mock.Anything).Return(errors.New("smtp down"))

	svc := newTestService(us, ml, nil)
	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Name: "Ann", Email: "ann@x.com", Password: "secret123",
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "smtp down")
	// The draft was already persisted; a retry overwrites it with a new code.
	us.AssertCalled(t, "UpsertUnverifiedDraft", mock.Anything, mock.Anything)
}

// --- VerifyOTP ---

func TestVerifyOTP_UnknownEmail_NotFound(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "x@x.com").Return(nil, domain.ErrNotFound)

	svc := newTestService(us, nil, nil)
	_, err := svc.VerifyOTP(context.Background(), domain.VerifyOTPRequest{Email: "x@x.com", OTP: "123456"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestVerifyOTP_AlreadyVerified(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ann@x.com").
		Return(&domain.User{UserID: "u1", Email: "ann@x.com", IsVerified: true}, nil)

	svc := newTestService(us, nil, nil)
	_, err := svc.VerifyOTP(context.Background(), domain.VerifyOTPRequest{Email: "ann@x.com", OTP: "123456"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAlreadyVerified))
}

func TestVerifyOTP_WrongCode_NoStateChange(t *testing.T) {
	us := &mockUserStore{}
	expiry := time.Now().Add(5 * time.Minute)
	us.On("GetByEmail", mock.Anything, "ann@x.com").
		Return(&domain.User{UserID: "u1", Email: "ann@x.com", OTP: strPtr("654321"), OTPExpires: &expiry}, nil)

	svc := newTestService(us, nil, nil)
	_, err := svc.VerifyOTP(context.Background(), domain.VerifyOTPRequest{Email: "ann@x.com", OTP: "123456"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOTP))
	us.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestVerifyOTP_MatchingButExpired(t *testing.T) {
	us := &mockUserStore{}
	expiry := time.Now().Add(-time.Second)
	us.On("GetByEmail", mock.Anything, "ann@x.com").
		Return(&domain.User{UserID: "u1", Email: "ann@x.com", OTP: strPtr("123456"), OTPExpires: &expiry}, nil)

	svc := newTestService(us, nil, nil)
	_, err := svc.VerifyOTP(context.Background(), domain.VerifyOTPRequest{Email: "ann@x.com", OTP: "123456"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrOTPExpired))
	us.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestVerifyOTP_NoPendingChallenge_Invalid(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ann@x.com").
		Return(&domain.User{UserID: "u1", Email: "ann@x.com"}, nil)

	svc := newTestService(us, nil, nil)
	_, err := svc.VerifyOTP(context.Background(), domain.VerifyOTPRequest{Email: "ann@x.com", OTP: "123456"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOTP))
}

func TestVerifyOTP_Success_PromotesAndClearsChallenge(t *testing.T) {
	us := &mockUserStore{}
	jw := &mockJWTSigner{}
	expiry := time.Now().Add(5 * time.Minute)
	us.On("GetByEmail", mock.Anything, "ann@x.com").
		Return(&domain.User{UserID: "u1", Name: "Ann", Email: "ann@x.com", OTP: strPtr("123456"), OTPExpires: &expiry}, nil)

	var saved *domain.User
	us.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.User) }).
		Return(nil)
	jw.On("Sign", "u1").Return("signed-token", nil)

	svc := newTestService(us, nil, jw)
	result, err := svc.VerifyOTP(context.Background(), domain.VerifyOTPRequest{Email: "ann@x.com", OTP: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "signed-token", result.Token)
	assert.Equal(t, "u1", result.User.UserID)

	require.NotNil(t, saved)
	assert.True(t, saved.IsVerified)
	assert.Nil(t, saved.OTP)
	assert.Nil(t, saved.OTPExpires)
}

// --- Login ---

func TestLogin_UnknownEmailAndWrongPassword_SameError(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "nobody@x.com").Return(nil, domain.ErrNotFound)
	us.On("GetByEmail", mock.Anything, "ann@x.com").
		Return(&domain.User{UserID: "u1", Email: "ann@x.com", IsVerified: true, PasswordHash: hashOf(t, "secret123")}, nil)

	svc := newTestService(us, nil, nil)
	_, errUnknown := svc.Login(context.Background(), domain.LoginRequest{Email: "nobody@x.com", Password: "whatever"})
	_, errWrongPw := svc.Login(context.Background(), domain.LoginRequest{Email: "ann@x.com", Password: "wrong"})

	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	// Indistinguishable failures: identical error value either way.
	assert.Equal(t, errUnknown, errWrongPw)
	assert.True(t, errors.Is(errUnknown, domain.ErrInvalidCredentials))
}

func TestLogin_Unverified_EvenWithCorrectPassword(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ann@x.com").
		Return(&domain.User{UserID: "u1", Email: "ann@x.com", IsVerified: false, PasswordHash: hashOf(t, "secret123")}, nil)

	svc := newTestService(us, nil, nil)
	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "ann@x.com", Password: "secret123"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotVerified))
}

func TestLogin_Success(t *testing.T) {
	us := &mockUserStore{}
	jw := &mockJWTSigner{}
	us.On("GetByEmail", mock.Anything, "ann@x.com").
		Return(&domain.User{UserID: "u1", Email: "ann@x.com", IsVerified: true, PasswordHash: hashOf(t, "secret123")}, nil)
	jw.On("Sign", "u1").Return("signed-token", nil)

	svc := newTestService(us, nil, jw)
	result, err := svc.Login(context.Background(), domain.LoginRequest{Email: "ann@x.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "signed-token", result.Token)
	assert.Equal(t, "u1", result.User.UserID)
}

// --- CurrentUser ---

func TestCurrentUser_MissingAccount_Unauthorized(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	svc := newTestService(us, nil, nil)
	_, err := svc.CurrentUser(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestCurrentUser_Found(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Email: "ann@x.com"}, nil)

	svc := newTestService(us, nil, nil)
	u, err := svc.CurrentUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", u.Email)
}
