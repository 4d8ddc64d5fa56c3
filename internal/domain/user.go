package domain

import "time"

// User is the credential-store record. A user is created unverified by
// registration and promoted to verified exactly once by a successful OTP
// check; it is never downgraded. OTP and OTPExpires are set only while a
// challenge is outstanding and are cleared on successful verification.
type User struct {
	UserID       string     `json:"id" dynamodbav:"user_id"`
	Name         string     `json:"name" dynamodbav:"name"`
	Email        string     `json:"email" dynamodbav:"email"`
	Username     string     `json:"username" dynamodbav:"username"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	Bio          string     `json:"bio" dynamodbav:"bio"`
	ProfileImage string     `json:"profileImage" dynamodbav:"profile_image"` // URL or Base64
	IsVerified   bool       `json:"isVerified" dynamodbav:"is_verified"`
	OTP          *string    `json:"-" dynamodbav:"otp,omitempty"`
	OTPExpires   *time.Time `json:"-" dynamodbav:"otp_expires,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" dynamodbav:"updated_at"`
}

// HasPendingOTP reports whether a challenge is outstanding on the record.
func (u *User) HasPendingOTP() bool {
	return u.OTP != nil && u.OTPExpires != nil
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Username string `json:"username"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
}
