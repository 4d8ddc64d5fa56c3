package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/notio-app/notio-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Msg   string `json:"msg,omitempty"`
	Email string `json:"email,omitempty"`
}

// AuthEnvelope wraps verify-otp and login responses.
type AuthEnvelope struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// PublicUser is the profile projection returned on verification.
type PublicUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// LoginUser is the fuller projection returned on login. FrameIndex and
// AvatarIndex exist only for older clients and are always zero.
type LoginUser struct {
	PublicUser
	Bio          string `json:"bio"`
	ProfileImage string `json:"profileImage"`
	FrameIndex   int    `json:"frameIndex"`
	AvatarIndex  int    `json:"avatarIndex"`
}

func toPublicUser(u *domain.User) PublicUser {
	return PublicUser{ID: u.UserID, Name: u.Name, Email: u.Email, Username: u.Username}
}

func toLoginUser(u *domain.User) LoginUser {
	return LoginUser{
		PublicUser:   toPublicUser(u),
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Msg: msg})
}

// httpError maps a service error to its client-facing status and canonical
// message. Anything unrecognised is logged server-side and collapsed to a
// generic 500 so no internal detail leaks.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusBadRequest, "User not found")
	case errors.Is(err, domain.ErrAlreadyVerified):
		writeError(w, http.StatusBadRequest, "User already verified")
	case errors.Is(err, domain.ErrInvalidOTP):
		writeError(w, http.StatusBadRequest, "Invalid OTP")
	case errors.Is(err, domain.ErrOTPExpired):
		writeError(w, http.StatusBadRequest, "OTP Expired")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "Invalid Credentials")
	case errors.Is(err, domain.ErrNotVerified):
		writeError(w, http.StatusBadRequest, "Account not verified. Please verify OTP first.")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	default:
		slog.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}
