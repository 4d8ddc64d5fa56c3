package http

import (
	"github.com/notio-app/notio-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/notio-app/notio-api/internal/infrastructure/jwt"
	s3infra "github.com/notio-app/notio-api/internal/infrastructure/s3"
	"github.com/notio-app/notio-api/internal/infrastructure/smtp"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo     *dynamo.UserRepo
	ReminderRepo *dynamo.ReminderRepo
	AvatarStore  *s3infra.Store
	Mailer       smtp.Mailer
	JWTProvider  *jwtinfra.Provider
}
