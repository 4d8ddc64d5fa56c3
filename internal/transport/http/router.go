package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/notio-app/notio-api/internal/application/auth"
	"github.com/notio-app/notio-api/internal/application/reminder"
	"github.com/notio-app/notio-api/internal/application/user"
	"github.com/notio-app/notio-api/internal/config"
	"github.com/notio-app/notio-api/internal/transport/http/handler"
	appmiddleware "github.com/notio-app/notio-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:    deps.UserRepo,
		Mailer:      deps.Mailer,
		JWTProvider: deps.JWTProvider,
	})
	userSvc := user.NewService(deps.UserRepo, deps.AvatarStore)
	reminderSvc := reminder.NewService(deps.ReminderRepo)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(userSvc)
	reminderH := handler.NewReminderHandler(reminderSvc)

	authMw := appmiddleware.Auth(deps.JWTProvider)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/health", healthH.Ping)
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/verify-otp", authH.VerifyOTP)
		r.Post("/auth/login", authH.Login)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/auth/me", authH.Me)
			r.Put("/users/me", userH.UpdateMe)
			r.Post("/users/me/avatar", userH.UploadAvatar)

			r.Post("/reminders", reminderH.Create)
			r.Get("/reminders", reminderH.List)
			r.Get("/reminders/{id}", reminderH.Get)
			r.Put("/reminders/{id}", reminderH.Update)
			r.Delete("/reminders/{id}", reminderH.Delete)
		})
	})

	return r
}
