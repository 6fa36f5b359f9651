package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"matrimony-backend/internal/health"
	"matrimony-backend/internal/http/handler"
	"matrimony-backend/internal/http/middleware"
	"matrimony-backend/internal/http/response"
	"matrimony-backend/internal/security"
)

type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	ProfileHandler *handler.ProfileHandler
	JWTManager     *security.JWTManager
	CORSOrigins    []string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	Readiness      *health.ProbeRunner
	EnableOTelHTTP bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	maxBody := dep.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	r.Use(middleware.BodyLimit(maxBody))
	if dep.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(dep.RequestTimeout))
	}

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/send-otp", dep.AuthHandler.SendOTP)
		r.Post("/verify-otp", dep.AuthHandler.VerifyOTP)
		r.Post("/login", dep.AuthHandler.Login)
		r.Post("/signup", dep.AuthHandler.SignUp)
		r.Post("/google", dep.AuthHandler.GoogleAssert)
		r.Get("/google/login", dep.AuthHandler.GoogleLogin)
		r.Get("/google/callback", dep.AuthHandler.GoogleCallback)
	})
	// Legacy alias kept for older clients.
	r.Post("/register", dep.AuthHandler.SignUp)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(dep.JWTManager))
		r.Get("/profile", dep.UserHandler.Me)
		r.Put("/profile", dep.UserHandler.UpdateMe)
		r.Get("/users", dep.UserHandler.Browse)
		r.Route("/profiles/{userID}", func(r chi.Router) {
			r.Get("/", dep.ProfileHandler.Get)
			r.Post("/", dep.ProfileHandler.Create)
			r.Put("/", dep.ProfileHandler.Update)
			r.Delete("/", dep.ProfileHandler.Delete)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
