package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"matrimony-backend/internal/app"
	"matrimony-backend/internal/config"
	"matrimony-backend/internal/database"
	"matrimony-backend/internal/health"
	"matrimony-backend/internal/http/handler"
	"matrimony-backend/internal/http/router"
	"matrimony-backend/internal/observability"
	"matrimony-backend/internal/otp"
	"matrimony-backend/internal/repository"
	"matrimony-backend/internal/security"
	"matrimony-backend/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideRedisClient,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewProfileRepository,
)

var SecuritySet = wire.NewSet(
	provideJWTManager,
)

var ServiceSet = wire.NewSet(
	provideTokenService,
	provideOTPStore,
	provideOTPSender,
	provideOTPService,
	service.NewGoogleOAuthProvider,
	wire.Bind(new(service.OAuthProvider), new(*service.GoogleOAuthProvider)),
	service.NewAuthService,
	service.NewOAuthService,
	service.NewUserService,
	service.NewProfileService,
)

var HTTPSet = wire.NewSet(
	provideAuthHandler,
	handler.NewUserHandler,
	handler.NewProfileHandler,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(provideApp)

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

func provideRuntimeDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func provideRedisClient(cfg *config.Config) redis.UniversalClient {
	return redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
}

func provideReadinessProbeRunner(db *gorm.DB, redisClient redis.UniversalClient) *health.ProbeRunner {
	return health.NewProbeRunner(2*time.Second, 0,
		health.NewDBChecker(db),
		health.NewRedisChecker(redisClient),
	)
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSecret)
}

func provideTokenService(cfg *config.Config, jwt *security.JWTManager) *service.TokenService {
	return service.NewTokenService(jwt, cfg.JWTTTL)
}

func provideOTPStore(cfg *config.Config, redisClient redis.UniversalClient) *otp.RedisStore {
	return otp.NewRedisStore(redisClient, "otp", cfg.OTPLength, cfg.OTPTTL)
}

func provideOTPSender(logger *slog.Logger) otp.Sender {
	return otp.NewLogSender(logger)
}

func provideOTPService(cfg *config.Config, store *otp.RedisStore, sender otp.Sender) *otp.Service {
	return otp.NewService(store, sender, cfg.OTPLength)
}

func provideAuthHandler(authSvc *service.AuthService, oauthSvc *service.OAuthService, cfg *config.Config) *handler.AuthHandler {
	return handler.NewAuthHandler(authSvc, oauthSvc, cfg.StateSigningSecret)
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	profileHandler *handler.ProfileHandler,
	jwt *security.JWTManager,
	readiness *health.ProbeRunner,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		ProfileHandler: profileHandler,
		JWTManager:     jwt,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		Readiness:      readiness,
		EnableOTelHTTP: cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func provideApp(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	db *gorm.DB,
	redisClient redis.UniversalClient,
	readiness *health.ProbeRunner,
) *app.App {
	return app.New(cfg, logger, server, runtime, db, redisClient, readiness)
}
