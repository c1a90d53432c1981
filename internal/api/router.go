package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/chirpnet/social-api/docs"
	"github.com/chirpnet/social-api/internal/api/handler"
	"github.com/chirpnet/social-api/internal/api/middleware"
	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
	"github.com/chirpnet/social-api/internal/core/service"
	"github.com/chirpnet/social-api/internal/infrastructure/config"
	mongodb "github.com/chirpnet/social-api/internal/infrastructure/db/mongo"
	redisdb "github.com/chirpnet/social-api/internal/infrastructure/db/redis"
	"github.com/chirpnet/social-api/internal/infrastructure/oauth"
)

// Dependencies carries the externally constructed clients the router wires
// into handlers. Everything else (repositories, services) is built here.
type Dependencies struct {
	Config *config.Config
	DB     *mongo.Database
	Redis  *redis.Client
	Mail   ports.MailQueue
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("social"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(deps.DB)
	refreshRepo := mongodb.NewRefreshTokenRepository(deps.DB)
	tweetRepo := mongodb.NewTweetRepository(deps.DB)

	// --- Services ---
	cfg := deps.Config
	codec := service.NewTokenCodec(codecKinds(cfg.JWT))
	sessions := service.NewSessionService(codec, refreshRepo, deps.Log)
	provider := oauth.NewGoogleProvider(oauth.GoogleConfig{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURI:  cfg.OAuth.GoogleRedirectURI,
	})
	cooldown := redisdb.NewCooldownLimiter(deps.Redis, cfg.Mailer.Cooldown)

	authService := service.NewAuthService(userRepo, sessions, codec, provider, deps.Mail, deps.Log)
	verification := service.NewVerificationService(userRepo, sessions, codec, deps.Mail, cooldown, deps.Log)
	tweetService := service.NewTweetService(tweetRepo, userRepo, deps.Log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, sessions, cfg.ClientOrigin)
	userHandler := handler.NewUserHandler(authService, verification)
	tweetHandler := handler.NewTweetHandler(tweetService)

	requireAuth := middleware.RequireAuth(codec)
	optionalAuth := middleware.OptionalAuth(codec)
	requireVerified := middleware.RequireVerified()

	// --- User/session routes ---
	users := e.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/logout", authHandler.Logout)
	users.POST("/refresh-token", authHandler.Refresh)
	users.GET("/oauth/google", authHandler.OAuthGoogle)
	users.POST("/verify-email", userHandler.VerifyEmail)
	users.POST("/resend-verify-email", userHandler.ResendVerifyEmail, requireAuth)
	users.POST("/forgot-password", userHandler.ForgotPassword)
	users.POST("/verify-forgot-password", userHandler.VerifyForgotPassword)
	users.POST("/reset-password", userHandler.ResetPassword)
	users.PUT("/change-password", userHandler.ChangePassword, requireAuth, requireVerified)
	users.GET("/me", userHandler.GetMe, requireAuth)
	users.PUT("/me/circle", userHandler.SetCircle, requireAuth, requireVerified)

	// --- Tweet routes ---
	tweets := e.Group("/tweets")
	tweets.POST("", tweetHandler.CreateTweet, requireAuth, requireVerified)
	tweets.GET("/:tweet_id", tweetHandler.GetTweet, optionalAuth)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}

// codecKinds maps the configured secret/TTL pairs onto token kinds.
func codecKinds(cfg config.JWTConfig) map[domain.TokenKind]service.KindConfig {
	return map[domain.TokenKind]service.KindConfig{
		domain.KindAccessToken:         {Secret: cfg.AccessSecret, TTL: cfg.AccessTTL},
		domain.KindRefreshToken:        {Secret: cfg.RefreshSecret, TTL: cfg.RefreshTTL},
		domain.KindEmailVerifyToken:    {Secret: cfg.EmailVerifySecret, TTL: cfg.EmailVerifyTTL},
		domain.KindForgotPasswordToken: {Secret: cfg.ForgotSecret, TTL: cfg.ForgotTTL},
	}
}
