package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=4000"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// ClientOrigin is the base URL used in emailed links and the OAuth
	// callback redirect.
	ClientOrigin string `env:"CLIENT_ORIGIN, default=http://localhost:3000"`

	JWT    JWTConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	OAuth  OAuthConfig
	Mailer MailerConfig
}

// JWTConfig holds one independent secret/TTL pair per token kind. Distinct
// secrets are what keep a token signed for one kind from verifying in
// another kind's context.
type JWTConfig struct {
	AccessSecret      string        `env:"JWT_SECRET_ACCESS_TOKEN, required"`
	AccessTTL         time.Duration `env:"JWT_ACCESS_TOKEN_TTL,    default=15m"`
	RefreshSecret     string        `env:"JWT_SECRET_REFRESH_TOKEN, required"`
	RefreshTTL        time.Duration `env:"JWT_REFRESH_TOKEN_TTL,   default=2400h"`
	EmailVerifySecret string        `env:"JWT_SECRET_EMAIL_VERIFY_TOKEN, required"`
	EmailVerifyTTL    time.Duration `env:"JWT_EMAIL_VERIFY_TOKEN_TTL, default=168h"`
	ForgotSecret      string        `env:"JWT_SECRET_FORGOT_PASSWORD_TOKEN, required"`
	ForgotTTL         time.Duration `env:"JWT_FORGOT_PASSWORD_TOKEN_TTL, default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=social_api"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type OAuthConfig struct {
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `env:"GOOGLE_REDIRECT_URI"`
}

type MailerConfig struct {
	Workers  int           `env:"MAILER_WORKERS,  default=4"`
	Cooldown time.Duration `env:"MAILER_COOLDOWN, default=1m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
