package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the service configuration, parsed from environment variables.
type Config struct {
	Env       string `env:"APP_ENV"   envDefault:"development"`
	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":8080"`
	ClientURL string `env:"CLIENT_URL" envDefault:"http://localhost:3000"`

	MongoURI      string `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"storefront"`

	Token  TokenConfig
	Google GoogleConfig
}

// TokenConfig holds per-kind signing secrets and lifetimes. Each token kind
// has its own secret so one kind can never be replayed as another.
type TokenConfig struct {
	Issuer string `env:"TOKEN_ISSUER" envDefault:"storefront-auth"`

	AccessTokenSecret    string        `env:"ACCESS_TOKEN_SECRET"`
	AccessTokenExpiresIn time.Duration `env:"ACCESS_TOKEN_EXPIRES_IN" envDefault:"1h"`

	RefreshTokenSecret    string        `env:"REFRESH_TOKEN_SECRET"`
	RefreshTokenExpiresIn time.Duration `env:"REFRESH_TOKEN_EXPIRES_IN" envDefault:"168h"`

	PasswordResetTokenSecret    string        `env:"PASSWORD_RESET_TOKEN_SECRET"`
	PasswordResetTokenExpiresIn time.Duration `env:"PASSWORD_RESET_TOKEN_EXPIRES_IN" envDefault:"30m"`

	VerificationTokenSecret    string        `env:"VERIFICATION_TOKEN_SECRET"`
	VerificationTokenExpiresIn time.Duration `env:"VERIFICATION_TOKEN_EXPIRES_IN" envDefault:"24h"`
}

// GoogleConfig holds the OAuth client used for federated login.
type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `env:"GOOGLE_REDIRECT_URL"`
}

// Load parses the configuration from environment variables.
func Load(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// IsProduction reports whether the service runs with production cookie policy.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	secrets := map[string]string{
		"ACCESS_TOKEN_SECRET":         c.Token.AccessTokenSecret,
		"REFRESH_TOKEN_SECRET":        c.Token.RefreshTokenSecret,
		"PASSWORD_RESET_TOKEN_SECRET": c.Token.PasswordResetTokenSecret,
		"VERIFICATION_TOKEN_SECRET":   c.Token.VerificationTokenSecret,
	}

	for name, value := range secrets {
		if value == "" {
			return fmt.Errorf("missing %s environment variable", name)
		}
	}

	return nil
}
