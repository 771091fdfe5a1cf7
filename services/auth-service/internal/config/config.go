package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vasapolrittideah/islamic-app-api/shared/mailer"
	"github.com/vasapolrittideah/islamic-app-api/shared/security"
)

// DevelopmentJWTSecret is the signing secret used when JWT_SECRET is unset.
// It must never be used in production.
const DevelopmentJWTSecret = "your-fallback-secret-key-change-in-production"

// AuthServiceConfig holds the immutable configuration of the auth service.
type AuthServiceConfig struct {
	Environment    string `env:"APP_ENV"          envDefault:"development"`
	LogLevel       string `env:"LOG_LEVEL"        envDefault:"info"`
	HTTPAddr       string `env:"HTTP_ADDR"        envDefault:":5000"`
	GRPCHealthAddr string `env:"GRPC_HEALTH_ADDR" envDefault:":5001"`
	ClientURL      string `env:"CLIENT_URL"       envDefault:"http://localhost:3000"`
	ConsulAddr     string `env:"CONSUL_ADDR"`

	Mongo    MongoConfig
	Token    TokenConfig
	Password PasswordConfig
	Lockout  LockoutConfig
	SMTP     mailer.Config
}

// MongoConfig holds the datastore address.
type MongoConfig struct {
	URI      string `env:"MONGODB_URI"      envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGODB_DATABASE" envDefault:"islamic-app"`
}

// TokenConfig holds session signing and the expiry windows of one-time artifacts.
type TokenConfig struct {
	Issuer                  string        `env:"JWT_ISSUER"                envDefault:"islamic-app"`
	Secret                  string        `env:"JWT_SECRET"`
	SessionExpiresIn        time.Duration `env:"JWT_EXPIRE"                envDefault:"168h"`
	VerificationCodeExpires time.Duration `env:"VERIFICATION_CODE_EXPIRE"  envDefault:"15m"`
	VerificationLinkExpires time.Duration `env:"VERIFICATION_TOKEN_EXPIRE" envDefault:"24h"`
	PasswordResetExpires    time.Duration `env:"RESET_TOKEN_EXPIRE"        envDefault:"10m"`
}

// PasswordConfig selects the secret hasher.
type PasswordConfig struct {
	Algorithm  string `env:"HASH_ALGORITHM" envDefault:"bcrypt"`
	BcryptCost int    `env:"BCRYPT_ROUNDS"  envDefault:"12"`
}

// LockoutConfig controls login-attempt lockout.
type LockoutConfig struct {
	MaxAttempts  int           `env:"LOGIN_MAX_ATTEMPTS"  envDefault:"5"`
	LockDuration time.Duration `env:"LOGIN_LOCK_DURATION" envDefault:"2h"`
}

// IsProduction reports whether the service runs in production mode.
func (c *AuthServiceConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Load parses the configuration from the process environment.
func Load() (*AuthServiceConfig, error) {
	return parse(os.Environ())
}

func parse(environ []string) (*AuthServiceConfig, error) {
	vars := env.ToMap(environ)

	cfg, err := env.ParseAsWithOptions[AuthServiceConfig](env.Options{Environment: vars})
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if cfg.Token.Secret == "" && cfg.Environment != "production" {
		cfg.Token.Secret = DevelopmentJWTSecret
	}

	if err := cfg.validate(vars); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AuthServiceConfig) validate(vars map[string]string) error {
	var errs []error

	if c.IsProduction() {
		if vars["JWT_SECRET"] == "" || c.Token.Secret == DevelopmentJWTSecret {
			errs = append(errs, errors.New("missing required environment variable JWT_SECRET"))
		}
		if vars["MONGODB_URI"] == "" {
			errs = append(errs, errors.New("missing required environment variable MONGODB_URI"))
		}
	}

	if c.Token.SessionExpiresIn <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRE must be positive"))
	}
	if c.Token.VerificationCodeExpires <= 0 || c.Token.VerificationLinkExpires <= 0 || c.Token.PasswordResetExpires <= 0 {
		errs = append(errs, errors.New("verification and reset expiry windows must be positive"))
	}
	if c.Password.Algorithm != security.AlgorithmBcrypt && c.Password.Algorithm != security.AlgorithmArgon2id {
		errs = append(errs, fmt.Errorf("unsupported HASH_ALGORITHM %q", c.Password.Algorithm))
	}
	if c.Lockout.MaxAttempts <= 0 || c.Lockout.LockDuration <= 0 {
		errs = append(errs, errors.New("LOGIN_MAX_ATTEMPTS and LOGIN_LOCK_DURATION must be positive"))
	}
	if err := c.SMTP.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
