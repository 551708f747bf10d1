package envcheck

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Result reports the outcome of a validation pass.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// jwtSecretVars are the token-signing secrets checked by ValidateRequired.
var jwtSecretVars = []string{"JWT_ACCESS_SECRET", "JWT_REFRESH_SECRET"}

// pairedServiceVars lists credential pairs where configuring only one half
// indicates an incomplete integration.
var pairedServiceVars = [][2]string{
	{"STRIPE_PUBLISHABLE_KEY", "STRIPE_SECRET_KEY"},
	{"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET"},
	{"GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET"},
}

// optionalServiceVars are standalone third-party keys the service can run without.
var optionalServiceVars = []string{
	"SMTP_HOST",
	"SENDGRID_API_KEY",
	"OPENAI_API_KEY",
	"ANTHROPIC_API_KEY",
}

// ValidateRequired checks the variables the service cannot safely run without.
// In production, missing or weak JWT secrets are errors; in development they
// degrade to warnings. Identical access and refresh secrets are always an
// error regardless of mode.
func ValidateRequired(env Environment, production bool) Result {
	result := Result{}

	for _, name := range jwtSecretVars {
		value := env.Get(name)
		var problem string
		switch {
		case value == "":
			problem = fmt.Sprintf("%s is not set", name)
		case len(value) < minSecretLength:
			problem = fmt.Sprintf("%s must be at least %d characters", name, minSecretLength)
		}
		if problem == "" {
			continue
		}
		if production {
			result.Errors = append(result.Errors, problem)
		} else {
			result.Warnings = append(result.Warnings, problem)
		}
	}

	access, refresh := env.Get("JWT_ACCESS_SECRET"), env.Get("JWT_REFRESH_SECRET")
	if access != "" && access == refresh {
		result.Errors = append(result.Errors, "JWT_SECRETS: access and refresh secrets must differ")
	}

	if err := validateDatabaseURL(env.Get("DATABASE_URL")); err != nil {
		if production {
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.Warnings = append(result.Warnings, err.Error())
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// ValidateOptional checks third-party integrations. Missing keys only warn;
// the service must start without any of them. Paired credentials warn when
// only one half of the pair is configured.
func ValidateOptional(env Environment) Result {
	result := Result{Valid: true}

	for _, name := range optionalServiceVars {
		if !env.Has(name) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s is not configured; dependent features are disabled", name))
		}
	}

	for _, pair := range pairedServiceVars {
		first, second := env.Has(pair[0]), env.Has(pair[1])
		if first != second {
			missing := pair[0]
			if first {
				missing = pair[1]
			}
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s is set but %s is missing; the pair must be configured together", other(pair, missing), missing))
		}
	}

	return result
}

func other(pair [2]string, missing string) string {
	if pair[0] == missing {
		return pair[1]
	}
	return pair[0]
}

// validateDatabaseURL requires a parseable PostgreSQL connection string.
// A syntactically valid URL with a different scheme (e.g. mysql) is reported
// distinctly from a malformed one.
func validateDatabaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("DATABASE_URL is not a valid connection string")
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "postgres" && scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL must use the postgres scheme, got %q", parsed.Scheme)
	}

	return nil
}

// Defaults applied by SecureConfig when optional variables are absent.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
	DefaultCORSOrigin      = "http://localhost:5173"
)

// JWTConfig holds token-signing material and lifetimes.
type JWTConfig struct {
	AccessSecret    string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// SecurityConfig holds request-level security settings.
type SecurityConfig struct {
	CORSOrigin   string
	CookieSecret string
}

// ServiceKeys holds optional third-party credentials.
type ServiceKeys struct {
	SendgridAPIKey     string
	StripeSecretKey    string
	OpenAIAPIKey       string
	GoogleClientID     string
	GoogleClientSecret string
}

// EnvironmentConfig is the validated, typed view over raw process
// configuration. Built once at startup and immutable thereafter.
type EnvironmentConfig struct {
	JWT         JWTConfig
	DatabaseURL string
	Security    SecurityConfig
	Services    ServiceKeys
}

// SecureConfig builds the typed runtime configuration, applying documented
// defaults when optional variables are absent. Callers should run
// ValidateRequired first; SecureConfig does not re-verify secret strength.
func SecureConfig(env Environment) (*EnvironmentConfig, error) {
	accessTTL, err := durationOrDefault(env.Get("JWT_ACCESS_TOKEN_EXPIRY"), DefaultAccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("parse JWT_ACCESS_TOKEN_EXPIRY: %w", err)
	}
	refreshTTL, err := durationOrDefault(env.Get("JWT_REFRESH_TOKEN_EXPIRY"), DefaultRefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("parse JWT_REFRESH_TOKEN_EXPIRY: %w", err)
	}

	corsOrigin := env.Get("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = DefaultCORSOrigin
	}

	return &EnvironmentConfig{
		JWT: JWTConfig{
			AccessSecret:    env.Get("JWT_ACCESS_SECRET"),
			RefreshSecret:   env.Get("JWT_REFRESH_SECRET"),
			AccessTokenTTL:  accessTTL,
			RefreshTokenTTL: refreshTTL,
		},
		DatabaseURL: env.Get("DATABASE_URL"),
		Security: SecurityConfig{
			CORSOrigin:   corsOrigin,
			CookieSecret: env.Get("COOKIE_SECRET"),
		},
		Services: ServiceKeys{
			SendgridAPIKey:     env.Get("SENDGRID_API_KEY"),
			StripeSecretKey:    env.Get("STRIPE_SECRET_KEY"),
			OpenAIAPIKey:       env.Get("OPENAI_API_KEY"),
			GoogleClientID:     env.Get("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: env.Get("GOOGLE_CLIENT_SECRET"),
		},
	}, nil
}

func durationOrDefault(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return fallback, nil
	}
	return parsed, nil
}
