package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environments recognised by both binaries.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// RedisConfig configures the optional Redis session backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Site captures configuration of the site backend (cmd/server).
type Site struct {
	Addr           string
	Environment    string
	LogLevel       string
	ContentAPIURL  string
	ContentTimeout time.Duration
	// CookieDomains lists every domain variant the site has been served under.
	// Google Analytics cookies are swept from each one on revocation.
	CookieDomains  []string
	SecureCookies  bool
	SessionTTL     time.Duration
	TrustedProxies string
	RequestTimeout time.Duration
	Redis          RedisConfig
	Analytics      Analytics
}

// Analytics configures the GA4 measurement protocol tracker.
type Analytics struct {
	MeasurementID string
	APISecret     string
	Endpoint      string
}

// API captures configuration of the content API (cmd/api).
type API struct {
	Addr           string
	Environment    string
	LogLevel       string
	DatabaseURL    string
	TokenSecret    string
	TokenInterval  time.Duration
	AllowedOrigins []string
	TrustedProxies string
	RequestTimeout time.Duration
	SMTP           SMTP
}

// SMTP configures contact mail delivery.
type SMTP struct {
	Server           string
	Port             int
	Username         string
	Password         string
	From             string
	InfoRecipient    string
	WebmasterAddress string
}

// ErrMissingContentAPIURL is returned when the site cannot reach content.
var ErrMissingContentAPIURL = errors.New("CONTENT_API_URL is required")

// LoadDotEnv loads a .env file when present. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// SiteFromEnv builds the site config from environment variables.
func SiteFromEnv() (Site, error) {
	cfg := Site{
		Addr:           getenv("SITE_ADDR", ":3000"),
		Environment:    getenv("ENVIRONMENT", EnvDevelopment),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		ContentAPIURL:  strings.TrimRight(os.Getenv("CONTENT_API_URL"), "/"),
		ContentTimeout: getDuration("CONTENT_API_TIMEOUT", 5*time.Second),
		SessionTTL:     getDuration("SESSION_TTL", 24*time.Hour),
		TrustedProxies: os.Getenv("TRUSTED_PROXIES"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second),
		Redis:          redisFromEnv(),
		Analytics: Analytics{
			MeasurementID: os.Getenv("GA_MEASUREMENT_ID"),
			APISecret:     os.Getenv("GA_API_SECRET"),
			Endpoint:      getenv("GA_ENDPOINT", "https://www.google-analytics.com/mp/collect"),
		},
	}
	cfg.SecureCookies = getBool("SECURE_COOKIES", cfg.Environment == EnvProduction)

	defaultDomains := "localhost,.asuscomm.com"
	if cfg.Environment == EnvProduction {
		defaultDomains = "paraisodeljamon.com,.paraisodeljamon.com"
	}
	cfg.CookieDomains = splitList(getenv("COOKIE_DOMAINS", defaultDomains))

	if cfg.ContentAPIURL == "" {
		return cfg, ErrMissingContentAPIURL
	}
	return cfg, nil
}

// APIFromEnv builds the content API config from environment variables.
func APIFromEnv() (API, error) {
	cfg := API{
		Addr:           getenv("API_ADDR", ":8000"),
		Environment:    getenv("ENVIRONMENT", EnvDevelopment),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		TokenSecret:    os.Getenv("TOKEN_SECRET"),
		TokenInterval:  getDuration("TOKEN_INTERVAL", 5*time.Minute),
		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS", "http://localhost:3000")),
		TrustedProxies: os.Getenv("TRUSTED_PROXIES"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second),
		SMTP: SMTP{
			Server:           os.Getenv("SMTP_SERVER"),
			Port:             getInt("SMTP_PORT", 587),
			Username:         os.Getenv("SMTP_USERNAME"),
			Password:         os.Getenv("SMTP_PASSWORD"),
			From:             os.Getenv("SMTP_FROM"),
			InfoRecipient:    getenv("CONTACT_INFO_RECIPIENT", "info@paraisodeljamon.com"),
			WebmasterAddress: getenv("CONTACT_WEBMASTER_RECIPIENT", "webmaster@paraisodeljamon.com"),
		},
	}

	if cfg.TokenSecret == "" {
		if cfg.Environment == EnvProduction {
			return cfg, errors.New("TOKEN_SECRET is required in production")
		}
		cfg.TokenSecret = "dev-token-secret-change-in-production"
	}
	if cfg.SMTP.From == "" && strings.Contains(cfg.SMTP.Username, "@") {
		cfg.SMTP.From = cfg.SMTP.Username
	}
	if cfg.Environment == EnvProduction && cfg.SMTP.Server == "" {
		return cfg, errors.New("SMTP_SERVER is required in production")
	}
	if cfg.TokenInterval <= 0 {
		return cfg, fmt.Errorf("TOKEN_INTERVAL must be positive, got %s", cfg.TokenInterval)
	}
	return cfg, nil
}

func redisFromEnv() RedisConfig {
	return RedisConfig{
		URL:          os.Getenv("REDIS_URL"),
		PoolSize:     getInt("REDIS_POOL_SIZE", 10),
		MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
