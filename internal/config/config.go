package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values. Every knob has a hardcoded
// fallback so a bare checkout boots; the JWT secrets MUST be overridden
// before any real deployment.
type Config struct {
	Port string
	Env  string

	UseMemoryStore bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret     string
	JWTExpiry     time.Duration
	RefreshSecret string
	RefreshExpiry time.Duration

	OTPExpiry      time.Duration
	MaxOTPAttempts int

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
}

// Load reads environment variables and returns a populated Config.
func Load() *Config {
	// Load .env file for local development
	if err := godotenv.Load(".env"); err != nil {
		if err := godotenv.Load("environments/.env.development"); err != nil {
			log.Println("⚠️  No .env file found - checking environment variables")
		}
	}

	cfg := &Config{
		Port:             getEnv("PORT", "5002"),
		Env:              getEnv("APP_ENV", "development"),
		UseMemoryStore:   getEnv("USE_MEMORY_STORE", "false") == "true",
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		JWTSecret:        getEnv("JWT_SECRET", "fallback_jwt_secret"),
		JWTExpiry:        getEnvHours("JWT_EXPIRES_IN_HOURS", 24),
		RefreshSecret:    getEnv("REFRESH_TOKEN_SECRET", "fallback_refresh_secret"),
		RefreshExpiry:    getEnvHours("REFRESH_TOKEN_EXPIRES_IN_HOURS", 7*24),
		OTPExpiry:        getEnvMinutes("OTP_EXPIRY_MINUTES", 2),
		MaxOTPAttempts:   getEnvInt("MAX_OTP_RETRIES", 3),
		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFrom:       getEnv("TWILIO_PHONE_NUMBER", ""),
	}

	if cfg.JWTSecret == "fallback_jwt_secret" || cfg.RefreshSecret == "fallback_refresh_secret" {
		log.Println("⚠️  Using fallback JWT secrets - set JWT_SECRET and REFRESH_TOKEN_SECRET in production!")
	}

	return cfg
}

// IsProduction reports whether the app runs with production hardening
// (plaintext OTP codes are never echoed back in production).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvHours(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Hour
}

func getEnvMinutes(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Minute
}
