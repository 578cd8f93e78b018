package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// UploadDir is where multipart uploads land; served under /uploads.
	UploadDir string

	// SSEKeepaliveInterval bounds how long a live notification channel may
	// stay silent before a keep-alive event is emitted.
	SSEKeepaliveInterval time.Duration

	// RateLimit uses the limiter formatted syntax, e.g. "100-M".
	RateLimit string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "orghub-backend")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("SSE_KEEPALIVE_INTERVAL", "15s")
	viper.SetDefault("RATE_LIMIT", "300-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 24 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.UploadDir = viper.GetString("UPLOAD_DIR")

	keepaliveStr := viper.GetString("SSE_KEEPALIVE_INTERVAL")
	keepalive, err := time.ParseDuration(keepaliveStr)
	if err != nil || keepalive <= 0 {
		keepalive = 15 * time.Second
		log.Printf("Warning: Invalid value for SSE_KEEPALIVE_INTERVAL ('%s'). Defaulting to %s.\n", keepaliveStr, keepalive)
	}
	cfg.SSEKeepaliveInterval = keepalive

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
