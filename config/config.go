package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Remote catalog data source
	CatalogAPIURL      string
	CatalogHTTPTimeout time.Duration

	// View defaults
	DefaultPageSize int
	MaxPageSize     int
	SessionTTL      time.Duration

	// Auth for the edit surface
	JWTSecret         string
	AccessTokenExpiry time.Duration
	AdminAPIKey       string

	AllowedOrigin string

	// Rate limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Cache
	CacheCategoryTTL time.Duration

	// R2 Export Archive (optional; archive endpoint disabled when unset)
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2PublicURL       string
	R2UploadTimeout   time.Duration
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: Try loading .env (standard local dev)
		// In docker/prod envs .env usually does not exist and system env
		// vars are the source of truth, so a missing file is not an error.
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CatalogAPIURL:      getEnv("CATALOG_API_URL", "https://api.escuelajs.co/api/v1"),
		CatalogHTTPTimeout: getDurationEnv("CATALOG_HTTP_TIMEOUT", 15*time.Second),

		DefaultPageSize: getIntEnv("DEFAULT_PAGE_SIZE", 10),
		MaxPageSize:     getIntEnv("MAX_PAGE_SIZE", 100),
		SessionTTL:      getDurationEnv("SESSION_TTL", 30*time.Minute),

		JWTSecret:         getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),
		AccessTokenExpiry: getDurationEnv("ACCESS_TOKEN_EXPIRY", time.Hour*24),
		AdminAPIKey:       getEnv("ADMIN_API_KEY", ""),

		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		RateLimitRPS:   getIntEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),

		CacheCategoryTTL: getDurationEnv("CACHE_CATEGORY_TTL", 30*time.Minute),

		// R2 Export Archive
		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),
		R2UploadTimeout:   getDurationEnv("R2_UPLOAD_TIMEOUT", 30*time.Second),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.CatalogAPIURL == "" {
		log.Fatal("CRITICAL: CATALOG_API_URL environment variable is required")
	}
	if c.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
	}
	if c.AdminAPIKey == "" {
		log.Println("WARNING: ADMIN_API_KEY is empty; token issuance is disabled")
	}
	if c.DefaultPageSize < 1 || c.DefaultPageSize > c.MaxPageSize {
		log.Fatal("CRITICAL: DEFAULT_PAGE_SIZE must be positive and not exceed MAX_PAGE_SIZE")
	}
}

// ArchiveConfigured reports whether the optional R2 export archive is set up.
func (c *Config) ArchiveConfigured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2AccessKeySecret != "" && c.R2BucketName != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}
