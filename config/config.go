package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Debug    bool   `env:"DEBUG" envDefault:"false"`
	LogDir   string `env:"LOG_DIR" envDefault:"logs"`
	GinMode  string `env:"GIN_MODE" envDefault:"release"`
	AppURL   string `env:"APP_URL" envDefault:"http://localhost:3000"`

	// Database
	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME" envDefault:"bl1nk"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"bl1nk.db"`

	// Redis is optional; an empty address disables caching, the chat limiter and token revocation.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret        string        `env:"JWT_SECRET" envDefault:"change-me"`
	JWTTTL           time.Duration `env:"JWT_TTL" envDefault:"72h"`
	EncryptionSecret string        `env:"ENCRYPTION_SECRET" envDefault:"change-me-too"`

	// Content sources
	GitHubAPIURL     string        `env:"GITHUB_API_URL" envDefault:"https://api.github.com"`
	GitHubUsername   string        `env:"GITHUB_USERNAME"`
	GitHubToken      string        `env:"GITHUB_TOKEN"`
	NotionAPIURL     string        `env:"NOTION_API_URL" envDefault:"https://api.notion.com/v1"`
	NotionToken      string        `env:"NOTION_TOKEN"`
	NotionDatabaseID string        `env:"NOTION_DATABASE_ID"`
	CraftAPIURL      string        `env:"CRAFT_API_URL" envDefault:"https://connect.craft.do/links/2McInshMfLC/api/v1"`
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`
	CacheTTL         time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	// Cron expression for refreshing cached source listings; empty disables the job.
	CacheWarmSchedule  string `env:"CACHE_WARM_SCHEDULE"`
	ContentCatalogPath string `env:"CONTENT_CATALOG_PATH"`
	AgentSeedPath      string `env:"AGENT_SEED_PATH"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	// OAuth
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleSecret       string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirect     string `env:"GOOGLE_REDIRECT_URI"`
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubRedirect     string `env:"GITHUB_REDIRECT_URI"`
	// Open ids granted the admin role on sign-in.
	AdminOpenIDs []string `env:"ADMIN_OPEN_IDS" envSeparator:","`

	// Mail (welcome message on first sign-in)
	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`

	ChatRatePerMinute int `env:"CHAT_RATE_PER_MINUTE" envDefault:"20"`
}

// DefaultCORSOrigins is used when CORS_ORIGINS is unset or empty.
var DefaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

var current *Config

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	current = cfg
	return cfg, nil
}

// Get returns the last loaded config, loading defaults if nothing was loaded yet.
func Get() *Config {
	if current == nil {
		cfg := &Config{}
		_ = env.Parse(cfg)
		current = cfg
	}
	return current
}

// Set replaces the active config. Used by tests.
func Set(cfg *Config) {
	current = cfg
}

// DSN builds the postgres connection string, preferring DATABASE_URL.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// IsAdminOpenID reports whether the given open id is configured as admin.
func (c *Config) IsAdminOpenID(openID string) bool {
	for _, id := range c.AdminOpenIDs {
		if id == openID {
			return true
		}
	}
	return false
}
