package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

const (
	defaultAddress         = ":4001"
	defaultDriver          = "mysql"
	defaultAccessTokenTTL  = 2 * time.Hour
	defaultRefreshTokenTTL = 30 * 24 * time.Hour
	defaultResetTokenTTL   = 15 * time.Minute
	defaultListingCacheTTL = 30 * time.Second
	defaultHistoryLimit    = 200
	defaultNATSSubject     = "chat.messages"
	defaultBoardRefresh    = time.Minute
)

type Config struct {
	Server struct {
		Address        string   `yaml:"address" env:"ADDRESS"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
		AuthRateLimit  string   `yaml:"auth_rate_limit" env:"AUTH_RATE_LIMIT"`
		// BoardRefresh is how often the shared listing board reloads from the store.
		BoardRefresh time.Duration `yaml:"board_refresh" env:"BOARD_REFRESH"`
	} `yaml:"server" envPrefix:"SERVER_"`
	Database struct {
		Driver string `yaml:"driver" env:"DRIVER"`
		URL    string `yaml:"url" env:"URL"`
	} `yaml:"database" envPrefix:"DATABASE_"`
	Auth struct {
		SigningKey      string        `yaml:"signing_key" env:"SIGNING_KEY"`
		ResetSigningKey string        `yaml:"reset_signing_key" env:"RESET_SIGNING_KEY"`
		AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL"`
		RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL"`
		ResetTokenTTL   time.Duration `yaml:"reset_token_ttl" env:"RESET_TOKEN_TTL"`
	} `yaml:"auth" envPrefix:"AUTH_"`
	Redis struct {
		Addr            string        `yaml:"addr" env:"ADDR"`
		Password        string        `yaml:"password" env:"PASSWORD"`
		DB              int           `yaml:"db" env:"DB"`
		ListingCacheTTL time.Duration `yaml:"listing_cache_ttl" env:"LISTING_CACHE_TTL"`
	} `yaml:"redis" envPrefix:"REDIS_"`
	NATS struct {
		URL     string `yaml:"url" env:"URL"`
		Subject string `yaml:"subject" env:"SUBJECT"`
	} `yaml:"nats" envPrefix:"NATS_"`
	Storage struct {
		AccessKey string `yaml:"access_key" env:"ACCESS_KEY"`
		SecretKey string `yaml:"secret_key" env:"SECRET_KEY"`
		Bucket    string `yaml:"bucket" env:"BUCKET"`
		Region    string `yaml:"region" env:"REGION"`
		Endpoint  string `yaml:"endpoint" env:"ENDPOINT"`
		PublicURL string `yaml:"public_url" env:"PUBLIC_URL"`
	} `yaml:"storage" envPrefix:"S3_"`
	Firebase struct {
		CredentialsFile string `yaml:"credentials_file" env:"CREDENTIALS_FILE"`
	} `yaml:"firebase" envPrefix:"FIREBASE_"`
	Chat struct {
		HistoryLimit int `yaml:"history_limit" env:"HISTORY_LIMIT"`
	} `yaml:"chat" envPrefix:"CHAT_"`
	// StaticListingsFile optionally points at a YAML list of listings merged into every browse.
	StaticListingsFile string `yaml:"static_listings_file" env:"STATIC_LISTINGS_FILE"`
}

// Load reads the YAML file at path (skipped when path is empty or missing),
// overlays environment variables and applies defaults.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("unmarshal config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" && cfg.Server.Address == "" {
		cfg.Server.Address = ":" + port
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.Server.AuthRateLimit == "" {
		c.Server.AuthRateLimit = "20-M"
	}
	if c.Server.BoardRefresh <= 0 {
		c.Server.BoardRefresh = defaultBoardRefresh
	}
	if c.Database.Driver == "" {
		c.Database.Driver = defaultDriver
	}
	if c.Auth.AccessTokenTTL <= 0 {
		c.Auth.AccessTokenTTL = defaultAccessTokenTTL
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		c.Auth.RefreshTokenTTL = defaultRefreshTokenTTL
	}
	if c.Auth.ResetTokenTTL <= 0 {
		c.Auth.ResetTokenTTL = defaultResetTokenTTL
	}
	if c.Auth.ResetSigningKey == "" {
		c.Auth.ResetSigningKey = c.Auth.SigningKey + ":reset"
	}
	if c.Redis.ListingCacheTTL <= 0 {
		c.Redis.ListingCacheTTL = defaultListingCacheTTL
	}
	if c.NATS.Subject == "" {
		c.NATS.Subject = defaultNATSSubject
	}
	if c.Chat.HistoryLimit <= 0 {
		c.Chat.HistoryLimit = defaultHistoryLimit
	}
}

// Validate checks the settings the service cannot start without.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("config: database url is required")
	}
	if c.Database.Driver != "mysql" && c.Database.Driver != "pgx" {
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if c.Auth.SigningKey == "" {
		return errors.New("config: auth signing key is required")
	}
	if c.Storage.Bucket != "" && (c.Storage.AccessKey == "" || c.Storage.SecretKey == "") {
		return errors.New("config: storage credentials incomplete")
	}
	return nil
}

// LoadStaticListings reads the optional seed listings file. A missing path yields no listings.
func LoadStaticListings(path string) ([]models.JobListing, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read static listings: %w", err)
	}
	var listings []models.JobListing
	if err := yaml.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("unmarshal static listings: %w", err)
	}
	for i := range listings {
		listings[i].SalaryUnit = models.NormalizeSalaryUnit(listings[i].SalaryUnit)
	}
	return listings, nil
}
