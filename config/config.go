package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Push     PushConfig     `yaml:"push"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // "postgres" or "sqlite"
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// AuthConfig holds token signing configuration. The login and refresh TTLs
// differ on purpose: the product issues day-long login tokens but only
// 15-minute refreshed tokens, and that asymmetry stays until a product
// decision says otherwise.
type AuthConfig struct {
	JWTSecret              string        `yaml:"jwt_secret"`
	LoginTokenTTLMinutes   int           `yaml:"login_token_ttl_minutes"`
	RefreshTokenTTLMinutes int           `yaml:"refresh_token_ttl_minutes"`
	LoginTokenTTL          time.Duration `yaml:"-"`
	RefreshTokenTTL        time.Duration `yaml:"-"`
}

// PushConfig selects and configures the push notification provider.
type PushConfig struct {
	Provider   string  `yaml:"provider"` // "expo", "webpush" or "fcm"
	RatePerSec float64 `yaml:"rate_per_sec"`
	Burst      int     `yaml:"burst"`

	// expo
	ExpoURL string `yaml:"expo_url"`

	// webpush (VAPID)
	VAPIDPublicKey  string `yaml:"vapid_public_key"`
	VAPIDPrivateKey string `yaml:"vapid_private_key"`
	Subject         string `yaml:"subject"`
	TTL             int    `yaml:"ttl"`

	// fcm
	CredentialsFile string `yaml:"credentials_file"`
}

// Load reads the configuration from the given path. The JWT_SECRET and
// DATABASE_DSN environment variables override the file values so secrets can
// stay out of the config file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Auth.LoginTokenTTLMinutes <= 0 {
		cfg.Auth.LoginTokenTTLMinutes = 24 * 60
	}
	if cfg.Auth.RefreshTokenTTLMinutes <= 0 {
		cfg.Auth.RefreshTokenTTLMinutes = 15
	}
	cfg.Auth.LoginTokenTTL = time.Duration(cfg.Auth.LoginTokenTTLMinutes) * time.Minute
	cfg.Auth.RefreshTokenTTL = time.Duration(cfg.Auth.RefreshTokenTTLMinutes) * time.Minute

	if cfg.Push.Provider == "" {
		cfg.Push.Provider = "expo"
	}
	if cfg.Push.ExpoURL == "" {
		cfg.Push.ExpoURL = "https://exp.host/--/api/v2/push/send"
	}
	if cfg.Push.RatePerSec <= 0 {
		cfg.Push.RatePerSec = 10
	}
	if cfg.Push.Burst <= 0 {
		cfg.Push.Burst = 5
	}
	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	return &cfg, nil
}
