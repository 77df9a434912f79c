package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/dukerupert/timetrack/internal/database"
)

const (
	DefaultPort        = "8080"
	DefaultDatabaseURL = "sqlite:///timetrack.db"
	DefaultSecretKey   = "dev-secret-key"
)

type Config struct {
	Server    ServerConfig   `yaml:"server"`
	Database  DatabaseConfig `yaml:"database"`
	Logging   LoggingConfig  `yaml:"logging"`
	SecretKey string         `yaml:"secret_key"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	// AllowedOrigins are extra host patterns accepted on the websocket handshake.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load builds the configuration from .env, the optional YAML file at path and
// the process environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		expanded := []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	cfg.Database.URL = NormalizeDatabaseURL(cfg.Database.URL)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Database.URL, "DATABASE_URL")
	setFromEnv(&c.SecretKey, "SECRET_KEY")
	if !setFromEnv(&c.Server.Port, "TIMETRACK_PORT") {
		setFromEnv(&c.Server.Port, "PORT")
	}
	setFromEnv(&c.Logging.Level, "TIMETRACK_LOG_LEVEL")
	setFromEnv(&c.Logging.Format, "TIMETRACK_LOG_FORMAT")

	var origins string
	if setFromEnv(&origins, "TIMETRACK_ALLOWED_ORIGINS") {
		c.Server.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, o)
			}
		}
	}
}

func setFromEnv(dst *string, key string) bool {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return false
	}
	*dst = strings.TrimSpace(v)
	return true
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Database.URL == "" {
		c.Database.URL = DefaultDatabaseURL
	}
	if c.SecretKey == "" {
		c.SecretKey = DefaultSecretKey
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Server.Port)
	}
	if err := database.CheckURL(c.Database.URL); err != nil {
		return fmt.Errorf("database url: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// SecretFingerprint identifies the secret key without revealing it.
func (c *Config) SecretFingerprint() string {
	if c.SecretKey == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(c.SecretKey))
	return hex.EncodeToString(sum[:8])
}

// NormalizeDatabaseURL rewrites the legacy postgres:// scheme to postgresql://.
func NormalizeDatabaseURL(raw string) string {
	if rest, ok := strings.CutPrefix(raw, "postgres://"); ok {
		return "postgresql://" + rest
	}
	return raw
}

// MaskDatabaseURL hides the password of a database URL.
func MaskDatabaseURL(raw string) string {
	if !strings.Contains(raw, "://") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable database url>"
	}
	return u.Redacted()
}
