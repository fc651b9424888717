// Package config loads the process configuration once at startup.
//
// LOAD ORDER (later wins):
//  1. Built-in defaults (Default)
//  2. Optional YAML file named by CONFIG_PATH
//  3. Environment variables, after a best-effort .env load
//
// The result is a plain value. main.go passes it down to server.New, and
// nothing reads the environment after that.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported values for Config.DBDriver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds everything the server needs to start.
type Config struct {
	Port int `yaml:"port"`

	// DBDriver selects the repository implementation: "sqlite" uses
	// database/sql on DBPath, "postgres" uses gorm on DatabaseURL.
	DBDriver    string `yaml:"db_driver"`
	DBPath      string `yaml:"db_path"`
	DatabaseURL string `yaml:"database_url"`

	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`

	Cloudinary Cloudinary `yaml:"cloudinary"`
	// ResumeURLPrefix is what every uploaded résumé URL must start with.
	ResumeURLPrefix string `yaml:"resume_url_prefix"`
	MaxUploadBytes  int64  `yaml:"max_upload_bytes"`

	MaxPageSize int    `yaml:"max_page_size"`
	LogLevel    string `yaml:"log_level"`
}

// Cloudinary holds the file-hosting credentials.
type Cloudinary struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Folder    string `yaml:"folder"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Port:            8080,
		DBDriver:        DriverSQLite,
		DBPath:          "data/jobboard.db",
		TokenTTL:        30 * time.Minute,
		ResumeURLPrefix: "https://res.cloudinary.com/",
		MaxUploadBytes:  10 << 20,
		MaxPageSize:     100,
		LogLevel:        "info",
		Cloudinary: Cloudinary{
			Folder: "resumes",
		},
	}
}

// Load builds the configuration from defaults, CONFIG_PATH and the environment.
func Load() (Config, error) {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: loading .env: %w", err)
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays environment variables. getenv is injected so tests can
// supply a map instead of mutating the process environment.
func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	setString("DB_DRIVER", &c.DBDriver)
	setString("DB_PATH", &c.DBPath)
	setString("DATABASE_URL", &c.DatabaseURL)
	setString("JWT_SECRET", &c.JWTSecret)
	setString("CLOUDINARY_CLOUD_NAME", &c.Cloudinary.CloudName)
	setString("CLOUDINARY_API_KEY", &c.Cloudinary.APIKey)
	setString("CLOUDINARY_API_SECRET", &c.Cloudinary.APISecret)
	setString("CLOUDINARY_FOLDER", &c.Cloudinary.Folder)
	setString("RESUME_URL_PREFIX", &c.ResumeURLPrefix)
	setString("LOG_LEVEL", &c.LogLevel)

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid ACCESS_TOKEN_EXPIRE_MINUTES %q: %w", v, err)
		}
		c.TokenTTL = time.Duration(minutes) * time.Minute
	}
	if v := getenv("MAX_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid MAX_PAGE_SIZE %q: %w", v, err)
		}
		c.MaxPageSize = n
	}
	if v := getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: invalid MAX_UPLOAD_BYTES %q: %w", v, err)
		}
		c.MaxUploadBytes = n
	}
	return nil
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("db_path is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown db_driver %q", c.DBDriver))
	}
	if len(c.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token TTL must be positive"))
	}
	if c.MaxPageSize < 1 {
		errs = append(errs, errors.New("max_page_size must be at least 1"))
	}
	if c.MaxUploadBytes < 1 {
		errs = append(errs, errors.New("max_upload_bytes must be at least 1"))
	}
	if !strings.HasPrefix(c.ResumeURLPrefix, "https://") {
		errs = append(errs, fmt.Errorf("resume_url_prefix %q must be an https URL", c.ResumeURLPrefix))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to Info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// UploadsEnabled reports whether Cloudinary credentials are present.
func (c Config) UploadsEnabled() bool {
	return c.Cloudinary.CloudName != "" && c.Cloudinary.APIKey != "" && c.Cloudinary.APISecret != ""
}
