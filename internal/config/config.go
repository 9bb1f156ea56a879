package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env     string  `mapstructure:"env"`     // local, development or production
	UserID  string  `mapstructure:"user_id"` // owner of the stored progress
	Storage Storage `mapstructure:"storage"`
	Remote  Remote  `mapstructure:"remote"`
	Plan    Plan    `mapstructure:"plan"`
}

// Storage selects the persistence strategy and the local backend.
type Storage struct {
	Mode      string `mapstructure:"mode"`    // local or remote
	Backend   string `mapstructure:"backend"` // sqlite, file or redis
	Key       string `mapstructure:"key"`
	Path      string `mapstructure:"path"` // sqlite database file or file-backend directory
	RedisAddr string `mapstructure:"redis_addr"`
	RedisKey  string `mapstructure:"redis_prefix"`
}

// Remote configures the remote record service used in remote mode.
type Remote struct {
	Driver      string        `mapstructure:"driver"`       // postgres or rest
	DatabaseURL string        `mapstructure:"-"`            // loaded from environment only
	URL         string        `mapstructure:"url"`          // PostgREST base URL
	APIKey      string        `mapstructure:"-"`            // loaded from environment only
	Timeout     time.Duration `mapstructure:"timeout"`      // per remote call
	MaxRetries  int           `mapstructure:"max_retries"`  // retries after the first attempt
	QueueSize   int           `mapstructure:"queue_size"`   // pending background writes
	MaxConns    int32         `mapstructure:"max_conns"`    // postgres pool size
	ConnTimeout time.Duration `mapstructure:"conn_timeout"` // postgres connect + ping
}

type Plan struct {
	Path string `mapstructure:"path"` // optional plan.yaml override
}

const (
	ModeLocal  = "local"
	ModeRemote = "remote"

	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"

	DriverPostgres = "postgres"
	DriverREST     = "rest"
)

// DefaultDataDir is where local data lives unless storage.path says otherwise.
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "studyplan")
	}
	return ".studyplan"
}

// Load reads configuration from an optional config file, an optional .env
// file and STUDYPLAN_* environment variables, in increasing precedence.
// An explicit path must exist; the default locations may be absent.
func Load(path string) (*Config, error) {
	// .env values never override variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(DefaultDataDir())
	}

	v.SetDefault("env", "local")
	v.SetDefault("user_id", "default")
	v.SetDefault("storage.mode", ModeLocal)
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.key", "kpss_user_progress")
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_prefix", "studyplan:")
	v.SetDefault("remote.driver", DriverPostgres)
	v.SetDefault("remote.url", "")
	v.SetDefault("remote.timeout", "10s")
	v.SetDefault("remote.max_retries", 2)
	v.SetDefault("remote.queue_size", 256)
	v.SetDefault("remote.max_conns", 4)
	v.SetDefault("remote.conn_timeout", "5s")
	v.SetDefault("plan.path", "")

	v.SetEnvPrefix("STUDYPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("remote_database_url", "STUDYPLAN_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("remote_api_key", "STUDYPLAN_REMOTE_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.Remote.DatabaseURL = v.GetString("remote_database_url")
	cfg.Remote.APIKey = v.GetString("remote_api_key")

	cfg.Storage.Mode = strings.ToLower(strings.TrimSpace(cfg.Storage.Mode))
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.Remote.Driver = strings.ToLower(strings.TrimSpace(cfg.Remote.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown modes, backends and drivers, and remote mode
// without a reachable target.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.UserID) == "" {
		errs = append(errs, errors.New("user_id must not be empty"))
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		errs = append(errs, errors.New("storage.key must not be empty"))
	}

	switch c.Storage.Backend {
	case BackendSQLite, BackendFile:
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			errs = append(errs, errors.New("storage.redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.backend %q", c.Storage.Backend))
	}

	switch c.Storage.Mode {
	case ModeLocal:
	case ModeRemote:
		switch c.Remote.Driver {
		case DriverPostgres:
			if c.Remote.DatabaseURL == "" {
				errs = append(errs, errors.New("remote mode with postgres needs STUDYPLAN_DATABASE_URL"))
			}
		case DriverREST:
			if c.Remote.URL == "" {
				errs = append(errs, errors.New("remote mode with rest needs remote.url"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown remote.driver %q", c.Remote.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.mode %q", c.Storage.Mode))
	}

	if c.Remote.Timeout <= 0 {
		errs = append(errs, errors.New("remote.timeout must be positive"))
	}
	if c.Remote.ConnTimeout <= 0 {
		errs = append(errs, errors.New("remote.conn_timeout must be positive"))
	}
	if c.Remote.MaxRetries < 0 {
		errs = append(errs, errors.New("remote.max_retries must not be negative"))
	}
	if c.Remote.QueueSize <= 0 {
		errs = append(errs, errors.New("remote.queue_size must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// DataPath resolves storage.path, defaulting per backend.
func (c *Config) DataPath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.Storage.Backend == BackendFile {
		return filepath.Join(DefaultDataDir(), "data")
	}
	return filepath.Join(DefaultDataDir(), "studyplan.db")
}

// RemoteEnabled reports whether remote mode is selected.
func (c *Config) RemoteEnabled() bool {
	return c.Storage.Mode == ModeRemote
}
