package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// Config is the runtime configuration shared by every command.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Bot      BotConfig      `mapstructure:"bot"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// DatabaseConfig selects the driver. DSN wins over the host/port/name fields.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Name         string `mapstructure:"name"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	LogSQL       bool   `mapstructure:"log_sql"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BotConfig configures the telegram client process.
type BotConfig struct {
	Token       string        `mapstructure:"token"`
	APIURL      string        `mapstructure:"api_url"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	PollTimeout int           `mapstructure:"poll_timeout"`
	PageSize    int           `mapstructure:"page_size"`
	Debug       bool          `mapstructure:"debug"`
}

// Load reads .env from the working directory or ./config, then lets
// environment variables override it (server.http_port -> SERVER_HTTP_PORT).
func Load() (*Config, error) {
	return load(viper.New(), ".", "./config")
}

func load(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName(".env")
	v.SetConfigType("env")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	// dotenv keys arrive flat (server_http_port). Folding them in as defaults
	// keeps real environment variables on top.
	for key := range defaults {
		if flat := strings.ReplaceAll(key, ".", "_"); v.InConfig(flat) {
			v.SetDefault(key, v.Get(flat))
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Keys without a default are invisible to Unmarshal even when set in the
// environment, so every key gets one.
var defaults = map[string]any{
	"server.host":             "localhost",
	"server.http_port":        8080,
	"server.read_timeout":     15 * time.Second,
	"server.shutdown_timeout": 5 * time.Second,
	"server.cors_origins":     []string{"*"},

	"database.driver":         "sqlite3",
	"database.dsn":            "",
	"database.host":           "localhost",
	"database.port":           5432,
	"database.name":           "lingvo",
	"database.user":           "postgres",
	"database.password":       "postgres",
	"database.sslmode":        "disable",
	"database.max_open_conns": 10,
	"database.log_sql":        false,

	"log.level":  "info",
	"log.format": "json",

	"bot.token":        "",
	"bot.api_url":      "http://localhost:8080/api/v1",
	"bot.session_ttl":  24 * time.Hour,
	"bot.poll_timeout": 60,
	"bot.page_size":    10,
	"bot.debug":        false,
}

func setDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// Validate checks the values the servers cannot start without.
func (c *Config) Validate() error {
	return validation.Errors{
		"server": validation.ValidateStruct(&c.Server,
			validation.Field(&c.Server.HTTPPort, validation.Required, validation.Min(1), validation.Max(65535)),
		),
		"database": validation.ValidateStruct(&c.Database,
			validation.Field(&c.Database.Driver, validation.In("", "sqlite", "sqlite3", "pgx", "postgres", "postgresql")),
			validation.Field(&c.Database.MaxOpenConns, validation.Min(0)),
		),
		"log": validation.ValidateStruct(&c.Log,
			validation.Field(&c.Log.Format, validation.In("json", "text")),
		),
		"bot": validation.ValidateStruct(&c.Bot,
			validation.Field(&c.Bot.PageSize, validation.Min(1), validation.Max(50)),
		),
	}.Filter()
}

// DatabaseDriver returns the normalized database/sql driver name.
func (c *Config) DatabaseDriver() (string, error) {
	switch driver := strings.ToLower(strings.TrimSpace(c.Database.Driver)); driver {
	case "", "sqlite", "sqlite3":
		return "sqlite3", nil
	case "pgx", "postgresql":
		return "pgx", nil
	case "postgres":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
}

// DatabaseURL returns the connection string for the configured driver.
func (c *Config) DatabaseURL() (string, error) {
	if dsn := strings.TrimSpace(c.Database.DSN); dsn != "" {
		return dsn, nil
	}
	driver, err := c.DatabaseDriver()
	if err != nil {
		return "", err
	}
	if driver == "sqlite3" {
		name := strings.TrimSpace(c.Database.Name)
		if name == "" {
			return "", errors.New("sqlite database requires database.dsn or database.name")
		}
		return fmt.Sprintf("file:%s.db?_foreign_keys=on&_busy_timeout=5000", name), nil
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	), nil
}

// HTTPAddr is the listen address of the API server.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}
