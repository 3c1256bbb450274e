package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rpattn/bidash/internal/db"
)

// Config is the full service configuration.
type Config struct {
	Database db.Config
	Server   ServerConfig
	Auth     AuthConfig
	Map      MapConfig
	Cache    CacheConfig
	Log      LogConfig
}

type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type AuthConfig struct {
	Username string
	Password string
}

// MapConfig carries the tile provider settings handed to the client.
type MapConfig struct {
	AccessToken string
	StyleURL    string
}

type CacheConfig struct {
	DatasetTTL time.Duration
	ResultSize int
}

type LogConfig struct {
	Level       string
	Development bool
}

// MissingError lists configuration keys that must be set for a feature.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return "missing configuration: " + strings.Join(e.Keys, ", ")
}

// IsMissing reports whether err is a MissingError.
func IsMissing(err error) bool {
	var missing *MissingError
	return errors.As(err, &missing)
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Database: db.DefaultConfig(),
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			AllowedOrigins:  []string{"http://localhost:3000"},
		},
		Map: MapConfig{
			StyleURL: "mapbox://styles/mapbox/light-v11",
		},
		Cache: CacheConfig{
			DatasetTTL: 10 * time.Minute,
			ResultSize: 256,
		},
		Log: LogConfig{Level: "info"},
	}
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("database.url", cfg.Database.URL)
	v.SetDefault("database.host", cfg.Database.Host)
	v.SetDefault("database.port", cfg.Database.Port)
	v.SetDefault("database.user", cfg.Database.User)
	v.SetDefault("database.password", cfg.Database.Password)
	v.SetDefault("database.dbname", cfg.Database.DBName)
	v.SetDefault("database.sslmode", cfg.Database.SSLMode)
	v.SetDefault("database.maxconns", cfg.Database.MaxConns)

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.readtimeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.writetimeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.idletimeout", cfg.Server.IdleTimeout)
	v.SetDefault("server.shutdowntimeout", cfg.Server.ShutdownTimeout)
	v.SetDefault("server.allowedorigins", cfg.Server.AllowedOrigins)

	v.SetDefault("auth.username", cfg.Auth.Username)
	v.SetDefault("auth.password", cfg.Auth.Password)

	v.SetDefault("map.accesstoken", cfg.Map.AccessToken)
	v.SetDefault("map.styleurl", cfg.Map.StyleURL)

	v.SetDefault("cache.datasetttl", cfg.Cache.DatasetTTL)
	v.SetDefault("cache.resultsize", cfg.Cache.ResultSize)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.development", cfg.Log.Development)
}

// Load reads config.yaml from configPath when present and applies
// environment overrides. Keys map to BIDASH_ variables with dots replaced by
// underscores, e.g. BIDASH_DATABASE_HOST. DATABASE_URL and
// MAPBOX_ACCESS_TOKEN are honoured as well.
func Load(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix("BIDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("database.url", "BIDASH_DATABASE_URL", "DATABASE_URL"); err != nil {
		return Config{}, fmt.Errorf("failed to bind database url: %w", err)
	}
	if err := v.BindEnv("map.accesstoken", "BIDASH_MAP_ACCESSTOKEN", "BIDASH_MAP_ACCESS_TOKEN", "MAPBOX_ACCESS_TOKEN"); err != nil {
		return Config{}, fmt.Errorf("failed to bind map token: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := Config{
		Database: db.Config{
			URL:      v.GetString("database.url"),
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			DBName:   v.GetString("database.dbname"),
			SSLMode:  v.GetString("database.sslmode"),
			MaxConns: v.GetInt32("database.maxconns"),
		},
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			ReadTimeout:     v.GetDuration("server.readtimeout"),
			WriteTimeout:    v.GetDuration("server.writetimeout"),
			IdleTimeout:     v.GetDuration("server.idletimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdowntimeout"),
			AllowedOrigins:  splitList(v.GetStringSlice("server.allowedorigins")),
		},
		Auth: AuthConfig{
			Username: v.GetString("auth.username"),
			Password: v.GetString("auth.password"),
		},
		Map: MapConfig{
			AccessToken: strings.TrimSpace(v.GetString("map.accesstoken")),
			StyleURL:    v.GetString("map.styleurl"),
		},
		Cache: CacheConfig{
			DatasetTTL: v.GetDuration("cache.datasetttl"),
			ResultSize: v.GetInt("cache.resultsize"),
		},
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Development: v.GetBool("log.development"),
		},
	}
	return cfg, nil
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Missing lists the keys that are required to serve the dashboard but unset.
func (c Config) Missing() []string {
	var keys []string
	if c.Auth.Username == "" {
		keys = append(keys, "auth.username")
	}
	if c.Auth.Password == "" {
		keys = append(keys, "auth.password")
	}
	if c.Database.URL == "" && c.Database.Host == "" {
		keys = append(keys, "database.url")
	}
	return keys
}

// MapMissing lists the keys needed to render the map.
func (c Config) MapMissing() []string {
	if c.Map.AccessToken == "" {
		return []string{"map.accessToken"}
	}
	return nil
}

// Validate fails with a MissingError when required keys are unset.
func (c Config) Validate() error {
	if keys := c.Missing(); len(keys) > 0 {
		return &MissingError{Keys: keys}
	}
	return nil
}
