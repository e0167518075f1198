package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig      `yaml:"server"`
	Log      LogConfig         `yaml:"log"`
	Postgres PostgresConfig    `yaml:"postgres"`
	Redis    RedisConfig       `yaml:"redis"`
	Source   SourceConfig      `yaml:"source"`
	Columns  map[string]string `yaml:"columns"` // logical field -> sheet header
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	SnapshotTTL  time.Duration `yaml:"snapshot_ttl"`
	SelectionTTL time.Duration `yaml:"selection_ttl"`
}

type SourceConfig struct {
	SheetKey        string        `yaml:"sheet_key"`
	CSVURL          string        `yaml:"csv_url"`
	DateLayout      string        `yaml:"date_layout"`
	DefaultGroup    string        `yaml:"default_group"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	SyncEvery       time.Duration `yaml:"sync_every"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Postgres: PostgresConfig{
			MaxOpenConns:    20,
			MaxIdleConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:         "localhost:6379",
			SnapshotTTL:  30 * time.Minute,
			SelectionTTL: 30 * 24 * time.Hour,
		},
		Source: SourceConfig{
			SheetKey:     "default",
			DateLayout:   "2006-01-02",
			DefaultGroup: "Default",
			SyncEvery:    time.Minute,
		},
	}
}

// Load reads the YAML file at path on top of the defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("HTTP_ADDR", c.Server.Addr)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Postgres.DSN = getEnv("POSTGRES_DSN", c.Postgres.DSN)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	c.Source.CSVURL = getEnv("SHEET_CSV_URL", c.Source.CSVURL)
}

func (c *Config) Validate() error {
	if c.Postgres.DSN == "" {
		return errors.New("postgres dsn is not set (POSTGRES_DSN)")
	}
	if c.Source.SheetKey == "" {
		return errors.New("source.sheet_key is required")
	}
	if c.Source.RefreshInterval < 0 || c.Source.SyncEvery < 0 {
		return errors.New("source intervals must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
