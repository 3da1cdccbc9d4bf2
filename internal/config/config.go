package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	Timezone string `yaml:"timezone"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type TelegramConfig struct {
	BotToken  string `yaml:"bot_token"`
	WebAppURL string `yaml:"webapp_url"`
}

type SchedulerConfig struct {
	Enabled       bool   `yaml:"enabled"`
	PromptHour    int    `yaml:"prompt_hour"`
	DigestWeekday string `yaml:"digest_weekday"`
	DigestHour    int    `yaml:"digest_hour"`
	Workers       int    `yaml:"workers"`
}

type LoggingConfig struct {
	Mode string `yaml:"mode"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:     8080,
			Timezone: "UTC",
		},
		Database: DatabaseConfig{
			Path: filepath.Join("data", "orbit.db"),
		},
		Scheduler: SchedulerConfig{
			Enabled:       true,
			PromptHour:    10,
			DigestWeekday: "Sunday",
			DigestHour:    19,
			Workers:       4,
		},
		Logging: LoggingConfig{
			Mode: "dev",
		},
	}
}

// Load reads configuration in priority order: explicit path, the
// ORBIT_CONFIG env var, ./orbit.yaml, then compiled defaults. Individual
// env vars override whatever the file said.
func Load(explicitPath string) (Config, error) {
	cfg := Default()

	path := explicitPath
	if path == "" {
		path = os.Getenv("ORBIT_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat("orbit.yaml"); err == nil {
			path = "orbit.yaml"
		}
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.Scheduler.Workers <= 0 {
		cfg.Scheduler.Workers = 1
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if raw := os.Getenv("PORT"); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if raw := os.Getenv("TZ"); raw != "" {
		cfg.Server.Timezone = raw
	}
	if raw := os.Getenv("DB_PATH"); raw != "" {
		cfg.Database.Path = raw
	}
	if raw := os.Getenv("TELEGRAM_BOT_TOKEN"); raw != "" {
		cfg.Telegram.BotToken = raw
	}
	if raw := os.Getenv("WEBAPP_URL"); raw != "" {
		cfg.Telegram.WebAppURL = raw
	}
}

func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Location resolves the configured server timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	location, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

// Weekday parses the digest weekday name; unknown names mean Sunday.
func (s SchedulerConfig) Weekday() time.Weekday {
	switch strings.ToLower(strings.TrimSpace(s.DigestWeekday)) {
	case "monday":
		return time.Monday
	case "tuesday":
		return time.Tuesday
	case "wednesday":
		return time.Wednesday
	case "thursday":
		return time.Thursday
	case "friday":
		return time.Friday
	case "saturday":
		return time.Saturday
	default:
		return time.Sunday
	}
}
