// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	seedAdmin      = pflag.Bool("seed-admin", true, "Ensures a default admin account exists on startup")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// SeedAdmin reports whether the default admin account should be
// created at startup.
func SeedAdmin() bool {
	return *seedAdmin
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.cors_origins", "host_cors_origins")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.dsn", "db_dsn")

	v.BindEnv("redis.addr", "redis_addr")
	v.BindEnv("redis.password", "redis_password")
	v.BindEnv("redis.db", "redis_db")

	v.BindEnv("jwt.secret", "jwt_secret")
	v.BindEnv("jwt.access_lifetime", "jwt_access_lifetime")
	v.BindEnv("jwt.refresh_lifetime", "jwt_refresh_lifetime")
	v.BindEnv("jwt.reset_lifetime", "jwt_reset_lifetime")

	v.BindEnv("google.client_id", "google_client_id")

	v.BindEnv("gemini.endpoint", "gemini_endpoint")
	v.BindEnv("gemini.api_key", "gemini_api_key")

	v.BindEnv("admin.username", "admin_username")
	v.BindEnv("admin.email", "admin_email")
	v.BindEnv("admin.password", "admin_password")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "database.db")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.access_lifetime", 30*time.Minute)
	v.SetDefault("jwt.refresh_lifetime", 30*24*time.Hour)
	v.SetDefault("jwt.reset_lifetime", 30*time.Minute)

	v.SetDefault("gemini.endpoint", "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent")

	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.email", "admin@example.com")
	v.SetDefault("admin.password", "admin123")

	v.SetDefault("rate.requests_per_second", 5)
	v.SetDefault("rate.burst", 10)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("database dsn can't be empty")
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if v.GetDuration("jwt.access_lifetime") <= 0 {
		return errors.New("access token lifetime must be bigger than 0")
	}

	if v.GetDuration("jwt.refresh_lifetime") <= v.GetDuration("jwt.access_lifetime") {
		return errors.New("refresh token lifetime must be longer than the access token lifetime")
	}

	if v.GetDuration("jwt.reset_lifetime") <= 0 {
		return errors.New("reset token lifetime must be bigger than 0")
	}

	if v.GetString("google.client_id") == "" {
		fmt.Println("[WARNING]: No Google client ID configured. Google one-tap login will be rejected")
	}

	if v.GetString("gemini.api_key") == "" {
		fmt.Println("[WARNING]: No Gemini API key configured. Blog text generation will be rejected")
	}

	return nil
}
