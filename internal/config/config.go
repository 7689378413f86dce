package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the dormitory API service.
type Config struct {
	AppName              string
	AppEnv               string
	AppPort              string
	DatabaseURL          string
	RedisURL             string
	NATSURL              string
	EventChannel         string
	JWTSecret            string
	TokenTTL             time.Duration
	CloudinaryCloudName  string
	CloudinaryAPIKey     string
	CloudinaryAPISecret  string
	CloudinaryFolder     string
	AnnouncementCacheTTL time.Duration
	ReportCacheTTL       time.Duration
	SSEKeepAlive         time.Duration
	IssuePhotoMaxBytes   int64
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DMS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "DMS Portal API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8000")
	v.SetDefault("event.channel", "dms")
	v.SetDefault("token.ttl", "24h")
	v.SetDefault("cloudinary.folder", "dms/issues")
	v.SetDefault("announcement.cache_ttl", "5m")
	v.SetDefault("report.cache_ttl", "10m")
	v.SetDefault("sse.keep_alive", "30s")
	v.SetDefault("issue_photo_max_mb", 5)

	tokenTTL, err := parseDuration(v.GetString("token.ttl"), "24h")
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	announcementTTL, err := parseDuration(v.GetString("announcement.cache_ttl"), "5m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid announcement cache ttl: %w", err)
	}

	reportTTL, err := parseDuration(v.GetString("report.cache_ttl"), "10m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid report cache ttl: %w", err)
	}

	keepAlive, err := parseDuration(v.GetString("sse.keep_alive"), "30s")
	if err != nil {
		return Config{}, fmt.Errorf("invalid sse keep alive: %w", err)
	}

	photoMaxMB := v.GetInt64("issue_photo_max_mb")
	if photoMaxMB <= 0 {
		photoMaxMB = 5
	}

	cfg := Config{
		AppName:              v.GetString("app.name"),
		AppEnv:               v.GetString("app.env"),
		AppPort:              v.GetString("app.port"),
		DatabaseURL:          v.GetString("database.url"),
		RedisURL:             v.GetString("redis.url"),
		NATSURL:              v.GetString("nats.url"),
		EventChannel:         v.GetString("event.channel"),
		JWTSecret:            v.GetString("jwt.secret"),
		TokenTTL:             tokenTTL,
		CloudinaryCloudName:  v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:     v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:  v.GetString("cloudinary.api_secret"),
		CloudinaryFolder:     v.GetString("cloudinary.folder"),
		AnnouncementCacheTTL: announcementTTL,
		ReportCacheTTL:       reportTTL,
		SSEKeepAlive:         keepAlive,
		IssuePhotoMaxBytes:   photoMaxMB * 1024 * 1024,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

func parseDuration(value, fallback string) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		value = fallback
	}

	return time.ParseDuration(value)
}
