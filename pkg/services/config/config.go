package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultBackendURL = "https://moodvestor-backend-production.up.railway.app"
	DefaultPort       = 5000
)

// Config is read once at startup and never mutated afterwards.
type Config struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	SlackWebhookURL   string        `mapstructure:"slack_webhook_url"`
	DiscordWebhookURL string        `mapstructure:"discord_webhook_url"`
	BackendURL        string        `mapstructure:"backend_url"`
	NotifyTimeout     time.Duration `mapstructure:"notify_timeout"`
	ReportsDir        string        `mapstructure:"reports_dir"`
	ArchiveS3Bucket   string        `mapstructure:"archive_s3_bucket"`
	ArchiveS3Prefix   string        `mapstructure:"archive_s3_prefix"`
	AWSProfile        string        `mapstructure:"aws_profile"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level"`
	LogFormat         string        `mapstructure:"log_format"`
}

var envBindings = map[string]string{
	"host":                "HOST",
	"port":                "PORT",
	"slack_webhook_url":   "SLACK_WEBHOOK_URL",
	"discord_webhook_url": "DISCORD_WEBHOOK_URL",
	"backend_url":         "BACKEND_URL",
	"notify_timeout":      "NOTIFY_TIMEOUT",
	"reports_dir":         "REPORTS_DIR",
	"archive_s3_bucket":   "ARCHIVE_S3_BUCKET",
	"archive_s3_prefix":   "ARCHIVE_S3_PREFIX",
	"aws_profile":         "AWS_PROFILE",
	"shutdown_timeout":    "SHUTDOWN_TIMEOUT",
	"log_level":           "LOG_LEVEL",
	"log_format":          "LOG_FORMAT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", DefaultPort)
	v.SetDefault("slack_webhook_url", "")
	v.SetDefault("discord_webhook_url", "")
	v.SetDefault("backend_url", DefaultBackendURL)
	v.SetDefault("notify_timeout", 10*time.Second)
	v.SetDefault("reports_dir", "reports")
	v.SetDefault("archive_s3_bucket", "")
	v.SetDefault("archive_s3_prefix", "reports/")
	v.SetDefault("aws_profile", "")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}

// Load resolves the configuration from defaults, the optional file at path and the
// process environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse relay config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) SlackEnabled() bool {
	return c.SlackWebhookURL != ""
}

func (c *Config) DiscordEnabled() bool {
	return c.DiscordWebhookURL != ""
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
