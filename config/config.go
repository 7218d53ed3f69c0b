package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Storage
	Store StoreConfig

	// Scheduling specifics
	Calendar  CalendarConfig
	Allocator AllocatorConfig
	Dispatch  DispatchConfig
	Push      PushConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string

	// InternalKey guards the operational endpoints (manual dispatch
	// trigger). Empty disables them.
	InternalKey string

	// RateLimitPerMin throttles per-client API traffic.
	RateLimitPerMin int
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// StoreConfig locates the SQLite record store.
type StoreConfig struct {
	Path string
}

type CalendarConfig struct {
	CredentialsPath string
	CalendarID      string

	// FeedURL is an optional subscribed ICS feed (school timetable
	// exports and the like) merged into the busy picture.
	FeedURL string
}

// AllocatorConfig carries the user-facing scheduling policies.
type AllocatorConfig struct {
	Timezone string

	SchoolStart string
	SchoolEnd   string
	SleepStart  string
	SleepEnd    string

	// RelaxOrder lists soft-window labels in the order they are given
	// up when a deadline cannot otherwise be met.
	RelaxOrder []string

	ChunkMinMinutes int
	ChunkMaxMinutes int
}

type DispatchConfig struct {
	// CronSpec drives the dispatcher binary; standard 5-field cron.
	CronSpec string
	Workers  int
}

type PushConfig struct {
	ProjectID       string
	CredentialsPath string

	// RatePerSecond caps outbound FCM sends.
	RatePerSecond float64
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.HTTPServer.InternalKey = viper.GetString("http_server.internal_key")
	cfg.HTTPServer.RateLimitPerMin = viper.GetInt("http_server.rate_limit_per_min")
	if key := viper.GetString("internal_api_key"); key != "" {
		cfg.HTTPServer.InternalKey = key
	}
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Storage
	cfg.Store.Path = viper.GetString("store.path")
	if path := viper.GetString("store_path"); path != "" {
		cfg.Store.Path = path
	}

	// Calendar
	cfg.Calendar.CredentialsPath = viper.GetString("calendar.credentials_path")
	cfg.Calendar.CalendarID = viper.GetString("calendar.calendar_id")
	cfg.Calendar.FeedURL = viper.GetString("calendar.feed_url")
	if creds := viper.GetString("google_calendar_credentials"); creds != "" {
		cfg.Calendar.CredentialsPath = creds
	}

	// Allocator
	cfg.Allocator.Timezone = viper.GetString("allocator.timezone")
	cfg.Allocator.SchoolStart = viper.GetString("allocator.school_start")
	cfg.Allocator.SchoolEnd = viper.GetString("allocator.school_end")
	cfg.Allocator.SleepStart = viper.GetString("allocator.sleep_start")
	cfg.Allocator.SleepEnd = viper.GetString("allocator.sleep_end")
	cfg.Allocator.ChunkMinMinutes = viper.GetInt("allocator.chunk_min_minutes")
	cfg.Allocator.ChunkMaxMinutes = viper.GetInt("allocator.chunk_max_minutes")

	// Relax order arrives comma-separated so env overrides stay flat.
	var order []string
	if raw := viper.GetString("allocator.relax_order"); raw != "" {
		for _, label := range strings.Split(raw, ",") {
			label = strings.TrimSpace(label)
			if label != "" {
				order = append(order, label)
			}
		}
	}
	cfg.Allocator.RelaxOrder = order

	// Dispatch
	cfg.Dispatch.CronSpec = viper.GetString("dispatch.cron_spec")
	cfg.Dispatch.Workers = viper.GetInt("dispatch.workers")

	// Push
	cfg.Push.ProjectID = viper.GetString("push.project_id")
	cfg.Push.CredentialsPath = viper.GetString("push.credentials_path")
	cfg.Push.RatePerSecond = viper.GetFloat64("push.rate_per_second")
	if creds := viper.GetString("fcm_credentials"); creds != "" {
		cfg.Push.CredentialsPath = creds
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("http_server.rate_limit_per_min", 120)
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("store.path", "./var/study-scheduler.db")
	viper.SetDefault("allocator.school_start", "08:00")
	viper.SetDefault("allocator.school_end", "15:00")
	viper.SetDefault("allocator.sleep_start", "22:00")
	viper.SetDefault("allocator.sleep_end", "07:00")
	viper.SetDefault("allocator.relax_order", "school-hours,sleep")
	viper.SetDefault("allocator.chunk_min_minutes", 45)
	viper.SetDefault("allocator.chunk_max_minutes", 90)
	viper.SetDefault("dispatch.cron_spec", "* * * * *")
	viper.SetDefault("dispatch.workers", 8)
	viper.SetDefault("push.rate_per_second", 20)
}
