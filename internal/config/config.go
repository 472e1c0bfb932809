package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Remote
		Identity
		Connectivity
		Sync
		SyncLog
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Remote struct {
		BaseURL string        // learning service API base URL
		Timeout time.Duration // per-request timeout; expiry counts as a delivery failure
	}
	Identity struct {
		UserID string
		Token  string // bearer credential for remote submissions
	}
	Connectivity struct {
		ProbeEnabled  bool
		ProbeURL      string
		ProbeInterval time.Duration
		AssumeOnline  bool // initial state before any signal or probe result
	}
	Sync struct {
		Enabled  bool
		Schedule string // Cron format: "*/5 * * * *" = every 5 minutes
	}
	SyncLog struct {
		RetentionDays   int    // Days to keep sync log entries (default: 7)
		CleanupSchedule string // Cron format: "30 3 * * *" = daily at 03:30
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8377)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Remote learning service defaults
	v.SetDefault("remote_base_url", "")
	v.SetDefault("remote_timeout", "15s")

	// Identity defaults
	v.SetDefault("user_id", "")
	v.SetDefault("api_token", "")

	// Connectivity defaults
	v.SetDefault("connectivity_probe_enabled", true)
	v.SetDefault("connectivity_probe_url", "")
	v.SetDefault("connectivity_probe_interval", "30s")
	v.SetDefault("connectivity_assume_online", true)

	// Background sync defaults
	v.SetDefault("sync_enabled", true)
	v.SetDefault("sync_schedule", "*/5 * * * *") // Every 5 minutes

	// Sync log retention defaults
	v.SetDefault("synclog_retention_days", 7)
	v.SetDefault("synclog_cleanup_schedule", "30 3 * * *") // Daily at 03:30

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Remote: Remote{
			BaseURL: v.GetString("REMOTE_BASE_URL"),
			Timeout: v.GetDuration("REMOTE_TIMEOUT"),
		},
		Identity: Identity{
			UserID: v.GetString("USER_ID"),
			Token:  v.GetString("API_TOKEN"),
		},
		Connectivity: Connectivity{
			ProbeEnabled:  v.GetBool("CONNECTIVITY_PROBE_ENABLED"),
			ProbeURL:      v.GetString("CONNECTIVITY_PROBE_URL"),
			ProbeInterval: v.GetDuration("CONNECTIVITY_PROBE_INTERVAL"),
			AssumeOnline:  v.GetBool("CONNECTIVITY_ASSUME_ONLINE"),
		},
		Sync: Sync{
			Enabled:  v.GetBool("SYNC_ENABLED"),
			Schedule: v.GetString("SYNC_SCHEDULE"),
		},
		SyncLog: SyncLog{
			RetentionDays:   v.GetInt("SYNCLOG_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("SYNCLOG_CLEANUP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
	}
}
