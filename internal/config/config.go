// Package config loads the application configuration from config.yaml and
// environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/agentdesk/agent-scheduler/internal/models"
)

type (
	Config struct {
		App       App                 `mapstructure:"app"`
		Server    Server              `mapstructure:"server"`
		Logger    Logger              `mapstructure:"logger"`
		Scheduler Scheduler           `mapstructure:"scheduler"`
		Workers   []models.WorkerSpec `mapstructure:"workers"`
		Redis     Redis               `mapstructure:"redis"`
		Cron      Cron                `mapstructure:"cron"`
	}

	App struct {
		Name string `mapstructure:"name"`
		Env  string `mapstructure:"env"`
	}

	Server struct {
		Port              string        `mapstructure:"port"`
		ReadTimeout       time.Duration `mapstructure:"read_timeout"`
		WriteTimeout      time.Duration `mapstructure:"write_timeout"`
		IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
		RequestsPerSecond int           `mapstructure:"requests_per_second"`
		Burst             int           `mapstructure:"burst"`
	}

	Logger struct {
		Level    string `mapstructure:"level"`
		Encoding string `mapstructure:"encoding"`
	}

	Scheduler struct {
		MaxGlobalConcurrency       int  `mapstructure:"max_global_concurrency"`
		EnableLoadBalancing        bool `mapstructure:"enable_load_balancing"`
		EnableTaskPrioritization   bool `mapstructure:"enable_task_prioritization"`
		EnableDependencyResolution bool `mapstructure:"enable_dependency_resolution"`
	}

	// Redis configures the terminal-task archive. An empty address
	// disables it.
	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		TTL      time.Duration `mapstructure:"ttl"`
	}

	Cron struct {
		SummarySchedule string        `mapstructure:"summary_schedule"`
		CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
		StatsInterval   time.Duration `mapstructure:"stats_interval"`
	}
)

// Load reads config.yaml from the working directory (or /etc/agent-scheduler)
// with env overrides prefixed AGENTSCHED_.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/agent-scheduler/")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("agentsched")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "agent-scheduler")
	viper.SetDefault("app.env", "development")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 15*time.Second)
	viper.SetDefault("server.idle_timeout", 60*time.Second)
	viper.SetDefault("server.requests_per_second", 50)
	viper.SetDefault("server.burst", 100)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("scheduler.max_global_concurrency", 10)
	viper.SetDefault("scheduler.enable_load_balancing", true)
	viper.SetDefault("scheduler.enable_task_prioritization", true)
	viper.SetDefault("scheduler.enable_dependency_resolution", true)

	viper.SetDefault("redis.ttl", 24*time.Hour)

	viper.SetDefault("cron.summary_schedule", "0 0 * * *")
	viper.SetDefault("cron.cleanup_interval", time.Hour)
	viper.SetDefault("cron.stats_interval", 30*time.Second)
}
