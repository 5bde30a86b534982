package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (horizons, thresholds, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Cron     CronConfig
	Capacity CapacityConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// CronConfig controls both the shared-secret HTTP triggers and the
// in-process scheduler.
type CronConfig struct {
	Secret           string `envconfig:"CRON_SECRET" required:"true"`
	PopulateSchedule string `envconfig:"CRON_POPULATE_SCHEDULE" default:"0 3 * * *"`
	AlertsSchedule   string `envconfig:"CRON_ALERTS_SCHEDULE" default:"0 * * * *"`
	SchedulerEnabled bool   `envconfig:"CRON_SCHEDULER_ENABLED" default:"true"`
}

type CapacityConfig struct {
	HorizonDays      int   `envconfig:"CAPACITY_HORIZON_DAYS" default:"30"`
	AlertHorizonDays int   `envconfig:"CAPACITY_ALERT_HORIZON_DAYS" default:"7"`
	LowThreshold     int32 `envconfig:"CAPACITY_LOW_THRESHOLD" default:"5"`
	BulkMaxDays      int   `envconfig:"CAPACITY_BULK_MAX_DAYS" default:"90"`
	// Weekdays with no service at all (0=Sunday). Gap alerts skip these.
	ClosedWeekdays []int `envconfig:"CAPACITY_CLOSED_WEEKDAYS" default:"0"`
}

func (c CapacityConfig) IsClosedWeekday(wd time.Weekday) bool {
	for _, d := range c.ClosedWeekdays {
		if int(wd) == d {
			return true
		}
	}
	return false
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Cron: CronConfig{
			Secret:           "test-cron-secret",
			PopulateSchedule: "0 3 * * *",
			AlertsSchedule:   "0 * * * *",
			SchedulerEnabled: false,
		},
		Capacity: CapacityConfig{
			HorizonDays:      30,
			AlertHorizonDays: 7,
			LowThreshold:     5,
			BulkMaxDays:      90,
			ClosedWeekdays:   []int{0},
		},
	}
}
