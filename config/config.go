package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	AppName string `json:"appname"`
	AppEnv  string `json:"appenv"`
	AppPort uint16 `json:"appport"`
	GinMode string `json:"ginmode"`

	DBHost            string        `json:"dbhost"`
	DBPort            uint16        `json:"dbport"`
	DBName            string        `json:"dbname"`
	DBUser            string        `json:"dbuser"`
	DBPass            string        `json:"-"`
	DBMaxOpenConns    int           `json:"dbmaxopenconns"`
	DBMaxIdleConns    int           `json:"dbmaxidleconns"`
	DBConnMaxLifetime time.Duration `json:"dbconnmaxlifetime"`

	// BookingCapacity is the maximum number of appointments per date.
	BookingCapacity     int           `json:"bookingcapacity"`
	BookingMaxRetries   int           `json:"bookingmaxretries"`
	BookingRetryBackoff time.Duration `json:"bookingretrybackoff"`
	// ClinicTimezone decides which calendar day is "today".
	ClinicTimezone string `json:"clinictimezone"`

	LogLevel  string `json:"loglevel"`
	LogFormat string `json:"logformat"`
	LogOutput string `json:"logoutput"`

	RedisAddr string `json:"redisaddr"`
	RedisPass string `json:"-"`
	RedisDB   int    `json:"redisdb"`

	RateLimit  int           `json:"ratelimit"`
	RateWindow time.Duration `json:"ratewindow"`

	GeoIPDBPath string `json:"geoipdbpath"`

	TracingEnabled    bool    `json:"tracingenabled"`
	TracingEndpoint   string  `json:"tracingendpoint"`
	TracingSampleRate float64 `json:"tracingsamplerate"`

	ReadTimeout     time.Duration `json:"readtimeout"`
	WriteTimeout    time.Duration `json:"writetimeout"`
	IdleTimeout     time.Duration `json:"idletimeout"`
	ShutdownTimeout time.Duration `json:"shutdowntimeout"`
}

// IsTest reports whether the service runs against the embedded test database.
func (c *Config) IsTest() bool {
	return c.AppEnv == "test"
}

// Location returns the time zone named by ClinicTimezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.ClinicTimezone)
}

// Load reads an optional .env file and the environment. Variables already
// set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	cfg := &Config{
		AppName: getEnv("APPNAME", "clinic-booking"),
		AppEnv:  getEnv("APPENV", "development"),
		AppPort: uint16(getEnvInt("APPPORT", 8080)),
		GinMode: getEnv("GINMODE", "release"),

		DBHost:            getEnv("DBHOST", "localhost"),
		DBPort:            uint16(getEnvInt("DBPORT", 3306)),
		DBName:            getEnv("DBNAME", "health_db"),
		DBUser:            getEnv("DBUSER", "root"),
		DBPass:            getEnv("DBPASS", ""),
		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),

		BookingCapacity:     getEnvInt("BOOKING_CAPACITY", 20),
		BookingMaxRetries:   getEnvInt("BOOKING_MAX_RETRIES", 5),
		BookingRetryBackoff: getEnvDuration("BOOKING_RETRY_BACKOFF", 20*time.Millisecond),
		ClinicTimezone:      getEnv("CLINIC_TIMEZONE", "Local"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogOutput: getEnv("LOG_OUTPUT", "stdout"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),
		RedisDB:   getEnvInt("REDIS_DB", 0),

		RateLimit:  getEnvInt("RATE_LIMIT", 60),
		RateWindow: getEnvDuration("RATE_WINDOW", time.Minute),

		GeoIPDBPath: getEnv("GEOIP_DB_PATH", ""),

		TracingEnabled:    getEnvBool("TRACING_ENABLED", false),
		TracingEndpoint:   getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingSampleRate: getEnvFloat("TRACING_SAMPLE_RATE", 0.1),

		ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.AppPort == 0 {
		errs = append(errs, "APPPORT must be a valid port")
	}
	if cfg.BookingCapacity < 1 {
		errs = append(errs, "BOOKING_CAPACITY must be at least 1")
	}
	if cfg.BookingMaxRetries < 1 {
		errs = append(errs, "BOOKING_MAX_RETRIES must be at least 1")
	}
	if cfg.BookingRetryBackoff < 0 {
		errs = append(errs, "BOOKING_RETRY_BACKOFF cannot be negative")
	}
	if _, err := cfg.Location(); err != nil {
		errs = append(errs, fmt.Sprintf("CLINIC_TIMEZONE %q is not a known time zone", cfg.ClinicTimezone))
	}
	if cfg.TracingSampleRate < 0 || cfg.TracingSampleRate > 1 {
		errs = append(errs, "TRACING_SAMPLE_RATE must be between 0 and 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
