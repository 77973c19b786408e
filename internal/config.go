package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Paytm         PaytmConfig         `mapstructure:"paytm"`
	Security      SecurityConfig      `mapstructure:"security"`
	Audit         AuditConfig         `mapstructure:"audit"`
	Notification  NotificationConfig  `mapstructure:"notification"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

// PaytmConfig holds the merchant credentials and gateway endpoint. MID and
// KeySecret are read once at startup and held immutable for the process
// lifetime; there is no rotation path.
type PaytmConfig struct {
	MID            string        `mapstructure:"mid"`
	KeySecret      string        `mapstructure:"key_secret"`
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// SecurityConfig guards the inbound API. When APITokenSecret is empty the
// API runs unauthenticated (local host runtimes).
type SecurityConfig struct {
	APITokenSecret string `mapstructure:"api_token_secret"`
}

type AuditConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Source          string        `mapstructure:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type NotificationConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUsername string `mapstructure:"smtp_username"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	MaxWorkers   int    `mapstructure:"max_workers"`
	QueueSize    int    `mapstructure:"queue_size"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const defaultPaytmBaseURL = "https://secure.paytmpayments.com"

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds the full configuration from process environment,
// used for container deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("PORT", 8080),
			BaseURL:           getEnv("SERVER_BASE_URL", ""),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("SERVER_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Paytm: PaytmConfig{
			MID:            getEnv("PAYTM_MID", ""),
			KeySecret:      getEnv("PAYTM_KEY_SECRET", ""),
			BaseURL:        getEnv("PAYTM_BASE_URL", defaultPaytmBaseURL),
			RequestTimeout: getEnvAsDuration("PAYTM_REQUEST_TIMEOUT", 30*time.Second),
		},
		Security: SecurityConfig{
			APITokenSecret: getEnv("API_TOKEN_SECRET", ""),
		},
		Audit: AuditConfig{
			Enabled:         getEnvAsBool("AUDIT_ENABLED", false),
			Source:          getEnv("AUDIT_DB_SOURCE", ""),
			MaxOpenConns:    getEnvAsInt("AUDIT_DB_MAX_OPEN_CONNS", 5),
			MaxIdleConns:    getEnvAsInt("AUDIT_DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvAsDuration("AUDIT_DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Notification: NotificationConfig{
			Enabled:      getEnvAsBool("NOTIFY_ENABLED", false),
			SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_APP_PASSWORD", ""),
			FromAddress:  getEnv("SMTP_FROM_ADDRESS", ""),
			MaxWorkers:   getEnvAsInt("NOTIFY_MAX_WORKERS", 4),
			QueueSize:    getEnvAsInt("NOTIFY_QUEUE_SIZE", 64),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Paytm.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("paytm config: %v", err))
	}

	if err := c.Audit.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("audit config: %v", err))
	}

	if err := c.Notification.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("notification config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Validate rejects startup without merchant credentials: absence of either
// value is a fatal configuration error, never a per-call error.
func (c *PaytmConfig) Validate() error {
	if c.MID == "" {
		return errors.New("merchant id is required (PAYTM_MID)")
	}
	if c.KeySecret == "" {
		return errors.New("merchant key secret is required (PAYTM_KEY_SECRET)")
	}
	if c.BaseURL == "" {
		return errors.New("gateway base_url is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid gateway base_url: %w", err)
	}
	return nil
}

func (c *AuditConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Source == "" {
		return errors.New("source is required when audit is enabled")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *NotificationConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.SMTPUsername == "" || c.SMTPPassword == "" {
		return errors.New("smtp_username and smtp_password are required when notification is enabled")
	}
	if c.FromAddress == "" {
		return errors.New("from_address is required when notification is enabled")
	}
	return nil
}
