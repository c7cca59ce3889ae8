package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix namespaces variables as FINFLOW_<SECTION>_<NAME> (e.g. FINFLOW_DB_DB_HOST).
// The bare tag name (DB_HOST) is the fallback when the namespaced one is unset.
const Prefix = "FINFLOW"

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"FinFlow"`
		Port      int    `envconfig:"PORT" default:"8080"`
		BaseURL   string `envconfig:"BASE_URL" default:"http://localhost:8080"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	}

	DB struct {
		URL      string `envconfig:"DATABASE_URL"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"finflow"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}

	Server struct {
		Timeout         time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	}

	Auth struct {
		JWTSecret           string        `envconfig:"JWT_SECRET"`
		TokenTTL            time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
		ResetTTL            time.Duration `envconfig:"RESET_TTL" default:"1h"`
		ResendInterval      time.Duration `envconfig:"VERIFICATION_RESEND_INTERVAL" default:"1m"`
		RevocationCacheSize int           `envconfig:"REVOCATION_CACHE_SIZE" default:"10000"`
	}

	Report struct {
		RowsPerPage int `envconfig:"REPORT_ROWS_PER_PAGE" default:"10"`
	}

	Notify struct {
		QueueSize int `envconfig:"NOTIFY_QUEUE_SIZE" default:"50"`
	}

	AMQP struct {
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"finflow.changes"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}
}

func (c *Config) ConnectionString() string {
	if c.DB.URL != "" {
		return c.DB.URL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:     c.DB.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.DB.SSLMode),
	}

	return u.String()
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters"))
	}

	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.App.Port))
	}

	if c.Report.RowsPerPage <= 0 {
		errs = append(errs, errors.New("REPORT_ROWS_PER_PAGE must be positive"))
	}

	if c.Notify.QueueSize <= 0 {
		errs = append(errs, errors.New("NOTIFY_QUEUE_SIZE must be positive"))
	}

	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}

	switch c.App.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q must be text or json", c.App.LogFormat))
	}

	return errors.Join(errs...)
}

// Load reads a dotenv file if present, then the environment, then validates.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	envFile := os.Getenv(Prefix + "_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
