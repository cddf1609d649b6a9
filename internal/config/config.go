package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// ErrMissingCredentials is returned when authentication is enabled but the
// credentials or secret key are not configured.
var ErrMissingCredentials = errors.New("missing authentication configuration")

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Auth      AuthConfig      `yaml:"auth" envconfig:"AUTH"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// AuthConfig holds the single basic-auth credential pair and the key used
// to sign preference cookies. Password may be plaintext or a bcrypt hash.
//
// The fields carry no envconfig tag: a tag would make envconfig fall back to
// the bare name ($USERNAME, $PASSWORD) when the prefixed variable is unset.
type AuthConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	SecretKey string `yaml:"secret_key" split_words:"true"`
	Realm     string `yaml:"realm"`
}

// DataConfig describes where grades come from and how they are prepared.
type DataConfig struct {
	Source          string        `yaml:"source" envconfig:"SOURCE"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT"`
	BackfillYears   bool          `yaml:"backfill_years" envconfig:"BACKFILL_YEARS"`
	Levels          []string      `yaml:"levels" envconfig:"LEVELS"`
	RefreshInterval time.Duration `yaml:"refresh_interval" envconfig:"REFRESH_INTERVAL"`
	Sheets          SheetsConfig  `yaml:"sheets" envconfig:"SHEETS"`
}

// SheetsConfig selects a Google Sheets range as the source. It is used when
// SpreadsheetID is set.
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id" split_words:"true"`
	Range           string `yaml:"range"`
	CredentialsFile string `yaml:"credentials_file" split_words:"true"`
	APIKey          string `yaml:"api_key" split_words:"true"`
}

// TelemetryConfig controls tracing and metrics.
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	TracesExporter string `yaml:"traces_exporter" envconfig:"TRACES_EXPORTER"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT"`
}

// legacyEnv are the unprefixed variable names older deployments use.
type legacyEnv struct {
	SecretKey string `envconfig:"SECRET_KEY"`
	Username  string `envconfig:"AUTH_USERNAME"`
	Password  string `envconfig:"AUTH_PASSWORD"`
}

// Load loads configuration from defaults, the config file and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file; an empty path skips the file.
func LoadFile(configFile string) (*Config, error) {
	cfg, err := load(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadData is LoadFile for tools that only read the dataset. Server, auth
// and telemetry settings are not checked.
func LoadData(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	cfg, err := load(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateData(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	var legacy legacyEnv
	if err := envconfig.Process("", &legacy); err != nil {
		return nil, fmt.Errorf("failed to load legacy env: %w", err)
	}
	cfg.applyLegacy(legacy)

	// Unset variables leave file and default values untouched.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; absent keys keep their value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) applyLegacy(l legacyEnv) {
	if l.SecretKey != "" {
		c.Auth.SecretKey = l.SecretKey
	}
	if l.Username != "" {
		c.Auth.Username = l.Username
	}
	if l.Password != "" {
		c.Auth.Password = l.Password
	}
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}
	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %q", c.Logging.Output)
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}
	// JSON is the only supported format.
	c.Logging.Format = "json"

	if c.Auth.Enabled {
		var missing []string
		if c.Auth.Username == "" {
			missing = append(missing, "username")
		}
		if c.Auth.Password == "" {
			missing = append(missing, "password")
		}
		if c.Auth.SecretKey == "" {
			missing = append(missing, "secret key")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
		}
	}
	if c.Auth.Realm == "" {
		c.Auth.Realm = DefaultRealm
	}

	if err := c.validateData(); err != nil {
		return err
	}

	switch c.Telemetry.TracesExporter {
	case TracesExporterNone, TracesExporterStdout:
	default:
		return fmt.Errorf("invalid traces exporter: %q", c.Telemetry.TracesExporter)
	}
	return nil
}

// validateData checks the data section only.
func (c *Config) validateData() error {
	if c.Data.Source == "" && c.Data.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("no data source configured")
	}
	if c.Data.FetchTimeout <= 0 {
		c.Data.FetchTimeout = DefaultFetchTimeout
	}
	if c.Data.RefreshInterval > 0 && c.Data.RefreshInterval < MinimumRefreshPeriod {
		return fmt.Errorf("refresh interval must be at least %s", MinimumRefreshPeriod)
	}
	if c.Data.Sheets.SpreadsheetID != "" && c.Data.Sheets.CredentialsFile == "" && c.Data.Sheets.APIKey == "" {
		return fmt.Errorf("sheets source needs a credentials file or an API key")
	}
	return nil
}

// UsesSheets reports whether the Google Sheets source is selected.
func (c *Config) UsesSheets() bool {
	return c.Data.Sheets.SpreadsheetID != ""
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(ConfigFileEnv); p != "" {
		return p
	}
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8050,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  20 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8050"},
			EnableCORS:     false,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Auth: AuthConfig{
			Enabled: true,
			Realm:   DefaultRealm,
		},
		Data: DataConfig{
			Source:       DefaultSource,
			FetchTimeout: DefaultFetchTimeout,
			Sheets: SheetsConfig{
				Range: DefaultSheetsRange,
			},
		},
		Telemetry: TelemetryConfig{
			ServiceName:    DefaultServiceName,
			TracesExporter: TracesExporterNone,
			MetricsEnabled: true,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      30 * time.Second,
			PongWait:        60 * time.Second,
		},
	}
}
