package config

import "time"

// Application constants
const (
	AppName = "Grades Dashboard"

	// EnvPrefix namespaces every environment variable, e.g. GRADES_SERVER_PORT.
	EnvPrefix = "GRADES"

	// ConfigFileEnv overrides the config file search.
	ConfigFileEnv = "GRADES_CONFIG_FILE"

	// DefaultSource is the published sample grade sheet.
	DefaultSource = "https://raw.githubusercontent.com/hcoco1/Dashboard-Plothy-Dash/main/hcoco1/src/data/grades_over_time.csv"

	DefaultFetchTimeout  = 30 * time.Second
	DefaultRealm         = "Grades Dashboard"
	DefaultSheetsRange   = "A:ZZ"
	MinimumRefreshPeriod = 5 * time.Second
	DefaultServiceName   = "gradesdash"
	TracesExporterNone   = "none"
	TracesExporterStdout = "stdout"
)

// Build information, set with -ldflags "-X gradesdash/internal/config.Version=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)
