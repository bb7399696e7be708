package contract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/huangsam/perflog/schema"
	"go.uber.org/zap/zapcore"
)

// Default values for configuration.
const (
	DefaultLogFile     = "performance"
	DefaultMarker      = "#"
	DefaultLookahead   = 10
	DefaultPercentile  = 98.0
	DefaultResultLimit = 25
	MaxResultLimit     = 1_000_000
	DefaultPrecision   = 2
	DefaultTaskName    = "task"
	DefaultHDFSUser    = "hdfs"
	DefaultLogLevel    = "warn"
)

// Default field names used by the manager's performance log.
const (
	DefaultDispatchDriver = "tasks_dispatched"
	DefaultDispatchCost   = "time_scheduling"
	DefaultProgressField  = "tasks_done"
	DefaultStateFields    = "workers_connected,workers_idle,workers_busy"
)

// Remote location prefixes understood by the source resolver.
const (
	S3Scheme   = "s3://"
	HDFSScheme = "hdfs://"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	LogLocation string // directory, file path, s3:// or hdfs:// URL
	LogFile     string // file name joined onto LogLocation when it is a directory
	Marker      string
	Lookahead   int
	Policy      schema.MonotonicPolicy

	DriverField string
	CostField   string
	Percentile  float64
	TaskName    string

	ProgressField string
	StateFields   []string

	Plot        bool
	PlotFile    string
	SheetFormat schema.SheetFormat

	ResultLimit int // 0 means no limit
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Detail      bool
	Width       int // Terminal width override (0 = auto-detect)

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	HDFSUser string
	LogLevel zapcore.Level

	UseEmojis bool // Enable emojis in status lines
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	LogLocationStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	LogFile          string `mapstructure:"log-file"`
	Marker           string `mapstructure:"marker"`
	Lookahead        int    `mapstructure:"lookahead"`
	Policy           string `mapstructure:"policy"`
	OutputFile       string `mapstructure:"output-file"`
	Limit            int    `mapstructure:"limit"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	Detail           bool   `mapstructure:"detail"`
	Width            int    `mapstructure:"width"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	HDFSUser         string `mapstructure:"hdfs-user"`
	LogLevel         string `mapstructure:"log-level"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`

	// --- Fields from dispatchCmd.Flags() ---
	DriverField string  `mapstructure:"driver-field"`
	CostField   string  `mapstructure:"cost-field"`
	Percentile  float64 `mapstructure:"percentile"`
	Name        string  `mapstructure:"name"`

	// --- Fields from workersCmd.Flags() ---
	ProgressField string `mapstructure:"progress-field"`
	StateFields   string `mapstructure:"state-fields"`

	// --- Fields shared by dispatchCmd and workersCmd ---
	Plot     bool   `mapstructure:"plot"`
	PlotFile string `mapstructure:"plot-file"`

	// --- Fields from convertCmd.Flags() ---
	Format string `mapstructure:"format"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.StateFields != nil {
		clone.StateFields = make([]string, len(c.StateFields))
		copy(clone.StateFields, c.StateFields)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateLogInputs(cfg, input); err != nil {
		return err
	}
	if err := validateAnalysisInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return resolveLogLocation(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the run history backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(input.HistoryBackend)
	if backend == "" {
		backend = string(schema.NoneBackend)
	}
	cfg.HistoryBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width
	cfg.Plot = input.Plot
	cfg.PlotFile = input.PlotFile

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > 6 {
		return fmt.Errorf("precision must be between 0 and 6 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Log level ---
	levelStr := input.LogLevel
	if levelStr == "" {
		levelStr = DefaultLogLevel
	}
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid --log-level value: %w", err)
	}
	cfg.LogLevel = level

	return nil
}

// validateLogInputs validates how the performance log is located and read.
func validateLogInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.LogFile = strings.TrimSpace(input.LogFile)
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile
	}

	if input.Marker == "" {
		return fmt.Errorf("marker must not be empty")
	}
	if strings.ContainsAny(input.Marker, " \t\r\n") {
		return fmt.Errorf("marker must not contain whitespace (received %q)", input.Marker)
	}
	cfg.Marker = input.Marker

	if input.Lookahead <= 0 {
		return fmt.Errorf("lookahead must be greater than 0 (received %d)", input.Lookahead)
	}
	cfg.Lookahead = input.Lookahead

	policy := strings.ToLower(input.Policy)
	if policy == "" {
		policy = string(schema.RejectPolicy)
	}
	cfg.Policy = schema.MonotonicPolicy(policy)
	if _, ok := schema.ValidMonotonicPolicies[cfg.Policy]; !ok {
		return fmt.Errorf("invalid policy '%s'. must be reject, clamp", input.Policy)
	}

	cfg.HDFSUser = input.HDFSUser
	if cfg.HDFSUser == "" {
		cfg.HDFSUser = DefaultHDFSUser
	}
	return nil
}

// validateAnalysisInputs validates the dispatch, workers and convert parameters.
func validateAnalysisInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.DriverField = strings.TrimSpace(input.DriverField)
	cfg.CostField = strings.TrimSpace(input.CostField)
	if cfg.DriverField == "" || cfg.CostField == "" {
		return fmt.Errorf("driver-field and cost-field must not be empty")
	}
	if cfg.DriverField == cfg.CostField {
		return fmt.Errorf("driver-field and cost-field must differ (both %q)", cfg.DriverField)
	}

	if input.Percentile <= 0 || input.Percentile > 100 {
		return fmt.Errorf("percentile must be greater than 0 and at most 100 (received %g)", input.Percentile)
	}
	cfg.Percentile = input.Percentile

	cfg.TaskName = strings.TrimSpace(input.Name)
	if cfg.TaskName == "" {
		cfg.TaskName = DefaultTaskName
	}

	cfg.ProgressField = strings.TrimSpace(input.ProgressField)
	if cfg.ProgressField == "" {
		return fmt.Errorf("progress-field must not be empty")
	}
	cfg.StateFields = nil
	for p := range strings.SplitSeq(input.StateFields, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			cfg.StateFields = append(cfg.StateFields, trimmed)
		}
	}
	if len(cfg.StateFields) == 0 {
		return fmt.Errorf("state-fields must name at least one field")
	}

	format := strings.ToLower(input.Format)
	if format == "" {
		format = string(schema.XLSXSheet)
	}
	cfg.SheetFormat = schema.SheetFormat(format)
	if _, ok := schema.ValidSheetFormats[cfg.SheetFormat]; !ok {
		return fmt.Errorf("invalid format '%s'. must be xlsx, csv", input.Format)
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// IsRemoteLocation reports whether the location is served by a remote source.
func IsRemoteLocation(location string) bool {
	return strings.HasPrefix(location, S3Scheme) || strings.HasPrefix(location, HDFSScheme)
}

// resolveLogLocation turns a local log location into an absolute path.
// Remote URLs are kept as given.
func resolveLogLocation(cfg *Config, input *ConfigRawInput) error {
	location := strings.TrimSpace(input.LogLocationStr)
	if location == "" {
		location = "."
	}
	if IsRemoteLocation(location) {
		cfg.LogLocation = location
		return nil
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return fmt.Errorf("cannot resolve log location %q: %w", location, err)
	}
	cfg.LogLocation = filepath.Clean(abs)
	return nil
}

// RevalidateOverrides checks a cloned Config after per-call overrides, such as
// the arguments of an MCP tool call, and resolves a local log location.
func RevalidateOverrides(cfg *Config) error {
	if cfg.DriverField == "" || cfg.CostField == "" {
		return fmt.Errorf("driver and dependent fields must not be empty")
	}
	if cfg.DriverField == cfg.CostField {
		return fmt.Errorf("driver and dependent fields must differ (both %q)", cfg.DriverField)
	}
	if cfg.Percentile <= 0 || cfg.Percentile > 100 {
		return fmt.Errorf("percentile must be greater than 0 and at most 100 (received %g)", cfg.Percentile)
	}
	if cfg.ProgressField == "" || len(cfg.StateFields) == 0 {
		return fmt.Errorf("worker analysis needs a driver and at least one state field")
	}
	if cfg.ResultLimit < 0 || cfg.ResultLimit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, cfg.ResultLimit)
	}
	return resolveLogLocation(cfg, &ConfigRawInput{LogLocationStr: cfg.LogLocation})
}
