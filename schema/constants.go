// Package schema has the models, enums and result types shared by every part of perflog.
package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// MonotonicPolicy decides what happens when a counter goes backwards.
	MonotonicPolicy string

	// RunKind identifies which analysis produced a history entry.
	RunKind string

	// Band names one side of a percentile partition.
	Band string

	// SheetFormat is the target format of the convert command.
	SheetFormat string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All monotonicity policies supported.
const (
	RejectPolicy MonotonicPolicy = "reject" // default
	ClampPolicy  MonotonicPolicy = "clamp"
)

// All run kinds recorded in history.
const (
	DispatchRun RunKind = "dispatch"
	WorkersRun  RunKind = "workers"
)

// Partition bands.
const (
	TypicalBand Band = "typical"
	TailBand    Band = "tail"
)

// All spreadsheet formats supported.
const (
	XLSXSheet SheetFormat = "xlsx" // default
	CSVSheet  SheetFormat = "csv"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidMonotonicPolicies lists all valid monotonicity policies.
var ValidMonotonicPolicies = map[MonotonicPolicy]struct{}{
	RejectPolicy: {},
	ClampPolicy:  {},
}

// ValidSheetFormats lists all valid spreadsheet formats.
var ValidSheetFormats = map[SheetFormat]struct{}{
	XLSXSheet: {},
	CSVSheet:  {},
}
