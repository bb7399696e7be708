package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/perflog/schema"
)

// Band label constants.
const (
	TypicalValue = "Typical" // below the percentile threshold
	TailValue    = "Tail"    // at or above the percentile threshold
)

// Color variables for console output.
var (
	TailColor    = color.New(color.FgRed, color.Bold) // TailColor marks outlier costs.
	TypicalColor = color.New(color.FgCyan)            // TypicalColor marks the bulk of the distribution.
	HeaderColor  = color.New(color.FgYellow)          // HeaderColor marks field names.
)

// GetPlainLabel returns a plain text label for a partition band.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(band schema.Band) string {
	if band == schema.TailBand {
		return TailValue
	}
	return TypicalValue
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(band schema.Band) string {
	text := GetPlainLabel(band)
	if band == schema.TailBand {
		return TailColor.Sprint(text)
	}
	return TypicalColor.Sprint(text)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".perflog_history.db"
	}
	return filepath.Join(homeDir, ".perflog_history.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
