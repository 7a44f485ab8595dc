package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/qapulse/schema"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // CriticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // HighColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // ModerateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)                // LowColor represents informational / low-priority signal.
)

// GetWorkloadLabel returns the workload label, colored when requested.
func GetWorkloadLabel(w schema.Workload, useColors bool) string {
	if !useColors {
		return string(w)
	}
	switch w {
	case schema.WorkloadHigh:
		return HighColor.Sprint(w)
	case schema.WorkloadMedium:
		return ModerateColor.Sprint(w)
	default:
		return LowColor.Sprint(w)
	}
}

// GetRiskLabel returns the module risk label, colored when requested.
func GetRiskLabel(r schema.RiskLevel, useColors bool) string {
	if !useColors {
		return string(r)
	}
	switch r {
	case schema.RiskHigh:
		return CriticalColor.Sprint(r)
	case schema.RiskMedium:
		return ModerateColor.Sprint(r)
	default:
		return LowColor.Sprint(r)
	}
}

// GetPriorityLabel returns a recommendation priority, colored when requested.
func GetPriorityLabel(priority string, useColors bool) string {
	if !useColors {
		return priority
	}
	switch strings.ToLower(priority) {
	case "alta":
		return CriticalColor.Sprint(priority)
	case "media":
		return ModerateColor.Sprint(priority)
	default:
		return LowColor.Sprint(priority)
	}
}

// GetDensityLabel returns the defect density status, colored when requested.
func GetDensityLabel(s schema.DensityStatus, useColors bool) string {
	if !useColors {
		return string(s)
	}
	switch s {
	case schema.DensityCritical:
		return CriticalColor.Sprint(s)
	case schema.DensityWarning:
		return ModerateColor.Sprint(s)
	default:
		return LowColor.Sprint(s)
	}
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

// GetCacheDBFilePath returns the path to the SQLite DB file for document caching.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".qapulse_cache.db"
	}
	return filepath.Join(homeDir, ".qapulse_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for import history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".qapulse_history.db"
	}
	return filepath.Join(homeDir, ".qapulse_history.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
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
