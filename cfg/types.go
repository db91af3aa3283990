package cfg

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// LogSeverity represents the logging severity and can accept the following
// values: "TRACE", "DEBUG", "INFO", "WARNING", "ERROR", "OFF".
type LogSeverity string

// Constants for all supported log severities. internal/logger maps DEBUG,
// INFO, WARNING and ERROR onto slog's own levels, TRACE onto a level below
// slog.LevelDebug and OFF onto one above slog.LevelError.
const (
	TraceLogSeverity   LogSeverity = "TRACE"
	DebugLogSeverity   LogSeverity = "DEBUG"
	InfoLogSeverity    LogSeverity = "INFO"
	WarningLogSeverity LogSeverity = "WARNING"
	ErrorLogSeverity   LogSeverity = "ERROR"
	OffLogSeverity     LogSeverity = "OFF"
)

// severityRanking maps each level to an integer for validation and comparison.
var severityRanking = map[LogSeverity]int{
	TraceLogSeverity:   0,
	DebugLogSeverity:   1,
	InfoLogSeverity:    2,
	WarningLogSeverity: 3,
	ErrorLogSeverity:   4,
	OffLogSeverity:     5,
}

func (l *LogSeverity) UnmarshalText(text []byte) error {
	level := LogSeverity(strings.ToUpper(string(text)))
	if _, ok := severityRanking[level]; !ok {
		return fmt.Errorf("invalid log severity level: %s. Must be one of [TRACE, DEBUG, INFO, WARNING, ERROR, OFF]", text)
	}
	*l = level
	return nil
}

// Rank returns the integer representation of the severity rank. Returns -1
// if the severity is unknown.
func (l LogSeverity) Rank() int {
	if rank, ok := severityRanking[l]; ok {
		return rank
	}
	return -1
}

// ResolvedPath is a file path resolved to an absolute path at unmarshal
// time, so every downstream consumer (journal, checkpoint, log file,
// restart script) can treat it as cwd-independent.
type ResolvedPath string

func (p *ResolvedPath) UnmarshalText(text []byte) error {
	path, err := GetResolvedPath(string(text))
	if err != nil {
		return err
	}
	*p = ResolvedPath(path)
	return nil
}

// GetResolvedPath makes path absolute, leaving an empty string untouched
// (meaning "not configured").
func GetResolvedPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return filepath.Abs(path)
}

// validSeverities lists the accepted logging.severity values, used by
// ValidateConfig.
var validSeverities = []string{
	string(TraceLogSeverity), string(DebugLogSeverity), string(InfoLogSeverity),
	string(WarningLogSeverity), string(ErrorLogSeverity), string(OffLogSeverity),
}

func isValidSeverity(s LogSeverity) bool {
	return slices.Contains(validSeverities, string(s))
}
