package logger

import (
	"bytes"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tachyon-project/tachyon-master/cfg"
)

const (
	textInfoString    = `^time=[a-zA-Z0-9/:.+TZ-]+ severity=INFO msg=infoExample`
	textWarningString = `^time=[a-zA-Z0-9/:.+TZ-]+ severity=WARNING msg=warningExample`
	textErrorString   = `^time=[a-zA-Z0-9/:.+TZ-]+ severity=ERROR msg=errorExample`
	jsonInfoString    = `^\{"time":"[^"]+","severity":"INFO","msg":"infoExample"\}`
)

func redirectTo(buf *bytes.Buffer, format string, level slog.Level) {
	programLevel.Set(level)
	mu.Lock()
	defaultLogger = slog.New(newHandler(buf, format))
	mu.Unlock()
}

func TestSeverityFiltering_WarningSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	redirectTo(&buf, "text", LevelWarn)

	Infof("infoExample")
	assert.Empty(t, buf.String())

	Warnf("warningExample")
	assert.Regexp(t, regexp.MustCompile(textWarningString), buf.String())
}

func TestSeverityFiltering_ErrorPassesAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	redirectTo(&buf, "text", LevelError)

	Warnf("warningExample")
	assert.Empty(t, buf.String())

	Errorf("errorExample")
	assert.Regexp(t, regexp.MustCompile(textErrorString), buf.String())
}

func TestJSONFormat_RenamesLevelKeyToSeverity(t *testing.T) {
	var buf bytes.Buffer
	redirectTo(&buf, "json", LevelInfo)

	Infof("infoExample")
	assert.Regexp(t, regexp.MustCompile(jsonInfoString), buf.String())
}

func TestLevelOff_SuppressesEverything(t *testing.T) {
	var buf bytes.Buffer
	redirectTo(&buf, "text", LevelOff)

	Tracef("traceExample")
	Debugf("debugExample")
	Infof("infoExample")
	Warnf("warningExample")
	Errorf("errorExample")

	assert.Empty(t, buf.String())
}

func TestLevelFromSeverity(t *testing.T) {
	cases := map[cfg.LogSeverity]slog.Level{
		cfg.TraceLogSeverity:   LevelTrace,
		cfg.DebugLogSeverity:   LevelDebug,
		cfg.InfoLogSeverity:    LevelInfo,
		cfg.WarningLogSeverity: LevelWarn,
		cfg.ErrorLogSeverity:   LevelError,
		cfg.OffLogSeverity:     LevelOff,
	}
	for severity, want := range cases {
		assert.Equal(t, want, levelFromSeverity(severity))
	}
}

func TestInit_DefaultsToStderrWhenNoFilePath(t *testing.T) {
	err := Init(cfg.LoggingConfig{
		Severity: cfg.InfoLogSeverity,
		Format:   "text",
		LogRotate: cfg.LogRotateLoggingConfig{
			MaxFileSizeMb:   1,
			BackupFileCount: 1,
		},
	})
	require.NoError(t, err)
	assert.Nil(t, closer)
}
