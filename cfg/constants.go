package cfg

const (
	// Logging-level constants, mirrored as plain strings for callers that
	// don't want the LogSeverity type.

	TRACE   string = "TRACE"
	DEBUG   string = "DEBUG"
	INFO    string = "INFO"
	WARNING string = "WARNING"
	ERROR   string = "ERROR"
	OFF     string = "OFF"
)

const (
	// DefaultRerunLogSubdir is the TACHYON_HOME-relative directory the
	// recomputation scheduler writes rerun logs into.
	DefaultRerunLogSubdir = "logs"

	// DefaultWorkerRestartScript is the TACHYON_HOME-relative script the
	// liveness monitor's restart hook invokes.
	DefaultWorkerRestartScript = "bin/restart-failed-workers.sh"
)
