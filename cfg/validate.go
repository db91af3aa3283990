package cfg

import "fmt"

func isValidLogRotateConfig(config *LogRotateLoggingConfig) error {
	if config.MaxFileSizeMb <= 0 {
		return fmt.Errorf("max-file-size-mb should be atleast 1")
	}
	if config.BackupFileCount < 0 {
		return fmt.Errorf("backup-file-count should be 0 (to retain all backup files) or a positive value")
	}
	return nil
}

// ValidateConfig returns a non-nil error if the config is invalid.
func ValidateConfig(config *Config) error {
	if err := isValidLogRotateConfig(&config.Logging.LogRotate); err != nil {
		return fmt.Errorf("error parsing log-rotate config: %w", err)
	}
	if !isValidSeverity(config.Logging.Severity) {
		return fmt.Errorf("invalid logging.severity: %s", config.Logging.Severity)
	}
	if config.Logging.Format != "text" && config.Logging.Format != "json" {
		return fmt.Errorf("invalid logging.format: %s (must be text or json)", config.Logging.Format)
	}
	if config.Master.WorkerTimeoutMs <= 0 {
		return fmt.Errorf("master.worker-timeout-ms must be positive")
	}
	if config.Master.HeartbeatIntervalMs <= 0 {
		return fmt.Errorf("master.heartbeat-interval-ms must be positive")
	}
	if config.Master.MaxColumns == 0 {
		return fmt.Errorf("master.max-columns must be positive")
	}
	return nil
}
