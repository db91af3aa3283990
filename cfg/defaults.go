package cfg

// GetDefaultLoggingConfig returns the default configuration that is to be
// used during application startup, before the provided configuration has
// been parsed.
func GetDefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Severity: InfoLogSeverity,
		Format:   "text",
		LogRotate: LogRotateLoggingConfig{
			BackupFileCount: 10,
			Compress:        true,
			MaxFileSizeMb:   512,
		},
	}
}

// GetDefaultMasterConfig returns the default MasterConfig, used the same
// way: before flags/config-file values have been layered on.
func GetDefaultMasterConfig() MasterConfig {
	return MasterConfig{
		Address:             "0.0.0.0:19998",
		WorkerTimeoutMs:     10_000,
		HeartbeatIntervalMs: 1_000,
		MaxColumns:          1024,
		ProactiveRecovery:   false,
		MetricsAddress:      "0.0.0.0:9098",
	}
}
