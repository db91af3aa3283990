package cfg

import "path/filepath"

// LogFilePath resolves the effective log file path: the configured
// value, or TACHYON_HOME/logs/master.log if unset.
func (c *Config) LogFilePath() string {
	if c.Logging.FilePath != "" {
		return string(c.Logging.FilePath)
	}
	if c.Home.Dir == "" {
		return ""
	}
	return filepath.Join(string(c.Home.Dir), "logs", "master.log")
}

// JournalLogFilePath resolves MASTER_LOG_FILE against TACHYON_HOME when
// not set to an absolute override.
func (c *Config) JournalLogFilePath() string {
	if c.Master.LogFile != "" {
		return string(c.Master.LogFile)
	}
	return filepath.Join(string(c.Home.Dir), "journal.log")
}

// CheckpointFilePath resolves MASTER_CHECKPOINT_FILE the same way.
func (c *Config) CheckpointFilePath() string {
	if c.Master.CheckpointFile != "" {
		return string(c.Master.CheckpointFile)
	}
	return filepath.Join(string(c.Home.Dir), "checkpoint")
}

// RestartScriptPath returns the worker-restart script path under
// TACHYON_HOME.
func (c *Config) RestartScriptPath() string {
	return filepath.Join(string(c.Home.Dir), DefaultWorkerRestartScript)
}

// RerunLogDir returns the directory the scheduler writes rerun logs to.
func (c *Config) RerunLogDir() string {
	return filepath.Join(string(c.Home.Dir), DefaultRerunLogSubdir)
}
