// GENERATED CODE - DO NOT EDIT MANUALLY.

package cfg

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Home TachyonHomeConfig `yaml:"home"`

	Master MasterConfig `yaml:"master"`

	Logging LoggingConfig `yaml:"logging"`
}

type TachyonHomeConfig struct {
	Dir ResolvedPath `yaml:"dir"`

	Whitelist string `yaml:"whitelist"`

	Pinlist string `yaml:"pinlist"`
}

type MasterConfig struct {
	Address string `yaml:"address"`

	LogFile ResolvedPath `yaml:"log-file"`

	CheckpointFile ResolvedPath `yaml:"checkpoint-file"`

	WorkerTimeoutMs int64 `yaml:"worker-timeout-ms"`

	HeartbeatIntervalMs int64 `yaml:"heartbeat-interval-ms"`

	MaxColumns uint32 `yaml:"max-columns"`

	ProactiveRecovery bool `yaml:"proactive-recovery"`

	MetricsAddress string `yaml:"metrics-address"`
}

type LoggingConfig struct {
	Severity LogSeverity `yaml:"severity"`

	Format string `yaml:"format"`

	FilePath ResolvedPath `yaml:"file-path"`

	LogRotate LogRotateLoggingConfig `yaml:"log-rotate"`
}

type LogRotateLoggingConfig struct {
	MaxFileSizeMb int `yaml:"max-file-size-mb"`

	BackupFileCount int `yaml:"backup-file-count"`

	Compress bool `yaml:"compress"`
}

func BindFlags(flagSet *pflag.FlagSet) error {
	var err error

	flagSet.StringP("home-dir", "", "", "TACHYON_HOME: the root directory holding logs, checkpoints, and worker-restart scripts.")

	err = viper.BindPFlag("home.dir", flagSet.Lookup("home-dir"))
	if err != nil {
		return err
	}

	flagSet.StringP("whitelist", "", "", "WHITELIST: comma/semicolon-separated absolute namespace path prefixes eligible for worker caching.")

	err = viper.BindPFlag("home.whitelist", flagSet.Lookup("whitelist"))
	if err != nil {
		return err
	}

	flagSet.StringP("pinlist", "", "", "PINLIST: comma/semicolon-separated absolute namespace path prefixes that are never evicted.")

	err = viper.BindPFlag("home.pinlist", flagSet.Lookup("pinlist"))
	if err != nil {
		return err
	}

	flagSet.StringP("master-address", "", "0.0.0.0:19998", "Master address; it is logged at startup, and no RPC listener is bound to it.")

	err = viper.BindPFlag("master.address", flagSet.Lookup("master-address"))
	if err != nil {
		return err
	}

	flagSet.StringP("master-log-file", "", "", "MASTER_LOG_FILE: path to the write-ahead log.")

	err = viper.BindPFlag("master.log-file", flagSet.Lookup("master-log-file"))
	if err != nil {
		return err
	}

	flagSet.StringP("master-checkpoint-file", "", "", "MASTER_CHECKPOINT_FILE: path to the checkpoint file.")

	err = viper.BindPFlag("master.checkpoint-file", flagSet.Lookup("master-checkpoint-file"))
	if err != nil {
		return err
	}

	flagSet.Int64P("worker-timeout-ms", "", 10_000, "WORKER_TIMEOUT_MS: a worker that has not heartbeat for this long is declared lost.")

	err = viper.BindPFlag("master.worker-timeout-ms", flagSet.Lookup("worker-timeout-ms"))
	if err != nil {
		return err
	}

	flagSet.Int64P("heartbeat-interval-ms", "", 1_000, "MASTER_HEARTBEAT_INTERVAL_MS: how often the liveness monitor sweeps for timed-out workers.")

	err = viper.BindPFlag("master.heartbeat-interval-ms", flagSet.Lookup("heartbeat-interval-ms"))
	if err != nil {
		return err
	}

	flagSet.Uint32P("max-columns", "", 1024, "MAX_COLUMNS: the exclusive upper bound on a raw table's column count.")

	err = viper.BindPFlag("master.max-columns", flagSet.Lookup("max-columns"))
	if err != nil {
		return err
	}

	flagSet.BoolP("proactive-recovery", "", false, "MASTER_PROACTIVE_RECOVERY: when true, cleanup of a lost worker does not add a lost file's dependency to the must-recompute set.")

	err = viper.BindPFlag("master.proactive-recovery", flagSet.Lookup("proactive-recovery"))
	if err != nil {
		return err
	}

	flagSet.StringP("metrics-address", "", "0.0.0.0:9098", "Address the Prometheus metrics HTTP handler listens on.")

	err = viper.BindPFlag("master.metrics-address", flagSet.Lookup("metrics-address"))
	if err != nil {
		return err
	}

	flagSet.StringP("log-severity", "", "INFO", "One of TRACE, DEBUG, INFO, WARNING, ERROR, OFF.")

	err = viper.BindPFlag("logging.severity", flagSet.Lookup("log-severity"))
	if err != nil {
		return err
	}

	flagSet.StringP("log-format", "", "text", "One of text, json.")

	err = viper.BindPFlag("logging.format", flagSet.Lookup("log-format"))
	if err != nil {
		return err
	}

	flagSet.StringP("log-file", "", "", "Path to write logs to; empty means stderr.")

	err = viper.BindPFlag("logging.file-path", flagSet.Lookup("log-file"))
	if err != nil {
		return err
	}

	flagSet.IntP("log-rotate-max-file-size-mb", "", 512, "Log rotation: size in MB before a log file is rotated.")

	err = viper.BindPFlag("logging.log-rotate.max-file-size-mb", flagSet.Lookup("log-rotate-max-file-size-mb"))
	if err != nil {
		return err
	}

	flagSet.IntP("log-rotate-backup-file-count", "", 10, "Log rotation: number of rotated files to retain (0 retains all).")

	err = viper.BindPFlag("logging.log-rotate.backup-file-count", flagSet.Lookup("log-rotate-backup-file-count"))
	if err != nil {
		return err
	}

	flagSet.BoolP("log-rotate-compress", "", true, "Log rotation: gzip rotated files.")

	err = viper.BindPFlag("logging.log-rotate.compress", flagSet.Lookup("log-rotate-compress"))
	if err != nil {
		return err
	}

	return nil
}
