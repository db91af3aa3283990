// Package cmd implements the tachyon-master cobra entrypoint: config ->
// logger -> MasterState -> liveness/scheduler background loops -> metrics
// HTTP endpoint, wired the way the teacher's root.go wires mount ->
// config -> logger -> filesystem server.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/tachyon-project/tachyon-master/cfg"
	"github.com/tachyon-project/tachyon-master/internal/clock"
	"github.com/tachyon-project/tachyon-master/internal/launcher"
	"github.com/tachyon-project/tachyon-master/internal/liveness"
	"github.com/tachyon-project/tachyon-master/internal/logger"
	"github.com/tachyon-project/tachyon-master/internal/master"
	"github.com/tachyon-project/tachyon-master/internal/metrics"
	"github.com/tachyon-project/tachyon-master/internal/scheduler"
)

var (
	cfgFile       string
	bindErr       error
	configFileErr error
	unmarshalErr  error
	config        cfg.Config
)

var rootCmd = &cobra.Command{
	Use:   "tachyon-master",
	Short: "Run the Tachyon metadata master",
	Long: `tachyon-master holds the in-memory namespace, dependency lineage, and
worker registry for a Tachyon-style distributed in-memory filesystem,
recovering from its write-ahead log and checkpoint on startup. It serves
Prometheus metrics and a health check over HTTP; no client or worker RPC
transport is attached.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if bindErr != nil {
			return bindErr
		}
		if configFileErr != nil {
			return configFileErr
		}
		if unmarshalErr != nil {
			return unmarshalErr
		}
		if err := cfg.ValidateConfig(&config); err != nil {
			return err
		}
		return run(&config)
	},
}

// Execute runs the root command, exiting the process on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to the config file")
	bindErr = cfg.BindFlags(rootCmd.PersistentFlags())
}

func initConfig() {
	if cfgFile == "" {
		unmarshalErr = viper.Unmarshal(&config, viper.DecodeHook(cfg.DecodeHook()))
		return
	}
	resolved, err := cfg.GetResolvedPath(cfgFile)
	if err != nil {
		configFileErr = fmt.Errorf("resolving config file path: %w", err)
		return
	}
	viper.SetConfigFile(resolved)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		configFileErr = fmt.Errorf("reading config file: %w", err)
		return
	}
	unmarshalErr = viper.Unmarshal(&config, viper.DecodeHook(cfg.DecodeHook()))
}

// run wires every long-lived component together and blocks until an
// interrupt or terminate signal arrives, per spec §9's "background
// loops... cancelled on shutdown".
func run(c *cfg.Config) error {
	if err := logger.Init(c.Logging); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()
	log := logger.Default()

	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	otel.SetTracerProvider(tp)
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("tracer provider shutdown", "error", err)
		}
	}()

	st, err := master.Open(c, clock.RealClock{}, log)
	if err != nil {
		return fmt.Errorf("open master state: %w", err)
	}
	defer st.Close()

	met := metrics.New(metrics.Sources{
		WorkerCount:            func() float64 { return float64(st.GetWorkerCount()) },
		LostFileCount:          func() float64 { return float64(st.GetLostFileCount()) },
		UncheckpointedDepCount: func() float64 { return float64(st.GetUncheckpointedDependencyCount()) },
	})
	st.SetJournalObserver(met.ObserveJournalAppend)

	shellLauncher := launcher.ShellLauncher{}
	restartHook := launcher.ScriptRestartHook{
		ScriptPath: c.RestartScriptPath(),
		LogPath:    fmt.Sprintf("%s/restart-workers.log", c.RerunLogDir()),
		Launcher:   shellLauncher,
	}

	mon := liveness.New(st.Namespace(), st.Deps(), st.Workers(), st.Clock(), restartHook, log,
		c.Master.WorkerTimeoutMs, c.Master.HeartbeatIntervalMs, c.Master.ProactiveRecovery)
	sched := scheduler.New(st.Namespace(), st.Deps(), st.Clock(), shellLauncher, log, st.HomeDir())
	sched.SetOnLaunch(met.IncRecomputationLaunch)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go mon.Run(ctx)
	go sched.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", met.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	srv := &http.Server{Addr: c.Master.MetricsAddress, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err)
		}
	}()

	log.Info("tachyon-master started",
		"master_address", c.Master.Address,
		"metrics_address", c.Master.MetricsAddress,
		"home_dir", st.HomeDir())

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("metrics server shutdown", "error", err)
	}
	return st.Checkpoint()
}
