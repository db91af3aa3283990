// Package launcher implements the two external-process ports spec §6
// names: the command launcher used by the recomputation scheduler, and
// the worker-restart hook invoked by the liveness monitor. Both are
// fire-and-forget shell spawns with output redirected to a log file,
// abstracted behind interfaces so the scheduler and liveness monitor can
// be tested deterministically without actually spawning a process (spec
// §9: "Abstract behind a CommandLauncher port to allow deterministic
// testing").
package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// CommandLauncher spawns a shell command detached, streaming stdout/
// stderr to logPath.
type CommandLauncher interface {
	Launch(ctx context.Context, command string, logPath string) error
}

// RestartHook runs the worker-restart script once per liveness sweep that
// detected lost workers.
type RestartHook interface {
	Run(ctx context.Context) error
}

// ShellLauncher is the real CommandLauncher: it runs command through
// "sh -c", appending stdout/stderr to logPath, and does not wait for it
// to finish.
type ShellLauncher struct{}

// Launch implements CommandLauncher.
func (ShellLauncher) Launch(ctx context.Context, command string, logPath string) error {
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("launcher: open log %q: %w", logPath, err)
	}
	cmd := exec.CommandContext(context.WithoutCancel(ctx), "sh", "-c", command)
	cmd.Stdout = f
	cmd.Stderr = f
	if err := cmd.Start(); err != nil {
		f.Close()
		return fmt.Errorf("launcher: start %q: %w", command, err)
	}
	// Fire-and-forget: release resources once the detached process exits,
	// without blocking the scheduler loop on it.
	go func() {
		_ = cmd.Wait()
		_ = f.Close()
	}()
	return nil
}

// ScriptRestartHook runs a fixed script path (spec §6:
// "${TACHYON_HOME}/bin/restart-failed-workers.sh") via ShellLauncher.
type ScriptRestartHook struct {
	ScriptPath string
	LogPath    string
	Launcher   CommandLauncher
}

// Run implements RestartHook.
func (h ScriptRestartHook) Run(ctx context.Context) error {
	return h.Launcher.Launch(ctx, h.ScriptPath, h.LogPath)
}
