package launcher

import (
	"context"
	"sync"
)

// Fake records every Launch/Run call instead of spawning a process, for
// deterministic tests of the scheduler and liveness monitor.
type Fake struct {
	mu       sync.Mutex
	Launches []string
	Runs     int
}

// Launch implements CommandLauncher.
func (f *Fake) Launch(_ context.Context, command string, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Launches = append(f.Launches, command)
	return nil
}

// Run implements RestartHook.
func (f *Fake) Run(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Runs++
	return nil
}

// LaunchCount returns how many times Launch has been called so far.
func (f *Fake) LaunchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Launches)
}
