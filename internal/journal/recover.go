package journal

import (
	"fmt"
	"os"
)

// Recover replays checkpointPath (if it exists) then logPath (if it
// exists), in that order, handing every effective record to apply — the
// two recovery steps of spec §4.2. The caller (internal/master) is
// responsible for step 3: writing a fresh checkpoint, deleting the log,
// and reopening the log writer empty, since that requires the
// reconstructed namespace and dependency graph it just populated via
// apply.
func Recover(checkpointPath, logPath string, apply Apply) error {
	if err := replayFile(checkpointPath, apply); err != nil {
		return fmt.Errorf("journal: replay checkpoint: %w", err)
	}
	if err := replayFile(logPath, apply); err != nil {
		return fmt.Errorf("journal: replay log: %w", err)
	}
	return nil
}

func replayFile(path string, apply Apply) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	return Replay(f, apply)
}
