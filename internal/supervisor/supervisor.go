package supervisor

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// InstallShutdownHandler arranges for SIGINT and SIGTERM to create the
// shutdown sentinel file rather than touch any in-memory state. Go's
// own runtime already defers actual signal delivery to a safe point
// before handing it to this goroutine, so the only discipline left to
// us is not reaching into the control loop's state from here; writing
// the sentinel file is the full extent of what this does.
func InstallShutdownHandler(sentinelPath string, logger *slog.Logger) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for range ch {
			if err := WriteSentinel(sentinelPath); err != nil {
				logger.Error("failed to write shutdown sentinel", "error", err)
			}
		}
	}()
}

// RequestShutdown implements the `-s`/`-k` CLI flag: find the running
// instance by its pid file and signal it directly, rather than
// going through the sentinel file (which that instance's own loop
// would only notice up to a second later either way; signaling is
// immediate and doesn't require filesystem access by the running
// instance beforehand).
func RequestShutdown(logDir string) error {
	path := pidFilePath(logDir)
	pid, ok := ReadPIDFile(path)
	if !ok || !IsProcessAlive(pid) {
		// No live instance: clear a stale pid file so the next startup
		// or shutdown request doesn't trip over it.
		RemovePIDFile(path)
		return nil
	}
	return syscall.Kill(pid, syscall.SIGTERM)
}
