package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/metasysd/metasys/internal/config"
	"github.com/metasysd/metasys/internal/logging"
	"github.com/metasysd/metasys/internal/metrics"
	"github.com/metasysd/metasys/internal/process"
	"github.com/metasysd/metasys/internal/resourceprobe"
	"github.com/metasysd/metasys/internal/supervisor"
	"github.com/metasysd/metasys/internal/version"
	"github.com/spf13/cobra"
)

// defaultLogDir is the log directory used until a config file's LogDir
// directive (honored only on first startup) overrides it, and the
// directory -s/-k falls back to when the config itself doesn't
// declare one.
const defaultLogDir = "/var/log/metasys"

var (
	verbosity    int
	shutdownFlag bool
	killFlag     bool
	exampleFlag  bool
)

// rootCmd is metasys's entire CLI surface: a flat flag set around one
// positional configuration-file argument, not a subcommand tree.
var rootCmd = &cobra.Command{
	Use:           "metasys <config file>",
	Short:         "metasys -- long-running process supervisor",
	Long:          "metasys starts, restarts, and monitors a declarative list of child programs.",
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          validateArgs,
	RunE:          run,
}

func init() {
	rootCmd.Flags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (repeatable)")
	rootCmd.Flags().BoolVarP(&shutdownFlag, "shutdown", "s", false, "shut down the running instance named by the config's log directory")
	rootCmd.Flags().BoolVarP(&killFlag, "kill", "k", false, "alias for -s")
	rootCmd.Flags().BoolVarP(&exampleFlag, "example", "C", false, "print a commented example configuration and exit")
}

// validateArgs makes a missing config path a startup error (exit 1)
// unless -C was given, in which case no config path is needed at all.
func validateArgs(cmd *cobra.Command, args []string) error {
	if exampleFlag {
		return cobra.MaximumNArgs(1)(cmd, args)
	}
	return cobra.ExactArgs(1)(cmd, args)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if exampleFlag {
		fmt.Fprint(cmd.OutOrStdout(), config.ExampleConfig)
		return nil
	}

	if shutdownFlag || killFlag {
		return runShutdown(args[0])
	}

	return runDaemon(args[0])
}

// runShutdown implements -s/-k: find the running instance by the pid
// file under its log directory and signal it.
func runShutdown(configPath string) error {
	logDir := readLogDir(configPath)
	return supervisor.RequestShutdown(logDir)
}

// readLogDir parses just enough of the config file to learn its
// LogDir, falling back to defaultLogDir if the directive is absent or
// the file cannot be read; -s/-k does not treat either condition as
// fatal, since the instance may have been started with no LogDir
// directive at all.
func readLogDir(configPath string) string {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return defaultLogDir
	}
	cfg, _ := config.Parse(bytes.NewReader(data))
	if cfg.LogDir == "" {
		return defaultLogDir
	}
	return cfg.LogDir
}

func runDaemon(configPath string) error {
	diag := logging.New(verbosity, os.Stderr)

	m := metrics.New()
	m.SetBuildInfo(version.Version)

	sup := supervisor.New(configPath, defaultLogDir, process.RealClock(), &process.ExecSpawner{}, resourceprobe.New(), m, nil, diag)

	if err := sup.Bootstrap(); err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	logDir := sup.LogDir()
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("cannot create log directory: %s: %w", logDir, err)
	}

	pidPath := filepath.Join(logDir, "metasys.pid")
	if err := supervisor.EnforceSingleton(pidPath); err != nil {
		return err
	}
	if err := supervisor.WritePIDFile(pidPath); err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer supervisor.RemovePIDFile(pidPath)

	logger, cleanup, err := logging.DaemonLogger(filepath.Join(logDir, "metasys.log"))
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer cleanup()
	sup.SetLogger(logger)

	sentinelPath := filepath.Join(logDir, "metasys.term")
	supervisor.RemoveSentinel(sentinelPath)
	supervisor.InstallShutdownHandler(sentinelPath, diag)

	if addr := sup.MetricsAddr(); addr != "" {
		srv := &http.Server{Addr: addr, Handler: m.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				diag.Error("metrics listener stopped", "error", err)
			}
		}()
	}

	logger.Info("metasys starting", "config", configPath, "log_dir", logDir)
	sup.Run(sentinelPath)
	supervisor.RemoveSentinel(sentinelPath)
	logger.Info("metasys stopped")

	return nil
}
