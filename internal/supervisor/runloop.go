// Package supervisor owns the control loop: the single cooperative
// thread that ticks once per second and drives configuration refresh,
// reaping, termination, staged launch, and reporting.
package supervisor

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/metasysd/metasys/internal/config"
	"github.com/metasysd/metasys/internal/metrics"
	"github.com/metasysd/metasys/internal/notify"
	"github.com/metasysd/metasys/internal/process"
	"github.com/metasysd/metasys/internal/report"
	"github.com/metasysd/metasys/internal/resourceprobe"
)

// Supervisor is the single value that owns the process table, the
// configuration snapshot, and the reporting timers. Every mutation
// goes through its methods, run exclusively from Run's goroutine, so
// the single-threaded invariant is structural rather than by
// convention.
type Supervisor struct {
	loader  *config.Loader
	table   *process.Table
	order   process.Ordering
	clock   process.Clock
	spawner process.ProcessSpawner
	probe   resourceprobe.Prober
	metrics *metrics.Collector
	logger  *slog.Logger // metasys.log
	diag    *slog.Logger // operator-facing diagnostics

	logDir string

	mta          string
	email        []string
	startDelay   int64
	restartDelay int64
	termWait     int64
	description  string
	sysReport    config.SysReportMode
	htmlPath     string
	htmlInterval int64
	metricsAddr  string

	startTime     time.Time
	nextSysReport time.Time
	nextHTML      time.Time

	sink notify.Sink
}

// New creates a Supervisor for the config file at configPath.
// initialLogDir is the provisional log directory used until the first
// parse fixes it for the life of the process.
func New(configPath, initialLogDir string, clock process.Clock, spawner process.ProcessSpawner, probe resourceprobe.Prober, m *metrics.Collector, logger, diag *slog.Logger) *Supervisor {
	return &Supervisor{
		loader:       config.NewLoader(configPath),
		table:        process.NewTable(),
		clock:        clock,
		spawner:      spawner,
		probe:        probe,
		metrics:      m,
		logger:       logger,
		diag:         diag,
		logDir:       initialLogDir,
		startDelay:   config.DefaultStartDelay,
		restartDelay: config.DefaultRestartDelay,
		termWait:     config.DefaultTermWait,
		sink:         notify.NoopSink{},
		startTime:    clock.Now(),
	}
}

// LogDir returns the effective log directory (fixed after the first
// parse).
func (s *Supervisor) LogDir() string { return s.logDir }

// MetricsAddr returns the non-normative MetricsAddr directive's value,
// or "" if the operator never set one (metrics stay off by default).
func (s *Supervisor) MetricsAddr() string { return s.metricsAddr }

// SetLogger installs the supervisor's own on-disk logger. Bootstrap
// must run first: the log directory it fixes is where that log file
// lives, so callers open it only once LogDir() is final and then hand
// the result here before calling Run.
func (s *Supervisor) SetLogger(logger *slog.Logger) { s.logger = logger }

// Bootstrap performs the mandatory first parse. Unlike a live reload,
// a configuration error here is fatal.
func (s *Supervisor) Bootstrap() error {
	needs, err := s.loader.NeedsReparse()
	if err != nil {
		return fmt.Errorf("cannot read configuration: %w", err)
	}
	if !needs {
		return fmt.Errorf("configuration unexpectedly already parsed")
	}

	cfg, errs, err := s.loader.Parse()
	if err != nil {
		return fmt.Errorf("cannot read configuration: %w", err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", config.FormatErrors(errs))
	}

	s.applySettings(cfg, true)
	s.order = process.Reconcile(s.table, cfg.Children, s.clock.Now().Unix())
	s.rebuildSink()
	return nil
}

func (s *Supervisor) applySettings(cfg *config.Config, firstParse bool) {
	if firstParse && cfg.LogDir != "" {
		s.logDir = cfg.LogDir
	}

	s.mta = cfg.MTA
	s.email = cfg.Email
	s.startDelay = cfg.StartDelay
	s.restartDelay = cfg.RestartDelay
	s.termWait = cfg.TermWait
	s.description = cfg.Description
	s.sysReport = cfg.SysReport
	s.htmlPath = cfg.HTMLReportPath
	s.htmlInterval = cfg.HTMLReportInterval
	s.metricsAddr = cfg.MetricsAddr

	// The SysReport directive recomputes the next day-aligned boundary
	// at every parse, so this is unconditional rather than
	// first-parse-only.
	now := s.clock.Now()
	s.nextSysReport = report.NextPeriodicFire(now, s.sysReport.PeriodSeconds())
	if s.htmlPath != "" && s.nextHTML.IsZero() {
		s.nextHTML = report.NextHTMLFire(time.Time{}, s.htmlInterval, now)
	}
}

func (s *Supervisor) rebuildSink() {
	if len(s.email) == 0 {
		s.sink = notify.NoopSink{}
		return
	}
	s.sink = notify.NewMailSink(s.mta, s.email)
}

func (s *Supervisor) pathDirs() []string { return process.PathDirs() }

// Run executes the control loop until the shutdown sentinel appears,
// then tears every child down in reverse launch order.
func (s *Supervisor) Run(sentinelPath string) {
	for {
		if SentinelExists(sentinelPath) {
			break
		}

		s.tick(sentinelPath)

		if SentinelExists(sentinelPath) {
			break
		}
		s.clock.Sleep(time.Second)
	}

	s.shutdown()
}

func (s *Supervisor) tick(sentinelPath string) {
	s.refreshConfig()
	if SentinelExists(sentinelPath) {
		return
	}
	s.reap()
	if SentinelExists(sentinelPath) {
		return
	}
	s.terminatePending()
	if SentinelExists(sentinelPath) {
		return
	}
	s.launchPending(sentinelPath)
	s.maybeReport()

	if s.metrics != nil {
		s.metrics.SetSupervisorUptime(s.clock.Now().Sub(s.startTime).Seconds())
		for _, label := range s.table.Labels() {
			c, _ := s.table.Get(label)
			s.metrics.SetChildState(label, c.Group, int(c.State()))
			s.metrics.SetChildLastStarted(label, c.LastStarted)
		}
	}
}

func (s *Supervisor) refreshConfig() {
	needs, err := s.loader.NeedsReparse()
	if err != nil {
		s.diag.Warn("cannot stat configuration file", "error", err)
		return
	}
	if !needs {
		return
	}

	cfg, errs, err := s.loader.Parse()
	if err != nil {
		s.diag.Error("cannot read configuration", "error", err)
		return
	}

	if s.metrics != nil {
		s.metrics.IncConfigReload()
		if len(errs) > 0 {
			s.metrics.IncConfigError()
		}
	}

	if len(errs) > 0 {
		report := config.FormatErrors(errs)
		s.logger.Error("configuration reload produced errors", "report", report)
		_ = s.sink.Send("Metasys: configuration errors", s.errorBody(report), false)
	}

	s.applySettings(cfg, false)
	s.rebuildSink()
	s.order = process.Reconcile(s.table, cfg.Children, s.clock.Now().Unix())
}

func (s *Supervisor) errorBody(report string) string {
	host, _ := os.Hostname()
	return fmt.Sprintf("%s:%s\n\n%s", host, s.loader.Path, report)
}

func (s *Supervisor) reap() {
	for {
		result, ok, err := process.ReapAny()
		if err != nil {
			s.diag.Warn("reap failed", "error", err)
			return
		}
		if !ok {
			return
		}

		c, found := s.table.FindByPID(result.PID)
		if !found {
			continue
		}

		// A child already marked for removal keeps its marker: scheduling
		// a restart here would resurrect a label the reconciler has
		// already condemned. Its pid is cleared so the terminate phase
		// can delete the record without signalling a reaped process.
		now := s.clock.Now().Unix()
		if c.State() != process.PendingRemoval {
			c.ScheduledStart = process.Backoff(now, c.LastStarted, s.restartDelay)
		}
		c.PID = 0
		c.RestartCount++

		if s.metrics != nil {
			s.metrics.IncChildRestart(c.Label)
		}

		msg := fmt.Sprintf("child %s died with exit value %d", c.Label, result.ExitValue)
		if result.CoreDumped {
			msg += "; CORE was dumped"
		}
		s.logger.Info(msg, "label", c.Label, "exit_value", result.ExitValue, "core_dumped", result.CoreDumped)
		_ = s.sink.Send(fmt.Sprintf("Metasys: %s exited", c.Label), s.errorBody(msg), false)
	}
}

func (s *Supervisor) terminatePending() {
	for _, label := range s.table.Labels() {
		c, ok := s.table.Get(label)
		if !ok {
			continue
		}

		switch {
		case c.State() == process.PendingRemoval:
			if c.PID != 0 {
				s.terminateChild(c)
			}
			if s.metrics != nil {
				s.metrics.RemoveChild(c.Label, c.Group)
			}
			s.table.Delete(label)

		case c.PID != 0 && c.ScheduledStart > 0:
			// Command changed under a running child: stop it now so
			// the launch phase below can start the replacement under
			// the new command.
			s.terminateChild(c)
			c.PID = 0
		}
	}
}

func (s *Supervisor) terminateChild(c *process.Child) {
	result := process.Terminate(s.clock, c.PID, s.termWait)
	if result.Zombie {
		s.logger.Warn("child did not terminate, leaving (potential) zombie", "label", c.Label, "pid", c.PID)
		return
	}
	msg := fmt.Sprintf("child %s terminated with exit value %d", c.Label, result.Exit.ExitValue)
	if result.Exit.CoreDumped {
		msg += "; CORE was dumped"
	}
	s.logger.Info(msg, "label", c.Label)
}

func (s *Supervisor) launchPending(sentinelPath string) {
	now := s.clock.Now().Unix()
	ungrouped, groups := process.LaunchCohorts(s.table, s.order, now)
	if len(ungrouped) == 0 && len(groups) == 0 {
		return
	}

	abort := func() bool { return SentinelExists(sentinelPath) }

	launched := process.StageLaunch(s.table, ungrouped, groups, s.spawner, s.pathDirs(), s.logDir, s.clock, s.startDelay, s.restartDelay, s.diag, abort)
	for _, label := range launched {
		s.logger.Info("child launched", "label", label)
	}
}

func (s *Supervisor) maybeReport() {
	now := s.clock.Now()

	if s.sysReport.PeriodSeconds() > 0 && !s.nextSysReport.IsZero() && !now.Before(s.nextSysReport) {
		body, err := report.Render(s.reportData(), s.probe, now)
		if err != nil {
			s.diag.Error("render report failed", "error", err)
		} else {
			_ = s.sink.Send(fmt.Sprintf("Metasys: %s status", s.description), body, true)
		}
		s.nextSysReport = report.NextPeriodicFire(now, s.sysReport.PeriodSeconds())
	}

	if s.htmlPath != "" && !now.Before(s.nextHTML) {
		body, err := report.Render(s.reportData(), s.probe, now)
		if err != nil {
			s.diag.Error("render html report failed", "error", err)
		} else if err := os.WriteFile(s.htmlPath, []byte(body), 0644); err != nil {
			s.diag.Error("write html report failed", "error", err, "path", s.htmlPath)
		}
		s.nextHTML = report.NextHTMLFire(s.nextHTML, s.htmlInterval, now)
	}
}

func (s *Supervisor) reportData() report.Data {
	now := s.clock.Now().Unix()
	data := report.Data{
		Description:  s.description,
		StartDelay:   s.startDelay,
		RestartDelay: s.restartDelay,
		TermWait:     s.termWait,
	}
	for _, label := range s.order.LaunchOrder {
		c, ok := s.table.Get(label)
		if !ok {
			continue
		}
		var lastStarted, uptime string
		if c.LastStarted > 0 {
			lastStarted = time.Unix(c.LastStarted, 0).Format("2006-01-02 15:04:05")
			uptime = report.FormatUptime(now - c.LastStarted)
		}
		data.Children = append(data.Children, report.ChildView{
			Label:        c.Label,
			Group:        c.Group,
			PID:          c.PID,
			State:        c.State().String(),
			LastStarted:  lastStarted,
			Uptime:       uptime,
			RestartCount: c.RestartCount,
			Command:      joinCommand(c.Command),
		})
	}
	return data
}

func joinCommand(argv []string) string {
	out := ""
	for i, a := range argv {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}

func (s *Supervisor) shutdown() {
	order := process.ShutdownOrder(s.order.LaunchOrder)
	for _, label := range order {
		c, ok := s.table.Get(label)
		if !ok || c.PID == 0 {
			continue
		}
		s.terminateChild(c)
	}

	_ = s.sink.Send("Metasys: shutdown", s.errorBody("supervisor shutting down"), false)
}
