package process

import (
	"os"
	"os/exec"
	"syscall"
)

// SpawnConfig holds everything the launch primitive needs to start one
// child. Stdout and stderr are both redirected to LogFile (the per-child
// log file opened in append mode by the caller); the supervisor never
// reads from the child afterward, its I/O goes straight to the file.
type SpawnConfig struct {
	Path    string   // PATH-resolved (or as-given) executable
	Args    []string // full argv, Args[0] is argv[0] as seen by the child
	Dir     string
	LogFile *os.File
}

// SpawnedProcess is the handle the launch primitive records in the
// process table: just enough to signal and to recognize the process
// table entry a later reap belongs to.
type SpawnedProcess interface {
	Pid() int
}

// ProcessSpawner creates child processes. ExecSpawner is the real
// implementation; MockSpawner is its test double.
type ProcessSpawner interface {
	Spawn(cfg SpawnConfig) (SpawnedProcess, error)
}

// ExecSpawner spawns real OS processes via os/exec.
type ExecSpawner struct{}

type execProcess struct {
	pid int
}

func (p *execProcess) Pid() int { return p.pid }

// Spawn starts cfg as a new process-group leader so the termination
// primitive can signal the whole group, not just the leader pid. The
// supervisor itself never waits on the child through *exec.Cmd: reaping
// goes through the control loop's own non-blocking wait4 loop, so the
// *os.Process is intentionally abandoned here rather than Wait()'d.
func (s *ExecSpawner) Spawn(cfg SpawnConfig) (SpawnedProcess, error) {
	cmd := &exec.Cmd{
		Path:        cfg.Path,
		Args:        cfg.Args,
		Dir:         cfg.Dir,
		Stdout:      cfg.LogFile,
		Stderr:      cfg.LogFile,
		SysProcAttr: &syscall.SysProcAttr{Setpgid: true},
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &execProcess{pid: cmd.Process.Pid}, nil
}

// MockSpawner is a test double for ProcessSpawner.
type MockSpawner struct {
	SpawnFn    func(cfg SpawnConfig) (SpawnedProcess, error)
	SpawnCalls []SpawnConfig
}

// Spawn records the call and delegates to SpawnFn, defaulting to an
// incrementing fake pid so callers don't need to set SpawnFn for the
// common case.
func (m *MockSpawner) Spawn(cfg SpawnConfig) (SpawnedProcess, error) {
	m.SpawnCalls = append(m.SpawnCalls, cfg)
	if m.SpawnFn != nil {
		return m.SpawnFn(cfg)
	}
	return &MockProcess{pid: 1000 + len(m.SpawnCalls)}, nil
}

// MockProcess is a test double for SpawnedProcess.
type MockProcess struct {
	pid int
}

// NewMockProcess creates a MockProcess with the given pid.
func NewMockProcess(pid int) *MockProcess { return &MockProcess{pid: pid} }

func (p *MockProcess) Pid() int { return p.pid }
