package process

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Tokenize splits a command string on whitespace and strips leading and
// trailing quote characters from each token. There is no shell expansion
// and no quoted-string grouping: a quoted argument containing spaces is
// not supported. Do not upgrade this to shell-style quoting; it would
// change which command lines parse identically.
func Tokenize(command string) []string {
	fields := strings.Fields(command)
	tokens := make([]string, len(fields))
	for i, f := range fields {
		tokens[i] = strings.Trim(f, `'"`)
	}
	return tokens
}

// PathDirs returns the directories searched to resolve argv[0], in
// search order: ./bin and . ahead of the real $PATH.
func PathDirs() []string {
	dirs := []string{"./bin", "."}
	if p := os.Getenv("PATH"); p != "" {
		dirs = append(dirs, filepath.SplitList(p)...)
	}
	return dirs
}

// ResolvePath finds the executable for argv0 using dirs as the search
// path. If argv0 already contains a path separator it is used as-is
// (matching exec.LookPath's own rule for unqualified vs. qualified
// names), so an absolute or relative command is never re-searched.
func ResolvePath(argv0 string, dirs []string) (string, error) {
	if strings.ContainsRune(argv0, os.PathSeparator) {
		if isExecutable(argv0) {
			return argv0, nil
		}
		return "", fmt.Errorf("%s: not found", argv0)
	}

	for _, dir := range dirs {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, argv0)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: not found in PATH", argv0)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0111 != 0
}

// Launch starts one child: it resolves argv[0] through dirs, opens the
// child's per-label log file in append mode, spawns the process via
// spawner, and on success records the new pid and last-started time on c.
//
// Launch does not mutate c.ScheduledStart; the caller (the staged
// sequencer) clears it to the running sentinel once Launch succeeds.
func Launch(spawner ProcessSpawner, c *Child, dirs []string, logDir string, now int64) error {
	if len(c.Command) == 0 {
		return fmt.Errorf("launch %s: empty command", c.Label)
	}

	path, err := ResolvePath(c.Command[0], dirs)
	if err != nil {
		return fmt.Errorf("launch %s: %w", c.Label, err)
	}

	logPath := filepath.Join(logDir, c.Label)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("launch %s: open log: %w", c.Label, err)
	}
	defer logFile.Close()

	proc, err := spawner.Spawn(SpawnConfig{
		Path:    path,
		Args:    c.Command,
		LogFile: logFile,
	})
	if err != nil {
		return fmt.Errorf("launch %s: %w", c.Label, err)
	}

	c.PID = proc.Pid()
	c.LastStarted = now
	return nil
}
