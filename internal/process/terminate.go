package process

import (
	"syscall"
	"time"
)

const pollInterval = 100 * time.Millisecond

// TerminateResult reports what happened to a terminated child.
type TerminateResult struct {
	Reaped bool
	Exit   ExitResult
	Zombie bool // did not terminate after both escalations
}

// Terminate brings one child down with escalation: send the polite
// signal (SIGTERM), poll for up to termWait seconds at 100ms
// granularity, and if the child is still alive escalate to the
// forceful signal (SIGKILL) and poll again. The signal is delivered to
// the child's whole process group (-pid), matching the process-group
// isolation Launch sets up, so a child that has itself forked
// grandchildren is brought down with it.
//
// Terminate is a no-op (returns a zero TerminateResult) if pid is the
// sentinel value 0.
func Terminate(clock Clock, pid int, termWait int64) TerminateResult {
	if pid == 0 {
		return TerminateResult{}
	}

	poll := func(deadline time.Duration) (ExitResult, bool) {
		var elapsed time.Duration
		for elapsed < deadline {
			res, exited, err := ReapPID(pid)
			if err == nil && exited {
				return res, true
			}
			clock.Sleep(pollInterval)
			elapsed += pollInterval
		}
		return ExitResult{}, false
	}

	deadline := time.Duration(termWait) * time.Second

	_ = syscall.Kill(-pid, syscall.SIGTERM)
	if res, ok := poll(deadline); ok {
		return TerminateResult{Reaped: true, Exit: res}
	}

	_ = syscall.Kill(-pid, syscall.SIGKILL)
	if res, ok := poll(deadline); ok {
		return TerminateResult{Reaped: true, Exit: res}
	}

	return TerminateResult{Zombie: true}
}
