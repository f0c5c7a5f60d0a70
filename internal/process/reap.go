package process

import "syscall"

// ExitResult classifies one reaped child's wait status.
type ExitResult struct {
	PID        int
	ExitValue  int
	CoreDumped bool
}

// classify uses raw bitmask arithmetic rather than the conventional
// WEXITSTATUS/WCOREDUMP macros: the exit value is the status shifted
// right 8 bits, and the core-dump flag tests bit 0x80 of the raw status
// directly, without first checking WIFSIGNALED. For a normally-exited
// process this recovers the ordinary exit code; for a signaled process
// it yields 0 for ExitValue. Keep the bitmask as-is; downstream log
// consumers depend on these exact values.
func classify(pid int, ws syscall.WaitStatus) ExitResult {
	status := int(ws)
	return ExitResult{
		PID:        pid,
		ExitValue:  (status >> 8) & 0xFF,
		CoreDumped: status&128 != 0,
	}
}

// ReapAny performs one non-blocking wait4(-1, WNOHANG) call, returning
// the reaped exit, or ok=false if nothing has exited.
func ReapAny() (result ExitResult, ok bool, err error) {
	var ws syscall.WaitStatus
	pid, err := syscall.Wait4(-1, &ws, syscall.WNOHANG, nil)
	if err != nil {
		if err == syscall.ECHILD {
			return ExitResult{}, false, nil
		}
		return ExitResult{}, false, err
	}
	if pid <= 0 {
		return ExitResult{}, false, nil
	}
	return classify(pid, ws), true, nil
}

// ReapPID performs one non-blocking wait4(pid, WNOHANG) call for a
// specific child, used by the termination primitive's poll loop.
func ReapPID(pid int) (result ExitResult, exited bool, err error) {
	var ws syscall.WaitStatus
	got, err := syscall.Wait4(pid, &ws, syscall.WNOHANG, nil)
	if err != nil {
		if err == syscall.ECHILD {
			return ExitResult{}, true, nil
		}
		return ExitResult{}, false, err
	}
	if got == 0 {
		return ExitResult{}, false, nil
	}
	return classify(pid, ws), true, nil
}
