package process

// Backoff computes the restart schedule for a reaped child: let D be
// the time it lived since its last launch. A child that died within
// restartDelay seconds is considered to have died too quickly and is held
// back for 100x as long; otherwise it is retried after the ordinary delay.
//
// The comparison is "<=", not "<": a child whose D equals restartDelay
// exactly still takes the too-quick branch.
func Backoff(now, lastStarted, restartDelay int64) int64 {
	d := now - lastStarted
	if d <= restartDelay {
		return now + 100*restartDelay
	}
	return now + restartDelay
}
