package process

import "log/slog"

// LaunchDue returns the labels in order that are currently
// pending-launch and due (ScheduledStart <= now). Both LaunchCohorts
// and tests use this to compute what a tick should attempt.
func LaunchDue(table *Table, order []string, now int64) []string {
	due := make([]string, 0, len(order))
	for _, label := range order {
		c, ok := table.Get(label)
		if !ok {
			continue
		}
		if c.State() == PendingLaunch && c.ScheduledStart <= now {
			due = append(due, label)
		}
	}
	return due
}

// LaunchCohorts splits the due labels into the sequencer's launch
// cohorts: the ungrouped cohort (file order), then one cohort per
// group in name-sort order. Groups with nothing due are dropped.
func LaunchCohorts(table *Table, order Ordering, now int64) (ungrouped []string, groups [][]string) {
	ungrouped = LaunchDue(table, order.UngroupedOrder, now)
	for _, name := range SortedGroupNames(order.Groups) {
		if due := LaunchDue(table, order.Groups[name], now); len(due) > 0 {
			groups = append(groups, due)
		}
	}
	return ungrouped, groups
}

// StageLaunch is the staged sequencer. It launches the ungrouped
// cohort first, then each group cohort, one child at a time, sleeping
// startDelay seconds between successive launch attempts; no delay
// precedes the first attempt or follows the last. The boundary between
// the ungrouped cohort and the first group gets one extra startDelay
// on top of the ordinary inter-launch gap, when both sides are
// non-empty. abort is polled before every launch and before every
// sleep; a true return stops the sequence immediately, leaving any
// remaining labels pending-launch for a later tick.
func StageLaunch(
	table *Table,
	ungrouped []string,
	groups [][]string,
	spawner ProcessSpawner,
	dirs []string,
	logDir string,
	clock Clock,
	startDelaySeconds, restartDelaySeconds int64,
	logger *slog.Logger,
	abort func() bool,
) (launched []string) {
	startDelay := secondsDuration(startDelaySeconds)
	first := true

	pause := func() bool {
		if abort() {
			return false
		}
		clock.Sleep(startDelay)
		return true
	}

	run := func(cohort []string) bool {
		for _, label := range cohort {
			if !first && !pause() {
				return false
			}
			if abort() {
				return false
			}

			c, ok := table.Get(label)
			if !ok {
				continue
			}

			now := clock.Now().Unix()
			if err := Launch(spawner, c, dirs, logDir, now); err == nil {
				c.ScheduledStart = 0
				launched = append(launched, label)
			} else {
				logger.Error("launch failed", "label", label, "error", err)
				c.ScheduledStart = now + restartDelaySeconds
			}
			first = false
		}
		return true
	}

	if !run(ungrouped) {
		return launched
	}
	if len(ungrouped) > 0 && len(groups) > 0 {
		// The extra gap at the ungrouped/first-group seam.
		if !pause() {
			return launched
		}
	}
	for _, cohort := range groups {
		if !run(cohort) {
			return launched
		}
	}

	return launched
}
