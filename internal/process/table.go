// Package process holds the child process table, its state machine, and
// the launch/terminate primitives the control loop drives each tick.
package process

// Child is one managed process, keyed by its label in the Table.
//
// ScheduledStart carries the three-state sentinel described in the data
// model: zero means running (a live PID, nothing to do), a positive value
// is the unix time at which a (re)launch is due, a negative value marks
// the child for removal on the next terminate phase.
type Child struct {
	Label   string
	Command []string
	Group   string

	PID            int
	ScheduledStart int64
	LastStarted    int64
	RestartCount   int
}

// State classifies a Child per its ScheduledStart sentinel.
type State int

const (
	PendingLaunch State = iota
	Running
	PendingRemoval
)

func (s State) String() string {
	switch s {
	case PendingLaunch:
		return "pending-launch"
	case Running:
		return "running"
	case PendingRemoval:
		return "pending-removal"
	default:
		return "unknown"
	}
}

// State reports the Child's current three-state classification.
func (c *Child) State() State {
	switch {
	case c.ScheduledStart > 0:
		return PendingLaunch
	case c.ScheduledStart < 0:
		return PendingRemoval
	default:
		return Running
	}
}

// Table is the process table: one Child record per declared label. It is
// owned exclusively by the control loop goroutine; nothing else touches it,
// so no locking is needed.
type Table struct {
	children map[string]*Child
}

// NewTable returns an empty process table.
func NewTable() *Table {
	return &Table{children: make(map[string]*Child)}
}

// Get returns the child for label, and whether it exists.
func (t *Table) Get(label string) (*Child, bool) {
	c, ok := t.children[label]
	return c, ok
}

// Put inserts or replaces the child record for c.Label.
func (t *Table) Put(c *Child) {
	t.children[c.Label] = c
}

// Delete removes a child record, e.g. once a pending-removal child has
// been successfully terminated.
func (t *Table) Delete(label string) {
	delete(t.children, label)
}

// Labels returns every label currently in the table, in no particular
// order; callers that need a deterministic order use the launch order
// computed by the reconciler instead.
func (t *Table) Labels() []string {
	labels := make([]string, 0, len(t.children))
	for l := range t.children {
		labels = append(labels, l)
	}
	return labels
}

// Len returns the number of children currently tracked.
func (t *Table) Len() int {
	return len(t.children)
}

// FindByPID does a linear scan for the child currently holding pid.
// Process tables in this domain are small (tens of entries at most),
// so this avoids keeping a second, easily-stale index in sync.
func (t *Table) FindByPID(pid int) (*Child, bool) {
	if pid == 0 {
		return nil, false
	}
	for _, c := range t.children {
		if c.PID == pid {
			return c, true
		}
	}
	return nil, false
}
