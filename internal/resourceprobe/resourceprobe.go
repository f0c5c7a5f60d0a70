// Package resourceprobe reads per-pid resource usage for the status
// report: CPU%, memory%, RSS and run state for a running child, or
// nothing if unavailable.
package resourceprobe

// Sample is one point-in-time resource reading for a pid.
type Sample struct {
	CPUPercent float64
	MemPercent float64
	VSZ        uint64 // bytes
	RSS        uint64 // bytes
	State      string // one of R, S, D, Z, T, W per proc(5)
}

// Prober returns a Sample for pid, or ok=false if the reading is
// unavailable (process gone, unsupported platform).
type Prober interface {
	Probe(pid int) (sample Sample, ok bool)
}

// Unavailable is the Prober used on platforms without a /proc-style
// stat file; every report section that depends on it is omitted.
type Unavailable struct{}

func (Unavailable) Probe(int) (Sample, bool) { return Sample{}, false }
