//go:build linux

package resourceprobe

import (
	"os"
	"testing"
)

func TestLinuxProberProbesSelf(t *testing.T) {
	p := NewLinuxProber()

	sample, ok := p.Probe(os.Getpid())
	if !ok {
		t.Fatal("probing our own pid must succeed on Linux")
	}
	if sample.State == "" {
		t.Error("expected a non-empty run state")
	}
	if sample.RSS == 0 {
		t.Error("a running Go process must have a non-zero RSS")
	}
	if sample.VSZ == 0 {
		t.Error("a running Go process must have a non-zero VSZ")
	}
	if sample.CPUPercent < 0 {
		t.Errorf("CPUPercent = %f, must not be negative", sample.CPUPercent)
	}
}

func TestLinuxProberGonePID(t *testing.T) {
	p := NewLinuxProber()
	if _, ok := p.Probe(99999999); ok {
		t.Fatal("probing an absent pid must report ok=false")
	}
}
