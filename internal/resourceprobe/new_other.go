//go:build !linux

package resourceprobe

// New returns the platform's best available Prober.
func New() Prober { return Unavailable{} }
