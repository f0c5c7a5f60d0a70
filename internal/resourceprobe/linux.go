//go:build linux

package resourceprobe

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LinuxProber reads /proc/<pid>/stat the way guillermo-go.procstat's
// Stat.Update does, plus /proc/uptime and /proc/meminfo for the
// denominators CPU% and memory% need.
type LinuxProber struct {
	clockTicksPerSec float64
	pageSize         uint64
}

// NewLinuxProber creates a LinuxProber. clockTicksPerSec is normally
// 100 on Linux (the historical USER_HZ value sysconf(_SC_CLK_TCK)
// returns almost everywhere); pageSize is normally the 4096-byte
// common case.
func NewLinuxProber() *LinuxProber {
	return &LinuxProber{clockTicksPerSec: 100, pageSize: 4096}
}

func (p *LinuxProber) Probe(pid int) (Sample, bool) {
	statLine, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return Sample{}, false
	}

	// comm is the second field, parenthesized, and may itself contain
	// spaces, so split on the last ')' rather than whitespace.
	line := string(statLine)
	close := strings.LastIndexByte(line, ')')
	if close < 0 {
		return Sample{}, false
	}
	fields := strings.Fields(line[close+1:])
	// fields[0] is state (3rd overall field); utime/stime are fields
	// 14/15 overall, i.e. indices 11/12 here (0-based, starting at
	// state); starttime/vsize/rss are fields 22/23/24, indices 19-21.
	if len(fields) < 22 {
		return Sample{}, false
	}

	state := fields[0]
	utime, _ := strconv.ParseUint(fields[11], 10, 64)
	stime, _ := strconv.ParseUint(fields[12], 10, 64)
	starttimeTicks, _ := strconv.ParseUint(fields[19], 10, 64)
	vsize, _ := strconv.ParseUint(fields[20], 10, 64)
	rssPages, _ := strconv.ParseUint(fields[21], 10, 64)

	uptime, err := readUptimeSeconds()
	if err != nil {
		return Sample{}, false
	}

	ageSeconds := uptime - float64(starttimeTicks)/p.clockTicksPerSec
	var cpuPercent float64
	if ageSeconds > 0 {
		cpuPercent = (float64(utime+stime) / p.clockTicksPerSec) / ageSeconds * 100
	}

	rssBytes := rssPages * p.pageSize
	var memPercent float64
	if total, err := readMemTotalBytes(); err == nil && total > 0 {
		memPercent = float64(rssBytes) / float64(total) * 100
	}

	return Sample{
		CPUPercent: cpuPercent,
		MemPercent: memPercent,
		VSZ:        vsize,
		RSS:        rssBytes,
		State:      state,
	}, true
}

func readUptimeSeconds() (float64, error) {
	data, err := os.ReadFile("/proc/uptime")
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, fmt.Errorf("malformed /proc/uptime")
	}
	return strconv.ParseFloat(fields[0], 64)
}

func readMemTotalBytes() (uint64, error) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == "MemTotal:" {
			kb, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				return 0, err
			}
			return kb * 1024, nil
		}
	}
	return 0, fmt.Errorf("MemTotal not found")
}
