package report

import (
	"strings"
	"testing"
	"time"

	"github.com/metasysd/metasys/internal/resourceprobe"
)

type fakeProber struct {
	sample resourceprobe.Sample
	ok     bool
}

func (p fakeProber) Probe(int) (resourceprobe.Sample, bool) { return p.sample, p.ok }

func TestRenderIncludesChildFields(t *testing.T) {
	data := Data{
		Description: "test instance",
		Children: []ChildView{
			{Label: "web", Group: "frontend", PID: 1234, State: "running", Command: "/bin/web-server --port 8080"},
		},
	}

	out, err := Render(data, fakeProber{ok: false}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"web", "frontend", "1234", "running", "/bin/web-server --port 8080"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderOmitsResourceColumnsWhenProbeUnavailable(t *testing.T) {
	data := Data{Children: []ChildView{{Label: "web", PID: 1234}}}

	out, err := Render(data, resourceprobe.Unavailable{}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "cpu%") {
		t.Errorf("report should omit resource columns when the probe is unavailable:\n%s", out)
	}
}

func TestRenderIncludesResourceColumnsWhenProbeAvailable(t *testing.T) {
	data := Data{Children: []ChildView{{Label: "web", PID: 1234}}}
	probe := fakeProber{ok: true, sample: resourceprobe.Sample{CPUPercent: 12.5, MemPercent: 3.2, VSZ: 1000, RSS: 500, State: "R"}}

	out, err := Render(data, probe, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "cpu%") {
		t.Errorf("report should include resource columns when the probe is available:\n%s", out)
	}
	if !strings.Contains(out, "12.5") {
		t.Errorf("report should include the probed CPU%%:\n%s", out)
	}
}

func TestRenderSkipsProbeForNonRunningChildren(t *testing.T) {
	data := Data{Children: []ChildView{{Label: "stopped", PID: 0}}}
	probe := fakeProber{ok: true, sample: resourceprobe.Sample{CPUPercent: 99}}

	out, err := Render(data, probe, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "99.0") {
		t.Errorf("report should not probe a child with no live pid:\n%s", out)
	}
}

func TestFormatUptime(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{90, "1m"},
		{3661, "1h 1m"},
		{90061, "1d 1h 1m"},
	}
	for _, tc := range cases {
		if got := FormatUptime(tc.seconds); got != tc.want {
			t.Errorf("FormatUptime(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
