// Package report renders the self-contained HTML status report and
// computes when the periodic and HTML report timers next fire.
package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/metasysd/metasys/internal/resourceprobe"
)

// ChildView is the template data for one row of the report.
type ChildView struct {
	Label        string
	Group        string
	PID          int
	State        string
	LastStarted  string
	Uptime       string
	RestartCount int
	Command      string

	HasResources bool
	CPUPercent   float64
	MemPercent   float64
	VSZ          uint64
	RSS          uint64
	ProcState    string
}

// Data is the full template input for one report render.
type Data struct {
	Description  string
	GeneratedAt  string
	StartDelay   int64
	RestartDelay int64
	TermWait     int64
	Children     []ChildView

	// AnyResources is set by Render once resource columns have been
	// populated for at least one child, so the template can decide
	// whether to draw the resource header cells at all.
	AnyResources bool
}

var tmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>metasys status: {{.Description}}</title></head>
<body>
<h1>metasys status</h1>
<p>{{.Description}}</p>
<p>generated {{.GeneratedAt}}</p>
<p>start_delay={{.StartDelay}}s restart_delay={{.RestartDelay}}s term_wait={{.TermWait}}s</p>
<table border="1" cellpadding="4" cellspacing="0">
<tr>
<th>label</th><th>group</th><th>pid</th><th>state</th><th>last started</th>
<th>uptime</th><th>restarts</th><th>command</th>
{{if .AnyResources}}<th>cpu%</th><th>mem%</th><th>vsz</th><th>rss</th><th>proc state</th>{{end}}
</tr>
{{range .Children}}
<tr>
<td>{{.Label}}</td>
<td>{{.Group}}</td>
<td>{{.PID}}</td>
<td>{{.State}}</td>
<td>{{.LastStarted}}</td>
<td>{{.Uptime}}</td>
<td>{{.RestartCount}}</td>
<td>{{.Command}}</td>
{{if .HasResources}}
<td>{{printf "%.1f" .CPUPercent}}</td>
<td>{{printf "%.1f" .MemPercent}}</td>
<td>{{.VSZ}}</td>
<td>{{.RSS}}</td>
<td>{{.ProcState}}</td>
{{end}}
</tr>
{{end}}
</table>
</body>
</html>
`))

// Render produces the HTML report body. probe is consulted for each
// running child; if it returns ok=false the resource columns are
// omitted for that row.
func Render(data Data, probe resourceprobe.Prober, now time.Time) (string, error) {
	data.GeneratedAt = now.Format("2006-01-02 15:04:05")

	for i := range data.Children {
		c := &data.Children[i]
		if c.PID == 0 {
			continue
		}
		if sample, ok := probe.Probe(c.PID); ok {
			c.HasResources = true
			c.CPUPercent = sample.CPUPercent
			c.MemPercent = sample.MemPercent
			c.VSZ = sample.VSZ
			c.RSS = sample.RSS
			c.ProcState = sample.State
			data.AnyResources = true
		}
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// FormatUptime formats seconds into a human-readable duration.
func FormatUptime(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
