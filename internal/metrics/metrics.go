// Package metrics exposes metasys's control loop as Prometheus
// metrics, a read-only observability surface.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metasys Prometheus metric.
type Collector struct {
	registry *prometheus.Registry

	ChildState       *prometheus.GaugeVec
	ChildRestarts    *prometheus.CounterVec
	ChildLastStarted *prometheus.GaugeVec

	SupervisorUptime prometheus.Gauge
	ConfigReloads    prometheus.Counter
	ConfigErrors     prometheus.Counter
	BuildInfo        *prometheus.GaugeVec
}

// New creates and registers every metasys metric.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c := &Collector{
		registry: reg,

		ChildState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "metasys_child_state",
				Help: "Current state of a managed child (0=pending-launch, 1=running, 2=pending-removal).",
			},
			[]string{"label", "group"},
		),

		ChildRestarts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "metasys_child_restart_total",
				Help: "Total number of times a child has been restarted.",
			},
			[]string{"label"},
		),

		ChildLastStarted: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "metasys_child_last_started_timestamp_seconds",
				Help: "Unix time the child was last (re)started.",
			},
			[]string{"label"},
		),

		SupervisorUptime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "metasys_supervisor_uptime_seconds",
				Help: "Uptime of the metasys supervisor in seconds.",
			},
		),

		ConfigReloads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "metasys_config_reload_total",
				Help: "Total number of configuration reparses.",
			},
		),

		ConfigErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "metasys_config_reload_errors_total",
				Help: "Total number of configuration reparses that produced at least one error.",
			},
		),

		BuildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "metasys_info",
				Help: "Build information about metasys.",
			},
			[]string{"version"},
		),
	}

	reg.MustRegister(
		c.ChildState,
		c.ChildRestarts,
		c.ChildLastStarted,
		c.SupervisorUptime,
		c.ConfigReloads,
		c.ConfigErrors,
		c.BuildInfo,
	)

	return c
}

// Handler returns an http.Handler serving the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) SetBuildInfo(version string) {
	c.BuildInfo.WithLabelValues(version).Set(1)
}

func (c *Collector) SetChildState(label, group string, state int) {
	c.ChildState.WithLabelValues(label, group).Set(float64(state))
}

func (c *Collector) IncChildRestart(label string) {
	c.ChildRestarts.WithLabelValues(label).Inc()
}

func (c *Collector) SetChildLastStarted(label string, unixSeconds int64) {
	c.ChildLastStarted.WithLabelValues(label).Set(float64(unixSeconds))
}

func (c *Collector) SetSupervisorUptime(seconds float64) {
	c.SupervisorUptime.Set(seconds)
}

func (c *Collector) IncConfigReload() { c.ConfigReloads.Inc() }
func (c *Collector) IncConfigError()  { c.ConfigErrors.Inc() }

// RemoveChild deletes every metric series for a child removed from the
// table, so /metrics doesn't accumulate stale labels forever.
func (c *Collector) RemoveChild(label, group string) {
	c.ChildState.DeleteLabelValues(label, group)
	c.ChildRestarts.DeleteLabelValues(label)
	c.ChildLastStarted.DeleteLabelValues(label)
}
