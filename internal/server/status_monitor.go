package server

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// StatusMonitor periodically samples host load into gauges
type StatusMonitor struct {
	systemHandlers *SystemHandlers
	log            zerolog.Logger

	cpuGauge prometheus.Gauge
	ramGauge prometheus.Gauge

	stopOnce sync.Once
	stop     chan struct{}
}

// NewStatusMonitor creates a new status monitor and registers its gauges
func NewStatusMonitor(systemHandlers *SystemHandlers, registry prometheus.Registerer, log zerolog.Logger) *StatusMonitor {
	m := &StatusMonitor{
		systemHandlers: systemHandlers,
		log:            log.With().Str("component", "status_monitor").Logger(),
		cpuGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "host",
			Name:      "cpu_percent",
			Help:      "Host CPU usage in percent.",
		}),
		ramGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "host",
			Name:      "ram_percent",
			Help:      "Host memory usage in percent.",
		}),
		stop: make(chan struct{}),
	}
	registry.MustRegister(m.cpuGauge, m.ramGauge)
	return m
}

// Start begins periodic sampling
func (m *StatusMonitor) Start(interval time.Duration) {
	go m.monitor(interval)
}

// Stop ends sampling. Safe to call without Start.
func (m *StatusMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
}

func (m *StatusMonitor) monitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.sample()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sample()
		}
	}
}

func (m *StatusMonitor) sample() {
	cpuPercent, ramPercent := m.systemHandlers.statsFunc()
	m.cpuGauge.Set(cpuPercent)
	m.ramGauge.Set(ramPercent)

	m.log.Debug().
		Float64("cpu_percent", cpuPercent).
		Float64("ram_percent", ramPercent).
		Msg("Sampled host status")
}
