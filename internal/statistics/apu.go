package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemApu = "apu"

type ApuCollector struct {
	stats       *Stats
	temperature *prometheus.Desc
}

func NewApuCollector(stats *Stats) *ApuCollector {
	return &ApuCollector{
		stats: stats,
		temperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemApu, "temperature_celsius"),
			"Current temperature of the APU",
			nil, nil,
		),
	}
}

func (collector *ApuCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.temperature
}

// Collect implements required collect function for all prometheus collectors
func (collector *ApuCollector) Collect(ch chan<- prometheus.Metric) {
	if value, ok := collector.stats.Get(TemperatureKey()); ok {
		ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, value)
	}
}
