package statistics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/axb35/ecfand/internal/ec"
)

const subsystemFan = "fan"

type FanCollector struct {
	stats *Stats
	rpm   *prometheus.Desc
	level *prometheus.Desc
}

func NewFanCollector(stats *Stats) *FanCollector {
	return &FanCollector{
		stats: stats,
		rpm: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemFan, "rpm"),
			"Rolling average fan speed",
			[]string{"id"}, nil,
		),
		level: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemFan, "level"),
			"Current fan level",
			[]string{"id"}, nil,
		),
	}
}

func (collector *FanCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.rpm
	ch <- collector.level
}

// Collect implements required collect function for all prometheus collectors
func (collector *FanCollector) Collect(ch chan<- prometheus.Metric) {
	for fanID := 1; fanID <= ec.FanCount; fanID++ {
		id := fmt.Sprintf("fan%d", fanID)
		if value, ok := collector.stats.Average(FanRpmKey(fanID)); ok {
			ch <- prometheus.MustNewConstMetric(collector.rpm, prometheus.GaugeValue, value, id)
		}
		if value, ok := collector.stats.Get(FanLevelKey(fanID)); ok {
			ch <- prometheus.MustNewConstMetric(collector.level, prometheus.GaugeValue, value, id)
		}
	}
}
