package utils

import (
	"sync"

	"tonotes/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

var registerSystemMetrics sync.Once

// RegisterSystemMetrics adds host CPU and memory gauges to the default
// registry. They are sampled on scrape; CPU usage is measured since the
// previous scrape.
func RegisterSystemMetrics() {
	registerSystemMetrics.Do(func() {
		prometheus.MustRegister(
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "host_cpu_usage_percent",
				Help: "Host CPU usage since the previous scrape",
			}, CPUUsage),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "host_memory_used_percent",
				Help: "Host memory in use",
			}, MemoryUsage),
		)
	})
}

// CPUUsage returns the CPU usage as a percentage since the last call.
func CPUUsage() float64 {
	percentage, err := cpu.Percent(0, false)
	if err != nil {
		logger.L().Warn("read cpu usage", logger.Err(err))
		return 0
	}
	if len(percentage) > 0 {
		return percentage[0]
	}
	return 0
}

func MemoryUsage() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		logger.L().Warn("read memory usage", logger.Err(err))
		return 0
	}
	return vm.UsedPercent
}
