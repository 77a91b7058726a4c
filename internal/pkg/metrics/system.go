package metrics

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

const (
	collectInterval = 5 * time.Second
	cpuSampleWindow = time.Second
)

var (
	HostCPUUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "restboard",
		Subsystem: "host",
		Name:      "cpu_usage_percent",
		Help:      "Host CPU usage over the last sample window",
	})

	HostMemoryUsed = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "restboard",
		Subsystem: "host",
		Name:      "memory_used_bytes",
		Help:      "Host memory in use",
	})

	ProcessRSS = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "restboard",
		Subsystem: "process",
		Name:      "resident_memory_bytes",
		Help:      "Resident set size of the service process",
	})

	HeapAlloc = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "restboard",
		Subsystem: "process",
		Name:      "heap_alloc_bytes",
		Help:      "Go heap allocation, each open order stream keeps a snapshot of its tenant",
	})

	Goroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "restboard",
		Subsystem: "process",
		Name:      "goroutines",
		Help:      "Number of goroutines, grows with open order streams",
	})
)

// StartSystemMetricsCollector собирает метрики хоста и процесса до отмены ctx.
func StartSystemMetricsCollector(ctx context.Context) {
	// без доступа к /proc self == nil, RSS не собираем
	self, _ := process.NewProcessWithContext(ctx, int32(os.Getpid())) //nolint:gosec // pid помещается в int32

	go func() {
		ticker := time.NewTicker(collectInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				collectHost(ctx)
				collectProcess(ctx, self)
			}
		}
	}()
}

func collectHost(ctx context.Context) {
	if percent, err := cpu.PercentWithContext(ctx, cpuSampleWindow, false); err == nil && len(percent) > 0 {
		HostCPUUsage.Set(percent[0])
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		HostMemoryUsed.Set(float64(vm.Used))
	}
}

func collectProcess(ctx context.Context, self *process.Process) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	HeapAlloc.Set(float64(m.HeapAlloc))
	Goroutines.Set(float64(runtime.NumGoroutine()))

	if self == nil {
		return
	}
	if info, err := self.MemoryInfoWithContext(ctx); err == nil {
		ProcessRSS.Set(float64(info.RSS))
	}
}
