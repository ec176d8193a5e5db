package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide request metrics collector. The
// collectors are registered with Prometheus once, so repeated calls from
// tests share one instance.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}
