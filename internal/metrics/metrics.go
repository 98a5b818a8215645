package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so tests can run with isolated counters.
type Metrics struct {
	Registry *prometheus.Registry
	hitrate  *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	hitrate := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "app_cache_redis_hitrate_total",
		Help: "Redis cache hitrate counts by result and cache",
	}, []string{"result", "cache"})
	registry.MustRegister(hitrate)

	return &Metrics{Registry: registry, hitrate: hitrate}
}

// IncCacheResult records a cache lookup outcome: "hit", "miss" or "error".
func (m *Metrics) IncCacheResult(result, cacheName string) {
	m.hitrate.WithLabelValues(result, cacheName).Inc()
}

func (m *Metrics) Handler() echo.HandlerFunc {
	h := promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
	return func(c echo.Context) error {
		h.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}
