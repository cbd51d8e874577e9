package resource

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	kindPlain   = "plain"
	kindTabular = "tabular"
)

var (
	hitCount  *prometheus.CounterVec
	missCount *prometheus.CounterVec
)

func MustRegisterMetrics(registerer prometheus.Registerer) {
	if err := RegisterMetrics(registerer); err != nil {
		panic(err)
	}
}

func RegisterMetrics(registerer prometheus.Registerer) error {
	return errors.Join(
		registerer.Register(hitCount),
		registerer.Register(missCount),
	)
}

func init() {
	hitCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "datapackage_resource_cache_hit_total",
		Help: "number of data accesses served from the resource cache",
	}, []string{"kind"})
	missCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "datapackage_resource_cache_miss_total",
		Help: "number of data accesses that required fetching because the descriptor changed",
	}, []string{"kind"})
}
