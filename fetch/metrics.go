package fetch

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

var (
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
)

func MustRegisterMetrics(registerer prometheus.Registerer) {
	if err := RegisterMetrics(registerer); err != nil {
		panic(err)
	}
}

func RegisterMetrics(registerer prometheus.Registerer) error {
	return errors.Join(
		registerer.Register(fetchTotal),
		registerer.Register(fetchDuration),
	)
}

func init() {
	fetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "datapackage_fetch_total",
		Help: "number of attempts to load resource content, by source and outcome",
	}, []string{"source", "outcome"})
	fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "datapackage_fetch_duration_seconds",
		Help:    "duration of attempts to load resource content, by source",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
}

func observe(source Source, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
	}
	fetchTotal.WithLabelValues(source.String(), outcome).Inc()
}
