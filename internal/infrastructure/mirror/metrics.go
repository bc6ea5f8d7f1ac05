package mirror

import "github.com/prometheus/client_golang/prometheus"

var (
	jobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopledger_mirror_jobs_total",
			Help: "Mirror job attempts by result (ok, retry, dead)",
		},
		[]string{"result"},
	)

	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "shopledger_mirror_queue_depth",
			Help: "Jobs waiting to be written to the durable store",
		},
	)
)

func init() {
	prometheus.MustRegister(jobsTotal)
	prometheus.MustRegister(queueDepth)
}
