package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_jobs_processed_total",
		Help: "Jobs driven to a terminal state or requeued, by outcome.",
	}, []string{"outcome"})

	pipelineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_job_duration_seconds",
		Help:    "Wall time spent processing one job attempt.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	}, []string{"format"})

	providerCostTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_provider_cost_total",
		Help: "Accumulated provider spend across completed invocations.",
	})
)
