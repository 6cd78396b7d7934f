package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aviscan_predictions_total",
		Help: "Number of completed classifications by predicted label.",
	}, []string{"label"})

	scansSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aviscan_scans_saved_total",
		Help: "Number of scan records persisted.",
	})

	requestFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aviscan_request_failures_total",
		Help: "Number of failed predict requests by stage.",
	}, []string{"stage"})
)
