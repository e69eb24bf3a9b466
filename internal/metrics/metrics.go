// Package metrics provides Prometheus metrics for the prediction service
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder groups the collectors so tests can use a private registry.
type Recorder struct {
	Predictions        *prometheus.CounterVec
	ModelRejections    *prometheus.CounterVec
	PredictionDuration prometheus.Histogram
	HTTPRequests       *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		Predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buckling_predictions_total",
				Help: "Total number of predictions by shape and outcome",
			},
			[]string{"shape", "outcome"},
		),
		ModelRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buckling_model_rejections_total",
				Help: "Model estimates discarded by validation",
			},
			[]string{"reason"},
		),
		PredictionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "buckling_prediction_duration_seconds",
				Help:    "Time spent in the prediction arbiter",
				Buckets: []float64{1e-6, 1e-5, 1e-4, 1e-3, 1e-2, 0.1},
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buckling_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}
	if reg != nil {
		reg.MustRegister(r.Predictions, r.ModelRejections, r.PredictionDuration, r.HTTPRequests)
	}
	return r
}

// Nop returns a Recorder whose collectors are not registered anywhere.
func Nop() *Recorder {
	return New(nil)
}
