package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	FamilyKepler = "kepler"
	FamilyTess   = "tess"
)

var (
	predictionsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exovision_predictions_total",
		Help: "Total number of predictions stored, by model family and predicted class.",
	}, []string{"family", "class"})
	predictionsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exovision_prediction_failures_total",
		Help: "Total number of prediction requests that failed, by model family and stage.",
	}, []string{"family", "stage"})
	predictionsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exovision_predictions_published_total",
		Help: "Total number of prediction events published to Redis.",
	}, []string{"family"})
	inferenceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "exovision_inference_duration_seconds",
		Help:    "Duration of model inference.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"family"})
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exovision_cache_lookups_total",
		Help: "Prediction cache lookups, by result.",
	}, []string{"family", "result"})
)

const (
	stageModel   = "model"
	stageOwner   = "owner"
	stageInfer   = "inference"
	stagePersist = "persist"
)
