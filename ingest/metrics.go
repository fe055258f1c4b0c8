package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultStored   = "stored"
	resultRejected = "rejected"
	resultFailed   = "failed"
)

var (
	messagesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exovision_ingest_messages_received_total",
		Help: "Total number of MQTT prediction requests received, by model family.",
	}, []string{"family"})
	messagesHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "exovision_ingest_messages_total",
		Help: "MQTT prediction requests by model family and outcome.",
	}, []string{"family", "result"})
)
