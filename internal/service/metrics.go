package service

import "github.com/prometheus/client_golang/prometheus"

var (
	gateDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mmg",
		Subsystem: "risk",
		Name:      "gate_decisions_total",
		Help:      "Risk gate verdicts by gate.",
	}, []string{"gate", "verdict"}) // verdict: allowed, denied, indeterminate

	intentTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mmg",
		Subsystem: "intent",
		Name:      "transitions_total",
		Help:      "Payment intent status transitions won by this process.",
	}, []string{"to", "source"}) // source: confirm, callback, simulation, initiate

	finalizations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mmg",
		Subsystem: "intent",
		Name:      "finalizations_total",
		Help:      "Finalization attempts by result.",
	}, []string{"result"}) // finalized, skipped, lost_claim, allocation_failed, error

	callbacksReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mmg",
		Subsystem: "callback",
		Name:      "received_total",
		Help:      "Provider callbacks by provider and handling result.",
	}, []string{"provider", "result"}) // applied, duplicate, unknown_ref, malformed, ignored, error
)

func init() {
	prometheus.MustRegister(gateDecisions, intentTransitions, finalizations, callbacksReceived)
}
