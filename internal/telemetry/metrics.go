// Package telemetry exposes Prometheus metrics for the netblocker daemon.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Registry = prometheus.NewRegistry()

	MessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "netblocker",
		Name:      "messages_sent_total",
		Help:      "Messages accepted for transmission to the peer.",
	})

	SendFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "netblocker",
		Name:      "send_failures_total",
		Help:      "Transmissions whose delivery was not confirmed.",
	})

	MessagesReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "netblocker",
		Name:      "messages_received_total",
		Help:      "Valid messages received from the peer.",
	})

	ProtocolErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "netblocker",
		Name:      "protocol_errors_total",
		Help:      "Undecodable frames and role/kind mismatches.",
	})

	RelayTransitions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "netblocker",
		Name:      "relay_transitions_total",
		Help:      "Physical relay state changes.",
	})

	UnblockVetoes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "netblocker",
		Name:      "unblock_vetoes_total",
		Help:      "Unblock requests denied because a side reported BLOCKED.",
	})

	NetworkBlocked = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "netblocker",
		Name:      "network_blocked",
		Help:      "1 when the relay is energized (network blocked).",
	})

	AlarmLevel = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "netblocker",
		Name:      "alarm_level",
		Help:      "Current alarm level (0 none, 1 comms, 2 wiring, 3 link init).",
	})
)

func init() {
	Registry.MustRegister(
		MessagesSent,
		SendFailures,
		MessagesReceived,
		ProtocolErrors,
		RelayTransitions,
		UnblockVetoes,
		NetworkBlocked,
		AlarmLevel,
	)
	NetworkBlocked.Set(1) // blocked-safe boot
}
