package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Role          string     `json:"role"`
	OwnSwitch     string     `json:"own_switch"`
	PeerSwitch    string     `json:"peer_switch"`
	Network       string     `json:"network"`
	Alarm         string     `json:"alarm"`
	FlashMs       int64      `json:"flash_ms"`
	IndicatorOn   bool       `json:"indicator_on"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	NextProbe     string     `json:"next_probe,omitempty"`
	Counts        CountsJSON `json:"counts"`
	Config        ConfigJSON `json:"config"`
}

// CountsJSON is the JSON representation of activity counts.
type CountsJSON struct {
	Sent             int `json:"sent"`
	SendFailures     int `json:"send_failures"`
	Received         int `json:"received"`
	ProtocolErrors   int `json:"protocol_errors"`
	RelayTransitions int `json:"relay_transitions"`
	UnblockVetoes    int `json:"unblock_vetoes"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Broker           string `json:"broker"`
	TopicPrefix      string `json:"topic_prefix"`
	PollMs           int64  `json:"poll_ms"`
	SettleMs         int64  `json:"settle_ms"`
	SwitchboxEnabled bool   `json:"switchbox_enabled"`
	HTTPAddr         string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	flash, on := snap.Indicator()
	inner := StatusInner{
		Role:          snap.Role.String(),
		OwnSwitch:     snap.Own.String(),
		PeerSwitch:    snap.Peer.String(),
		Network:       snap.Network.String(),
		Alarm:         snap.Alarm.String(),
		FlashMs:       flash.Milliseconds(),
		IndicatorOn:   on,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			Sent:             snap.Counts.Sent,
			SendFailures:     snap.Counts.SendFailures,
			Received:         snap.Counts.Received,
			ProtocolErrors:   snap.Counts.ProtocolErrors,
			RelayTransitions: snap.Counts.RelayTransitions,
			UnblockVetoes:    snap.Counts.UnblockVetoes,
		},
		Config: ConfigJSON{
			Broker:           snap.Config.Broker,
			TopicPrefix:      snap.Config.TopicPrefix,
			PollMs:           snap.Config.PollMs,
			SettleMs:         snap.Config.SettleMs,
			SwitchboxEnabled: snap.Config.SwitchboxEnabled,
			HTTPAddr:         snap.Config.HTTPAddr,
		},
	}
	if !snap.NextProbe.IsZero() {
		inner.NextProbe = snap.NextProbe.UTC().Format(time.RFC3339)
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
