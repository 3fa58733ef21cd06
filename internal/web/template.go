package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/roblatour/netblocker/internal/safety"
	"github.com/roblatour/netblocker/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"statusClass": func(s string) string {
		switch s {
		case "BLOCKED":
			return "blocked"
		case "UNBLOCKED":
			return "unblocked"
		default:
			return "unknown"
		}
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Network Blocker</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.blocked { color: red; font-weight: bold; }
.unblocked { color: green; font-weight: bold; }
.unknown { color: orange; }
.alarm { color: red; font-weight: bold; }
.noalarm { color: #888; }
</style>
</head>
<body>
<h1>Network Blocker — {{.Role}}</h1>
<table>
<tr><th>Own switch</th><td class="{{statusClass .OwnSwitch}}">{{.OwnSwitch}}</td></tr>
{{if .ShowPeer}}<tr><th>Switchbox switch</th><td class="{{statusClass .PeerSwitch}}">{{.PeerSwitch}}</td></tr>{{end}}
<tr><th>Network</th><td class="{{statusClass .Network}}">{{.Network}}</td></tr>
<tr><th>Alarm</th><td class="{{.AlarmClass}}">{{.Alarm}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Next probe</th><td>{{.NextProbe}}</td></tr>
</table>
<h1>Counts</h1>
<table>
<tr><th>Sent</th><td>{{.Counts.Sent}}</td></tr>
<tr><th>Send failures</th><td>{{.Counts.SendFailures}}</td></tr>
<tr><th>Received</th><td>{{.Counts.Received}}</td></tr>
<tr><th>Protocol errors</th><td>{{.Counts.ProtocolErrors}}</td></tr>
<tr><th>Relay transitions</th><td>{{.Counts.RelayTransitions}}</td></tr>
<tr><th>Unblock vetoes</th><td>{{.Counts.UnblockVetoes}}</td></tr>
</table>
<h1>Config</h1>
<table>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Topic prefix</th><td>{{.Config.TopicPrefix}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}} ms</td></tr>
<tr><th>Settle</th><td>{{.Config.SettleMs}} ms</td></tr>
<tr><th>Switchbox enabled</th><td>{{.Config.SwitchboxEnabled}}</td></tr>
</table>
</body>
</html>
`

type indexData struct {
	Role       string
	OwnSwitch  string
	PeerSwitch string
	ShowPeer   bool
	Network    string
	Alarm      string
	AlarmClass string
	Uptime     time.Duration
	NextProbe  string
	Counts     status.CountsJSON
	Config     status.ConfigJSON
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	alarmClass := "noalarm"
	if snap.Alarm != safety.AlarmNone {
		alarmClass = "alarm"
	}
	nextProbe := "-"
	if !snap.NextProbe.IsZero() {
		nextProbe = snap.NextProbe.Local().Format("15:04:05")
	}
	data := indexData{
		Role:       snap.Role.String(),
		OwnSwitch:  snap.Own.String(),
		PeerSwitch: snap.Peer.String(),
		ShowPeer:   snap.Role == safety.RoleController,
		Network:    snap.Network.String(),
		Alarm:      snap.Alarm.String(),
		AlarmClass: alarmClass,
		Uptime:     snap.Uptime(),
		NextProbe:  nextProbe,
		Counts: status.CountsJSON{
			Sent:             snap.Counts.Sent,
			SendFailures:     snap.Counts.SendFailures,
			Received:         snap.Counts.Received,
			ProtocolErrors:   snap.Counts.ProtocolErrors,
			RelayTransitions: snap.Counts.RelayTransitions,
			UnblockVetoes:    snap.Counts.UnblockVetoes,
		},
		Config: status.ConfigJSON{
			Broker:           snap.Config.Broker,
			TopicPrefix:      snap.Config.TopicPrefix,
			PollMs:           snap.Config.PollMs,
			SettleMs:         snap.Config.SettleMs,
			SwitchboxEnabled: snap.Config.SwitchboxEnabled,
			HTTPAddr:         snap.Config.HTTPAddr,
		},
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
