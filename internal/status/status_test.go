package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/roblatour/netblocker/internal/safety"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{PollMs: 100, SettleMs: 10, Broker: "tcp://localhost:1883", HTTPAddr: ":8080"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.PollMs != 100 {
		t.Errorf("Config.PollMs: got %d, want 100", snap.Config.PollMs)
	}
	if snap.Network != safety.StatusBlocked {
		t.Errorf("tracker must start blocked-safe, got %s", snap.Network)
	}
	if snap.Role != safety.RoleUndetermined {
		t.Errorf("role must start UNDETERMINED, got %s", snap.Role)
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	probe := time.Now().Add(30 * time.Second)

	tr.SetRole(safety.RoleController)
	tr.Update(safety.StatusUnblocked, safety.StatusBlocked, safety.StatusBlocked,
		safety.AlarmNone, probe, Counts{Sent: 3, Received: 2, UnblockVetoes: 1})

	snap := tr.Snapshot()
	if snap.Role != safety.RoleController {
		t.Errorf("Role: got %s, want CONTROLLER", snap.Role)
	}
	if snap.Own != safety.StatusUnblocked {
		t.Errorf("Own: got %s, want UNBLOCKED", snap.Own)
	}
	if snap.Peer != safety.StatusBlocked {
		t.Errorf("Peer: got %s, want BLOCKED", snap.Peer)
	}
	if snap.Counts.Sent != 3 || snap.Counts.Received != 2 || snap.Counts.UnblockVetoes != 1 {
		t.Errorf("Counts: got %+v", snap.Counts)
	}
	if !snap.NextProbe.Equal(probe) {
		t.Errorf("NextProbe: got %v, want %v", snap.NextProbe, probe)
	}
}

func TestIndicator(t *testing.T) {
	cases := []struct {
		name    string
		network safety.SwitchStatus
		alarm   safety.AlarmLevel
		flashMs int64
		on      bool
	}{
		{"blocked steady on", safety.StatusBlocked, safety.AlarmNone, 0, true},
		{"unblocked steady off", safety.StatusUnblocked, safety.AlarmNone, 0, false},
		{"comms flash", safety.StatusBlocked, safety.AlarmCommsProblem, 333, false},
		{"wiring flash", safety.StatusBlocked, safety.AlarmWiringProblem, 1000, false},
		{"link init flash", safety.StatusBlocked, safety.AlarmLinkInitFailure, 3000, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := Snapshot{Network: tc.network, Alarm: tc.alarm}
			flash, on := snap.Indicator()
			if flash.Milliseconds() != tc.flashMs {
				t.Errorf("flash: got %dms, want %dms", flash.Milliseconds(), tc.flashMs)
			}
			if on != tc.on {
				t.Errorf("on: got %v, want %v", on, tc.on)
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, Config{Broker: "tcp://localhost:1883", PollMs: 100})
	tr.SetRole(safety.RoleSwitchbox)
	tr.Update(safety.StatusBlocked, safety.StatusUnknown, safety.StatusBlocked,
		safety.AlarmCommsProblem, time.Time{}, Counts{SendFailures: 2})

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sj.Status.Role != "SWITCHBOX" {
		t.Errorf("role: got %q", sj.Status.Role)
	}
	if sj.Status.OwnSwitch != "BLOCKED" {
		t.Errorf("own_switch: got %q", sj.Status.OwnSwitch)
	}
	if sj.Status.Alarm != "COMMS_PROBLEM" {
		t.Errorf("alarm: got %q", sj.Status.Alarm)
	}
	if sj.Status.FlashMs != 333 {
		t.Errorf("flash_ms: got %d, want 333", sj.Status.FlashMs)
	}
	if sj.Status.Counts.SendFailures != 2 {
		t.Errorf("send_failures: got %d, want 2", sj.Status.Counts.SendFailures)
	}
	if sj.Status.Config.Broker != "tcp://localhost:1883" {
		t.Errorf("broker: got %q", sj.Status.Config.Broker)
	}
	if sj.Status.NextProbe != "" {
		t.Errorf("next_probe should be omitted when zero, got %q", sj.Status.NextProbe)
	}
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Update(safety.StatusBlocked, safety.StatusUnknown, safety.StatusBlocked,
					safety.AlarmNone, time.Now(), Counts{Sent: j})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = tr.Snapshot()
			}
		}()
	}
	wg.Wait()
}
