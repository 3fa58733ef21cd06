package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.PollRate.Std() != 100*time.Millisecond {
		t.Errorf("PollRate: got %v, want 100ms", cfg.PollRate)
	}
	if cfg.SettleDelay.Std() != 10*time.Millisecond {
		t.Errorf("SettleDelay: got %v, want 10ms", cfg.SettleDelay)
	}
	if !cfg.SwitchboxEnabled {
		t.Error("switchbox support should default to enabled")
	}
	if cfg.TopicPrefix != "netblocker" {
		t.Errorf("TopicPrefix: got %q", cfg.TopicPrefix)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Broker != Defaults().Broker {
		t.Errorf("expected defaults, got broker %q", cfg.Broker)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netblocker.yaml")
	data := `
broker: tcp://10.0.0.5:1883
topic_prefix: estop
poll_rate: 250ms
switchbox_enabled: false
pins:
  controller_nc: 5
  controller_no: 6
  switchbox_nc: 13
  switchbox_no: 19
  relay: 22
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Broker != "tcp://10.0.0.5:1883" {
		t.Errorf("Broker: got %q", cfg.Broker)
	}
	if cfg.TopicPrefix != "estop" {
		t.Errorf("TopicPrefix: got %q", cfg.TopicPrefix)
	}
	if cfg.PollRate.Std() != 250*time.Millisecond {
		t.Errorf("PollRate: got %v", cfg.PollRate)
	}
	if cfg.SwitchboxEnabled {
		t.Error("SwitchboxEnabled should be false")
	}
	// Unset fields keep their defaults.
	if cfg.SettleDelay.Std() != 10*time.Millisecond {
		t.Errorf("SettleDelay: got %v, want default 10ms", cfg.SettleDelay)
	}
	pins := cfg.GPIOPins()
	if pins.ControllerNC != 5 || pins.Relay != 22 {
		t.Errorf("pins: got %+v", pins)
	}
}

func TestDurationAcceptsSeconds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netblocker.yaml")
	if err := os.WriteFile(path, []byte("poll_rate: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PollRate.Std() != 2*time.Second {
		t.Errorf("PollRate: got %v, want 2s", cfg.PollRate)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad yaml", "broker: [unclosed"},
		{"zero poll", "poll_rate: 0s"},
		{"negative settle", "settle_delay: -10ms"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
