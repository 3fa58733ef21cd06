// Package status provides a thread-safe status tracker for the
// netblocker daemon. It is read by the HTTP handlers and by the external
// indicator (LED) driver.
package status

import (
	"sync"
	"time"

	"github.com/roblatour/netblocker/internal/safety"
)

// Config contains daemon configuration for display.
type Config struct {
	Broker           string
	TopicPrefix      string
	PollMs           int64
	SettleMs         int64
	SwitchboxEnabled bool
	HTTPAddr         string
}

// Counts tracks protocol and actuation activity since startup.
type Counts struct {
	Sent             int
	SendFailures     int
	Received         int
	ProtocolErrors   int
	RelayTransitions int
	UnblockVetoes    int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Role      safety.Role
	Own       safety.SwitchStatus
	Peer      safety.SwitchStatus // Controller: belief about the Switchbox
	Network   safety.SwitchStatus
	Alarm     safety.AlarmLevel
	Counts    Counts
	NextProbe time.Time
	StartTime time.Time
	Now       time.Time
	Config    Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Indicator returns the signal for the external indicator driver: a
// flash interval (0 = steady) and, when steady, whether the lamp is on.
// Steady-on means the network is blocked.
func (s Snapshot) Indicator() (flash time.Duration, on bool) {
	if f := s.Alarm.FlashInterval(); f > 0 {
		return f, false
	}
	return 0, s.Network == safety.StatusBlocked
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Network:   safety.StatusBlocked, // blocked-safe until a node says otherwise
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetRole records the negotiated role. Called once after boot.
func (t *Tracker) SetRole(role safety.Role) {
	t.mu.Lock()
	t.snap.Role = role
	t.mu.Unlock()
}

// SetAlarm records the alarm level. Used by the terminal alarm loops;
// the run loop updates alarm through Update.
func (t *Tracker) SetAlarm(a safety.AlarmLevel) {
	t.mu.Lock()
	t.snap.Alarm = a
	t.mu.Unlock()
}

// Update sets the per-tick node state. Called from the run loop on every
// tick.
func (t *Tracker) Update(own, peer, network safety.SwitchStatus, alarm safety.AlarmLevel, nextProbe time.Time, counts Counts) {
	t.mu.Lock()
	t.snap.Own = own
	t.snap.Peer = peer
	t.snap.Network = network
	t.snap.Alarm = alarm
	t.snap.NextProbe = nextProbe
	t.snap.Counts = counts
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
