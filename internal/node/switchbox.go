package node

import (
	"log"

	"github.com/roblatour/netblocker/internal/message"
	"github.com/roblatour/netblocker/internal/safety"
)

// Switchbox is the remote button. It cannot actuate anything itself; it
// asks the Controller to block or unblock and mirrors the network status
// it is told about for its own indicator.
type Switchbox struct {
	*core

	network safety.SwitchStatus // last NetworkStatusReply from the Controller

	acted     bool // own switch has been reported at least once
	lastActed bool // engagement last reported
}

// NewSwitchbox creates the Switchbox driver.
func NewSwitchbox(sampler *safety.Sampler, opts Options) *Switchbox {
	s := &Switchbox{
		core:    newCore(safety.RoleSwitchbox, sampler, opts),
		network: safety.StatusUnknown,
	}
	s.handleMsg = s.handle
	return s
}

// NetworkStatus returns the last network status reported by the
// Controller, Unknown until the first reply arrives.
func (s *Switchbox) NetworkStatus() safety.SwitchStatus { return s.network }

// Tick runs one control-loop iteration.
func (s *Switchbox) Tick() {
	s.drainEvents()

	if s.sampleOwn() && (!s.acted || s.own != s.lastActed) {
		s.acted = true
		s.lastActed = s.own
		log.Printf("switchbox: own switch %s", s.OwnStatus())
		switch {
		case s.own:
			s.send(message.Transmission{Kind: message.RequestBlock, Status: safety.StatusBlocked})
		case s.network == safety.StatusUnknown:
			// First resolution after boot with the button up: learn the
			// network state rather than demand an unblock nobody asked for.
			s.send(message.Transmission{Kind: message.RequestNetworkStatus})
		default:
			s.send(message.Transmission{Kind: message.RequestUnblock, Status: safety.StatusUnblocked})
		}
	}

	now := s.now()
	if s.sched.Due(now) {
		s.sched.MarkProbe(now)
		log.Printf("switchbox: liveness probe, own=%s", s.OwnStatus())
		s.send(message.Transmission{Kind: message.SwitchboxStatusReply, Status: s.OwnStatus()})
	}

	s.publishStatus()
}

func (s *Switchbox) handle(m message.Transmission) {
	switch m.Kind {
	case message.RequestSwitchboxStatus:
		// Re-sample rather than report the possibly minutes-old tick
		// value; the Controller is about to gate an unblock on this.
		if !s.sampleOwn() {
			log.Printf("switchbox: re-sample failed, reporting last known %s", s.OwnStatus())
		}
		s.send(message.Transmission{Kind: message.SwitchboxStatusReply, Status: s.OwnStatus()})
	case message.NetworkStatusReply:
		if s.network != m.Status {
			log.Printf("switchbox: network %s", m.Status)
		}
		s.network = m.Status
	}
}

func (s *Switchbox) publishStatus() {
	s.updateAlarmGauge()
	if s.tracker == nil {
		return
	}
	s.tracker.Update(s.OwnStatus(), safety.StatusUnknown, s.network, s.Alarm(), s.sched.Deadline(), s.counts)
}
