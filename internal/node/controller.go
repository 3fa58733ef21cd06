package node

import (
	"log"
	"time"

	"github.com/roblatour/netblocker/internal/gpio"
	"github.com/roblatour/netblocker/internal/message"
	"github.com/roblatour/netblocker/internal/safety"
	"github.com/roblatour/netblocker/internal/telemetry"
)

// PeerStatusTimeout bounds the wait for a SwitchboxStatusReply during a
// locally-originated unblock. On timeout the belief stays Unknown.
const PeerStatusTimeout = 2 * time.Second

// Controller owns the relay. It blocks unconditionally on demand from
// either switch and unblocks only when both sides agree.
type Controller struct {
	*core

	relay            gpio.Relay
	network          safety.SwitchStatus
	peer             safety.SwitchStatus
	switchboxEnabled bool

	acted     bool // own switch has driven the relay at least once
	lastActed bool // engagement last acted on
}

// NewController creates the Controller driver. The relay is expected to
// be energized (blocked) at construction; network status mirrors that.
func NewController(sampler *safety.Sampler, relay gpio.Relay, switchboxEnabled bool, opts Options) *Controller {
	c := &Controller{
		core:             newCore(safety.RoleController, sampler, opts),
		relay:            relay,
		network:          safety.StatusBlocked,
		peer:             safety.StatusUnknown,
		switchboxEnabled: switchboxEnabled,
	}
	c.handleMsg = c.handle
	return c
}

// NetworkStatus returns the relay-backed ground truth.
func (c *Controller) NetworkStatus() safety.SwitchStatus { return c.network }

// PeerStatus returns the current belief about the Switchbox's switch.
func (c *Controller) PeerStatus() safety.SwitchStatus { return c.peer }

// Tick runs one control-loop iteration: drain queued transport events,
// re-sample the local switch, actuate on changes, and probe the peer if
// the liveness deadline passed.
func (c *Controller) Tick() {
	c.drainEvents()

	if c.sampleOwn() && (!c.acted || c.own != c.lastActed) {
		c.acted = true
		c.lastActed = c.own
		log.Printf("controller: own switch %s", c.OwnStatus())
		c.setBlocked(c.own, true)
	}

	now := c.now()
	if c.sched.Due(now) {
		// Bump first so the loop cannot re-trigger while the send and
		// its completion are in flight.
		c.sched.MarkProbe(now)
		log.Printf("controller: liveness probe, network=%s", c.network)
		c.send(message.Transmission{Kind: message.NetworkStatusReply, Status: c.network})
	}

	c.publishStatus()
}

func (c *Controller) handle(m message.Transmission) {
	switch m.Kind {
	case message.SwitchboxStatusReply:
		c.peer = m.Status
	case message.RequestNetworkStatus:
		c.send(message.Transmission{Kind: message.NetworkStatusReply, Status: c.network})
	case message.RequestBlock:
		c.peer = safety.StatusBlocked
		c.setBlocked(true, false)
		c.send(message.Transmission{Kind: message.NetworkStatusReply, Status: c.network})
	case message.RequestUnblock:
		c.peer = safety.StatusUnblocked
		c.setBlocked(false, false)
		c.send(message.Transmission{Kind: message.NetworkStatusReply, Status: c.network})
	}
}

// setBlocked is the single point that toggles the physical relay.
// Blocking is unconditional; unblocking passes the both-sides-agree gate,
// refreshing the peer belief first when the request originated here.
func (c *Controller) setBlocked(blocked, fromController bool) {
	want := safety.StatusUnblocked
	if blocked {
		want = safety.StatusBlocked
	}
	if want == c.network {
		log.Printf("controller: network already %s", c.network)
		return
	}

	if !blocked {
		if c.switchboxEnabled && fromController {
			c.refreshPeerStatus()
		}
		if ok, veto := safety.UnblockPermitted(c.own, c.peer); !ok {
			// A veto is the protocol working, not an error.
			c.counts.UnblockVetoes++
			telemetry.UnblockVetoes.Inc()
			log.Printf("controller: unblock denied, %s side is BLOCKED", veto)
			return
		}
	}

	if err := c.relay.Set(blocked); err != nil {
		log.Printf("controller: relay set %v: %v", blocked, err)
		return
	}
	c.network = want
	c.counts.RelayTransitions++
	telemetry.RelayTransitions.Inc()
	if blocked {
		telemetry.NetworkBlocked.Set(1)
	} else {
		telemetry.NetworkBlocked.Set(0)
	}
	log.Printf("controller: network %s", c.network)
}

// refreshPeerStatus asks the Switchbox for its switch state and waits for
// the reply or the timeout, draining the event queue all the while so the
// reply (and anything racing it) is handled in order.
func (c *Controller) refreshPeerStatus() {
	c.peer = safety.StatusUnknown
	c.send(message.Transmission{Kind: message.RequestSwitchboxStatus})

	timeout := c.after(PeerStatusTimeout)
	for {
		select {
		case ev := <-c.events:
			c.handleEvent(ev)
			if c.peer != safety.StatusUnknown {
				return
			}
		case <-timeout:
			log.Printf("controller: no switchbox status within %v", PeerStatusTimeout)
			return
		}
	}
}

func (c *Controller) publishStatus() {
	c.updateAlarmGauge()
	if c.tracker == nil {
		return
	}
	c.tracker.Update(c.OwnStatus(), c.peer, c.network, c.Alarm(), c.sched.Deadline(), c.counts)
}
